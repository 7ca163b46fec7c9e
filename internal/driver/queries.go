package driver

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/knakk/sparql"
)

// queryBank holds the canonical SPARQL text. The find-schemes query is
// the compatibility contract of the whole tool: it is asserted
// byte-for-byte in tests, evaluated shape-for-shape by MemoryDriver,
// and sent unmodified to remote endpoints by EndpointDriver. The single
// substitution point is the mapped fraud-activity class local name,
// inserted twice into the gfo: namespace.
const queryBank = `
# Comments are ignored, except those tagging a query.

# tag: find-schemes
PREFIX gfo: <https://gaoinnovations.gov/antifraud_resource/howfraudworks/gfo/>
PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX owl: <http://www.w3.org/2002/07/owl#>
PREFIX dcterms: <http://purl.org/dc/terms/>

SELECT DISTINCT ?individual ?individualName ?description ?narrative ?source
WHERE {
    ?individual a gfo:FederalFraudScheme ;
                rdfs:label ?individualName .

    {
        ?individual a ?restriction .
        ?restriction owl:onProperty gfo:involves ;
                     owl:someValuesFrom ?specificFraud .

        ?specificFraud rdfs:subClassOf* ?fraudType .
        ?fraudType rdfs:label ?fraudTypeName .

        ?specificFraud rdfs:subClassOf* gfo:{{.Activity}} .
    }
    UNION
    {
        ?individual a ?schemeClass .
        ?schemeClass rdfs:subClassOf* gfo:{{.Activity}} .
        ?schemeClass rdfs:subClassOf* ?fraudType .
        ?fraudType rdfs:label ?fraudTypeName .

        FILTER(?schemeClass != gfo:FederalFraudScheme)
    }

    OPTIONAL { ?individual dcterms:description ?description . }
    OPTIONAL { ?individual gfo:narrative ?narrative . }
    OPTIONAL { ?individual dcterms:source ?source . }

    FILTER(?fraudType != gfo:FraudActivity)
}
ORDER BY ?individualName
`

// SchemeQueryName is the bank tag of the canonical query.
const SchemeQueryName = "find-schemes"

var queries = sparql.LoadBank(bytes.NewBufferString(queryBank))

// Class local names are plain identifiers. Anything else would change
// the query text beyond the one intended substitution point.
var localNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// BuildSchemeQuery substitutes the fraud-activity class local name into
// the canonical template and returns the final query text.
func BuildSchemeQuery(activityClass string) (string, error) {
	if !localNameRe.MatchString(activityClass) {
		return "", fmt.Errorf("invalid class local name %q", activityClass)
	}
	q, err := queries.Prepare(SchemeQueryName, struct{ Activity string }{activityClass})
	if err != nil {
		return "", fmt.Errorf("failed to prepare scheme query: %w", err)
	}
	return q, nil
}
