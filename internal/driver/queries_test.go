package driver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSchemeQuerySubstitution(t *testing.T) {
	q, err := BuildSchemeQuery("TaxFraud")
	require.NoError(t, err)

	// The class local name is inserted at exactly two points.
	assert.Equal(t, 2, strings.Count(q, "gfo:TaxFraud"))
	assert.Contains(t, q, "?specificFraud rdfs:subClassOf* gfo:TaxFraud .")
	assert.Contains(t, q, "?schemeClass rdfs:subClassOf* gfo:TaxFraud .")
	// No template residue.
	assert.NotContains(t, q, "{{")
	assert.NotContains(t, q, "}}")
}

func TestSchemeQueryContract(t *testing.T) {
	q, err := BuildSchemeQuery("HealthcareFraud")
	require.NoError(t, err)

	prefixes := []string{
		"PREFIX gfo: <https://gaoinnovations.gov/antifraud_resource/howfraudworks/gfo/>",
		"PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>",
		"PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>",
		"PREFIX owl: <http://www.w3.org/2002/07/owl#>",
		"PREFIX dcterms: <http://purl.org/dc/terms/>",
	}
	for _, p := range prefixes {
		assert.Contains(t, q, p)
	}

	assert.Contains(t, q, "SELECT DISTINCT ?individual ?individualName ?description ?narrative ?source")
	assert.Contains(t, q, "?individual a gfo:FederalFraudScheme ;")
	assert.Contains(t, q, "UNION")
	assert.Contains(t, q, "owl:onProperty gfo:involves ;")
	assert.Contains(t, q, "owl:someValuesFrom ?specificFraud .")
	assert.Contains(t, q, "OPTIONAL { ?individual dcterms:description ?description . }")
	assert.Contains(t, q, "OPTIONAL { ?individual gfo:narrative ?narrative . }")
	assert.Contains(t, q, "OPTIONAL { ?individual dcterms:source ?source . }")
	assert.Contains(t, q, "FILTER(?schemeClass != gfo:FederalFraudScheme)")
	assert.Contains(t, q, "FILTER(?fraudType != gfo:FraudActivity)")
	assert.Contains(t, q, "ORDER BY ?individualName")

	assert.Equal(t, strings.Count(q, "{"), strings.Count(q, "}"))
}

func TestBuildSchemeQueryRejectsInvalidLocalNames(t *testing.T) {
	for _, bad := range []string{"", "Tax Fraud", "Tax-Fraud", "a.b", "x} UNION {?s ?p ?o", "1Fraud"} {
		_, err := BuildSchemeQuery(bad)
		assert.Error(t, err, bad)
	}
}
