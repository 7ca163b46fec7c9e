// Package gfo defines IRI constants for the GAO "How Fraud Works"
// fraud ontology and the W3C vocabularies it builds on.
package gfo

// Namespace is the base IRI prefix for all GFO ontology terms.
const Namespace = "https://gaoinnovations.gov/antifraud_resource/howfraudworks/gfo/"

// Class IRIs for the GFO terms the scheme query depends on.
const (
	// ClassFederalFraudScheme is the type of every searchable scheme individual.
	ClassFederalFraudScheme = Namespace + "FederalFraudScheme"

	// ClassFraudActivity is the root of the fraud-activity hierarchy.
	// Results whose resolved fraud type is this class are filtered out.
	ClassFraudActivity = Namespace + "FraudActivity"
)

// Property IRIs.
const (
	// PropInvolves links a scheme to the fraud activity it involves,
	// expressed through an owl:someValuesFrom restriction.
	PropInvolves = Namespace + "involves"

	// PropNarrative carries the free-text narrative of a scheme.
	PropNarrative = Namespace + "narrative"
)

// W3C vocabulary namespaces.
const (
	RDFNamespace     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace    = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace     = "http://www.w3.org/2002/07/owl#"
	DCTermsNamespace = "http://purl.org/dc/terms/"
)

// W3C term IRIs used by the loader and the in-memory query evaluation.
const (
	RDFType = RDFNamespace + "type"

	RDFSLabel      = RDFSNamespace + "label"
	RDFSSubClassOf = RDFSNamespace + "subClassOf"

	OWLClass          = OWLNamespace + "Class"
	OWLOnProperty     = OWLNamespace + "onProperty"
	OWLSomeValuesFrom = OWLNamespace + "someValuesFrom"

	DCTermsDescription = DCTermsNamespace + "description"
	DCTermsSource      = DCTermsNamespace + "source"
)
