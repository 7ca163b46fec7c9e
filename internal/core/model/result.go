// Package model defines the data types exchanged between the finder,
// the drivers, and the HTTP layer.
package model

import "strings"

// Sentinel values substituted for annotations absent from the graph.
const (
	NoDescription = "No description available"
	NoNarrative   = "No narrative available"
	NoSource      = "No source available"
)

// SchemeResult is one Federal Fraud Scheme returned by a search.
// Optional fields are always populated, with sentinels when the graph
// carries no value.
type SchemeResult struct {
	URI         string `json:"uri"`
	LocalName   string `json:"local_name"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Narrative   string `json:"narrative"`
	Source      string `json:"source"`
}

// NewSchemeResult builds a result row, applying the sentinel defaults.
func NewSchemeResult(uri, name, description, narrative, source string) SchemeResult {
	if description == "" {
		description = NoDescription
	}
	if narrative == "" {
		narrative = NoNarrative
	}
	if source == "" {
		source = NoSource
	}
	return SchemeResult{
		URI:         uri,
		LocalName:   localName(uri),
		Name:        name,
		Description: description,
		Narrative:   narrative,
		Source:      source,
	}
}

func localName(iri string) string {
	if i := strings.LastIndexAny(iri, "#/"); i >= 0 && i < len(iri)-1 {
		return iri[i+1:]
	}
	return iri
}
