package ontology

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knakk/rdf"
	"github.com/piprate/json-gold/ld"
)

// Format identifies an RDF serialization.
type Format string

const (
	FormatUnknown  Format = ""
	FormatTurtle   Format = "turtle"
	FormatRDFXML   Format = "rdfxml"
	FormatNTriples Format = "ntriples"
	FormatJSONLD   Format = "jsonld"
)

// ErrUnsupportedFormat is returned when a file's serialization cannot
// be determined from its extension or content.
var ErrUnsupportedFormat = errors.New("unsupported ontology format")

// DetectFormat selects a serialization from the file extension.
// N3 files are decoded as Turtle, which covers the subset in use.
// Unrecognized extensions (including .owl) return FormatUnknown and
// are sniffed from content at load time.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttl", ".n3":
		return FormatTurtle
	case ".rdf", ".xml":
		return FormatRDFXML
	case ".nt":
		return FormatNTriples
	case ".jsonld":
		return FormatJSONLD
	default:
		return FormatUnknown
	}
}

// sniffFormat guesses the serialization from leading content.
func sniffFormat(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	switch {
	case bytes.HasPrefix(trimmed, []byte("<?xml")), bytes.HasPrefix(trimmed, []byte("<rdf:RDF")):
		return FormatRDFXML
	case bytes.HasPrefix(trimmed, []byte("{")), bytes.HasPrefix(trimmed, []byte("[")):
		return FormatJSONLD
	case len(trimmed) > 0:
		return FormatTurtle
	default:
		return FormatUnknown
	}
}

// LoadFile parses the ontology at path into a Graph. The serialization
// is chosen by extension, falling back to content sniffing.
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ontology file '%s': %w", path, err)
	}
	format := DetectFormat(path)
	if format == FormatUnknown {
		format = sniffFormat(data)
	}
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	g, err := Parse(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse '%s' as %s: %w", filepath.Base(path), format, err)
	}
	return g, nil
}

// Parse decodes RDF content in the given serialization into a Graph.
// Parsing is all-or-nothing: a syntax error yields no graph.
func Parse(r io.Reader, format Format) (*Graph, error) {
	if format == FormatJSONLD {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		triples, err := parseJSONLD(data)
		if err != nil {
			return nil, err
		}
		return NewGraph(triples), nil
	}

	var rdfFormat rdf.Format
	switch format {
	case FormatTurtle:
		rdfFormat = rdf.Turtle
	case FormatRDFXML:
		rdfFormat = rdf.RDFXML
	case FormatNTriples:
		rdfFormat = rdf.NTriples
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	dec := rdf.NewTripleDecoder(r, rdfFormat)
	decoded, err := dec.DecodeAll()
	if err != nil {
		return nil, err
	}
	triples := make([]Triple, 0, len(decoded))
	for _, t := range decoded {
		triples = append(triples, Triple{
			Subj: convertTerm(t.Subj),
			Pred: convertTerm(t.Pred),
			Obj:  convertTerm(t.Obj),
		})
	}
	return NewGraph(triples), nil
}

// parseJSONLD expands a JSON-LD document to N-Quads via json-gold and
// decodes the quads, discarding named-graph context.
func parseJSONLD(data []byte) ([]Triple, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON-LD document: %w", err)
	}

	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"
	out, err := proc.ToRDF(doc, opts)
	if err != nil {
		return nil, fmt.Errorf("JSON-LD expansion failed: %w", err)
	}
	nquads, ok := out.(string)
	if !ok {
		return nil, fmt.Errorf("JSON-LD expansion produced unexpected %T", out)
	}

	dec := rdf.NewQuadDecoder(strings.NewReader(nquads), rdf.NQuads)
	quads, err := dec.DecodeAll()
	if err != nil {
		return nil, err
	}
	triples := make([]Triple, 0, len(quads))
	for _, q := range quads {
		triples = append(triples, Triple{
			Subj: convertTerm(q.Subj),
			Pred: convertTerm(q.Pred),
			Obj:  convertTerm(q.Obj),
		})
	}
	return triples, nil
}

// convertTerm maps a knakk/rdf term onto the internal representation.
func convertTerm(t rdf.Term) Term {
	switch v := t.(type) {
	case rdf.IRI:
		return NewIRI(v.String())
	case rdf.Blank:
		return NewBlank(v.String())
	case rdf.Literal:
		return NewLiteral(v.String())
	default:
		return NewLiteral(t.String())
	}
}
