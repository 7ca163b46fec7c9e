package driver

import (
	"context"
	"errors"
	"sort"

	"github.com/antifraudworks/schemefinder/internal/gfo"
	"github.com/antifraudworks/schemefinder/internal/ontology"
)

// ErrNoGraph is returned when a search runs before any ontology has
// been loaded.
var ErrNoGraph = errors.New("no ontology graph loaded")

// MemoryDriver evaluates the canonical scheme query directly against a
// parsed in-memory graph. No Go library embeds a SPARQL engine, so the
// fixed query's shape is evaluated here: the two union branches, the
// reflexive-transitive subclass closure, the optional annotation joins,
// and the trailing filter and ordering. The evaluation is specific to
// the find-schemes query, not a general engine.
type MemoryDriver struct {
	// Source supplies the current graph on every search, so session
	// reloads are picked up without re-wiring the driver.
	Source func() (*ontology.Graph, error)
}

// NewMemoryDriver builds a driver over the given graph source.
func NewMemoryDriver(source func() (*ontology.Graph, error)) *MemoryDriver {
	return &MemoryDriver{Source: source}
}

// FindSchemes returns every Federal Fraud Scheme individual related to
// the target activity class, ordered by display name ascending. A
// scheme reachable through both union branches appears once.
func (d *MemoryDriver) FindSchemes(ctx context.Context, activityClass string) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// The template must prepare cleanly for the same inputs the
	// endpoint driver would accept.
	if _, err := BuildSchemeQuery(activityClass); err != nil {
		return nil, err
	}
	g, err := d.Source()
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrNoGraph
	}

	target := gfo.Namespace + activityClass

	matched := make(map[string]ontology.Term)
	for _, ind := range g.Subjects(gfo.RDFType, ontology.NewIRI(gfo.ClassFederalFraudScheme)) {
		if len(g.Literals(ind, gfo.RDFSLabel)) == 0 {
			continue
		}
		if matchesViaRestriction(g, ind, target) || matchesViaDirectClass(g, ind, target) {
			matched[ind.Key()] = ind
		}
	}

	rows := make([]Row, 0, len(matched))
	for _, ind := range matched {
		desc := firstLiteral(g, ind, gfo.DCTermsDescription)
		narr := firstLiteral(g, ind, gfo.PropNarrative)
		src := firstValue(g.Objects(ind, gfo.DCTermsSource))
		for _, name := range g.Literals(ind, gfo.RDFSLabel) {
			rows = append(rows, Row{
				Individual:  ind.Value,
				Name:        name,
				Description: desc,
				Narrative:   narr,
				Source:      src,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].Individual < rows[j].Individual
	})
	return rows, nil
}

// Close implements GraphDriver. The memory driver holds no resources.
func (d *MemoryDriver) Close(ctx context.Context) error { return nil }

// matchesViaRestriction covers the first union branch: the individual
// is typed by an anonymous restriction whose owl:onProperty is
// gfo:involves and whose owl:someValuesFrom transitively subclasses the
// target activity.
func matchesViaRestriction(g *ontology.Graph, ind ontology.Term, target string) bool {
	for _, cls := range g.Objects(ind, gfo.RDFType) {
		if !containsIRI(g.Objects(cls, gfo.OWLOnProperty), gfo.PropInvolves) {
			continue
		}
		for _, specific := range g.Objects(cls, gfo.OWLSomeValuesFrom) {
			if g.HasSuperClass(specific, target) && hasNamedFraudType(g, specific) {
				return true
			}
		}
	}
	return false
}

// matchesViaDirectClass covers the second union branch: the individual
// is directly typed by a class that transitively subclasses the target
// activity, excluding the generic scheme class itself.
func matchesViaDirectClass(g *ontology.Graph, ind ontology.Term, target string) bool {
	for _, cls := range g.Objects(ind, gfo.RDFType) {
		if cls.IsIRI() && cls.Value == gfo.ClassFederalFraudScheme {
			continue
		}
		if g.HasSuperClass(cls, target) && hasNamedFraudType(g, cls) {
			return true
		}
	}
	return false
}

// hasNamedFraudType reports whether the closure of c contains a labeled
// fraud type other than the top-level gfo:FraudActivity class. This is
// the query's ?fraudType join plus its trailing FILTER.
func hasNamedFraudType(g *ontology.Graph, c ontology.Term) bool {
	for _, sup := range g.SuperClasses(c) {
		if sup.IsIRI() && sup.Value == gfo.ClassFraudActivity {
			continue
		}
		if len(g.Literals(sup, gfo.RDFSLabel)) > 0 {
			return true
		}
	}
	return false
}

func containsIRI(terms []ontology.Term, iri string) bool {
	for _, t := range terms {
		if t.IsIRI() && t.Value == iri {
			return true
		}
	}
	return false
}

func firstLiteral(g *ontology.Graph, subj ontology.Term, pred string) string {
	if vals := g.Literals(subj, pred); len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// firstValue returns the lowest-sorting term value; dcterms:source may
// be an IRI or a literal.
func firstValue(terms []ontology.Term) string {
	vals := make([]string, 0, len(terms))
	for _, t := range terms {
		vals = append(vals, t.Value)
	}
	sort.Strings(vals)
	if len(vals) > 0 {
		return vals[0]
	}
	return ""
}
