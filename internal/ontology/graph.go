// Package ontology parses RDF/OWL files into an immutable in-memory
// triple set and exposes the lookups the scheme query needs.
package ontology

import (
	"sort"
	"strings"

	"github.com/antifraudworks/schemefinder/internal/gfo"
)

// TermKind discriminates RDF term types.
type TermKind uint8

const (
	TermIRI TermKind = iota
	TermBlank
	TermLiteral
)

// Term is a single RDF term. For IRIs Value is the full IRI, for blank
// nodes the node identifier, for literals the lexical value.
type Term struct {
	Kind  TermKind
	Value string
}

func NewIRI(iri string) Term   { return Term{Kind: TermIRI, Value: iri} }
func NewBlank(id string) Term  { return Term{Kind: TermBlank, Value: id} }
func NewLiteral(v string) Term { return Term{Kind: TermLiteral, Value: v} }

func (t Term) IsIRI() bool     { return t.Kind == TermIRI }
func (t Term) IsLiteral() bool { return t.Kind == TermLiteral }

// LocalName returns the fragment after the last '#' or '/' of an IRI,
// or the raw value for other term kinds.
func (t Term) LocalName() string {
	if t.Kind != TermIRI {
		return t.Value
	}
	v := t.Value
	if i := strings.LastIndexAny(v, "#/"); i >= 0 && i < len(v)-1 {
		return v[i+1:]
	}
	return v
}

// Key is the index key for a term. Kinds are prefixed so a literal can
// never collide with an IRI of the same spelling.
func (t Term) Key() string {
	switch t.Kind {
	case TermIRI:
		return "i:" + t.Value
	case TermBlank:
		return "b:" + t.Value
	default:
		return "l:" + t.Value
	}
}

// Triple is one RDF statement.
type Triple struct {
	Subj Term
	Pred Term
	Obj  Term
}

// Stats summarizes a graph for the browse surface.
type Stats struct {
	Triples    int `json:"triples"`
	Subjects   int `json:"subjects"`
	Predicates int `json:"predicates"`
	Objects    int `json:"objects"`
}

// Graph is an immutable set of triples indexed for subject->objects and
// (predicate, object)->subjects lookups. It is never mutated after
// construction; a new upload builds a new Graph.
type Graph struct {
	triples []Triple

	// subject key -> predicate IRI -> objects
	objects map[string]map[string][]Term
	// predicate IRI -> object key -> subjects
	subjects map[string]map[string][]Term
}

// NewGraph indexes the given triples.
func NewGraph(triples []Triple) *Graph {
	g := &Graph{
		triples:  triples,
		objects:  make(map[string]map[string][]Term),
		subjects: make(map[string]map[string][]Term),
	}
	for _, t := range triples {
		sk := t.Subj.Key()
		po, ok := g.objects[sk]
		if !ok {
			po = make(map[string][]Term)
			g.objects[sk] = po
		}
		po[t.Pred.Value] = append(po[t.Pred.Value], t.Obj)

		os, ok := g.subjects[t.Pred.Value]
		if !ok {
			os = make(map[string][]Term)
			g.subjects[t.Pred.Value] = os
		}
		ok2 := t.Obj.Key()
		os[ok2] = append(os[ok2], t.Subj)
	}
	return g
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int { return len(g.triples) }

// Triples returns the underlying statements. Callers must not modify
// the returned slice.
func (g *Graph) Triples() []Triple { return g.triples }

// Objects returns all objects of (subj, pred) statements.
func (g *Graph) Objects(subj Term, pred string) []Term {
	return g.objects[subj.Key()][pred]
}

// Subjects returns all subjects of (pred, obj) statements.
func (g *Graph) Subjects(pred string, obj Term) []Term {
	return g.subjects[pred][obj.Key()]
}

// Literals returns the lexical values of all literal objects of
// (subj, pred), sorted.
func (g *Graph) Literals(subj Term, pred string) []string {
	var out []string
	for _, o := range g.Objects(subj, pred) {
		if o.IsLiteral() {
			out = append(out, o.Value)
		}
	}
	sort.Strings(out)
	return out
}

// SuperClasses returns the reflexive-transitive rdfs:subClassOf closure
// of c, i.e. c itself and every ancestor reachable in zero or more
// steps. Cycles in the hierarchy are tolerated.
func (g *Graph) SuperClasses(c Term) []Term {
	seen := map[string]bool{c.Key(): true}
	closure := []Term{c}
	queue := []Term{c}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, sup := range g.Objects(cur, gfo.RDFSSubClassOf) {
			if seen[sup.Key()] {
				continue
			}
			seen[sup.Key()] = true
			closure = append(closure, sup)
			queue = append(queue, sup)
		}
	}
	return closure
}

// HasSuperClass reports whether target is in the reflexive-transitive
// subclass closure of c.
func (g *Graph) HasSuperClass(c Term, target string) bool {
	for _, sup := range g.SuperClasses(c) {
		if sup.IsIRI() && sup.Value == target {
			return true
		}
	}
	return false
}

// Classes returns the local names of all IRIs declared as owl:Class,
// sorted and de-duplicated.
func (g *Graph) Classes() []string {
	set := make(map[string]bool)
	for _, s := range g.Subjects(gfo.RDFType, NewIRI(gfo.OWLClass)) {
		if s.IsIRI() {
			set[s.LocalName()] = true
		}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ClassIRIs returns the full IRIs declared as owl:Class.
func (g *Graph) ClassIRIs() map[string]bool {
	set := make(map[string]bool)
	for _, s := range g.Subjects(gfo.RDFType, NewIRI(gfo.OWLClass)) {
		if s.IsIRI() {
			set[s.Value] = true
		}
	}
	return set
}

// PredicateNames returns the distinct predicate local names, sorted.
func (g *Graph) PredicateNames() []string {
	set := make(map[string]bool)
	for _, t := range g.triples {
		set[t.Pred.LocalName()] = true
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Stats computes graph-level counts.
func (g *Graph) Stats() Stats {
	subs := make(map[string]bool)
	preds := make(map[string]bool)
	objs := make(map[string]bool)
	for _, t := range g.triples {
		subs[t.Subj.Key()] = true
		preds[t.Pred.Value] = true
		objs[t.Obj.Key()] = true
	}
	return Stats{
		Triples:    len(g.triples),
		Subjects:   len(subs),
		Predicates: len(preds),
		Objects:    len(objs),
	}
}
