// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonets

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph/topo"
)

// GeneSet is a set of gene names.
type GeneSet map[string]struct{}

// NewGeneSet returns a set holding the given genes.
func NewGeneSet(genes ...string) GeneSet {
	s := make(GeneSet, len(genes))
	for _, g := range genes {
		s[g] = struct{}{}
	}
	return s
}

// Has returns whether gene is in the set.
func (s GeneSet) Has(gene string) bool {
	_, ok := s[gene]
	return ok
}

// Sorted returns the genes of the set in lexical order.
func (s GeneSet) Sorted() []string {
	g := maps.Keys(s)
	slices.Sort(g)
	return g
}

// Go2Genes maps ontology term IDs to the genes annotated to the term
// or any of its descendants.
type Go2Genes map[string]GeneSet

// Terms returns the term IDs of the map in lexical order.
func (m Go2Genes) Terms() []string {
	t := maps.Keys(m)
	slices.Sort(t)
	return t
}

// CycleError is returned when the ontology hierarchy is not acyclic.
type CycleError struct {
	// Cycles holds the term IDs of each strongly connected
	// component that prevents ordering.
	Cycles [][]string

	err topo.Unorderable
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Cycles))
	for i, c := range e.Cycles {
		parts[i] = "[" + strings.Join(c, " ") + "]"
	}
	return "gonets: ontology hierarchy has cycles: " + strings.Join(parts, " ")
}

func (e *CycleError) Unwrap() error { return e.err }

// ClosureOptions specifies how annotations are turned into term gene sets.
type ClosureOptions struct {
	// Namespace restricts annotations and results to terms in
	// the namespace. If empty, all namespaces are used.
	Namespace string

	// Namer maps annotations to gene names. If nil, Symbols
	// is used.
	Namer GeneNamer

	// Filters are applied to annotations before use. If nil,
	// negated annotations are removed.
	Filters []AnnotationFilter
}

// ClosureReport summarises the annotations not used by DirectGenes.
type ClosureReport struct {
	Annotations    int // Annotations offered.
	Filtered       int // Annotations rejected by a filter.
	UnknownTerms   int // Annotations to terms absent from the ontology.
	OtherNamespace int // Annotations to terms outside the namespace.
	Unnamed        int // Annotations without a gene name.
}

// DirectGenes returns the genes directly annotated to each term of o.
func DirectGenes(o *Ontology, annots []Annotation, opts ClosureOptions) (map[string]GeneSet, ClosureReport) {
	namer := opts.Namer
	if namer == nil {
		namer = Symbols{}
	}
	filters := opts.Filters
	if filters == nil {
		filters = []AnnotationFilter{NotNegated}
	}

	direct := make(map[string]GeneSet)
	report := ClosureReport{Annotations: len(annots)}
outer:
	for _, a := range annots {
		for _, keep := range filters {
			if !keep(a) {
				report.Filtered++
				continue outer
			}
		}
		t, ok := o.TermFor(a.Term)
		if !ok {
			report.UnknownTerms++
			continue
		}
		if opts.Namespace != "" && t.Namespace != opts.Namespace {
			report.OtherNamespace++
			continue
		}
		name, ok := namer.GeneName(a)
		if !ok {
			report.Unnamed++
			continue
		}
		s, ok := direct[t.GOID]
		if !ok {
			s = make(GeneSet)
			direct[t.GOID] = s
		}
		s[name] = struct{}{}
	}
	return direct, report
}

// Closure returns the gene sets of the terms in o in the given namespace,
// propagating the direct gene sets from each term to all of its ancestors.
// Terms with no genes are not included. If the hierarchy is cyclic,
// a *CycleError is returned.
func Closure(o *Ontology, direct map[string]GeneSet, namespace string) (Go2Genes, error) {
	// Relations run from child to parent, so every term
	// is ordered before all of its ancestors.
	order, err := topo.Sort(o)
	if err != nil {
		if u, ok := err.(topo.Unorderable); ok {
			return nil, newCycleError(u)
		}
		return nil, fmt.Errorf("gonets: ordering ontology: %w", err)
	}

	resolved := make(map[int64]GeneSet)
	for _, n := range order {
		t := n.(Term)
		set := resolved[t.UID]
		if d := direct[t.GOID]; len(d) != 0 {
			if set == nil {
				set = make(GeneSet, len(d))
				resolved[t.UID] = set
			}
			for g := range d {
				set[g] = struct{}{}
			}
		}
		if len(set) == 0 {
			continue
		}
		parents := o.From(t.UID)
		for parents.Next() {
			pid := parents.Node().ID()
			ps, ok := resolved[pid]
			if !ok {
				ps = make(GeneSet, len(set))
				resolved[pid] = ps
			}
			for g := range set {
				ps[g] = struct{}{}
			}
		}
	}

	go2genes := make(Go2Genes)
	for uid, set := range resolved {
		t := o.Node(uid).(Term)
		if len(set) == 0 || (namespace != "" && t.Namespace != namespace) {
			continue
		}
		go2genes[t.GOID] = set
	}
	return go2genes, nil
}

func newCycleError(u topo.Unorderable) *CycleError {
	e := &CycleError{err: u}
	for _, c := range u {
		ids := make([]string, len(c))
		for i, n := range c {
			ids[i] = n.(Term).GOID
		}
		slices.Sort(ids)
		e.Cycles = append(e.Cycles, ids)
	}
	return e
}

// GenesByTerm returns the propagated gene sets for the terms of o
// derived from the annotations.
func GenesByTerm(o *Ontology, annots []Annotation, opts ClosureOptions) (Go2Genes, ClosureReport, error) {
	direct, report := DirectGenes(o, annots, opts)
	go2genes, err := Closure(o, direct, opts.Namespace)
	if err != nil {
		return nil, report, err
	}
	return go2genes, report, nil
}
