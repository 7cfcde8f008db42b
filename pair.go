// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonets

import (
	"errors"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Row is a single interaction mention from a statement table. Many rows
// may share a Hash; the Evidence count belongs to the hash, not the row.
type Row struct {
	SubjectNS   string
	SubjectID   string
	SubjectName string

	ObjectNS   string
	ObjectID   string
	ObjectName string

	Type     string
	Hash     int64
	Evidence int
}

// Subject returns the subject entity of the row.
func (r Row) Subject() Entity {
	return Entity{NS: r.SubjectNS, ID: r.SubjectID, Name: r.SubjectName}
}

// Object returns the object entity of the row.
func (r Row) Object() Entity {
	return Entity{NS: r.ObjectNS, ID: r.ObjectID, Name: r.ObjectName}
}

// Pair returns the canonical pair of the row's subject and object names.
func (r Row) Pair() Pair {
	return NewPair(r.SubjectName, r.ObjectName)
}

// valid returns whether the row carries the fields required for
// aggregation.
func (r Row) valid() bool {
	return r.SubjectName != "" && r.ObjectName != "" && r.Type != "" && r.Evidence > 0
}

// Entity is a gene or protein identified by a namespace and ID.
type Entity struct {
	NS   string `json:"ns"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Pair is an unordered pair of gene names held in lexical order.
type Pair struct {
	A, B string
}

// NewPair returns the canonical pair for the genes x and y. NewPair(x, y)
// and NewPair(y, x) are equal.
func NewPair(x, y string) Pair {
	if y < x {
		x, y = y, x
	}
	return Pair{A: x, B: y}
}

func (p Pair) String() string { return p.A + "|" + p.B }

// Direction is the directionality class of a statement relative to
// a canonical pair.
type Direction int

const (
	Undirected Direction = iota
	Forward
	Reverse
)

func (d Direction) String() string {
	switch d {
	case Undirected:
		return "undirected"
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

var (
	// ErrNoDirectedTypes is returned when a vocabulary is constructed
	// without any directed statement types.
	ErrNoDirectedTypes = errors.New("gonets: no directed statement types")

	// ErrVocabularyOverlap is returned when a statement type is both
	// directed and undirected.
	ErrVocabularyOverlap = errors.New("gonets: statement type is both directed and undirected")
)

// Vocabulary holds the disjoint directed and undirected statement type sets.
type Vocabulary struct {
	directed   map[string]bool
	undirected map[string]bool
}

// NewVocabulary returns a vocabulary from the given statement types.
func NewVocabulary(directed, undirected []string) (*Vocabulary, error) {
	if len(directed) == 0 {
		return nil, ErrNoDirectedTypes
	}
	v := &Vocabulary{
		directed:   make(map[string]bool, len(directed)),
		undirected: make(map[string]bool, len(undirected)),
	}
	for _, t := range directed {
		v.directed[t] = true
	}
	for _, t := range undirected {
		if v.directed[t] {
			return nil, fmt.Errorf("%w: %s", ErrVocabularyOverlap, t)
		}
		v.undirected[t] = true
	}
	return v, nil
}

// DefaultDirectedTypes and DefaultUndirectedTypes are the INDRA statement
// types used when no vocabulary is configured.
var (
	DefaultDirectedTypes = []string{
		"Activation", "Inhibition",
		"IncreaseAmount", "DecreaseAmount",
		"Conversion", "Gef", "Gap", "GtpActivation",
		"Phosphorylation", "Dephosphorylation",
		"Autophosphorylation", "Transphosphorylation",
		"Ubiquitination", "Deubiquitination",
		"Sumoylation", "Desumoylation",
		"Hydroxylation", "Dehydroxylation",
		"Acetylation", "Deacetylation",
		"Glycosylation", "Deglycosylation",
		"Farnesylation", "Defarnesylation",
		"Geranylgeranylation", "Degeranylgeranylation",
		"Palmitoylation", "Depalmitoylation",
		"Myristoylation", "Demyristoylation",
		"Ribosylation", "Deribosylation",
		"Methylation", "Demethylation",
	}
	DefaultUndirectedTypes = []string{"Complex", "Association"}
)

// DefaultVocabulary returns a vocabulary of the default INDRA types.
func DefaultVocabulary() *Vocabulary {
	v, err := NewVocabulary(DefaultDirectedTypes, DefaultUndirectedTypes)
	if err != nil {
		panic(err)
	}
	return v
}

// IsDirected returns whether typ is a directed statement type.
func (v *Vocabulary) IsDirected(typ string) bool { return v.directed[typ] }

// IsUndirected returns whether typ is an undirected statement type.
// Types in neither set are not reported as undirected, though Classify
// treats them as such.
func (v *Vocabulary) IsUndirected(typ string) bool { return v.undirected[typ] }

// Directed returns the sorted directed statement types.
func (v *Vocabulary) Directed() []string {
	t := maps.Keys(v.directed)
	slices.Sort(t)
	return t
}

// Undirected returns the sorted undirected statement types.
func (v *Vocabulary) Undirected() []string {
	t := maps.Keys(v.undirected)
	slices.Sort(t)
	return t
}

// Classify returns the direction of r with respect to the canonical pair p.
// Statement types that are not directed are undirected.
func (v *Vocabulary) Classify(r Row, p Pair) Direction {
	if !v.directed[r.Type] {
		return Undirected
	}
	switch r.SubjectName {
	case p.A:
		return Forward
	case p.B:
		return Reverse
	default:
		return Undirected
	}
}

// RowFilter reports whether a row should be retained.
type RowFilter func(Row) bool

// NoSelfLoops is a RowFilter rejecting rows with identical subject and
// object names.
func NoSelfLoops(r Row) bool { return r.SubjectName != r.ObjectName }

// InNamespace returns a RowFilter retaining rows where both entities
// are in the namespace ns.
func InNamespace(ns string) RowFilter {
	return func(r Row) bool { return r.SubjectNS == ns && r.ObjectNS == ns }
}

// FilterRows returns the rows satisfying all the filters. The rows
// slice is filtered in place.
func FilterRows(rows []Row, filters ...RowFilter) []Row {
	kept := rows[:0]
outer:
	for _, r := range rows {
		for _, keep := range filters {
			if !keep(r) {
				continue outer
			}
		}
		kept = append(kept, r)
	}
	return kept
}
