// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonets

import (
	"errors"
	"fmt"
	"log"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// PairProperty is the aggregated evidence for a canonical pair. The
// evidence maps are keyed by statement type and are nil when empty.
type PairProperty struct {
	A Entity `json:"a"`
	B Entity `json:"b"`

	Directed        bool `json:"directed"`
	ReverseDirected bool `json:"reverse_directed"`

	Forward    map[string]int `json:"forward,omitempty"`
	Reverse    map[string]int `json:"reverse,omitempty"`
	Undirected map[string]int `json:"undirected,omitempty"`
}

// Pair returns the canonical pair of the property.
func (p PairProperty) Pair() Pair { return Pair{A: p.A.Name, B: p.B.Name} }

// Evidence returns the evidence map for the direction d.
func (p PairProperty) Evidence(d Direction) map[string]int {
	switch d {
	case Forward:
		return p.Forward
	case Reverse:
		return p.Reverse
	default:
		return p.Undirected
	}
}

// Properties is a pair property index keyed by canonical pair. A
// Properties is not mutated once built and may be shared between
// goroutines.
type Properties map[Pair]PairProperty

// Pairs returns the pairs of the index in lexical order.
func (p Properties) Pairs() []Pair {
	pairs := maps.Keys(p)
	slices.SortFunc(pairs, comparePairs)
	return pairs
}

func comparePairs(a, b Pair) int {
	switch {
	case a.A < b.A:
		return -1
	case a.A > b.A:
		return 1
	case a.B < b.B:
		return -1
	case a.B > b.B:
		return 1
	}
	return 0
}

// Report summarises row and pair level problems absorbed during
// aggregation.
type Report struct {
	Rows       int // Rows offered.
	Malformed  int // Rows missing required fields.
	SelfLoops  int // Rows with identical subject and object.
	Duplicates int // Rows repeating an already seen hash for a pair.

	// TypeConflicts counts rows repeating a hash with a statement
	// type different to the first seen for the hash.
	TypeConflicts int

	// AmbiguousEntities counts entity observations that disagreed
	// with the first seen identity for the name.
	AmbiguousEntities int

	// UnresolvedPairs counts pairs excluded from the index because
	// an entity could not be resolved.
	UnresolvedPairs int
}

// Skipped returns the number of rows that did not contribute.
func (r Report) Skipped() int { return r.Malformed + r.SelfLoops }

// ErrHashTypeConflict is the error wrapped by HashConflictError.
var ErrHashTypeConflict = errors.New("gonets: statement hash has conflicting types")

// HashConflictError is returned by a strict Aggregator when a statement
// hash is seen with more than one statement type.
type HashConflictError struct {
	Pair  Pair
	Hash  int64
	First string
	Then  string
}

func (e *HashConflictError) Error() string {
	return fmt.Sprintf("gonets: statement hash %d for %s has type %s, previously %s", e.Hash, e.Pair, e.Then, e.First)
}

func (e *HashConflictError) Unwrap() error { return ErrHashTypeConflict }

// stmt is the retained first sighting of a statement hash for a pair.
type stmt struct {
	typ       string
	direction Direction
	evidence  int
}

// Aggregator builds a Properties index from statement rows. Rows are added
// with Add and the index is obtained with Properties. Rows may be added in
// any order; a hash's type and direction are taken from its first row.
type Aggregator struct {
	vocab    *Vocabulary
	entities *EntityResolver

	// Strict causes Add to fail when a hash is seen with conflicting
	// statement types rather than keeping the first.
	Strict bool

	logger *log.Logger

	pairs  map[Pair]map[int64]stmt
	report Report
}

// NewAggregator returns an Aggregator using the given vocabulary. If
// entities is nil, a resolver is created and populated from the added
// rows. Logger may be nil.
func NewAggregator(vocab *Vocabulary, entities *EntityResolver, logger *log.Logger) *Aggregator {
	if entities == nil {
		entities = NewEntityResolver(logger)
	}
	return &Aggregator{
		vocab:    vocab,
		entities: entities,
		logger:   logger,
		pairs:    make(map[Pair]map[int64]stmt),
	}
}

// Add adds r to the aggregation. It returns a non-nil error only when
// the Aggregator is strict and r conflicts with an earlier row.
func (a *Aggregator) Add(r Row) error {
	a.report.Rows++
	// Identities are taken from every row, including those
	// that contribute no statement.
	a.entities.Observe(r.Subject())
	a.entities.Observe(r.Object())
	if !r.valid() {
		a.report.Malformed++
		return nil
	}
	if r.SubjectName == r.ObjectName {
		a.report.SelfLoops++
		return nil
	}

	p := r.Pair()
	hashes, ok := a.pairs[p]
	if !ok {
		hashes = make(map[int64]stmt)
		a.pairs[p] = hashes
	}
	if s, ok := hashes[r.Hash]; ok {
		a.report.Duplicates++
		if s.typ != r.Type {
			a.report.TypeConflicts++
			if a.Strict {
				return &HashConflictError{Pair: p, Hash: r.Hash, First: s.typ, Then: r.Type}
			}
			if a.logger != nil {
				a.logger.Printf("statement hash %d for %s seen as %s and %s: keeping %[3]s", r.Hash, p, s.typ, r.Type)
			}
		}
		return nil
	}
	hashes[r.Hash] = stmt{
		typ:       r.Type,
		direction: a.vocab.Classify(r, p),
		evidence:  r.Evidence,
	}
	return nil
}

// Properties returns the pair property index for the rows added so far
// and a report of the problems absorbed.
func (a *Aggregator) Properties() (Properties, Report) {
	props := make(Properties, len(a.pairs))
	report := a.report
	report.AmbiguousEntities = a.entities.Ambiguous
	for p, hashes := range a.pairs {
		ea, okA := a.entities.Resolve(p.A)
		eb, okB := a.entities.Resolve(p.B)
		if !okA || !okB {
			report.UnresolvedPairs++
			if a.logger != nil {
				a.logger.Printf("excluding %s: unresolved entity", p)
			}
			continue
		}
		prop := PairProperty{A: ea, B: eb}
		for _, s := range hashes {
			switch s.direction {
			case Forward:
				prop.Directed = true
				prop.Forward = addEvidence(prop.Forward, s)
			case Reverse:
				prop.ReverseDirected = true
				prop.Reverse = addEvidence(prop.Reverse, s)
			default:
				prop.Undirected = addEvidence(prop.Undirected, s)
			}
		}
		props[p] = prop
	}
	return props, report
}

func addEvidence(m map[string]int, s stmt) map[string]int {
	if m == nil {
		m = make(map[string]int)
	}
	m[s.typ] += s.evidence
	return m
}

// Aggregate returns the pair property index for rows using the vocabulary
// vocab. If strict is true, conflicting hash types are returned as an
// error and no index is returned.
func Aggregate(rows []Row, vocab *Vocabulary, strict bool, logger *log.Logger) (Properties, Report, error) {
	agg := NewAggregator(vocab, nil, logger)
	agg.Strict = strict
	for _, r := range rows {
		err := agg.Add(r)
		if err != nil {
			return nil, agg.report, err
		}
	}
	props, report := agg.Properties()
	return props, report, nil
}
