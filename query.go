// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonets

import "golang.org/x/exp/slices"

// Query represents a step in an ontology query.
type Query struct {
	o *Ontology

	terms []Term
}

// Query returns a query of the receiver starting from the given terms.
// Queries may not be mixed between distinct ontologies.
func (o *Ontology) Query(from ...Term) Query {
	return Query{o: o, terms: from}
}

// Out returns a query holding the parents of the receiver's terms
// related by relations that satisfy fn.
func (q Query) Out(fn func(r Relation) bool) Query {
	r := Query{o: q.o}
	for _, t := range q.terms {
		it := q.o.From(t.ID())
		for it.Next() {
			if ConnectedByAny(q.o.Edge(t.ID(), it.Node().ID()), fn) {
				r.terms = append(r.terms, it.Node().(Term))
			}
		}
	}
	return r
}

// In returns a query holding the children of the receiver's terms
// related by relations that satisfy fn.
func (q Query) In(fn func(r Relation) bool) Query {
	r := Query{o: q.o}
	for _, t := range q.terms {
		it := q.o.To(t.ID())
		for it.Next() {
			if ConnectedByAny(q.o.Edge(it.Node().ID(), t.ID()), fn) {
				r.terms = append(r.terms, it.Node().(Term))
			}
		}
	}
	return r
}

// And returns a query that holds the conjunction of q and p.
func (q Query) And(p Query) Query {
	q.mustShare(p)
	q.sort()
	p.sort()
	r := Query{o: q.o}
	var i, j int
	for i < len(q.terms) && j < len(p.terms) {
		qi := q.terms[i]
		pj := p.terms[j]
		switch {
		case qi.UID < pj.UID:
			i++
		case pj.UID < qi.UID:
			j++
		default:
			r.terms = append(r.terms, qi)
			i++
			j++
		}
	}
	return r
}

// Or returns a query that holds the disjunction of q and p.
func (q Query) Or(p Query) Query {
	q.mustShare(p)
	all := make([]Term, 0, len(q.terms)+len(p.terms))
	all = append(all, q.terms...)
	all = append(all, p.terms...)
	return Query{o: q.o, terms: all}.Unique()
}

// Not returns a query that holds q less p.
func (q Query) Not(p Query) Query {
	q.mustShare(p)
	drop := make(map[int64]bool, len(p.terms))
	for _, t := range p.terms {
		drop[t.UID] = true
	}
	r := Query{o: q.o}
	for _, t := range q.Unique().terms {
		if !drop[t.UID] {
			r.terms = append(r.terms, t)
		}
	}
	return r
}

// Unique returns a copy of the receiver that contains only one instance
// of each term.
func (q Query) Unique() Query {
	q.sort()
	r := Query{o: q.o}
	for i, t := range q.terms {
		if i == 0 || t.UID != q.terms[i-1].UID {
			r.terms = append(r.terms, t)
		}
	}
	return r
}

// Result returns the terms held by the query.
func (q Query) Result() []Term {
	return q.terms
}

func (q Query) mustShare(p Query) {
	if q.o != p.o {
		panic("gonets: binary query operation parameters from distinct ontologies")
	}
}

func (q Query) sort() {
	slices.SortFunc(q.terms, func(a, b Term) int {
		switch {
		case a.UID < b.UID:
			return -1
		case a.UID > b.UID:
			return 1
		}
		return 0
	})
}
