// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Copyright ©2014 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonets

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/set/uid"
	"gonum.org/v1/gonum/graph/traverse"
)

// Relation kinds used by the ontology loaders.
const (
	IsA    = "is_a"
	PartOf = "part_of"
)

// Standard Gene Ontology namespaces.
const (
	BiologicalProcess = "biological_process"
	MolecularFunction = "molecular_function"
	CellularComponent = "cellular_component"
)

// Term is an ontology term node.
type Term struct {
	UID       int64
	GOID      string
	Name      string
	Namespace string
}

// ID returns the graph node ID of the term.
func (t Term) ID() int64 { return t.UID }

// Relation is a child to parent relation between two terms.
type Relation struct {
	F, T Term
	UID  int64
	Kind string
}

// From returns the child term of the relation.
func (r Relation) From() graph.Node { return r.F }

// To returns the parent term of the relation.
func (r Relation) To() graph.Node { return r.T }

// ID returns the line ID of the relation.
func (r Relation) ID() int64 { return r.UID }

// ReversedLine returns the relation with its terms swapped.
func (r Relation) ReversedLine() graph.Line { r.F, r.T = r.T, r.F; return r }

// ErrSelfRelation is returned when a term is related to itself.
var ErrSelfRelation = errors.New("gonets: term related to itself")

// Ontology implements a term hierarchy graph. Edges are directed from
// child to parent and each edge may hold several relations of distinct
// kinds.
type Ontology struct {
	nodes map[int64]graph.Node
	from  map[int64]map[int64]map[int64]graph.Line
	to    map[int64]map[int64]map[int64]graph.Line

	termIDs map[string]int64
	ids     *uid.Set
}

// NewOntology returns a new empty Ontology.
func NewOntology() *Ontology {
	return &Ontology{
		nodes: make(map[int64]graph.Node),
		from:  make(map[int64]map[int64]map[int64]graph.Line),
		to:    make(map[int64]map[int64]map[int64]graph.Line),

		termIDs: make(map[string]int64),
		ids:     uid.NewSet(),
	}
}

// AddTerm adds a term with the given ID, name and namespace to the
// ontology and returns it. If the term already exists, its name and
// namespace are updated when they are not empty.
func (o *Ontology) AddTerm(id, name, namespace string) Term {
	if n, ok := o.termIDs[id]; ok {
		t := o.nodes[n].(Term)
		if name != "" {
			t.Name = name
		}
		if namespace != "" {
			t.Namespace = namespace
		}
		o.setTerm(t)
		return t
	}
	t := Term{UID: o.ids.NewID(), GOID: id, Name: name, Namespace: namespace}
	o.addNode(t)
	o.termIDs[id] = t.UID
	return t
}

// addNode adds n to the graph. It panics if the added node ID matches an
// existing node ID.
func (o *Ontology) addNode(n graph.Node) {
	if _, exists := o.nodes[n.ID()]; exists {
		panic(fmt.Sprintf("gonets: node ID collision: %d", n.ID()))
	}
	o.nodes[n.ID()] = n
	o.ids.Use(n.ID())
}

// setTerm replaces the stored term and every relation holding it so
// that lines carry the current term attributes.
func (o *Ontology) setTerm(t Term) {
	o.nodes[t.UID] = t
	for _, e := range o.from[t.UID] {
		for id, l := range e {
			r := l.(Relation)
			r.F = t
			e[id] = r
			o.to[r.T.UID][t.UID][id] = r
		}
	}
	for _, e := range o.to[t.UID] {
		for id, l := range e {
			r := l.(Relation)
			r.T = t
			e[id] = r
			o.from[r.F.UID][t.UID][id] = r
		}
	}
}

// AddRelation adds a relation of the given kind from the child term to
// the parent term, adding the terms if they do not exist. Adding an
// existing relation is a no-op.
func (o *Ontology) AddRelation(child, parent, kind string) error {
	if child == parent {
		return fmt.Errorf("%w: %s %s", ErrSelfRelation, child, kind)
	}
	c, ok := o.TermFor(child)
	if !ok {
		c = o.AddTerm(child, "", "")
	}
	p, ok := o.TermFor(parent)
	if !ok {
		p = o.AddTerm(parent, "", "")
	}
	for _, l := range o.from[c.UID][p.UID] {
		if l.(Relation).Kind == kind {
			return nil
		}
	}
	o.setLine(Relation{F: c, T: p, UID: o.ids.NewID(), Kind: kind})
	return nil
}

// TermFor returns the term with the given ID.
func (o *Ontology) TermFor(id string) (Term, bool) {
	n, ok := o.termIDs[id]
	if !ok {
		return Term{}, false
	}
	return o.nodes[n].(Term), true
}

// Len returns the number of terms in the ontology.
func (o *Ontology) Len() int { return len(o.nodes) }

// Edge returns the edge from u to v if such an edge exists and nil otherwise.
// The node v must be directly reachable from u as defined by the From method.
// The returned graph.Edge is a multi.Edge if an edge exists.
func (o *Ontology) Edge(uid, vid int64) graph.Edge {
	l := o.Lines(uid, vid)
	if l.Len() == 0 {
		return nil
	}
	return multi.Edge{F: o.Node(uid), T: o.Node(vid), Lines: l}
}

// Edges returns all the edges in the graph. Each edge in the returned slice
// is a multi.Edge.
func (o *Ontology) Edges() graph.Edges {
	if len(o.nodes) == 0 {
		return graph.Empty
	}
	var edges []graph.Edge
	for _, u := range o.nodes {
		for _, e := range o.from[u.ID()] {
			var lines []graph.Line
			for _, l := range e {
				lines = append(lines, l)
			}
			if len(lines) != 0 {
				edges = append(edges, multi.Edge{
					F:     o.Node(u.ID()),
					T:     o.Node(lines[0].To().ID()),
					Lines: iterator.NewOrderedLines(lines),
				})
			}
		}
	}
	if len(edges) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedEdges(edges)
}

// From returns all parent terms of the term with the given node ID.
//
// The returned graph.Nodes is only valid until the next mutation of
// the receiver.
func (o *Ontology) From(id int64) graph.Nodes {
	if len(o.from[id]) == 0 {
		return graph.Empty
	}
	return iterator.NewNodesByLines(o.nodes, o.from[id])
}

// HasEdgeBetween returns whether an edge exists between nodes x and y without
// considering direction.
func (o *Ontology) HasEdgeBetween(xid, yid int64) bool {
	if _, ok := o.from[xid][yid]; ok {
		return true
	}
	_, ok := o.from[yid][xid]
	return ok
}

// HasEdgeFromTo returns whether an edge exists in the graph from u to v.
func (o *Ontology) HasEdgeFromTo(uid, vid int64) bool {
	_, ok := o.from[uid][vid]
	return ok
}

// Lines returns the lines from u to v if such any such lines exists and
// graph.Empty otherwise.
func (o *Ontology) Lines(uid, vid int64) graph.Lines {
	edge := o.from[uid][vid]
	if len(edge) == 0 {
		return graph.Empty
	}
	var lines []graph.Line
	for _, l := range edge {
		lines = append(lines, l)
	}
	return iterator.NewOrderedLines(lines)
}

// Node returns the node with the given ID if it exists in the graph,
// and nil otherwise.
func (o *Ontology) Node(id int64) graph.Node {
	return o.nodes[id]
}

// Nodes returns all the nodes in the graph.
//
// The returned graph.Nodes is only valid until the next mutation of
// the receiver.
func (o *Ontology) Nodes() graph.Nodes {
	if len(o.nodes) == 0 {
		return graph.Empty
	}
	return iterator.NewNodes(o.nodes)
}

// setLine adds l, a line from one node to another. If the nodes do not exist,
// they are added, and are set to the nodes of the line otherwise.
func (o *Ontology) setLine(l graph.Line) {
	var (
		from = l.From()
		fid  = from.ID()
		to   = l.To()
		tid  = to.ID()
		lid  = l.ID()
	)

	if _, ok := o.nodes[fid]; !ok {
		o.addNode(from)
	}
	if _, ok := o.nodes[tid]; !ok {
		o.addNode(to)
	}

	switch {
	case o.from[fid] == nil:
		o.from[fid] = map[int64]map[int64]graph.Line{tid: {lid: l}}
	case o.from[fid][tid] == nil:
		o.from[fid][tid] = map[int64]graph.Line{lid: l}
	default:
		o.from[fid][tid][lid] = l
	}
	switch {
	case o.to[tid] == nil:
		o.to[tid] = map[int64]map[int64]graph.Line{fid: {lid: l}}
	case o.to[tid][fid] == nil:
		o.to[tid][fid] = map[int64]graph.Line{lid: l}
	default:
		o.to[tid][fid][lid] = l
	}

	o.ids.Use(lid)
}

// To returns all child terms of the term with the given node ID.
//
// The returned graph.Nodes is only valid until the next mutation of
// the receiver.
func (o *Ontology) To(id int64) graph.Nodes {
	if len(o.to[id]) == 0 {
		return graph.Empty
	}
	return iterator.NewNodesByLines(o.nodes, o.to[id])
}

// IsDescendantOf returns whether the query q is a descendant of a and how
// many levels separate them if it is. If q is not a descendant of a, depth
// will be negative.
func (o *Ontology) IsDescendantOf(a, q Term) (yes bool, depth int) {
	depth = -1
	var bf traverse.BreadthFirst
	bf.Walk(o, q, func(n graph.Node, d int) bool {
		if n.ID() == a.UID {
			yes = true
			depth = d
			return true
		}
		return false
	})
	return yes, depth
}

// DescendantsOf returns all of the descendants of the given term.
func (o *Ontology) DescendantsOf(t Term) []Descendant {
	var desc []Descendant
	var bf traverse.BreadthFirst
	bf.Walk(reverse{o}, t, func(n graph.Node, d int) bool {
		if n.ID() != t.UID {
			desc = append(desc, Descendant{Term: n.(Term), Depth: d})
		}
		return false
	})
	return desc
}

// reverse implements the traverse.Graph reversing the direction of edges.
type reverse struct {
	*Ontology
}

func (g reverse) From(id int64) graph.Nodes      { return g.Ontology.To(id) }
func (g reverse) Edge(uid, vid int64) graph.Edge { return g.Ontology.Edge(vid, uid) }

// Descendant represents a descendancy relationship.
type Descendant struct {
	Term  Term
	Depth int
}

// Roots returns all the terms in the given namespace that have no parent
// in the same namespace. If namespace is empty, all parentless terms are
// returned.
func (o *Ontology) Roots(namespace string) []Term {
	var roots []Term
	for _, n := range o.nodes {
		t := n.(Term)
		if namespace != "" && t.Namespace != namespace {
			continue
		}
		parents := o.Query(t).Out(func(r Relation) bool {
			return namespace == "" || r.T.Namespace == namespace
		})
		if len(parents.Result()) == 0 {
			roots = append(roots, t)
		}
	}
	return roots
}

// ConnectedByAny is a helper function to for simplifying graph traversal
// conditions.
func ConnectedByAny(e graph.Edge, with func(Relation) bool) bool {
	it, ok := e.(multi.Edge)
	if !ok {
		return false
	}
	for it.Next() {
		r, ok := it.Line().(Relation)
		if !ok {
			continue
		}
		if with(r) {
			return true
		}
	}
	return false
}
