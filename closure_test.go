// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/topo"
)

// testOntology returns a small DAG:
//
//	GO:1 root
//	├── GO:2 (is_a)
//	│   └── GO:4 (is_a)
//	└── GO:3 (part_of)
//	    └── GO:4 (is_a)
//	        └── GO:5 (is_a)
//
// with GO:9 in a different namespace, part_of GO:4.
func testOntology(t *testing.T) *Ontology {
	t.Helper()
	o := NewOntology()
	for _, id := range []string{"GO:1", "GO:2", "GO:3", "GO:4", "GO:5"} {
		o.AddTerm(id, "term "+id, BiologicalProcess)
	}
	o.AddTerm("GO:9", "component", CellularComponent)
	for _, r := range []struct{ c, p, k string }{
		{"GO:2", "GO:1", IsA},
		{"GO:3", "GO:1", PartOf},
		{"GO:4", "GO:2", IsA},
		{"GO:4", "GO:3", IsA},
		{"GO:5", "GO:4", IsA},
		{"GO:9", "GO:4", PartOf},
	} {
		require.NoError(t, o.AddRelation(r.c, r.p, r.k))
	}
	return o
}

func TestClosureParentChild(t *testing.T) {
	o := NewOntology()
	o.AddTerm("T_parent", "", BiologicalProcess)
	o.AddTerm("T_child", "", BiologicalProcess)
	require.NoError(t, o.AddRelation("T_child", "T_parent", IsA))

	got, err := Closure(o, map[string]GeneSet{
		"T_child":  NewGeneSet("G1"),
		"T_parent": NewGeneSet("G2"),
	}, BiologicalProcess)
	require.NoError(t, err)
	assert.Equal(t, []string{"G1", "G2"}, got["T_parent"].Sorted())
	assert.Equal(t, []string{"G1"}, got["T_child"].Sorted())
}

func TestClosureDAG(t *testing.T) {
	o := testOntology(t)
	direct := map[string]GeneSet{
		"GO:5": NewGeneSet("E"),
		"GO:4": NewGeneSet("D"),
		"GO:2": NewGeneSet("B"),
		"GO:3": NewGeneSet("C"),
		"GO:9": NewGeneSet("Z"),
	}
	got, err := Closure(o, direct, BiologicalProcess)
	require.NoError(t, err)

	want := map[string][]string{
		"GO:1": {"B", "C", "D", "E", "Z"},
		"GO:2": {"B", "D", "E", "Z"},
		"GO:3": {"C", "D", "E", "Z"},
		"GO:4": {"D", "E", "Z"},
		"GO:5": {"E"},
	}
	require.Equal(t, len(want), len(got))
	for term, genes := range want {
		assert.Equal(t, genes, got[term].Sorted(), term)
	}
	assert.NotContains(t, got, "GO:9")

	// The direct sets must not be modified.
	assert.Equal(t, []string{"D"}, direct["GO:4"].Sorted())
}

func TestClosureMonotonic(t *testing.T) {
	o := testOntology(t)
	got, err := Closure(o, map[string]GeneSet{
		"GO:5": NewGeneSet("E", "F"),
		"GO:3": NewGeneSet("C"),
	}, "")
	require.NoError(t, err)

	for _, term := range got.Terms() {
		t1, ok := o.TermFor(term)
		require.True(t, ok)
		for _, d := range o.DescendantsOf(t1) {
			for g := range got[d.Term.GOID] {
				assert.True(t, got[term].Has(g), "%s missing %s from descendant %s", term, g, d.Term.GOID)
			}
		}
	}
}

func TestClosureEmptyTerms(t *testing.T) {
	o := testOntology(t)
	got, err := Closure(o, map[string]GeneSet{"GO:2": NewGeneSet("B")}, BiologicalProcess)
	require.NoError(t, err)
	assert.Equal(t, []string{"GO:1", "GO:2"}, got.Terms())
}

func TestClosureCycle(t *testing.T) {
	o := testOntology(t)
	require.NoError(t, o.AddRelation("GO:1", "GO:5", IsA))

	_, err := Closure(o, map[string]GeneSet{"GO:5": NewGeneSet("E")}, BiologicalProcess)
	require.Error(t, err)
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	require.Len(t, cycle.Cycles, 1)
	assert.Equal(t, []string{"GO:1", "GO:2", "GO:3", "GO:4", "GO:5"}, cycle.Cycles[0])
	var u topo.Unorderable
	assert.ErrorAs(t, err, &u)
}

func TestGenesByTerm(t *testing.T) {
	o := testOntology(t)
	annots := []Annotation{
		{ID: "P1", Symbol: "E", Term: "GO:5"},
		{ID: "P2", Symbol: "C", Term: "GO:3"},
		{ID: "P3", Symbol: "X", Qualifier: "NOT|involved_in", Term: "GO:3"},
		{ID: "P4", Symbol: "Z", Term: "GO:9"},
		{ID: "P5", Symbol: "Q", Term: "GO:404"},
		{ID: "P6", Term: "GO:2"},
	}

	got, report, err := GenesByTerm(o, annots, ClosureOptions{Namespace: BiologicalProcess})
	require.NoError(t, err)
	assert.Equal(t, ClosureReport{Annotations: 6, Filtered: 1, UnknownTerms: 1, OtherNamespace: 1, Unnamed: 1}, report)
	assert.Equal(t, []string{"C", "E"}, got["GO:1"].Sorted())
	assert.Equal(t, []string{"E"}, got["GO:2"].Sorted())
	assert.Equal(t, []string{"C", "E"}, got["GO:3"].Sorted())

	names := NameMap{"P1": "GENE1", "P2": "GENE2"}
	got, report, err = GenesByTerm(o, annots, ClosureOptions{Namespace: BiologicalProcess, Namer: names})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Unnamed)
	assert.Equal(t, []string{"GENE1", "GENE2"}, got["GO:1"].Sorted())
}
