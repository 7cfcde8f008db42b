// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectFixture(t *testing.T) (Go2Genes, Properties) {
	t.Helper()
	props, _, err := Aggregate(aggregateFixture(), testVocabulary(t), false, nil)
	require.NoError(t, err)
	return Go2Genes{
		"GO:1": NewGeneSet("A", "B", "C", "D"),
		"GO:2": NewGeneSet("A", "B"),
		"GO:3": NewGeneSet("G1", "G2", "G3"),
		"GO:4": NewGeneSet("A"),
		"GO:5": NewGeneSet("B", "C", "D"),
	}, props
}

func TestSelect(t *testing.T) {
	go2genes, props := selectFixture(t)
	got, err := Selector{Workers: 2}.Select(context.Background(), go2genes, props)
	require.NoError(t, err)

	var terms []string
	for _, in := range got {
		terms = append(terms, in.Term)
	}
	assert.Equal(t, []string{"GO:1", "GO:2", "GO:5"}, terms)

	assert.Equal(t, []Pair{{"A", "B"}, {"A", "C"}, {"C", "D"}}, got[0].Pairs.Pairs())
	assert.Equal(t, []string{"A", "B", "C", "D"}, got[0].Genes)
	assert.Equal(t, []Pair{{"A", "B"}}, got[1].Pairs.Pairs())
	assert.Equal(t, []Pair{{"C", "D"}}, got[2].Pairs.Pairs())

	for _, in := range got {
		for p := range in.Pairs {
			genes := NewGeneSet(in.Genes...)
			assert.True(t, genes.Has(p.A) && genes.Has(p.B), "%s has pair %s outside its genes", in.Term, p)
		}
	}
}

func TestSelectTermNoPairs(t *testing.T) {
	_, props := selectFixture(t)
	in := SelectTerm("GO:3", NewGeneSet("G1", "G2", "G3"), props)
	assert.Nil(t, in.Pairs)
	assert.Equal(t, []string{"G1", "G2", "G3"}, in.Genes)
}

func TestSelectTermScanMatchesLookup(t *testing.T) {
	_, props := selectFixture(t)

	// Enough genes that the index is scanned rather than each
	// combination looked up.
	genes := NewGeneSet("A", "B", "C", "D")
	for i := 0; i < 10; i++ {
		genes[fmt.Sprintf("X%d", i)] = struct{}{}
	}
	n := len(genes)
	require.Greater(t, n*(n-1)/2, len(props))
	scanned := SelectTerm("T", genes, props)

	small := make(Properties)
	for _, p := range props.Pairs() {
		small[p] = props[p]
	}
	for i := 0; i < n*n; i++ {
		small[NewPair(fmt.Sprintf("Y%d", i), "Z")] = PairProperty{}
	}
	require.LessOrEqual(t, n*(n-1)/2, len(small))
	looked := SelectTerm("T", genes, small)

	assert.Equal(t, scanned, looked)
}

func TestSelectParallelMatchesSequential(t *testing.T) {
	go2genes, props := selectFixture(t)
	want, err := Selector{Workers: 1}.Select(context.Background(), go2genes, props)
	require.NoError(t, err)
	for _, workers := range []int{0, 2, 8} {
		got, err := Selector{Workers: workers}.Select(context.Background(), go2genes, props)
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers=%d", workers)
	}
}

func TestSelectLiveContext(t *testing.T) {
	go2genes, props := selectFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for i := 0; i < 2; i++ {
		got, err := Selector{Workers: 4}.Select(ctx, go2genes, props)
		require.NoError(t, err, "call %d", i)
		assert.Len(t, got, 3, "call %d", i)
		assert.NoError(t, ctx.Err(), "caller context done after call %d", i)
	}
}

func TestSelectCancelled(t *testing.T) {
	go2genes, props := selectFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Selector{}.Select(ctx, go2genes, props)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNetworkInputString(t *testing.T) {
	go2genes, props := selectFixture(t)
	in := SelectTerm("GO:2", go2genes["GO:2"], props)

	const want = `GO:2 genes=2 pairs=1
	A|B directed=true reverse_directed=true forward=map[Activation:2 Phosphorylation:6] reverse=map[Activation:7] undirected=map[Complex:1]
`
	got := in.String()
	if got != want {
		var buf strings.Builder
		err := diff.Text("got", "want", got, want, &buf)
		require.NoError(t, err)
		t.Errorf("unexpected rendering:\n%s", buf.String())
	}

	edges := in.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, Pair{"A", "B"}, edges[0].Pair())
}

func TestAssemble(t *testing.T) {
	go2genes, props := selectFixture(t)
	inputs, err := Selector{}.Select(context.Background(), go2genes, props)
	require.NoError(t, err)

	var got []string
	err = Assemble(context.Background(), inputs, AssemblerFunc(func(_ context.Context, in NetworkInput) error {
		got = append(got, in.Term)
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"GO:1", "GO:2", "GO:5"}, got)

	errBoom := errors.New("boom")
	err = Assemble(context.Background(), inputs, AssemblerFunc(func(_ context.Context, in NetworkInput) error {
		return errBoom
	}))
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "GO:1")
}
