// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonets

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// NetworkInput is the induced pair property subnetwork for an ontology term.
type NetworkInput struct {
	Term  string   `json:"term"`
	Genes []string `json:"genes"`

	// Pairs holds the properties of every pair with both genes
	// in Genes.
	Pairs Properties `json:"-"`
}

// Edges returns the pair properties of the input in lexical pair order.
func (n NetworkInput) Edges() []PairProperty {
	pairs := n.Pairs.Pairs()
	edges := make([]PairProperty, len(pairs))
	for i, p := range pairs {
		edges[i] = n.Pairs[p]
	}
	return edges
}

// String returns a line oriented rendering of the input with pairs
// in lexical order.
func (n NetworkInput) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s genes=%d pairs=%d\n", n.Term, len(n.Genes), len(n.Pairs))
	for _, p := range n.Pairs.Pairs() {
		prop := n.Pairs[p]
		fmt.Fprintf(&buf, "\t%s directed=%t reverse_directed=%t", p, prop.Directed, prop.ReverseDirected)
		for _, d := range []Direction{Forward, Reverse, Undirected} {
			ev := prop.Evidence(d)
			if len(ev) == 0 {
				continue
			}
			fmt.Fprintf(&buf, " %s=%v", d, ev)
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

// Selector extracts per-term induced subnetworks from a pair property index.
type Selector struct {
	// Workers is the number of terms processed concurrently.
	// If zero, GOMAXPROCS is used.
	Workers int

	// Logger receives per-term progress. If nil, nothing is logged.
	Logger *log.Logger
}

// Select returns the network inputs for the terms of go2genes that have at
// least one pair in props, sorted by term. The go2genes and props maps are
// read concurrently and must not be mutated during the call. Select
// returns early with the context's error if ctx is cancelled.
func (s Selector) Select(ctx context.Context, go2genes Go2Genes, props Properties) ([]NetworkInput, error) {
	terms := go2genes.Terms()
	results := make([]NetworkInput, len(terms))

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, term := range terms {
		i, term := i, term
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = SelectTerm(term, go2genes[term], props)
			if s.Logger != nil {
				n := len(results[i].Pairs)
				if n == 0 {
					s.Logger.Printf("no statements for %s", term)
				} else {
					s.Logger.Printf("%s: %d genes, %d pairs", term, len(results[i].Genes), n)
				}
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		// The group context is always done after Wait, so only
		// cancellation of the parent is reported here.
		err = ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	kept := results[:0]
	for _, r := range results {
		if len(r.Pairs) != 0 {
			kept = append(kept, r)
		}
	}
	return kept, nil
}

// SelectTerm returns the network input for a single term. The returned
// input has no pairs if no pair of genes has a property in props.
func SelectTerm(term string, genes GeneSet, props Properties) NetworkInput {
	in := NetworkInput{Term: term, Genes: genes.Sorted()}
	n := len(in.Genes)
	sub := make(Properties)
	if n*(n-1)/2 > len(props) {
		// Fewer lookups are needed scanning the index.
		for p, prop := range props {
			if genes.Has(p.A) && genes.Has(p.B) {
				sub[p] = prop
			}
		}
	} else {
		for i, a := range in.Genes {
			for _, b := range in.Genes[i+1:] {
				p := NewPair(a, b)
				if prop, ok := props[p]; ok {
					sub[p] = prop
				}
			}
		}
	}
	if len(sub) != 0 {
		in.Pairs = sub
	}
	return in
}

// Assembler turns a network input into a network representation.
type Assembler interface {
	Assemble(context.Context, NetworkInput) error
}

// AssemblerFunc is an adapter to allow the use of ordinary functions
// as Assemblers.
type AssemblerFunc func(context.Context, NetworkInput) error

// Assemble calls f(ctx, in).
func (f AssemblerFunc) Assemble(ctx context.Context, in NetworkInput) error { return f(ctx, in) }

// Assemble passes each input to asm in order, stopping at the first error
// or when ctx is cancelled.
func Assemble(ctx context.Context, inputs []NetworkInput, asm Assembler) error {
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := asm.Assemble(ctx, in); err != nil {
			return fmt.Errorf("gonets: assembling %s: %w", in.Term, err)
		}
	}
	return nil
}
