// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonets_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/kortschak/gonets"
)

func ExampleAggregate() {
	rows := []gonets.Row{
		{SubjectNS: "HGNC", SubjectID: "6840", SubjectName: "MAP2K1", ObjectNS: "HGNC", ObjectID: "1097", ObjectName: "BRAF", Type: "Inhibition", Hash: 2, Evidence: 5},
		{SubjectNS: "HGNC", SubjectID: "1097", SubjectName: "BRAF", ObjectNS: "HGNC", ObjectID: "6840", ObjectName: "MAP2K1", Type: "Phosphorylation", Hash: 1, Evidence: 12},
		{SubjectNS: "HGNC", SubjectID: "1097", SubjectName: "BRAF", ObjectNS: "HGNC", ObjectID: "6840", ObjectName: "MAP2K1", Type: "Phosphorylation", Hash: 1, Evidence: 12},
		{SubjectNS: "HGNC", SubjectID: "1097", SubjectName: "BRAF", ObjectNS: "HGNC", ObjectID: "6840", ObjectName: "MAP2K1", Type: "Complex", Hash: 3, Evidence: 1},
	}

	props, report, err := gonets.Aggregate(rows, gonets.DefaultVocabulary(), false, nil)
	if err != nil {
		log.Fatal(err)
	}
	p := props[gonets.NewPair("MAP2K1", "BRAF")]
	fmt.Printf("%s:%s directed=%t reverse_directed=%t\n", p.A.NS, p.A.ID, p.Directed, p.ReverseDirected)
	fmt.Println("forward:", p.Forward)
	fmt.Println("reverse:", p.Reverse)
	fmt.Println("undirected:", p.Undirected)
	fmt.Println("duplicate rows:", report.Duplicates)

	// Output:
	//
	// HGNC:1097 directed=true reverse_directed=true
	// forward: map[Phosphorylation:12]
	// reverse: map[Inhibition:5]
	// undirected: map[Complex:1]
	// duplicate rows: 1
}

func ExampleGenesByTerm() {
	// Genes annotated to a specific process are visible at every
	// more general process.
	o, err := gonets.ReadOBO(strings.NewReader(`[Term]
id: GO:0008150
name: biological_process
namespace: biological_process

[Term]
id: GO:0000165
name: MAPK cascade
namespace: biological_process
is_a: GO:0008150 ! biological_process
`))
	if err != nil {
		log.Fatal(err)
	}
	annots := []gonets.Annotation{
		{ID: "P15056", Symbol: "BRAF", Term: "GO:0000165"},
		{ID: "Q02750", Symbol: "MAP2K1", Term: "GO:0000165"},
		{ID: "P04637", Symbol: "TP53", Term: "GO:0008150"},
	}
	go2genes, _, err := gonets.GenesByTerm(o, annots, gonets.ClosureOptions{Namespace: gonets.BiologicalProcess})
	if err != nil {
		log.Fatal(err)
	}
	for _, term := range go2genes.Terms() {
		fmt.Println(term, go2genes[term].Sorted())
	}

	// Output:
	//
	// GO:0000165 [BRAF MAP2K1]
	// GO:0008150 [BRAF MAP2K1 TP53]
}

func ExampleSelector() {
	rows := []gonets.Row{
		{SubjectNS: "HGNC", SubjectID: "1097", SubjectName: "BRAF", ObjectNS: "HGNC", ObjectID: "6840", ObjectName: "MAP2K1", Type: "Phosphorylation", Hash: 1, Evidence: 12},
	}
	props, _, err := gonets.Aggregate(rows, gonets.DefaultVocabulary(), false, nil)
	if err != nil {
		log.Fatal(err)
	}
	go2genes := gonets.Go2Genes{
		"GO:0000165": gonets.NewGeneSet("BRAF", "MAP2K1"),
		"GO:0006915": gonets.NewGeneSet("TP53", "BRAF"),
	}

	// Terms with no statements between their genes are not returned.
	inputs, err := gonets.Selector{}.Select(context.Background(), go2genes, props)
	if err != nil {
		log.Fatal(err)
	}
	for _, in := range inputs {
		fmt.Print(in)
	}

	// Output:
	//
	// GO:0000165 genes=2 pairs=1
	// 	BRAF|MAP2K1 directed=true reverse_directed=false forward=map[Phosphorylation:12]
}
