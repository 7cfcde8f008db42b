// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonets

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/graph/formats/rdf"
)

// owlVocabulary holds the IRIs used to read a GO OWL rendering in either the
// qualified name prefix or the globally namespaced form.
type owlVocabulary struct {
	goTerm       string
	subClassOf   string
	label        string
	namespace    string
	deprecated   string
	onProperty   string
	someValues   string
	partOf       string
	w3True       string
	w3TrueSimple string
}

var (
	local = owlVocabulary{
		goTerm:       "<obo:GO_",
		subClassOf:   "<rdfs:subClassOf>",
		label:        "<rdfs:label>",
		namespace:    "<oboInOwl:hasOBONamespace>",
		deprecated:   "<owl:deprecated>",
		onProperty:   "<owl:onProperty>",
		someValues:   "<owl:someValuesFrom>",
		partOf:       "<obo:BFO_0000050>",
		w3True:       `"true"^^<xsd:boolean>`,
		w3TrueSimple: `"true"`,
	}
	global = owlVocabulary{
		goTerm:       "<http://purl.obolibrary.org/obo/GO_",
		subClassOf:   "<http://www.w3.org/2000/01/rdf-schema#subClassOf>",
		label:        "<http://www.w3.org/2000/01/rdf-schema#label>",
		namespace:    "<http://www.geneontology.org/formats/oboInOwl#hasOBONamespace>",
		deprecated:   "<http://www.w3.org/2002/07/owl#deprecated>",
		onProperty:   "<http://www.w3.org/2002/07/owl#onProperty>",
		someValues:   "<http://www.w3.org/2002/07/owl#someValuesFrom>",
		partOf:       "<http://purl.obolibrary.org/obo/BFO_0000050>",
		w3True:       `"true"^^<http://www.w3.org/2001/XMLSchema#boolean>`,
		w3TrueSimple: `"true"`,
	}
)

// ReadRDF returns an ontology read from an N-Triples rendering of the GO
// OWL file. Subclass statements between GO terms are is_a relations and
// subclass restrictions on BFO_0000050 are part_of relations. Only
// relations with a kind in kinds are retained; if kinds is empty, is_a
// and part_of relations are retained. Deprecated terms are omitted.
func ReadRDF(r io.Reader, kinds ...string) (*Ontology, error) {
	keep := relationSet(kinds)

	var (
		voc      *owlVocabulary
		subClass = make(map[string][]string)
		onProp   = make(map[string]string)
		someVals = make(map[string]string)
		names    = make(map[string]string)
		spaces   = make(map[string]string)
		dep      = make(map[string]bool)
	)
	dec := rdf.NewDecoder(r)
	for {
		s, err := dec.Unmarshal()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("gonets: error during decoding: %w", err)
		}
		if voc == nil {
			switch {
			case strings.HasPrefix(s.Predicate.Value, "<http:"):
				voc = &global
			case strings.HasPrefix(s.Predicate.Value, "<"):
				voc = &local
			}
		}
		if voc == nil {
			continue
		}

		subj := s.Subject.Value
		switch s.Predicate.Value {
		case voc.subClassOf:
			subClass[subj] = append(subClass[subj], s.Object.Value)
		case voc.onProperty:
			onProp[subj] = s.Object.Value
		case voc.someValues:
			someVals[subj] = s.Object.Value
		case voc.label:
			names[subj] = literal(s.Object)
		case voc.namespace:
			spaces[subj] = literal(s.Object)
		case voc.deprecated:
			dep[subj] = s.Object.Value == voc.w3True || s.Object.Value == voc.w3TrueSimple
		}
	}

	o := NewOntology()
	if voc == nil {
		return o, nil
	}
	for iri, ns := range spaces {
		if !strings.HasPrefix(iri, voc.goTerm) || dep[iri] {
			continue
		}
		o.AddTerm(voc.termID(iri), names[iri], ns)
	}
	for child, parents := range subClass {
		if !strings.HasPrefix(child, voc.goTerm) || dep[child] {
			continue
		}
		for _, p := range parents {
			kind := IsA
			if !strings.HasPrefix(p, voc.goTerm) {
				// Only part_of restrictions on blank nodes are
				// considered.
				if onProp[p] != voc.partOf {
					continue
				}
				kind = PartOf
				p = someVals[p]
			}
			if !keep[kind] || !strings.HasPrefix(p, voc.goTerm) || dep[p] {
				continue
			}
			err := o.AddRelation(voc.termID(child), voc.termID(p), kind)
			if err != nil {
				return nil, err
			}
		}
	}
	return o, nil
}

// termID returns the GO:nnnnnnn form of a GO term IRI.
func (v *owlVocabulary) termID(iri string) string {
	return "GO:" + strings.TrimSuffix(strings.TrimPrefix(iri, v.goTerm), ">")
}

// literal returns the text of an RDF literal term, or its raw value if it
// cannot be parsed.
func literal(t rdf.Term) string {
	text, _, kind, err := t.Parts()
	if err != nil || kind != rdf.Literal {
		return t.Value
	}
	return text
}
