// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonets

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const scannerBufferSize = 1 << 20

// oboTerm is a [Term] stanza.
type oboTerm struct {
	id, name, namespace string
	obsolete            bool
	relations           [][2]string // kind, parent
}

// ReadOBO returns an ontology read from an OBO 1.2/1.4 document. Only
// relations with a kind in kinds are retained; if kinds is empty, is_a
// and part_of relations are retained. Obsolete terms are omitted.
func ReadOBO(r io.Reader, kinds ...string) (*Ontology, error) {
	keep := relationSet(kinds)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, scannerBufferSize), scannerBufferSize)

	var (
		terms   []oboTerm
		cur     *oboTerm
		lineNum int
	)
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '!' {
			continue
		}
		if line[0] == '[' {
			cur = nil
			if line == "[Term]" {
				terms = append(terms, oboTerm{})
				cur = &terms[len(terms)-1]
			}
			continue
		}
		if cur == nil {
			// Header or non-Term stanza.
			continue
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		val = stripOBOComment(strings.TrimSpace(val))
		switch key {
		case "id":
			cur.id = val
		case "name":
			cur.name = val
		case "namespace":
			cur.namespace = val
		case "is_obsolete":
			cur.obsolete = val == "true"
		case "is_a":
			cur.relations = append(cur.relations, [2]string{IsA, firstField(val)})
		case "relationship":
			f := strings.Fields(val)
			if len(f) < 2 {
				return nil, fmt.Errorf("gonets: malformed relationship at line %d: %q", lineNum, line)
			}
			cur.relations = append(cur.relations, [2]string{f[0], f[1]})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("gonets: reading obo: %w", err)
	}

	o := NewOntology()
	obsolete := make(map[string]bool)
	for _, t := range terms {
		if t.id == "" {
			continue
		}
		if t.obsolete {
			obsolete[t.id] = true
			continue
		}
		o.AddTerm(t.id, t.name, t.namespace)
	}
	for _, t := range terms {
		if t.obsolete {
			continue
		}
		for _, rel := range t.relations {
			kind, parent := rel[0], rel[1]
			if !keep[kind] || obsolete[parent] {
				continue
			}
			err := o.AddRelation(t.id, parent, kind)
			if err != nil {
				return nil, err
			}
		}
	}
	return o, nil
}

// stripOBOComment removes a trailing "! comment" and any trailing
// modifiers from an OBO tag value.
func stripOBOComment(val string) string {
	if i := strings.Index(val, " !"); i >= 0 {
		val = val[:i]
	}
	if i := strings.Index(val, " {"); i >= 0 {
		val = val[:i]
	}
	return strings.TrimSpace(val)
}

func firstField(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

func relationSet(kinds []string) map[string]bool {
	if len(kinds) == 0 {
		kinds = []string{IsA, PartOf}
	}
	keep := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		keep[k] = true
	}
	return keep
}
