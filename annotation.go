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

// Annotation is a gene product to ontology term annotation.
type Annotation struct {
	DB        string
	ID        string
	Symbol    string
	Qualifier string
	Term      string
}

// Negated returns whether the annotation's qualifier marks it as a
// NOT annotation.
func (a Annotation) Negated() bool {
	return strings.HasPrefix(a.Qualifier, "NOT")
}

// AnnotationFilter reports whether an annotation should be retained.
type AnnotationFilter func(Annotation) bool

// NotNegated is an AnnotationFilter rejecting negated annotations.
func NotNegated(a Annotation) bool { return !a.Negated() }

// FilterAnnotations returns the annotations satisfying all the filters.
// The annotations slice is filtered in place.
func FilterAnnotations(annots []Annotation, filters ...AnnotationFilter) []Annotation {
	kept := annots[:0]
outer:
	for _, a := range annots {
		for _, keep := range filters {
			if !keep(a) {
				continue outer
			}
		}
		kept = append(kept, a)
	}
	return kept
}

// ReadGAF reads GAF 2.x annotation lines from r. Comment lines beginning
// with '!' are ignored. Lines with fewer than five columns or without an
// ID or term are skipped and counted.
func ReadGAF(r io.Reader) (annots []Annotation, skipped int, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, scannerBufferSize), scannerBufferSize)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || line[0] == '!' {
			continue
		}
		f := strings.Split(line, "\t")
		if len(f) < 5 || f[1] == "" || f[4] == "" {
			skipped++
			continue
		}
		annots = append(annots, Annotation{
			DB:        f[0],
			ID:        f[1],
			Symbol:    f[2],
			Qualifier: f[3],
			Term:      f[4],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, skipped, fmt.Errorf("gonets: reading gaf: %w", err)
	}
	return annots, skipped, nil
}

// GeneNamer maps an annotation to the gene name used in statement tables.
type GeneNamer interface {
	GeneName(Annotation) (name string, ok bool)
}

// Symbols is a GeneNamer that uses the annotation's symbol column.
type Symbols struct{}

// GeneName returns the symbol of a.
func (Symbols) GeneName(a Annotation) (string, bool) {
	return a.Symbol, a.Symbol != ""
}

// NameMap is a GeneNamer that looks up the annotation's database ID,
// for example mapping UniProt accessions to HGNC symbols.
type NameMap map[string]string

// GeneName returns the name mapped from the ID of a.
func (m NameMap) GeneName(a Annotation) (string, bool) {
	n, ok := m[a.ID]
	return n, ok && n != ""
}

// ReadNameMap reads a two column tab separated ID to gene name mapping.
// Lines beginning with '#' are ignored. When an ID is repeated, the first
// mapping is kept.
func ReadNameMap(r io.Reader) (NameMap, error) {
	m := make(NameMap)
	sc := bufio.NewScanner(r)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := sc.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		id, name, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("gonets: malformed name map line %d: %q", lineNum, line)
		}
		if _, exists := m[id]; !exists {
			m[id] = strings.TrimSpace(name)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("gonets: reading name map: %w", err)
	}
	return m, nil
}
