// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gonets builds Gene Ontology term subnetworks from pairwise
// interaction statements.
//
// Statement rows are aggregated into a Properties index keyed by canonical
// gene Pair, genes annotated to an Ontology are propagated to every
// ancestor term by Closure, and a Selector extracts, for each term, the
// pair properties induced by the term's genes.
package gonets
