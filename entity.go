// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonets

import "log"

// EntityResolver maps gene names to the first namespace and ID observed
// for them. An EntityResolver is constructed once per run and is not
// safe for concurrent mutation.
type EntityResolver struct {
	entities map[string]Entity

	// Ambiguous counts observations of a name with a namespace
	// and ID differing from the first seen.
	Ambiguous int

	logger *log.Logger
}

// NewEntityResolver returns an empty resolver. If logger is not nil,
// ambiguous mappings are logged to it.
func NewEntityResolver(logger *log.Logger) *EntityResolver {
	return &EntityResolver{entities: make(map[string]Entity), logger: logger}
}

// Observe records the identity of e. Entities without a namespace or ID
// are ignored.
func (r *EntityResolver) Observe(e Entity) {
	if e.Name == "" || e.NS == "" || e.ID == "" {
		return
	}
	old, ok := r.entities[e.Name]
	if !ok {
		r.entities[e.Name] = e
		return
	}
	if old.NS != e.NS || old.ID != e.ID {
		r.Ambiguous++
		if r.logger != nil {
			r.logger.Printf("ambiguous entity %s: using %s:%s, ignoring %s:%s", e.Name, old.NS, old.ID, e.NS, e.ID)
		}
	}
}

// Resolve returns the entity for name if it has been observed.
func (r *EntityResolver) Resolve(name string) (Entity, bool) {
	e, ok := r.entities[name]
	return e, ok
}

// Len returns the number of resolvable names.
func (r *EntityResolver) Len() int { return len(r.entities) }
