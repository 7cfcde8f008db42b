// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kortschak/gonets"
	"github.com/kortschak/gonets/internal/fsutil"
)

// Dir is a Store holding one JSON file per run key in a directory.
type Dir string

func (d Dir) path(key string) string {
	return filepath.Join(string(d), "props-"+filepath.Base(key)+".json")
}

// Load returns the index stored for key.
func (d Dir) Load(_ context.Context, key string) (gonets.Properties, bool, error) {
	b, err := os.ReadFile(d.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var recs []gonets.PairProperty
	err = json.Unmarshal(b, &recs)
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", d.path(key), err)
	}
	return index(recs), true, nil
}

// Save stores props for key. The file is replaced atomically.
func (d Dir) Save(_ context.Context, key string, props gonets.Properties) error {
	return fsutil.WriteJSONAtomic(d.path(key), records(props))
}
