// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// sifColumns are the required statement table columns.
var sifColumns = []string{
	"agA_ns", "agA_id", "agA_name",
	"agB_ns", "agB_id", "agB_name",
	"stmt_type", "evidence_count", "stmt_hash",
}

// ReadSIF reads a tab separated statement table with a header row naming
// at least the columns agA_ns, agA_id, agA_name, agB_ns, agB_id, agB_name,
// stmt_type, evidence_count and stmt_hash in any order. Rows that cannot
// be parsed are skipped and counted.
func ReadSIF(r io.Reader) (rows []Row, skipped int, err error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("gonets: reading sif header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	idx := make([]int, len(sifColumns))
	for i, c := range sifColumns {
		j, ok := col[c]
		if !ok {
			return nil, 0, fmt.Errorf("gonets: sif missing column %q", c)
		}
		idx[i] = j
	}

	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skipped++
				continue
			}
			return nil, skipped, fmt.Errorf("gonets: reading sif: %w", err)
		}
		row, ok := parseSIFRecord(rec, idx)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

func parseSIFRecord(rec []string, idx []int) (Row, bool) {
	for _, j := range idx {
		if j >= len(rec) {
			return Row{}, false
		}
	}
	ev, err := strconv.Atoi(rec[idx[7]])
	if err != nil {
		// Evidence counts are sometimes written as floats.
		f, ferr := strconv.ParseFloat(rec[idx[7]], 64)
		if ferr != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
			return Row{}, false
		}
		ev = int(f)
	}
	hash, err := strconv.ParseInt(rec[idx[8]], 10, 64)
	if err != nil {
		return Row{}, false
	}
	return Row{
		SubjectNS:   rec[idx[0]],
		SubjectID:   rec[idx[1]],
		SubjectName: rec[idx[2]],
		ObjectNS:    rec[idx[3]],
		ObjectID:    rec[idx[4]],
		ObjectName:  rec[idx[5]],
		Type:        rec[idx[6]],
		Evidence:    ev,
		Hash:        hash,
	}, true
}
