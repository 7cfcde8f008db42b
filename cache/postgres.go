// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kortschak/gonets"
)

const schema = `
CREATE TABLE IF NOT EXISTS property_runs (
	run_key      text PRIMARY KEY,
	pairs        integer NOT NULL,
	completed_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS pair_properties (
	run_key  text NOT NULL,
	a_name   text NOT NULL,
	b_name   text NOT NULL,
	property jsonb NOT NULL,
	PRIMARY KEY (run_key, a_name, b_name)
);`

// Postgres is a Store backed by a PostgreSQL database. An index is only
// visible to Load once its run row has been committed with it.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres connects to the database at dsn and ensures the cache
// tables exist.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	_, err = pool.Exec(ctx, schema)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &Postgres{Pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}

// Load returns the index stored for key.
func (p *Postgres) Load(ctx context.Context, key string) (gonets.Properties, bool, error) {
	var n int
	err := p.Pool.QueryRow(ctx, `SELECT pairs FROM property_runs WHERE run_key=$1`, key).Scan(&n)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("query run: %w", err)
	}
	rows, err := p.Pool.Query(ctx, `SELECT property FROM pair_properties WHERE run_key=$1`, key)
	if err != nil {
		return nil, false, fmt.Errorf("query pair properties: %w", err)
	}
	defer rows.Close()
	props := make(gonets.Properties, n)
	for rows.Next() {
		var b []byte
		if err := rows.Scan(&b); err != nil {
			return nil, false, err
		}
		var prop gonets.PairProperty
		if err := json.Unmarshal(b, &prop); err != nil {
			return nil, false, fmt.Errorf("decode pair property: %w", err)
		}
		props[prop.Pair()] = prop
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(props) != n {
		return nil, false, fmt.Errorf("run %s has %d pair properties, expected %d", key, len(props), n)
	}
	return props, true, nil
}

// Save stores props for key in a single transaction.
func (p *Postgres) Save(ctx context.Context, key string, props gonets.Properties) error {
	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx, `DELETE FROM property_runs WHERE run_key=$1`, key)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	_, err = tx.Exec(ctx, `DELETE FROM pair_properties WHERE run_key=$1`, key)
	if err != nil {
		return fmt.Errorf("delete pair properties: %w", err)
	}

	recs := records(props)
	rows := make([][]any, len(recs))
	for i, r := range recs {
		b, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode pair property: %w", err)
		}
		rows[i] = []any{key, r.A.Name, r.B.Name, b}
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"pair_properties"},
		[]string{"run_key", "a_name", "b_name", "property"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy pair properties: %w", err)
	}
	_, err = tx.Exec(ctx, `INSERT INTO property_runs(run_key, pairs) VALUES ($1, $2)`, key, len(recs))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return tx.Commit(ctx)
}
