// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The gonets command builds per-GO-term interaction subnetworks from
// a statement table and a GO annotation set.
package main

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/kortschak/gonets"
	"github.com/kortschak/gonets/cache"
	"github.com/kortschak/gonets/internal/config"
	"github.com/kortschak/gonets/internal/fsutil"
)

// network is the output record for a term.
type network struct {
	Term  string                `json:"term"`
	Genes []string              `json:"genes"`
	Edges []gonets.PairProperty `json:"edges"`
}

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	runID := uuid.New()
	logger.SetPrefix(runID.String()[:8] + " ")

	err := run(ctx, cfg, logger)
	if err != nil {
		logger.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	vocab, err := gonets.NewVocabulary(cfg.DirectedTypes, cfg.UndirectedTypes)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	key := cfg.RunKey
	if key == "" {
		key, err = runKey(cfg)
		if err != nil {
			return err
		}
	}
	logger.Printf("run key %s", key)

	props, loaded, err := cache.LoadOrCompute(ctx, store, key, func() (gonets.Properties, error) {
		return aggregate(cfg, vocab, logger)
	})
	if err != nil {
		return err
	}
	if loaded {
		logger.Printf("loaded %d pair properties from cache", len(props))
	}

	o, err := readOntology(cfg.OntologyPath, cfg.Relations)
	if err != nil {
		return err
	}
	logger.Printf("read %d ontology terms", o.Len())

	opts := gonets.ClosureOptions{Namespace: cfg.Namespace}
	if cfg.NameMapPath != "" {
		var names gonets.NameMap
		err = withReader(cfg.NameMapPath, func(r io.Reader) error {
			names, err = gonets.ReadNameMap(r)
			return err
		})
		if err != nil {
			return err
		}
		opts.Namer = names
	}
	var annots []gonets.Annotation
	err = withReader(cfg.GAFPath, func(r io.Reader) error {
		var skipped int
		annots, skipped, err = gonets.ReadGAF(r)
		if skipped != 0 {
			logger.Printf("skipped %d malformed annotation lines", skipped)
		}
		return err
	})
	if err != nil {
		return err
	}
	go2genes, report, err := gonets.GenesByTerm(o, annots, opts)
	if err != nil {
		return err
	}
	logger.Printf("%d terms with genes from %d annotations (filtered=%d unknown=%d other_namespace=%d unnamed=%d)",
		len(go2genes), report.Annotations, report.Filtered, report.UnknownTerms, report.OtherNamespace, report.Unnamed)

	sel := gonets.Selector{Workers: cfg.Workers, Logger: logger}
	inputs, err := sel.Select(ctx, go2genes, props)
	if err != nil {
		return err
	}
	logger.Printf("%d of %d terms have networks", len(inputs), len(go2genes))

	var out []network
	err = gonets.Assemble(ctx, inputs, gonets.AssemblerFunc(func(_ context.Context, in gonets.NetworkInput) error {
		out = append(out, network{Term: in.Term, Genes: in.Genes, Edges: in.Edges()})
		return nil
	}))
	if err != nil {
		return err
	}
	return fsutil.WriteJSONLinesAtomic(cfg.OutPath, out)
}

func aggregate(cfg config.Config, vocab *gonets.Vocabulary, logger *log.Logger) (gonets.Properties, error) {
	var rows []gonets.Row
	err := withReader(cfg.SIFPath, func(r io.Reader) error {
		var (
			skipped int
			err     error
		)
		rows, skipped, err = gonets.ReadSIF(r)
		if skipped != 0 {
			logger.Printf("skipped %d malformed statement lines", skipped)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	n := len(rows)
	rows = gonets.FilterRows(rows, gonets.InNamespace(cfg.GeneNamespace), gonets.NoSelfLoops)
	logger.Printf("using %d of %d statement rows", len(rows), n)

	props, report, err := gonets.Aggregate(rows, vocab, cfg.StrictHashes, logger)
	if err != nil {
		return nil, err
	}
	logger.Printf("aggregated %d pairs: duplicates=%d type_conflicts=%d ambiguous_entities=%d unresolved_pairs=%d skipped=%d",
		len(props), report.Duplicates, report.TypeConflicts, report.AmbiguousEntities, report.UnresolvedPairs, report.Skipped())
	return props, nil
}

func openStore(ctx context.Context, cfg config.Config) (cache.Store, func(), error) {
	switch {
	case cfg.PostgresURL != "":
		pg, err := cache.NewPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	case cfg.CacheDir != "":
		return cache.Dir(cfg.CacheDir), func() {}, nil
	default:
		return noStore{}, func() {}, nil
	}
}

// noStore is a cache.Store that never holds an index.
type noStore struct{}

func (noStore) Load(context.Context, string) (gonets.Properties, bool, error) { return nil, false, nil }
func (noStore) Save(context.Context, string, gonets.Properties) error         { return nil }

// runKey returns a cache key derived from the statement table's identity
// and the settings that change aggregation.
func runKey(cfg config.Config) (string, error) {
	fi, err := os.Stat(cfg.SIFPath)
	if err != nil {
		return "", err
	}
	return cache.Key(
		cfg.SIFPath,
		strconv.FormatInt(fi.Size(), 10),
		fi.ModTime().UTC().String(),
		cfg.GeneNamespace,
		strings.Join(cfg.DirectedTypes, ","),
		strings.Join(cfg.UndirectedTypes, ","),
	), nil
}

func readOntology(path string, relations []string) (*gonets.Ontology, error) {
	var o *gonets.Ontology
	err := withReader(path, func(r io.Reader) error {
		var err error
		switch base := strings.TrimSuffix(path, ".gz"); {
		case strings.HasSuffix(base, ".obo"):
			o, err = gonets.ReadOBO(r, relations...)
		case strings.HasSuffix(base, ".nt"):
			o, err = gonets.ReadRDF(r, relations...)
		default:
			err = fmt.Errorf("unknown ontology format: %s", path)
		}
		return err
	})
	return o, err
}

// withReader calls fn with the contents of the file at path, decompressing
// it if the path has a .gz suffix.
func withReader(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	err = fn(r)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
