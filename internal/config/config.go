// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads gonets run configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/kortschak/gonets"
)

type Config struct {
	SIFPath      string
	GAFPath      string
	OntologyPath string
	NameMapPath  string
	OutPath      string

	CacheDir    string
	PostgresURL string
	RunKey      string

	Namespace     string
	GeneNamespace string
	Relations     []string

	DirectedTypes   []string
	UndirectedTypes []string

	Workers      int
	StrictHashes bool
}

func Load() Config {
	return Config{
		SIFPath:      getenv("GONETS_SIF", "sif.tsv.gz"),
		GAFPath:      getenv("GONETS_GAF", "goa_human.gaf.gz"),
		OntologyPath: getenv("GONETS_ONTOLOGY", "go.obo"),
		NameMapPath:  getenv("GONETS_NAME_MAP", ""),
		OutPath:      getenv("GONETS_OUT", "networks.jsonl"),

		CacheDir:    getenv("GONETS_CACHE_DIR", ""),
		PostgresURL: getenv("GONETS_POSTGRES_URL", ""),
		RunKey:      getenv("GONETS_RUN_KEY", ""),

		Namespace:     getenv("GONETS_NAMESPACE", gonets.BiologicalProcess),
		GeneNamespace: getenv("GONETS_GENE_NAMESPACE", "HGNC"),
		Relations:     getenvList("GONETS_RELATIONS", []string{gonets.IsA, gonets.PartOf}),

		DirectedTypes:   getenvList("GONETS_DIRECTED_TYPES", gonets.DefaultDirectedTypes),
		UndirectedTypes: getenvList("GONETS_UNDIRECTED_TYPES", gonets.DefaultUndirectedTypes),

		Workers:      getenvInt("GONETS_WORKERS", 0),
		StrictHashes: getenvBool("GONETS_STRICT_HASHES", false),
	}
}

func getenv(k, fallback string) string {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(k string, fallback bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// getenvList returns the comma separated, non-empty elements of the
// variable k.
func getenvList(k string, fallback []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	var list []string
	for _, e := range strings.Split(v, ",") {
		e = strings.TrimSpace(e)
		if e != "" {
			list = append(list, e)
		}
	}
	return list
}
