// Package config defines the indexer and querier argument sets and the
// on-disk .cfg/.cfg.yaml sidecars that record them.
//
// SATIRE's command-line surface uses name=value positional arguments
// (not GNU-style flags), mirroring the original arg tables. This
// package holds the argument defaults and range checks shared by
// cmd/satire-index and cmd/satire-query, plus the YAML twin of the
// plain-text .cfg sidecar the indexer writes alongside an index.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// IndexerConfig holds the resolved arguments for a build.
type IndexerConfig struct {
	InputFileName     string `yaml:"input_file_name"`
	OutputStem        string `yaml:"output_stem"`
	NumDocs           int    `yaml:"num_docs"`
	LowScoreCutoff    int    `yaml:"low_score_cutoff"`
	MaxQuantisedValue int    `yaml:"max_quantised_value"`
	Debug             int    `yaml:"debug"`
}

// DefaultIndexerConfig returns the indexer's documented defaults.
// InputFileName, OutputStem and NumDocs have no default: the caller
// must supply them.
func DefaultIndexerConfig() IndexerConfig {
	return IndexerConfig{
		LowScoreCutoff:    1,
		MaxQuantisedValue: 10000,
		Debug:             0,
	}
}

// Validate checks the indexer arguments against the documented ranges.
func (c IndexerConfig) Validate() error {
	if c.InputFileName == "" {
		return fmt.Errorf("inputFileName is required")
	}
	if c.OutputStem == "" {
		return fmt.Errorf("outputStem is required")
	}
	if c.NumDocs <= 0 {
		return fmt.Errorf("numDocs must be > 0, got %d", c.NumDocs)
	}
	if c.MaxQuantisedValue < 2 || c.MaxQuantisedValue > 65535 {
		return fmt.Errorf("maxQuantisedValue must lie in [2, 65535], got %d", c.MaxQuantisedValue)
	}
	if c.LowScoreCutoff < 0 {
		return fmt.Errorf("lowScoreCutoff must be non-negative, got %d", c.LowScoreCutoff)
	}
	return nil
}

// QuerierConfig holds the resolved arguments for a query session.
type QuerierConfig struct {
	IndexStem           string `yaml:"index_stem"`
	NumDocs             int    `yaml:"num_docs"`
	K                   int    `yaml:"k"`
	LowScoreCutoff      int    `yaml:"low_score_cutoff"`
	PostingsCountCutoff int    `yaml:"postings_count_cutoff"`
	Debug               int    `yaml:"debug"`
	ExplainCounters     bool   `yaml:"explain_counters"`
	VocabCacheSize      int    `yaml:"vocab_cache_size"`
}

// DefaultQuerierConfig returns the querier's documented defaults.
// IndexStem and NumDocs have no default: the caller must supply them.
func DefaultQuerierConfig() QuerierConfig {
	return QuerierConfig{
		K:                   10,
		LowScoreCutoff:      1,
		PostingsCountCutoff: 0,
		Debug:               0,
		ExplainCounters:     false,
		VocabCacheSize:      0,
	}
}

// Validate checks the querier arguments against the documented ranges.
func (c QuerierConfig) Validate() error {
	if c.IndexStem == "" {
		return fmt.Errorf("indexStem is required")
	}
	if c.NumDocs <= 0 {
		return fmt.Errorf("numDocs must be > 0, got %d", c.NumDocs)
	}
	if c.K < 1 {
		return fmt.Errorf("k must be >= 1, got %d", c.K)
	}
	if c.LowScoreCutoff < 0 {
		return fmt.Errorf("lowScoreCutoff must be non-negative, got %d", c.LowScoreCutoff)
	}
	if c.PostingsCountCutoff < 0 {
		return fmt.Errorf("postingsCountCutoff must be non-negative, got %d", c.PostingsCountCutoff)
	}
	if c.VocabCacheSize < 0 {
		return fmt.Errorf("vocabCacheSize must be non-negative, got %d", c.VocabCacheSize)
	}
	return nil
}

// sidecarDocument is the shape written to both the .cfg (key = value
// text) and .cfg.yaml (structured) sidecars. It mirrors the full
// argument table, including defaulted arguments the user never set,
// the same way the original arg tables echo every known argument back
// to the log at startup.
type sidecarDocument struct {
	BuiltAt           string `yaml:"built_at"`
	InputFileName     string `yaml:"input_file_name"`
	OutputStem        string `yaml:"output_stem"`
	NumDocs           int    `yaml:"num_docs"`
	LowScoreCutoff    int    `yaml:"low_score_cutoff"`
	MaxQuantisedValue int    `yaml:"max_quantised_value"`
	Debug             int    `yaml:"debug"`
}

// WriteCfg writes the plain-text stem.cfg sidecar: one "key = value"
// line per argument, in table order. Not consumed by the querier — it
// exists for operators inspecting an index on disk.
func WriteCfg(path string, c IndexerConfig, builtAt time.Time) error {
	lines := fmt.Sprintf(
		"inputFileName = %s\noutputStem = %s\nnumDocs = %d\nlowScoreCutoff = %d\nmaxQuantisedValue = %d\ndebug = %d\nbuiltAt = %s\n",
		c.InputFileName, c.OutputStem, c.NumDocs, c.LowScoreCutoff, c.MaxQuantisedValue, c.Debug,
		builtAt.UTC().Format(time.RFC3339),
	)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		return fmt.Errorf("failed to write cfg file %s: %w", path, err)
	}
	return nil
}

// WriteCfgYAML writes the structured stem.cfg.yaml twin of stem.cfg.
// This is a supplement beyond the plain-text sidecar: it lets tooling
// parse build arguments without a custom key=value scanner.
func WriteCfgYAML(path string, c IndexerConfig, builtAt time.Time) error {
	doc := sidecarDocument{
		BuiltAt:           builtAt.UTC().Format(time.RFC3339),
		InputFileName:     c.InputFileName,
		OutputStem:        c.OutputStem,
		NumDocs:           c.NumDocs,
		LowScoreCutoff:    c.LowScoreCutoff,
		MaxQuantisedValue: c.MaxQuantisedValue,
		Debug:             c.Debug,
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal cfg yaml: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cfg yaml file %s: %w", path, err)
	}
	return nil
}

// ReadCfgYAML reads back a stem.cfg.yaml sidecar, e.g. for an
// operator tool that wants to confirm how an index was built without
// re-deriving numDocs from the vocab.
func ReadCfgYAML(path string) (IndexerConfig, time.Time, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return IndexerConfig{}, time.Time{}, fmt.Errorf("failed to read cfg yaml %s: %w", path, err)
	}
	var doc sidecarDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return IndexerConfig{}, time.Time{}, fmt.Errorf("failed to parse cfg yaml %s: %w", path, err)
	}
	builtAt, err := time.Parse(time.RFC3339, doc.BuiltAt)
	if err != nil {
		builtAt = time.Time{}
	}
	cfg := IndexerConfig{
		InputFileName:     doc.InputFileName,
		OutputStem:        doc.OutputStem,
		NumDocs:           doc.NumDocs,
		LowScoreCutoff:    doc.LowScoreCutoff,
		MaxQuantisedValue: doc.MaxQuantisedValue,
		Debug:             doc.Debug,
	}
	return cfg, builtAt, nil
}
