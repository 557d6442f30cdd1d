// Package cmd implements the satire-query command line.
//
// Like satire-index, arguments are name=value tokens rather than GNU
// flags. Query lines are read from stdin, ranked results are written
// to stdout, and the per-query/global counter lines are written to
// stderr — so satire-query's own log output is never written to
// stderr, which would corrupt that contract.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/satirehq/satire/internal/argtable"
	"github.com/satirehq/satire/internal/config"
	satireerrors "github.com/satirehq/satire/internal/errors"
	"github.com/satirehq/satire/internal/logging"
	"github.com/satirehq/satire/pkg/querier"
	"github.com/satirehq/satire/pkg/version"
)

// NewRootCmd creates the satire-query root command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "satire-query indexStem=... numDocs=...",
		Short: "Answer ranked queries against a SATIRE index",
		Long: `satire-query memory-maps an index built by satire-index and answers
queryid\ttermid [SP termid]* lines read from stdin, writing ranked
results to stdout and the per-query/global diagnostic counters to
stderr.

Arguments are given as name=value, e.g.:

  satire-query indexStem=data/corpus numDocs=500000 k=10`,
		Version:           version.Version,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args)
		},
	}
	root.SetVersionTemplate(version.String("satire-query") + "\n")
	return root
}

// Execute runs the satire-query CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

func runQuery(cmd *cobra.Command, args []string) error {
	table := argtable.NewTable()
	indexStem := table.String("indexStem", "", "prefix of the .vocab/.if index files", true)
	numDocs := table.Int("numDocs", 0, "total number of documents (must equal the indexer's)", true)
	k := table.Int("k", 10, "number of ranked results per query", false)
	lowScoreCutoff := table.Int("lowScoreCutoff", 1, "ETM-1 low-score cutoff", false)
	postingsCountCutoff := table.Int("postingsCountCutoff", 0, "ETM-2 postings-count cutoff; 0 disables", false)
	debug := table.Int("debug", 0, "log verbosity (0=info, 2+=debug)", false)
	explainCounters := table.Bool("explainCounters", false, "print the counter legend to stderr after the final COUNTERS-GB line")
	vocabCacheSize := table.Int("vocabCacheSize", 0, "LRU cache size for vocab lookups; 0 disables", false)

	if err := table.Parse(args); err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), table.Usage())
		return satireerrors.Usage(err.Error(), err)
	}
	if err := table.CheckRequired(); err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), table.Usage())
		return satireerrors.Usage(err.Error(), err)
	}

	cfg := config.QuerierConfig{
		IndexStem:           *indexStem,
		NumDocs:             *numDocs,
		K:                   *k,
		LowScoreCutoff:      *lowScoreCutoff,
		PostingsCountCutoff: *postingsCountCutoff,
		Debug:               *debug,
		ExplainCounters:     *explainCounters,
		VocabCacheSize:      *vocabCacheSize,
	}

	logCfg := logging.DefaultConfig("satire-query", cfg.Debug)
	logCfg.WriteToStderr = false
	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return satireerrors.IO(satireerrors.ErrCodeOpen, "failed to set up logging", err)
	}
	defer cleanup()
	slog.SetDefault(logger)

	q, err := querier.Open(querier.WithConfig(cfg), querier.WithLogger(logger))
	if err != nil {
		return err
	}
	defer q.Close()

	return q.RunStream(context.Background(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}
