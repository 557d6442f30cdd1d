// Package cmd implements the satire-index command line.
//
// Arguments follow the engine's name=value table style rather than
// GNU flags: `satire-index inputFileName=postings.tsv
// outputStem=data/corpus numDocs=500000`. cobra supplies --help and
// --version; everything else is parsed by internal/argtable.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/satirehq/satire/internal/argtable"
	"github.com/satirehq/satire/internal/config"
	satireerrors "github.com/satirehq/satire/internal/errors"
	"github.com/satirehq/satire/internal/logging"
	"github.com/satirehq/satire/pkg/indexer"
	"github.com/satirehq/satire/pkg/version"
)

// NewRootCmd creates the satire-index root command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "satire-index inputFileName=... outputStem=... numDocs=...",
		Short: "Build a score-ordered inverted index from sorted TSV postings",
		Long: `satire-index reads a sorted termid\tdocid\tscore TSV stream and
writes a .vocab/.if index pair plus .cfg/.cfg.yaml sidecars at the
given output stem.

Arguments are given as name=value, e.g.:

  satire-index inputFileName=postings.tsv outputStem=data/corpus numDocs=500000`,
		Version:           version.Version,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args)
		},
	}
	root.SetVersionTemplate(version.String("satire-index") + "\n")
	return root
}

// Execute runs the satire-index CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

func runBuild(cmd *cobra.Command, args []string) error {
	table := argtable.NewTable()
	inputFileName := table.String("inputFileName", "", "path to sorted termid<TAB>docid<TAB>score TSV input", true)
	outputStem := table.String("outputStem", "", "output stem for the .vocab/.if/.cfg files", true)
	numDocs := table.Int("numDocs", 0, "total number of documents in the corpus", true)
	lowScoreCutoff := table.Int("lowScoreCutoff", 1, "drop postings whose quantized score is below this", false)
	maxQuantisedValue := table.Int("maxQuantisedValue", 10000, "quantization ceiling, in [2, 65535]", false)
	debug := table.Int("debug", 0, "log verbosity (0=info, 2+=debug)", false)

	if err := table.Parse(args); err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), table.Usage())
		return satireerrors.Usage(err.Error(), err)
	}
	if err := table.CheckRequired(); err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), table.Usage())
		return satireerrors.Usage(err.Error(), err)
	}

	cfg := config.IndexerConfig{
		InputFileName:     *inputFileName,
		OutputStem:        *outputStem,
		NumDocs:           *numDocs,
		LowScoreCutoff:    *lowScoreCutoff,
		MaxQuantisedValue: *maxQuantisedValue,
		Debug:             *debug,
	}

	cleanup, err := logging.SetupDefault("satire-index", cfg.Debug)
	if err != nil {
		return satireerrors.IO(satireerrors.ErrCodeOpen, "failed to set up logging", err)
	}
	defer cleanup()

	input, err := os.Open(cfg.InputFileName)
	if err != nil {
		return satireerrors.IO(satireerrors.ErrCodeOpen, fmt.Sprintf("failed to open input file %s", cfg.InputFileName), err)
	}
	defer input.Close()

	ix, err := indexer.New(indexer.WithConfig(cfg))
	if err != nil {
		return err
	}
	defer ix.Close()

	stats, err := ix.Build(context.Background(), input)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "built %s: %d terms, %d postings accepted, %d dropped, %d bytes\n",
		cfg.OutputStem, stats.TermsEmitted, stats.PostingsAccepted, stats.PostingsDropped, stats.IfBytesWritten)
	return nil
}
