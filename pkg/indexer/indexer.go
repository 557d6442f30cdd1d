// Package indexer provides the public, atomic build API used by
// cmd/satire-index: it wraps internal/index's streaming builder with
// stem-level locking, buffered output, atomic rename-on-success, and
// .cfg/.cfg.yaml sidecar emission.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/satirehq/satire/internal/buildlock"
	"github.com/satirehq/satire/internal/config"
	satireerrors "github.com/satirehq/satire/internal/errors"
	"github.com/satirehq/satire/internal/index"
)

// ErrNilConfig is returned when attempting to create an Indexer
// without WithConfig.
var ErrNilConfig = errors.New("indexer config is required")

// bufferSize is the buffered-writer size for .vocab/.if output.
const bufferSize = 2 * 1024 * 1024

// progressEvery controls how often Build narrates progress.
const progressEvery = 10000

// Indexer builds a SATIRE index from a sorted TSV input stream.
//
// Indexer is not safe for concurrent Build calls against the same
// output stem — buildlock.StemLock enforces that across processes,
// but within one process callers must not call Build concurrently on
// the same Indexer.
type Indexer struct {
	cfg config.IndexerConfig
	log *slog.Logger

	mu     sync.Mutex
	closed bool
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithConfig sets the build configuration. Required.
func WithConfig(cfg config.IndexerConfig) Option {
	return func(ix *Indexer) {
		ix.cfg = cfg
	}
}

// WithLogger sets the structured logger used for build narration.
// Defaults to slog.Default() if not provided.
func WithLogger(log *slog.Logger) Option {
	return func(ix *Indexer) {
		ix.log = log
	}
}

// New creates an Indexer with the given options.
//
// At minimum, WithConfig must be provided:
//
//	ix, err := indexer.New(indexer.WithConfig(cfg))
//
// Returns ErrNilConfig if no config is provided, or the config's own
// validation error if it fails range checks.
func New(opts ...Option) (*Indexer, error) {
	ix := &Indexer{}
	for _, opt := range opts {
		opt(ix)
	}
	if ix.cfg == (config.IndexerConfig{}) {
		return nil, ErrNilConfig
	}
	if err := ix.cfg.Validate(); err != nil {
		return nil, satireerrors.OutOfRange(satireerrors.ErrCodeConfigInvalid, err.Error(), err)
	}
	if ix.log == nil {
		ix.log = slog.Default()
	}
	return ix, nil
}

// Build reads input and produces stem.vocab, stem.if, stem.cfg and
// stem.cfg.yaml for the Indexer's configured output stem. The .vocab
// and .if outputs are written to .tmp files and renamed into place
// only on success, guarded by a cross-process stem lock, so a failed
// or interrupted build never leaves a partial index visible under the
// final names. The .cfg and .cfg.yaml sidecars are written directly,
// after both renames have succeeded.
func (ix *Indexer) Build(ctx context.Context, input io.Reader) (index.Stats, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return index.Stats{}, fmt.Errorf("indexer is closed")
	}
	if err := ctx.Err(); err != nil {
		return index.Stats{}, err
	}

	lock := buildlock.NewStemLock(ix.cfg.OutputStem)
	if err := lock.Lock(); err != nil {
		return index.Stats{}, satireerrors.IO(satireerrors.ErrCodeLock,
			fmt.Sprintf("failed to acquire build lock for stem %s", ix.cfg.OutputStem), err)
	}
	defer lock.Unlock()

	vocabPath := ix.cfg.OutputStem + ".vocab"
	ifPath := ix.cfg.OutputStem + ".if"
	vocabTmp := vocabPath + ".tmp"
	ifTmp := ifPath + ".tmp"

	vocabFile, err := os.Create(vocabTmp)
	if err != nil {
		return index.Stats{}, satireerrors.IO(satireerrors.ErrCodeOpen, "failed to create vocab tmp file", err)
	}
	defer os.Remove(vocabTmp)

	ifFile, err := os.Create(ifTmp)
	if err != nil {
		_ = vocabFile.Close()
		return index.Stats{}, satireerrors.IO(satireerrors.ErrCodeOpen, "failed to create if tmp file", err)
	}
	defer os.Remove(ifTmp)

	vocabWriter := newBufferedFile(vocabFile)
	ifWriter := newBufferedFile(ifFile)

	started := time.Now()
	ix.log.Info("build started",
		"inputFileName", ix.cfg.InputFileName,
		"outputStem", ix.cfg.OutputStem,
		"numDocs", ix.cfg.NumDocs,
		"lowScoreCutoff", ix.cfg.LowScoreCutoff,
		"maxQuantisedValue", ix.cfg.MaxQuantisedValue,
	)

	onProgress := func(termsEmitted int64) {
		if termsEmitted%progressEvery == 0 {
			ix.log.Debug("build progress", "termsEmitted", termsEmitted)
		}
	}

	stats, err := index.Build(
		index.BuildWriters{Vocab: vocabWriter, If: ifWriter},
		input,
		ix.cfg.NumDocs,
		ix.cfg.LowScoreCutoff,
		ix.cfg.MaxQuantisedValue,
		onProgress,
	)
	if err != nil {
		ix.log.Error("build failed", "error", err)
		return stats, err
	}

	if err := vocabWriter.Flush(); err != nil {
		return stats, satireerrors.IO(satireerrors.ErrCodeWrite, "failed to flush vocab writer", err)
	}
	if err := ifWriter.Flush(); err != nil {
		return stats, satireerrors.IO(satireerrors.ErrCodeWrite, "failed to flush if writer", err)
	}
	if err := vocabFile.Sync(); err != nil {
		return stats, satireerrors.IO(satireerrors.ErrCodeWrite, "failed to sync vocab file", err)
	}
	if err := ifFile.Sync(); err != nil {
		return stats, satireerrors.IO(satireerrors.ErrCodeWrite, "failed to sync if file", err)
	}
	if err := vocabFile.Close(); err != nil {
		return stats, satireerrors.IO(satireerrors.ErrCodeWrite, "failed to close vocab file", err)
	}
	if err := ifFile.Close(); err != nil {
		return stats, satireerrors.IO(satireerrors.ErrCodeWrite, "failed to close if file", err)
	}

	if err := os.Rename(vocabTmp, vocabPath); err != nil {
		return stats, satireerrors.IO(satireerrors.ErrCodeWrite, "failed to rename vocab file into place", err)
	}
	if err := os.Rename(ifTmp, ifPath); err != nil {
		return stats, satireerrors.IO(satireerrors.ErrCodeWrite, "failed to rename if file into place", err)
	}

	if err := config.WriteCfg(ix.cfg.OutputStem+".cfg", ix.cfg, started); err != nil {
		return stats, err
	}
	if err := config.WriteCfgYAML(ix.cfg.OutputStem+".cfg.yaml", ix.cfg, started); err != nil {
		return stats, err
	}

	ix.log.Info("build finished",
		"elapsed", time.Since(started).String(),
		"linesRead", stats.LinesRead,
		"postingsAccepted", stats.PostingsAccepted,
		"postingsDropped", stats.PostingsDropped,
		"termsEmitted", stats.TermsEmitted,
		"termsSkippedZero", stats.TermsSkippedZero,
		"ifBytesWritten", stats.IfBytesWritten,
	)

	return stats, nil
}

// Close marks the Indexer unusable for further builds. An Indexer
// holds no persistent resources between Build calls, so Close is a
// guard against reuse rather than a release of held state.
func (ix *Indexer) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.closed = true
	return nil
}
