// Package querier provides the public query-session API used by
// cmd/satire-query: it opens the memory-mapped vocab/inverted-file
// pair, warms their pages, drives the SAAT engine per query line, and
// writes the ranked-result and counter streams.
package querier

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/satirehq/satire/internal/config"
	satireerrors "github.com/satirehq/satire/internal/errors"
	"github.com/satirehq/satire/internal/index"
	"github.com/satirehq/satire/internal/query"
)

// ErrNilConfig is returned when attempting to create a Querier
// without WithConfig.
var ErrNilConfig = errors.New("querier config is required")

// Querier answers ranked queries against an open vocab/inverted-file
// pair. Queries are processed one at a time; Querier is not safe for
// concurrent Query/RunStream calls, matching the single-threaded
// cooperative scheduling model of the engine it wraps.
type Querier struct {
	cfg config.QuerierConfig
	log *slog.Logger

	vocab  *index.Vocab
	ifile  *index.InvertedFile
	engine *query.Engine

	mu     sync.Mutex
	closed bool
	global query.Counters
}

// Option configures a Querier.
type Option func(*Querier)

// WithConfig sets the query session configuration. Required.
func WithConfig(cfg config.QuerierConfig) Option {
	return func(q *Querier) {
		q.cfg = cfg
	}
}

// WithLogger sets the structured logger used for startup and warning
// narration. Defaults to slog.Default() if not provided.
func WithLogger(log *slog.Logger) Option {
	return func(q *Querier) {
		q.log = log
	}
}

// Open memory-maps indexStem.vocab and indexStem.if read-only, warms
// their pages, and allocates the accumulator array for the session.
// The fake heap is created afresh for each query.
func Open(opts ...Option) (*Querier, error) {
	q := &Querier{}
	for _, opt := range opts {
		opt(q)
	}
	if q.cfg == (config.QuerierConfig{}) {
		return nil, ErrNilConfig
	}
	if err := q.cfg.Validate(); err != nil {
		return nil, satireerrors.OutOfRange(satireerrors.ErrCodeConfigInvalid, err.Error(), err)
	}
	if q.log == nil {
		q.log = slog.Default()
	}

	vocab, err := index.OpenVocab(q.cfg.IndexStem+".vocab", q.cfg.VocabCacheSize)
	if err != nil {
		return nil, err
	}
	ifile, err := index.OpenInvertedFile(q.cfg.IndexStem + ".if")
	if err != nil {
		_ = vocab.Close()
		return nil, err
	}
	vocab.Touch()
	ifile.Touch()

	q.vocab = vocab
	q.ifile = ifile
	q.engine = query.NewEngine(vocab, ifile, q.cfg.NumDocs, q.cfg.K, q.cfg.LowScoreCutoff, q.cfg.PostingsCountCutoff)

	q.log.Info("querier opened",
		"indexStem", q.cfg.IndexStem,
		"numDocs", q.cfg.NumDocs,
		"k", q.cfg.K,
		"lowScoreCutoff", q.cfg.LowScoreCutoff,
		"postingsCountCutoff", q.cfg.PostingsCountCutoff,
		"vocabEntries", vocab.Count(),
	)
	return q, nil
}

// Close unmaps the vocab and inverted file and marks the Querier
// unusable for further queries.
func (q *Querier) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	err1 := q.ifile.Close()
	err2 := q.vocab.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// Query answers a single query for queryID against termIDs, returning
// its ranked results, that query's counters, and any termIDs that had
// no vocabulary entry (logged as warnings; Scenario F — the query
// still completes using the remaining terms). termIDs beyond
// query.MaxTermsPerQuery are discarded with a logged warning, per the
// documented query-input contract.
func (q *Querier) Query(queryID int64, termIDs []uint32) ([]query.Result, query.Counters, []uint32, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, query.Counters{}, nil, fmt.Errorf("querier is closed")
	}

	if len(termIDs) > query.MaxTermsPerQuery {
		q.log.Warn("query exceeds max termids, discarding extras",
			"queryID", queryID, "termCount", len(termIDs), "max", query.MaxTermsPerQuery)
		termIDs = termIDs[:query.MaxTermsPerQuery]
	}

	results, counters, missing, err := q.engine.Query(termIDs)
	if err != nil {
		return nil, counters, missing, err
	}
	for _, tid := range missing {
		q.log.Warn("lookup failed for term", "termID", tid, "queryID", queryID)
	}
	q.global.Add(counters)
	return results, counters, missing, nil
}

// RunStream drives a full query session: it reads queryid\ttermid
// [SP termid]* lines from queries until EOF or a line with no leading
// integer, writes ranked results to results and per-query then global
// counter lines to counters. The per-query and global counter lines
// are always written; if ExplainCounters is set, a legend explaining
// the ten counters follows the final COUNTERS-GB line.
func (q *Querier) RunStream(ctx context.Context, queries io.Reader, results, counters io.Writer) error {
	scanner := bufio.NewScanner(queries)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		queryID, termIDs, ok := parseQueryLine(line)
		if !ok {
			break
		}

		ranked, perQuery, missing, err := q.Query(queryID, termIDs)
		if err != nil {
			return err
		}
		for _, tid := range missing {
			if _, err := fmt.Fprintf(counters, "Warning: Lookup failed for term %d in query %d\n", tid, queryID); err != nil {
				return satireerrors.IO(satireerrors.ErrCodeWrite, "failed writing missing-term warning", err)
			}
		}
		for _, r := range ranked {
			if _, err := fmt.Fprintf(results, "%d\t%d\t%d\tSATIRE\n", queryID, r.DocID, r.Rank); err != nil {
				return satireerrors.IO(satireerrors.ErrCodeWrite, "failed writing result line", err)
			}
		}
		if err := query.WritePerQuery(counters, queryID, perQuery); err != nil {
			return satireerrors.IO(satireerrors.ErrCodeWrite, "failed writing per-query counters", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return satireerrors.IO(satireerrors.ErrCodeOpen, "failed reading query stream", err)
	}

	q.mu.Lock()
	global := q.global
	q.mu.Unlock()
	if err := query.WriteGlobal(counters, global); err != nil {
		return satireerrors.IO(satireerrors.ErrCodeWrite, "failed writing global counters", err)
	}
	if q.cfg.ExplainCounters {
		if err := query.WriteLegend(counters); err != nil {
			return satireerrors.IO(satireerrors.ErrCodeWrite, "failed writing counter legend", err)
		}
	}
	return nil
}

// parseQueryLine parses "queryid \t termid [SP termid]*". ok is false
// if the line has no leading integer, signaling stream termination.
func parseQueryLine(line string) (queryID int64, termIDs []uint32, ok bool) {
	tab := strings.IndexByte(line, '\t')
	if tab < 0 {
		return 0, nil, false
	}
	qid, err := strconv.ParseInt(line[:tab], 10, 64)
	if err != nil {
		return 0, nil, false
	}
	fields := strings.Fields(line[tab+1:])
	termIDs = make([]uint32, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			continue
		}
		termIDs = append(termIDs, uint32(v))
	}
	return qid, termIDs, true
}
