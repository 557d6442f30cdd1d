//go:build ignore

// Package main generates a synthetic termid\tdocid\tscore corpus for
// indexer/querier benchmarking, sorted the way the indexer requires:
// ascending termid, descending score, ascending docid.
// Usage: go run scripts/generate-test-corpus.go -terms 5000 -docs 100000 -output testdata/bench.tsv
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
)

var (
	numTerms        = flag.Int("terms", 5000, "Number of distinct termids")
	numDocs         = flag.Int("docs", 100000, "Number of distinct docids")
	postingsPerTerm = flag.Int("postings", 50, "Average postings per term (Zipf-skewed)")
	outputPath      = flag.String("output", "testdata/bench.tsv", "Output TSV path")
	seed            = flag.Int64("seed", 42, "Random seed for reproducibility")
)

type posting struct {
	docid int
	score float64
}

func main() {
	flag.Parse()
	rnd := rand.New(rand.NewSource(*seed))

	f, err := os.Create(*outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	defer w.Flush()

	totalPostings := 0
	for term := 0; term < *numTerms; term++ {
		// Zipf-ish skew: early termids (more common words) get more postings.
		count := *postingsPerTerm
		if term < *numTerms/20 {
			count *= 5
		}
		if count > *numDocs {
			count = *numDocs
		}

		seen := make(map[int]bool, count)
		postings := make([]posting, 0, count)
		for len(postings) < count {
			docid := rnd.Intn(*numDocs)
			if seen[docid] {
				continue
			}
			seen[docid] = true
			postings = append(postings, posting{docid: docid, score: rnd.Float64()})
		}

		// Required ordering within a term: descending score, then
		// ascending docid to break ties deterministically.
		sort.Slice(postings, func(i, j int) bool {
			if postings[i].score != postings[j].score {
				return postings[i].score > postings[j].score
			}
			return postings[i].docid < postings[j].docid
		})

		for _, p := range postings {
			fmt.Fprintf(w, "%d\t%d\t%.6f\n", term, p.docid, p.score)
		}
		totalPostings += len(postings)
	}

	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to flush output: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %d postings across %d terms and %d docs -> %s\n",
		totalPostings, *numTerms, *numDocs, *outputPath)
}
