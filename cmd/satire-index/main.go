// Command satire-index builds a score-ordered inverted index from
// sorted termid\tdocid\tscore TSV input.
package main

import (
	"fmt"
	"os"

	"github.com/satirehq/satire/cmd/satire-index/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
