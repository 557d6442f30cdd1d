// Command satire-query answers Score-At-A-Time ranked queries against
// an index built by satire-index.
package main

import (
	"fmt"
	"os"

	"github.com/satirehq/satire/cmd/satire-query/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
