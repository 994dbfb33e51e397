// Command reachdag is the CLI front end for the reachdag engine: it loads
// a network and its probabilities, runs belief propagation under the
// chosen algebra, and writes the resulting node-probability map to stdout
// as JSON in ascending node-id order.
package main

import (
	"fmt"
	"os"

	"github.com/reachgraph/reachdag/cmd/reachdag/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
