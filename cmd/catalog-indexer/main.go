// Command catalog-indexer manages the product index: it creates the index,
// loads the SQL catalog into it and runs one-shot searches.
package main

import (
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
