// Command cachesim replays a memory-reference trace against a set-
// associative cache with a FIFO victim buffer and a stride prefetcher, and
// reports the resulting hit/miss/prefetch statistics.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cachesim:", err)
		os.Exit(1)
	}
}
