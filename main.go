// Package main provides a short usage pointer for the cachesim CLI.
//
// For the full CLI, use: go run ./cmd/cachesim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("cachesim - trace-driven set-associative cache simulator")
	fmt.Println("")
	fmt.Println("Usage: cachesim <command> [flags]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  run      replay a trace against one cache geometry")
	fmt.Println("  sweep    replay a trace against a grid of geometries")
	fmt.Println("  profile  replay a trace while capturing CPU/heap profiles")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/cachesim --help' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: you provided arguments. Use 'go run ./cmd/cachesim' instead.")
	}
}
