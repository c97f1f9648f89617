// Package main provides the remap binary entry point.
// remap applies schemas from a bundle file to JSON, YAML, MessagePack or
// BSON documents.
package main

import (
	"fmt"
	"os"
)

const (
	Version = "0.1.0"
	appName = "remap"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
