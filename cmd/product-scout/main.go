// Package main is the entry point for the product-scout server.
package main

import (
	"os"

	"github.com/hltran/product-scout/cmd/product-scout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
