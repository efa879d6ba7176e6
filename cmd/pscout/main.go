// Package main is the entry point for the pscout CLI.
package main

import (
	"github.com/hltran/product-scout/cmd/pscout/cmd"
)

func main() {
	cmd.Execute()
}
