// isopat - isotopic pattern calculator
package main

import (
	"fmt"
	"os"

	"github.com/mobiusklein/chemical-elements/cmd/isopat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
