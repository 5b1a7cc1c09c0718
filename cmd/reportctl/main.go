// The reportctl command provides offline sentence-processing utilities.
package main

import (
	"fmt"
	"os"

	"github.com/radassist/report-engine/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
