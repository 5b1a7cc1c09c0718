// Package cli implements the reportctl command tree: offline utilities for
// inspecting sentence normalization and duplicate classification without a
// running server.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	OutputFormat string
	Language     string
}

// NewRootCommand builds the reportctl root with all subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	root := &cobra.Command{
		Use:           "reportctl",
		Short:         "Offline tools for radiology report sentence processing",
		Version:       fmt.Sprintf("%s (%s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.OutputFormat, "output", "o", "text", "output format: text or json")
	root.PersistentFlags().StringVarP(&opts.Language, "language", "l", "ru", "sentence segmentation language")

	root.AddCommand(newNormalizeCommand(opts))
	root.AddCommand(newClassifyCommand(opts))
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// printResult renders v as JSON or hands off to the text renderer.
func printResult(w io.Writer, format string, v interface{}, text func(io.Writer)) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
