package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/radassist/report-engine/internal/textproc"
)

type normalizeResult struct {
	Input      string   `json:"input"`
	Normalized string   `json:"normalized,omitempty"`
	Rejected   bool     `json:"rejected"`
	Sentences  []string `json:"sentences,omitempty"`
}

func newNormalizeCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize [text...]",
		Short: "Normalize and segment raw report text",
		Long: `Normalize cleans raw report text the same way the save endpoint does:
index prefixes and punctuation runs are collapsed, spacing is fixed and the
first letter is capitalized.  Multi-sentence input is segmented.  Text is
read from the arguments, or from stdin when no arguments are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := inputLines(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			splitter := textproc.NewSplitter(textproc.NewRegistry(), nil)
			results := make([]normalizeResult, 0, len(lines))
			for _, line := range lines {
				res := normalizeResult{Input: line}
				unsplit, split, err := splitter.Split(line, opts.Language)
				if err != nil {
					return err
				}
				switch {
				case len(unsplit) == 1:
					res.Normalized = unsplit[0]
				case len(split) > 0:
					res.Sentences = split
				default:
					res.Rejected = true
				}
				results = append(results, res)
			}

			return printResult(cmd.OutOrStdout(), opts.OutputFormat, results, func(w io.Writer) {
				for _, res := range results {
					switch {
					case res.Rejected:
						fmt.Fprintf(w, "rejected: %s\n", res.Input)
					case len(res.Sentences) > 0:
						for _, s := range res.Sentences {
							fmt.Fprintln(w, s)
						}
					default:
						fmt.Fprintln(w, res.Normalized)
					}
				}
			})
		},
	}
	return cmd
}

// inputLines returns the command arguments as lines, or reads stdin.
func inputLines(args []string, stdin io.Reader) ([]string, error) {
	if len(args) > 0 {
		return []string{strings.Join(args, " ")}, nil
	}
	var lines []string
	sc := bufio.NewScanner(stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no input text; pass arguments or pipe text on stdin")
	}
	return lines, nil
}
