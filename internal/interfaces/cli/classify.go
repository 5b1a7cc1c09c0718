package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/radassist/report-engine/internal/textproc"
)

type classifyOptions struct {
	poolPath    string
	threshold   int
	keywords    []string
	exceptWords []string
}

type classifyResult struct {
	Candidate   string `json:"candidate"`
	Duplicate   bool   `json:"duplicate"`
	MatchedText string `json:"matched_text,omitempty"`
	Score       int    `json:"score,omitempty"`
}

func newClassifyCommand(opts *RootOptions) *cobra.Command {
	co := &classifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify [sentence...]",
		Short: "Classify sentences against a pool file",
		Long: `Classify compares candidate sentences against a pool of stored sentences
(one per line in the pool file) using the same normalization, keyword
stripping and first-qualifying fuzzy match as the classify endpoint.
Candidates are read from the arguments, or from stdin when none are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := readLines(co.poolPath)
			if err != nil {
				return err
			}
			candidates, err := inputLines(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			stripped := make([]string, len(pool))
			for i, s := range pool {
				stripped[i] = textproc.Strip(s, co.keywords, co.exceptWords)
			}

			results := make([]classifyResult, 0, len(candidates))
			for _, cand := range candidates {
				res := classifyResult{Candidate: cand}
				cleaned := textproc.Strip(textproc.Normalize(cand), co.keywords, co.exceptWords)
				if m := textproc.FirstMatch(cleaned, stripped, co.threshold); m.Index >= 0 {
					res.Duplicate = true
					res.MatchedText = pool[m.Index]
					res.Score = m.Score
				}
				results = append(results, res)
			}

			return printResult(cmd.OutOrStdout(), opts.OutputFormat, results, func(w io.Writer) {
				for _, res := range results {
					if res.Duplicate {
						fmt.Fprintf(w, "duplicate (%d%%): %s -> %s\n", res.Score, res.Candidate, res.MatchedText)
						continue
					}
					fmt.Fprintf(w, "unique: %s\n", res.Candidate)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&co.poolPath, "pool", "p", "", "file with stored sentences, one per line (required)")
	cmd.Flags().IntVarP(&co.threshold, "threshold", "t", textproc.DefaultDuplicateThreshold, "duplicate similarity threshold in [0,100]")
	cmd.Flags().StringSliceVar(&co.keywords, "keyword", nil, "keyword to strip before comparison (repeatable)")
	cmd.Flags().StringSliceVar(&co.exceptWords, "except-word", nil, "except-word to strip before comparison (repeatable)")
	_ = cmd.MarkFlagRequired("pool")
	return cmd
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pool file: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading pool file: %w", err)
	}
	return lines, nil
}
