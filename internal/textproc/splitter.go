package textproc

import (
	"unicode"

	"github.com/radassist/report-engine/internal/infrastructure/monitoring/logging"
)

// Splitter turns raw clinician text into zero or more normalized sentences
// using the language-appropriate Segmenter.  It is the only textproc
// component that can fail, and only on configuration grounds (an unknown
// language code); degenerate content is silently discarded.
type Splitter struct {
	registry *Registry
	logger   logging.Logger
}

// NewSplitter builds a Splitter over the given segmenter registry.
func NewSplitter(registry *Registry, logger logging.Logger) *Splitter {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Splitter{registry: registry, logger: logger}
}

// Split segments text for the given language and normalizes each segment.
//
// The two returned slices are mutually exclusive: when the text holds exactly
// one valid sentence it is returned in unsplit and split is empty; when it
// holds two or more they are all returned in split and unsplit is empty.
// Segments shorter than three runes or with no alphanumeric content are
// dropped, with a debug log, and both slices come back empty if nothing
// survives.
func (sp *Splitter) Split(text, language string) (unsplit, split []string, err error) {
	seg, err := sp.registry.Lookup(language)
	if err != nil {
		return nil, nil, err
	}

	var valid []string
	for _, raw := range seg.Segment(text) {
		n := Normalize(raw)
		if n == "" {
			sp.logger.Debug("discarding degenerate sentence fragment",
				logging.String("fragment", raw),
				logging.String("language", language))
			continue
		}
		valid = append(valid, n)
	}

	switch len(valid) {
	case 0:
		return nil, nil, nil
	case 1:
		return valid, nil, nil
	default:
		return nil, valid, nil
	}
}

// CountWords reports the number of whitespace-delimited tokens containing at
// least one letter or digit.  Used by callers that gate behavior on sentence
// length rather than rune count.
func CountWords(s string) int {
	count := 0
	inWord := false
	hasAlnum := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if inWord && hasAlnum {
				count++
			}
			inWord = false
			hasAlnum = false
			continue
		}
		inWord = true
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			hasAlnum = true
		}
	}
	if inWord && hasAlnum {
		count++
	}
	return count
}
