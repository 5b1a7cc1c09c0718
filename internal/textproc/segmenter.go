package textproc

import (
	"strings"
	"unicode"

	"github.com/radassist/report-engine/pkg/errors"
)

// Segmenter is the sentence-boundary capability the splitter delegates to.
// Implementations are language-specific and registered in a Registry keyed
// by ISO 639-1 language code; a backing model may be anything from the
// rule-based segmenter below to an external NLP service adapter.
type Segmenter interface {
	// Segment breaks text into grammatical sentences, preserving each
	// sentence's terminal punctuation.  It never fails: unsegmentable
	// input comes back as a single segment.
	Segment(text string) []string
}

// Registry maps language codes to Segmenters.  Lookup of an unregistered
// language is a configuration error, not a content error: there is no
// sentence-level fallback for a language the service was not set up for.
type Registry struct {
	segmenters map[string]Segmenter
}

// NewRegistry returns a Registry pre-populated with the rule-based
// segmenters for Russian and English.
func NewRegistry() *Registry {
	r := &Registry{segmenters: make(map[string]Segmenter)}
	r.Register("ru", newRuleSegmenter(russianAbbreviations))
	r.Register("en", newRuleSegmenter(englishAbbreviations))
	return r
}

// Register adds or replaces the Segmenter for the given language code.
func (r *Registry) Register(language string, s Segmenter) {
	r.segmenters[strings.ToLower(language)] = s
}

// Lookup returns the Segmenter for the given language code, or an
// ErrCodeLanguageUnsupported AppError when none is registered.
func (r *Registry) Lookup(language string) (Segmenter, error) {
	s, ok := r.segmenters[strings.ToLower(language)]
	if !ok {
		return nil, errors.LanguageUnsupported(language)
	}
	return s, nil
}

// Languages returns the registered language codes.
func (r *Registry) Languages() []string {
	out := make([]string, 0, len(r.segmenters))
	for lang := range r.segmenters {
		out = append(out, lang)
	}
	return out
}

// russianAbbreviations are tokens whose trailing period does not terminate a
// sentence in Russian radiology text.
var russianAbbreviations = map[string]bool{
	"г": true, "гг": true, "др": true, "пр": true, "см": true,
	"мм": true, "т": true, "е": true, "ч": true, "млн": true,
	"обл": true, "ул": true,
}

// englishAbbreviations mirrors the Russian list for English reports.
var englishAbbreviations = map[string]bool{
	"dr": true, "mr": true, "mrs": true, "ms": true, "vs": true,
	"etc": true, "fig": true, "approx": true, "no": true, "e": true,
	"g": true, "i": true,
}

// ruleSegmenter is a deterministic sentence-boundary detector: it breaks
// after a run of terminal punctuation (. ! ? and ellipses) followed by
// whitespace, unless the token before the period is a known abbreviation or
// a single digit (enumeration like "2." mid-sentence).
type ruleSegmenter struct {
	abbreviations map[string]bool
}

func newRuleSegmenter(abbrev map[string]bool) *ruleSegmenter {
	return &ruleSegmenter{abbreviations: abbrev}
}

func (g *ruleSegmenter) Segment(text string) []string {
	runes := []rune(text)
	var segments []string
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		// Consume the whole punctuation run ("...", "?!").
		end := i
		for end+1 < len(runes) && isTerminal(runes[end+1]) {
			end++
		}
		// A boundary needs following whitespace (or end of text).
		if end+1 < len(runes) && !unicode.IsSpace(runes[end+1]) {
			i = end
			continue
		}
		if g.isAbbreviationBreak(runes, start, i) {
			i = end
			continue
		}
		seg := strings.TrimSpace(string(runes[start : end+1]))
		if seg != "" {
			segments = append(segments, seg)
		}
		start = end + 1
		i = end
	}

	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		segments = append(segments, tail)
	}
	return segments
}

// isAbbreviationBreak reports whether the period at punctIdx terminates an
// abbreviation or a bare number rather than a sentence.
func (g *ruleSegmenter) isAbbreviationBreak(runes []rune, start, punctIdx int) bool {
	if runes[punctIdx] != '.' {
		return false
	}
	// Walk back to the beginning of the preceding token.
	tokEnd := punctIdx
	tokStart := tokEnd
	for tokStart > start && !unicode.IsSpace(runes[tokStart-1]) {
		tokStart--
	}
	token := strings.ToLower(string(runes[tokStart:tokEnd]))
	if token == "" {
		return false
	}
	if g.abbreviations[token] {
		return true
	}
	// "12.": enumerations and measurements, not sentence ends.
	allDigits := true
	for _, r := range token {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	return allDigits
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '…'
}
