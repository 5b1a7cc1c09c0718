// Package textproc implements the pure text-processing primitives of the
// report engine: normalization of clinician-entered text, keyword/noise
// stripping, similarity scoring, and language-aware sentence segmentation.
//
// Every function in this package is deterministic and free of side effects;
// bad content is never an error here, only bad configuration is (see the
// splitter).
package textproc

import (
	"regexp"
	"strings"
	"unicode"
)

// minSentenceRunes is the minimum trimmed length below which raw input is
// rejected as "not a sentence".
const minSentenceRunes = 3

var (
	// indexPrefixRe matches a leading list index such as "3. " or "12) ".
	indexPrefixRe = regexp.MustCompile(`^\s*\d+[.)]\s+`)

	// punctRunRe matches a run of two or more collapsible punctuation
	// characters (periods are handled separately).  RE2 has no
	// backreferences, so same-character collapsing happens in
	// collapseSameRuns on the matched run.
	punctRunRe = regexp.MustCompile(`[,!?:;"'()]{2,}`)

	// periodRunRe matches any run of periods.
	periodRunRe = regexp.MustCompile(`\.{2,}`)

	// missingSpaceRe matches sentence punctuation glued to the next token.
	// The second class excludes punctuation so an ellipsis is not split.
	missingSpaceRe = regexp.MustCompile(`([.!?,;:])([^\s.!?,;:])`)

	// whitespaceRunRe matches any run of whitespace.
	whitespaceRunRe = regexp.MustCompile(`\s+`)
)

// hasAlphanumeric reports whether s contains at least one Unicode letter or
// digit.
func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// Normalize cleans raw clinician-entered text into a canonical sentence
// string.  It returns "" for input that is not a sentence: fewer than three
// characters after trimming, or no alphanumeric character at all.
//
// Applied rules, in order:
//   - leading list indexes ("1. ", "2) ") are stripped, repeatedly;
//   - runs of 2+ of , ! ? : ; " ' ( ) collapse to a single occurrence;
//   - 4+ consecutive periods collapse to an ellipsis, exactly 2 collapse
//     to 1, a triple is preserved;
//   - a single space is inserted after sentence punctuation glued to the
//     next word;
//   - whitespace runs collapse to a single space;
//   - the first letter is upper-cased.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if len([]rune(s)) < minSentenceRunes || !hasAlphanumeric(s) {
		return ""
	}

	// Fixpoint loop so stacked prefixes ("2. 3) text") cannot survive a
	// single pass and break idempotence.
	for {
		stripped := indexPrefixRe.ReplaceAllString(s, "")
		if stripped == s {
			break
		}
		s = stripped
	}

	s = punctRunRe.ReplaceAllStringFunc(s, collapseSameRuns)

	s = periodRunRe.ReplaceAllStringFunc(s, func(run string) string {
		switch {
		case len(run) >= 4:
			return "..."
		case len(run) == 2:
			return "."
		default:
			return run
		}
	})

	s = missingSpaceRe.ReplaceAllString(s, "$1 $2")
	s = whitespaceRunRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if len([]rune(s)) < minSentenceRunes || !hasAlphanumeric(s) {
		return ""
	}

	return capitalizeFirst(s)
}

// collapseSameRuns keeps the first rune of every run of identical runes in
// s.  Runs of different characters stay distinct: ",,!!" becomes ",!".
func collapseSameRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prev := rune(-1)
	for _, r := range s {
		if r != prev {
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

// capitalizeFirst upper-cases the first letter of s, leaving the rest
// untouched.  Sentence-internal words are deliberately left alone: only the
// sentence opening is normalized.
func capitalizeFirst(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
		if unicode.IsDigit(r) {
			break
		}
	}
	return string(runes)
}
