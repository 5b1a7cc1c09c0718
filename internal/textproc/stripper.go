package textproc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Strip prepares text for similarity comparison by removing everything that
// must not influence the score: profile keywords, excluded words, digits,
// and punctuation.
//
// The input is lower-cased first, then each keyword/except word is removed
// as a whole-word, case-insensitive match.  Word removal happens before
// punctuation stripping so multi-word keywords with internal punctuation
// ("т-образный винт") still match.  Finally all non-alphanumeric,
// non-space characters are dropped, then all digits, and whitespace runs
// collapse to a single space.
func Strip(text string, keywords, exceptWords []string) string {
	s := strings.ToLower(text)

	for _, w := range keywords {
		s = removeWholeWord(s, strings.ToLower(w))
	}
	for _, w := range exceptWords {
		s = removeWholeWord(s, strings.ToLower(w))
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		// Digits and punctuation are dropped in a single pass; once
		// keyword removal has happened the two removals commute.
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// removeWholeWord removes every occurrence of word in s that is delimited by
// non-alphanumeric runes (or the string edges).  Both arguments must already
// be lower-cased.  Go's regexp \b is ASCII-only and useless for Cyrillic
// clinical text, so boundaries are checked manually on runes.
func removeWholeWord(s, word string) string {
	if word == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for {
		idx := strings.Index(s, word)
		if idx < 0 {
			b.WriteString(s)
			break
		}
		if boundaryBefore(s, idx) && boundaryAfter(s, idx+len(word)) {
			b.WriteString(s[:idx])
			s = s[idx+len(word):]
			continue
		}
		// Partial-word hit; keep it and move past the first byte so the
		// scan makes progress.
		b.WriteString(s[:idx+1])
		s = s[idx+1:]
	}
	return b.String()
}

func boundaryBefore(s string, idx int) bool {
	if idx == 0 {
		return true
	}
	r := lastRuneBefore(s, idx)
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, idx int) bool {
	if idx >= len(s) {
		return true
	}
	r := firstRuneAt(s, idx)
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func lastRuneBefore(s string, idx int) rune {
	r, _ := utf8.DecodeLastRuneInString(s[:idx])
	return r
}

func firstRuneAt(s string, idx int) rune {
	r, _ := utf8.DecodeRuneInString(s[idx:])
	return r
}
