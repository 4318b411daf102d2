// Package lexicon holds the keyword tables and text matching shared by the
// mood analyzer and the feature extractors.
//
// Keywords are matched against lowercased word tokens:
//   - "word"        matches the token exactly
//   - "stem*"       matches any token starting with stem
//   - "two words"   matches the phrase on token boundaries
package lexicon

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/sandevgo/moodmem/pkg/conv"
)

var clockTime = regexp.MustCompile(`\b\d{1,2}(:\d{2})?\s?(am|pm)\b`)

// Text is a tokenized, lowercased view of message or memory content.
type Text struct {
	lower  string
	tokens []string
	set    map[string]struct{}
	joined string
}

func NewText(content string) Text {
	plain := conv.ToPlainText(content)
	lower := strings.ToLower(strings.ReplaceAll(plain, "’", "'"))

	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	tokens := make([]string, 0, len(fields))
	set := make(map[string]struct{}, len(fields))
	for _, tok := range fields {
		tok = strings.Trim(tok, "'")
		if tok == "" {
			continue
		}
		tokens = append(tokens, tok)
		set[tok] = struct{}{}
	}

	return Text{
		lower:  lower,
		tokens: tokens,
		set:    set,
		joined: " " + strings.Join(tokens, " ") + " ",
	}
}

func (t Text) WordCount() int {
	return len(t.tokens)
}

func (t Text) IsEmpty() bool {
	return len(t.tokens) == 0
}

// Has reports whether a single keyword matches.
func (t Text) Has(keyword string) bool {
	switch {
	case strings.Contains(keyword, " "):
		return strings.Contains(t.joined, " "+keyword+" ")
	case strings.HasSuffix(keyword, "*"):
		stem := strings.TrimSuffix(keyword, "*")
		for _, tok := range t.tokens {
			if strings.HasPrefix(tok, stem) {
				return true
			}
		}
		return false
	default:
		_, ok := t.set[keyword]
		return ok
	}
}

// Matches returns the keywords present, in table order.
func (t Text) Matches(keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		if t.Has(kw) {
			out = append(out, kw)
		}
	}
	return out
}

// Count returns how many distinct keywords from the table are present.
func (t Text) Count(keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if t.Has(kw) {
			n++
		}
	}
	return n
}

func (t Text) Any(keywords []string) bool {
	for _, kw := range keywords {
		if t.Has(kw) {
			return true
		}
	}
	return false
}

// Occurrences counts tokens (with repetition) that appear in words.
func (t Text) Occurrences(words []string) int {
	n := 0
	for _, tok := range t.tokens {
		for _, w := range words {
			if tok == w {
				n++
				break
			}
		}
	}
	return n
}

// HasClockTime reports an explicit time such as "3pm" or "10:30 am".
func (t Text) HasClockTime() bool {
	return clockTime.MatchString(t.lower)
}

// EmotionalWordCount counts distinct emotion keywords across all sentiment tables.
func (t Text) EmotionalWordCount() int {
	return t.Count(Positive) + t.Count(Negative) + t.Count(Anxiety) + t.Count(Gratitude) + t.Count(Mixed)
}

// IsNeutralContent reports logistics-style content with no emotional vocabulary.
func (t Text) IsNeutralContent() bool {
	return (t.Any(NeutralIndicators) || t.HasClockTime()) && t.EmotionalWordCount() == 0
}

// IsMinimal reports content too short or too generic to carry psychological signal.
func (t Text) IsMinimal() bool {
	if t.WordCount() < 6 && t.EmotionalWordCount() == 0 {
		return true
	}
	return t.IsNeutralContent() && t.WordCount() < 12
}
