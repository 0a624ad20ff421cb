package guardrail

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mhollis/finadvisor/internal/domain"
)

// prohibitedPhrases pairs each banned phrase with its suggested replacement.
// Matching is whole-word: "discipline" never matches inside
// "interdisciplinary".
var prohibitedPhrases = []struct {
	Phrase     string
	Suggestion string
}{
	{"you must", "you may want to"},
	{"you should", "you could consider"},
	{"you need to", "it can help to"},
	{"bad debt", "high-cost debt"},
	{"irresponsible", "costly"},
	{"overspending", "spending above plan"},
	{"guaranteed returns", "potential returns"},
	{"act now", "when you are ready"},
	{"discipline", "consistency"},
	{"failure", "shortfall"},
}

// ToneViolation locates one prohibited phrase in a scanned text field.
type ToneViolation struct {
	Field      string
	Phrase     string
	Suggestion string
	Position   int
}

// ScanText finds every whole-word occurrence of a prohibited phrase in text.
// Tone checking is non-blocking: callers record violations but keep the item.
func ScanText(field, text string) []ToneViolation {
	lower := strings.ToLower(text)
	var out []ToneViolation
	for _, p := range prohibitedPhrases {
		from := 0
		for {
			i := strings.Index(lower[from:], p.Phrase)
			if i < 0 {
				break
			}
			pos := from + i
			if wholeWordAt(lower, pos, len(p.Phrase)) {
				out = append(out, ToneViolation{
					Field:      field,
					Phrase:     p.Phrase,
					Suggestion: p.Suggestion,
					Position:   pos,
				})
			}
			from = pos + len(p.Phrase)
		}
	}
	return out
}

// CheckRecommendation scans the user-facing text of one recommendation and
// returns audit events for any violations found.
func CheckRecommendation(rec domain.Recommendation) []domain.GuardrailEvent {
	var events []domain.GuardrailEvent
	for _, v := range ScanText("rationale", rec.Rationale) {
		events = append(events, toneEvent(rec.Title, v))
	}
	return events
}

func toneEvent(subject string, v ToneViolation) domain.GuardrailEvent {
	return domain.GuardrailEvent{
		Kind:       domain.GuardrailToneViolation,
		Subject:    subject,
		Reason:     fmt.Sprintf("prohibited phrase %q in %s at offset %d", v.Phrase, v.Field, v.Position),
		Suggestion: v.Suggestion,
	}
}

// wholeWordAt reports whether s[pos:pos+length] is bounded by non-word runes.
func wholeWordAt(s string, pos, length int) bool {
	if pos > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:pos])
		if isWordRune(r) {
			return false
		}
	}
	if end := pos + length; end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
