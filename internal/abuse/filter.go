// Package abuse contains submission-time anti-abuse checks: text validation
// with a profanity denylist, submitter identity hashing, and rate limiting.
package abuse

import (
	"html"
	"strings"
	"unicode/utf8"

	"mydiary/internal/common"
)

// DefaultDenylist is the starter profanity list. Deployments are expected
// to extend it via config.
var DefaultDenylist = []string{"spam", "scam"}

// Filter validates and sanitizes submitted text. It is stateless and safe
// for concurrent use.
type Filter struct {
	minLen   int
	maxLen   int
	denylist []string
}

// NewFilter builds a Filter with the given rune-length bounds and denylist.
// Denylist matching is case-insensitive substring matching.
func NewFilter(minLen, maxLen int, denylist []string) *Filter {
	lowered := make([]string, 0, len(denylist))
	for _, w := range denylist {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			lowered = append(lowered, w)
		}
	}
	return &Filter{minLen: minLen, maxLen: maxLen, denylist: lowered}
}

// Evaluate checks required text and returns the sanitized form. Checks run
// in order and short-circuit: empty, too short, too long, profane. The
// returned text is HTML-escaped exactly once; callers must pass raw input,
// never already-escaped text.
func (f *Filter) Evaluate(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", common.ErrEmptyContent
	}
	n := utf8.RuneCountInString(trimmed)
	if n < f.minLen {
		return "", common.ErrTooShort
	}
	if n > f.maxLen {
		return "", common.ErrTooLong
	}
	if f.containsBlocked(trimmed) {
		return "", common.ErrProfane
	}
	return html.EscapeString(trimmed), nil
}

// EvaluateOptional is Evaluate for fields that may be empty (sender name,
// bio). Empty input passes through as "", skipping the minimum-length check.
func (f *Filter) EvaluateOptional(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", nil
	}
	if utf8.RuneCountInString(trimmed) > f.maxLen {
		return "", common.ErrTooLong
	}
	if f.containsBlocked(trimmed) {
		return "", common.ErrProfane
	}
	return html.EscapeString(trimmed), nil
}

func (f *Filter) containsBlocked(text string) bool {
	lowered := strings.ToLower(text)
	for _, w := range f.denylist {
		if strings.Contains(lowered, w) {
			return true
		}
	}
	return false
}
