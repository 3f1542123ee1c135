package segment

import "strings"

// Normalizer maps raw text to a cleaned form used for indexing.
// Implementations must be pure functions: no state, deterministic, and
// idempotent (normalizing already-normalized text is a no-op).
type Normalizer interface {
	// Normalize returns the cleaned, indexable form of text.
	Normalize(text string) string

	// Detect reports whether text looks like the language this
	// normalizer is specialized for. Language-agnostic normalizers
	// return false.
	Detect(text string) bool
}

// DefaultNormalizer lowercases text and collapses runs of whitespace.
// It carries no language-specific heuristics.
type DefaultNormalizer struct{}

var _ Normalizer = (*DefaultNormalizer)(nil)

// NewDefaultNormalizer creates a language-agnostic normalizer.
func NewDefaultNormalizer() *DefaultNormalizer {
	return &DefaultNormalizer{}
}

// Normalize lowercases and whitespace-normalizes text.
func (n *DefaultNormalizer) Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Detect always returns false; the default normalizer is not
// specialized for any language.
func (n *DefaultNormalizer) Detect(text string) bool {
	return false
}
