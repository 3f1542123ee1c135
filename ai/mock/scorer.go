package mock

import (
	"context"
	"strings"
)

// MockPairwiseScorer is a test double for ai.PairwiseScorer.
// It allows custom behavior injection via function fields.
type MockPairwiseScorer struct {
	// ScorePairFunc is called by ScorePair if set.
	// If nil, uses default token-overlap scoring.
	ScorePairFunc func(ctx context.Context, query, candidate string) (float64, error)

	// Unavailable forces Available to report false, simulating an
	// absent scoring model.
	Unavailable bool

	callCount int
}

// NewMockPairwiseScorer creates a mock scorer with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockPairwiseScorer() *MockPairwiseScorer {
	return &MockPairwiseScorer{}
}

// Available reports the configured availability.
func (m *MockPairwiseScorer) Available() bool {
	return !m.Unavailable
}

// ScorePair scores the pair by counting query tokens present in the
// candidate, a crude but deterministic relevance proxy.
func (m *MockPairwiseScorer) ScorePair(ctx context.Context, query, candidate string) (float64, error) {
	m.callCount++

	if m.ScorePairFunc != nil {
		return m.ScorePairFunc(ctx, query, candidate)
	}

	candidateTokens := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(candidate)) {
		candidateTokens[tok] = true
	}

	var overlap float64
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		if candidateTokens[tok] {
			overlap++
		}
	}
	return overlap, nil
}

// CallCount returns the number of times ScorePair was called.
func (m *MockPairwiseScorer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockPairwiseScorer) Reset() {
	m.callCount = 0
	m.ScorePairFunc = nil
	m.Unavailable = false
}
