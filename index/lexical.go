package index

import (
	"math"
	"strings"

	"github.com/poiesic/veritext/core"
)

// BM25 parameters (standard values)
const (
	bm25K1 = 1.5  // term frequency saturation
	bm25B  = 0.75 // length normalization
)

// Lexical is a BM25 index over the normalized texts of a corpus's
// segments. It is built once and never mutated, so query-time cost does
// not depend on corpus changes.
type Lexical struct {
	termFreqs    []map[string]int // per-segment term frequencies
	docFreqs     map[string]int   // term -> number of segments containing it
	docLengths   []int
	avgDocLength float64
}

// NewLexical builds a BM25 index from the normalized segment texts.
// Tokenization is by whitespace with no stemming; the corpus is expected
// to be normalized upstream.
func NewLexical(normalized []string) *Lexical {
	idx := &Lexical{
		termFreqs:  make([]map[string]int, len(normalized)),
		docFreqs:   make(map[string]int),
		docLengths: make([]int, len(normalized)),
	}

	total := 0
	for i, text := range normalized {
		tokens := Tokenize(text)
		freqs := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			freqs[tok]++
		}
		for term := range freqs {
			idx.docFreqs[term]++
		}
		idx.termFreqs[i] = freqs
		idx.docLengths[i] = len(tokens)
		total += len(tokens)
	}

	if len(normalized) > 0 {
		idx.avgDocLength = float64(total) / float64(len(normalized))
	}
	return idx
}

// DocCount returns the number of indexed segments.
func (l *Lexical) DocCount() int {
	return len(l.termFreqs)
}

// Score returns the BM25 score of every segment against the query
// tokens, indexed by segment position. Scores are raw and unbounded.
func (l *Lexical) Score(queryTokens []string) ([]float64, error) {
	if len(l.termFreqs) == 0 {
		return nil, core.ErrIndexNotBuilt
	}

	n := float64(len(l.termFreqs))
	scores := make([]float64, len(l.termFreqs))
	for i := range l.termFreqs {
		scores[i] = l.scoreSegment(queryTokens, i, n)
	}
	return scores, nil
}

func (l *Lexical) scoreSegment(queryTokens []string, seg int, totalDocs float64) float64 {
	score := 0.0
	docLength := float64(l.docLengths[seg])

	for _, term := range queryTokens {
		tf := float64(l.termFreqs[seg][term])
		if tf == 0 {
			continue
		}
		df := float64(l.docFreqs[term])

		// BM25+ style smoothed IDF, kept non-negative for terms that
		// appear in most segments.
		idf := math.Log(1 + (totalDocs-df+0.5)/(df+0.5))

		tfNorm := (tf * (bm25K1 + 1)) / (tf + bm25K1*(1-bm25B+bm25B*docLength/l.avgDocLength))
		score += idf * tfNorm
	}
	return score
}

// Tokenize splits normalized text into query/index tokens. Plain
// whitespace splitting, matching the index build contract.
func Tokenize(text string) []string {
	return strings.Fields(text)
}
