package rank

import (
	"sort"

	"github.com/poiesic/veritext/core"
)

// DefaultAlpha is the default lexical weight in the fused score.
const DefaultAlpha = 0.4

// degenerateEpsilon bounds min-max ranges considered collapsed.
const degenerateEpsilon = 1e-9

// neutralScore replaces every normalized value of a source whose score
// range is degenerate (all values equal), avoiding a division by ~zero.
const neutralScore = 0.5

// Fuse merges lexical and semantic candidate sets into one ranked,
// unioned list.
//
// The union of segment indices is taken over both sets; a segment absent
// from one source's candidates contributes a raw score of 0 from that
// source. Each source's score vector is min-max normalized independently
// over exactly the union, then combined as
// alpha*lexical + (1-alpha)*semantic. The result is sorted descending by
// final score; ties keep the union order, lexical candidates first in
// the order given, then previously unseen semantic candidates.
//
// Both sets empty yields an empty list, not an error: "no match" is a
// valid outcome, distinct from querying an unset corpus upstream.
func Fuse(lexical, semantic []core.Candidate, alpha float64) ([]core.RankedResult, error) {
	if err := core.ValidateAlpha(alpha); err != nil {
		return nil, err
	}

	lexScores := make(map[int]float64, len(lexical))
	for _, c := range lexical {
		lexScores[c.Index] = c.Score
	}
	semScores := make(map[int]float64, len(semantic))
	for _, c := range semantic {
		semScores[c.Index] = c.Score
	}

	// Union in first-seen order.
	union := make([]int, 0, len(lexical)+len(semantic))
	seen := make(map[int]bool, len(lexical)+len(semantic))
	for _, c := range lexical {
		if !seen[c.Index] {
			seen[c.Index] = true
			union = append(union, c.Index)
		}
	}
	for _, c := range semantic {
		if !seen[c.Index] {
			seen[c.Index] = true
			union = append(union, c.Index)
		}
	}

	if len(union) == 0 {
		return []core.RankedResult{}, nil
	}

	lexRaw := make([]float64, len(union))
	semRaw := make([]float64, len(union))
	for i, idx := range union {
		lexRaw[i] = lexScores[idx]
		semRaw[i] = semScores[idx]
	}

	lexNorm := minMaxNormalize(lexRaw, neutralScore)
	semNorm := minMaxNormalize(semRaw, neutralScore)

	results := make([]core.RankedResult, len(union))
	for i, idx := range union {
		results[i] = core.RankedResult{
			Index:        idx,
			FinalScore:   alpha*lexNorm[i] + (1-alpha)*semNorm[i],
			LexicalRaw:   lexRaw[i],
			SemanticRaw:  semRaw[i],
			LexicalNorm:  lexNorm[i],
			SemanticNorm: semNorm[i],
		}
	}

	// Stable sort keeps union order on equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	return results, nil
}

// minMaxNormalize maps values into [0,1] via (v-min)/(max-min).
// When the range is near-degenerate (max-min < epsilon), every value
// collapses to the given fallback instead of dividing by ~zero.
func minMaxNormalize(values []float64, degenerate float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := make([]float64, len(values))
	if max-min < degenerateEpsilon {
		for i := range out {
			out[i] = degenerate
		}
		return out
	}
	for i, v := range values {
		out[i] = (v - min) / (max - min)
	}
	return out
}
