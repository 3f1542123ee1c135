package openai

import "fmt"

const rerankSystemPrompt = `You grade how relevant a candidate passage is to a query.
Respond with JSON only, matching this schema:

{"score": <number>}

The score is a real number where higher means the candidate is more
relevant to the query. Use the full range: a near-verbatim copy or close
paraphrase of the query scores around 10, a passage on the same topic
scores around 5, an unrelated passage scores 0 or below. Do not include
any text outside the JSON object.`

// buildRerankPrompt formats a (query, candidate) pair for grading.
func buildRerankPrompt(query, candidate string) string {
	return fmt.Sprintf("Query:\n%s\n\nCandidate passage:\n%s", query, candidate)
}
