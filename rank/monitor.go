package rank

import "github.com/poiesic/veritext/core"

// Monitor provides hooks to observe a ranking pipeline run.
// Implement this interface to track intermediate candidates and scores.
type Monitor interface {
	Start(query string)
	AfterLexicalSearch(candidates []core.Candidate)
	AfterSemanticSearch(candidates []core.Candidate)
	AfterFusion(results []core.RankedResult)
	AfterRerank(results []core.RankedResult, used bool)
	Finish(results []core.RankedResult)
}

// NoopMonitor is a no-op implementation of Monitor.
type NoopMonitor struct{}

var _ Monitor = (*NoopMonitor)(nil)

func (n *NoopMonitor) Start(_ string)                            {}
func (n *NoopMonitor) AfterLexicalSearch(_ []core.Candidate)     {}
func (n *NoopMonitor) AfterSemanticSearch(_ []core.Candidate)    {}
func (n *NoopMonitor) AfterFusion(_ []core.RankedResult)         {}
func (n *NoopMonitor) AfterRerank(_ []core.RankedResult, _ bool) {}
func (n *NoopMonitor) Finish(_ []core.RankedResult)              {}
