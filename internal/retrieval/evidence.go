// Package retrieval embeds questions, searches the vector index and merges
// the hits into a deduplicated evidence set for the prompt.
package retrieval

// Result is one retrieved chunk with its similarity score.
type Result struct {
	Text           string
	SourceDocument string
	SourceURL      string
	Score          float32
}

// EvidenceSet accumulates results across questions. Chunks with identical
// text are kept once, at the position of their first occurrence.
type EvidenceSet struct {
	order  []string
	byText map[string]Result
}

func NewEvidenceSet() *EvidenceSet {
	return &EvidenceSet{byText: make(map[string]Result)}
}

// Add records a result. A chunk whose text was already added is ignored, so
// the first occurrence decides position and metadata.
func (e *EvidenceSet) Add(r Result) {
	if _, seen := e.byText[r.Text]; seen {
		return
	}
	e.byText[r.Text] = r
	e.order = append(e.order, r.Text)
}

// Texts returns the chunk texts in first-seen order.
func (e *EvidenceSet) Texts() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

func (e *EvidenceSet) Len() int {
	return len(e.order)
}
