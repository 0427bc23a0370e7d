// Package prompt builds the batched question prompt and parses the model's
// numbered answers back out.
package prompt

import (
	"fmt"
	"strings"
)

// Sentinel is the exact phrase the model is instructed to emit, and the
// service returns, when the context cannot answer a question.
const Sentinel = "The provided context does not contain sufficient information to answer this question."

const contextSeparator = "\n\n---\n\n"

const template = `You are an expert AI assistant for analyzing legal and policy documents. Your goal is to answer a list of questions based *exclusively* on the provided context.

**Context from the document:**
---
%s
---

**Questions:**
---
%s
---

**Instructions:**
1. Carefully read the entire context to understand the document's content.
2. Answer each question from the list one by one.
3. **Your response MUST be a numbered list**, where each number corresponds to the question number.
4. Each answer must be a clear, concise, and objective statement derived only from the provided context.
5. Write full and formal sentences instead of 2-3 words.
6. **CRITICAL:** If the information to answer a specific question is not in the context, you MUST write the exact phrase: "%s" for that corresponding number.
7. Do not add any preamble or closing remarks. Your output should begin immediately with "1."`

// Build assembles the single prompt covering every question, with the
// deduplicated evidence chunks as context.
func Build(contextChunks, questions []string) string {
	numbered := make([]string, len(questions))
	for i, q := range questions {
		numbered[i] = fmt.Sprintf("%d. %s", i+1, q)
	}

	return fmt.Sprintf(template,
		strings.Join(contextChunks, contextSeparator),
		strings.Join(numbered, "\n"),
		Sentinel,
	)
}
