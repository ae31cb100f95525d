// Package prompt builds the grounded prompts shared by generation adapters.
package prompt

import (
	"fmt"
	"strings"
)

// System constrains the model to answer only from the supplied passages.
const System = `You are a precise, helpful document assistant. Answer the user's question based ONLY on the provided context passages. Follow these rules:

1. If the context contains the answer, provide it clearly and concisely.
2. If the context partially answers the question, state what you can answer and what's missing.
3. If the context does NOT contain the answer, say "I don't have enough information in the provided documents to answer this question."
4. Never fabricate information not present in the context.
5. When possible, reference which passage(s) support your answer.
6. Keep answers focused, without unnecessary preamble.`

// Build renders the user prompt with numbered context passages followed
// by the question. Passage order is preserved so the model sees the most
// relevant context first.
func Build(question string, contexts []string) string {
	var b strings.Builder
	b.WriteString("Context from documents:\n\n")
	for i, c := range contexts {
		if i > 0 {
			b.WriteString("\n\n---\n\n")
		}
		fmt.Fprintf(&b, "[Passage %d]\n%s", i+1, c)
	}
	b.WriteString("\n\n---\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer based only on the context above:")
	return b.String()
}
