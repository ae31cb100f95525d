package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	got := Build("What is the refund policy?", []string{
		"Refunds allowed within 30 days.",
		"Employees get 20 PTO days.",
	})

	assert.Contains(t, got, "[Passage 1]\nRefunds allowed within 30 days.")
	assert.Contains(t, got, "[Passage 2]\nEmployees get 20 PTO days.")
	assert.Contains(t, got, "Question: What is the refund policy?")
	assert.True(t, strings.HasSuffix(got, "Answer based only on the context above:"))

	// Passages appear in the order given.
	assert.Less(t, strings.Index(got, "[Passage 1]"), strings.Index(got, "[Passage 2]"))
}

func TestBuild_NoContexts(t *testing.T) {
	got := Build("anything?", nil)
	assert.Contains(t, got, "Question: anything?")
	assert.NotContains(t, got, "[Passage")
}
