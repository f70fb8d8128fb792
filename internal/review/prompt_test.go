package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptEmbedsFieldsVerbatim(t *testing.T) {
	prompt := BuildPrompt("Fix bug", "Fixes #1", "+line1\n-line2")

	assert.Contains(t, prompt, "Fix bug")
	assert.Contains(t, prompt, "Fixes #1")
	assert.Contains(t, prompt, "+line1\n-line2")
	assert.Contains(t, prompt, "correctness, style, and risk")
}

func TestBuildPromptDeterministic(t *testing.T) {
	a := BuildPrompt("Fix bug", "Fixes #1", "+line1\n-line2")
	b := BuildPrompt("Fix bug", "Fixes #1", "+line1\n-line2")
	assert.Equal(t, a, b)
}
