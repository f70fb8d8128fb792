package review

import "strings"

// BuildPrompt assembles the generation prompt from the PR fields. The
// title, body, and diff are embedded verbatim so the model sees exactly
// what the PR says.
func BuildPrompt(title, body, diff string) string {
	var b strings.Builder
	b.WriteString("Review this pull request diff for correctness, style, and risk.\n\n")
	b.WriteString("Title: ")
	b.WriteString(title)
	b.WriteString("\n\nDescription:\n")
	b.WriteString(body)
	b.WriteString("\n\nDiff:\n")
	b.WriteString(diff)
	b.WriteString("\n")
	return b.String()
}
