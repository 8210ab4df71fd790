// Package summarize generates short plain-text summaries of note content
// through a pluggable AI provider.
package summarize

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// ErrNotConfigured is returned when no provider has been configured
// (e.g. the OpenAI API key is missing).
var ErrNotConfigured = errors.New("summarization is not configured")

// DefaultSystemPrompt instructs the model to produce a compact summary.
const DefaultSystemPrompt = "You are a summarization assistant. Summarize the user's note in 2-3 plain sentences. Do not use markdown, headings, or bullet points. Respond with the summary only."

// MaxContentLength caps how much note content is sent to the provider.
// Longer bodies are truncated; a summary of the first part of a very long
// note is still useful and keeps request costs bounded.
const MaxContentLength = 16000

// Provider generates a summary for note content.
type Provider interface {
	// Summarize returns a short plain-text summary of the given note.
	Summarize(ctx context.Context, title, body string) (string, error)

	// Name returns the provider name for logging.
	Name() string
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// PrepareContent converts a stored note (title plus sanitized HTML body)
// into the plain text sent to the provider. HTML tags are stripped and the
// result is truncated to MaxContentLength.
func PrepareContent(title, body string) string {
	text := tagPattern.ReplaceAllString(body, " ")
	text = strings.Join(strings.Fields(text), " ")

	var b strings.Builder
	if title != "" {
		b.WriteString("Title: ")
		b.WriteString(title)
		b.WriteString("\n\n")
	}
	b.WriteString(text)

	content := b.String()
	if len(content) > MaxContentLength {
		content = content[:MaxContentLength]
	}
	return content
}
