package service

import (
	"regexp"
	"strings"
)

var (
	// Citation markers like 【4:0†source】 injected by the remote model.
	citationPattern = regexp.MustCompile(`【\d+:\d+†[^】]+】`)

	// Trailing "References:" section through end of text.
	referencesPattern = regexp.MustCompile(`(?s)\n\nReferences:.*$`)

	// A whole reply wrapped in a single fenced block.
	codeFencePattern = regexp.MustCompile("(?s)^```[a-z]*\n(.*)\n```$")
)

// CleanReply strips citation markers and a trailing references section, and
// unwraps a reply that is entirely fenced. Safe to apply to text lacking any
// of these; applying it twice yields the same result as applying it once.
func CleanReply(raw string) string {
	reply := citationPattern.ReplaceAllString(raw, "")
	reply = referencesPattern.ReplaceAllString(reply, "")
	reply = strings.TrimSpace(reply)

	if m := codeFencePattern.FindStringSubmatch(reply); m != nil {
		reply = strings.TrimSpace(m[1])
	}
	return reply
}
