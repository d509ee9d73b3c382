package tts

import (
	"regexp"
	"strings"
)

// Generated dialogue occasionally carries stage directions meant for human
// readers, not speech engines: parentheticals like "(sobs)", bracketed cues
// like "[pause]", or asterisk-delimited actions like "*crying*". Speaking
// them aloud breaks the illusion, so they are stripped before synthesis.
var (
	parenDirection    = regexp.MustCompile(`\([^)]*\)`)
	bracketDirection  = regexp.MustCompile(`\[[^\]]*\]`)
	asteriskDirection = regexp.MustCompile(`\*[^*]*\*`)
	runsOfSpace       = regexp.MustCompile(`\s+`)
)

// Sanitize removes stage-direction annotations and collapses whitespace.
// The result may be empty when the input was nothing but annotations.
func Sanitize(text string) string {
	out := parenDirection.ReplaceAllString(text, " ")
	out = bracketDirection.ReplaceAllString(out, " ")
	out = asteriskDirection.ReplaceAllString(out, " ")
	out = runsOfSpace.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
