// Package intent maps free-text chat messages to the closed set of request
// categories the bot understands. Classification is an ordered rule table with
// first-match-wins semantics; rule order is load-bearing.
package intent

import "regexp"

type Intent string

const (
	Briefing Intent = "briefing"
	Pipeline Intent = "pipeline"
	Money    Intent = "money"
	Projects Intent = "projects"
	Tasks    Intent = "tasks"
	Status   Intent = "status"
	Approve  Intent = "approve"
	Help     Intent = "help"
	Unknown  Intent = "unknown"
)

type rule struct {
	pattern *regexp.Regexp
	intent  Intent
}

// A message matching several rules resolves to the earliest one.
var rules = []rule{
	{regexp.MustCompile(`(?i)\b(brief|briefing|report|morning|recap|summary)\b|\bupdate me\b`), Briefing},
	{regexp.MustCompile(`(?i)\b(pipeline|leads?|prospects?|incoming|softball)\b`), Pipeline},
	{regexp.MustCompile(`(?i)\b(money|revenue|income|expenses?|spent|profit|made|earned|costs?)\b|\bp&l\b`), Money},
	{regexp.MustCompile(`(?i)\b(projects?|clients?)\b|\bactive project\b|\bwhat\b.*\bworking\b`), Projects},
	{regexp.MustCompile(`(?i)\b(tasks?|todos?|to-dos?|plate|backlog|sprint|blocked)\b`), Tasks},
	{regexp.MustCompile(`(?i)\b(status|sit-?rep)\b|\bhow\b.*\bthings\b|\bwhat\b.*\bgoing\b`), Status},
	{regexp.MustCompile(`(?i)\b(approve|lgtm|greenlight)\b|\blooks good\b|\bship it\b|\bgo ahead\b`), Approve},
	{regexp.MustCompile(`(?i)\bhelp\b|\bwhat can you\b|\bcommands?\b|\bhow do i\b`), Help},
}

// Classify strips mention decoration from text and returns the intent of the
// first matching rule, or Unknown when nothing matches. Unknown is a safe
// fallback, never an error.
func Classify(text string) Intent {
	text = StripMentions(text)
	if text == "" {
		return Unknown
	}
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return r.intent
		}
	}
	return Unknown
}
