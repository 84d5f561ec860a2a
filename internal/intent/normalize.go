package intent

import (
	"regexp"
	"strings"
)

var mentionPattern = regexp.MustCompile(`<@[A-Z0-9]+(?:\|[^>]+)?>`)

// StripMentions removes Slack mention decoration tokens (<@U123> and
// <@U123|name>) from text, collapses the surrounding whitespace and trims.
// It is kept separate from classification so the classifier never needs to
// know the decoration syntax.
func StripMentions(text string) string {
	stripped := mentionPattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(stripped), " ")
}
