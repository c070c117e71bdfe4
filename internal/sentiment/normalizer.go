package sentiment

import (
	"regexp"
	"strings"
)

var (
	httpURLPattern = regexp.MustCompile(`http\S+`)
	wwwURLPattern  = regexp.MustCompile(`www.\S+`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// Normalize strips http(s) and bare www URLs from text and collapses every
// whitespace run into a single space.
func Normalize(text string) string {
	text = httpURLPattern.ReplaceAllString(text, "")
	text = wwwURLPattern.ReplaceAllString(text, "")
	return spacePattern.ReplaceAllString(text, " ")
}

// Qualifies reports whether normalized text can be scored. Text left with
// only whitespace, such as a post made of links, does not qualify.
func Qualifies(normalized string) bool {
	return strings.TrimSpace(normalized) != ""
}
