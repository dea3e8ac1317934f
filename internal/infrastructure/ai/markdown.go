package ai

import (
	"regexp"
	"strings"
)

var (
	boldPattern       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	codeBlockPattern  = regexp.MustCompile("(?s)```.*?\n(.*?)```")
	inlineCodePattern = regexp.MustCompile("`(.*?)`")
	bulletPattern     = regexp.MustCompile(`\* (.*)`)
)

// RemoveMarkdown flattens backend prose for plain terminal output.
func RemoveMarkdown(text string) string {
	text = boldPattern.ReplaceAllString(text, "$1")
	text = codeBlockPattern.ReplaceAllString(text, "$1")
	text = inlineCodePattern.ReplaceAllString(text, "$1")
	text = bulletPattern.ReplaceAllString(text, "- $1")
	return strings.TrimSpace(text)
}
