package utils

import (
	"regexp"
	"strings"
)

var (
	handleCharsRe  = regexp.MustCompile(`[^a-z0-9-]+`)
	handleHyphenRe = regexp.MustCompile(`-+`)
)

// NormalizeHandle turns a display handle into the form used for
// uniqueness checks and public profile URLs. "The Big Frontman" and
// "the_big_frontman" both normalize to "the-big-frontman".
func NormalizeHandle(input string) string {
	lower := strings.ToLower(strings.TrimSpace(input))

	hyphenated := strings.ReplaceAll(lower, " ", "-")
	hyphenated = strings.ReplaceAll(hyphenated, "_", "-")

	cleaned := handleCharsRe.ReplaceAllString(hyphenated, "")
	normalized := handleHyphenRe.ReplaceAllString(cleaned, "-")

	return strings.Trim(normalized, "-")
}
