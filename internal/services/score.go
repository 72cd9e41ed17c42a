package services

import (
	"regexp"
	"strconv"
)

var (
	scoreLabelPattern = regexp.MustCompile(`(?i)(?:Match\s*score|Score)[:\s]*(\d{1,3})`)
	percentPattern    = regexp.MustCompile(`(?i)(\d{1,3})\s*(?:%|percent)`)
)

// ParseScore pulls a 0-100 match score out of a free-text model reply.
// A labelled score wins over a bare percentage; both scan the whole text,
// so an unrelated number can be picked up. Returns 0 when nothing matches.
func ParseScore(reply string) int {
	for _, pattern := range []*regexp.Regexp{scoreLabelPattern, percentPattern} {
		match := pattern.FindStringSubmatch(reply)
		if match == nil {
			continue
		}

		value, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}

		return clampScore(value)
	}

	return 0
}

func clampScore(value int) int {
	return min(max(value, 0), 100)
}
