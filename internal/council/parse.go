// internal/council/parse.go
package council

import (
	"regexp"
	"strings"
)

// rankingMarker scopes parsing to the judge's final verdict when present.
// Case-sensitive on purpose: a lowercase "final ranking:" is ordinary prose.
const rankingMarker = "FINAL RANKING:"

var (
	numberedLabelRe = regexp.MustCompile(`\d+\.\s*(Response [A-Z])`)
	bareLabelRe     = regexp.MustCompile(`Response [A-Z]`)
)

// rankingStrategy extracts an ordered list of labels from judge text.
// Strategies are tried in priority order and the first non-empty result wins.
type rankingStrategy func(text string) []string

var rankingStrategies = []rankingStrategy{
	parseNumberedList,
	parseBareLabels,
}

// ParseRanking extracts an ordered list of "Response <Letter>" labels from a
// judge's free-text critique.
//
// If the text contains the literal marker "FINAL RANKING:", only the text
// after the marker is scanned. Within that scope a numbered list
// ("1. Response B") is preferred; matches are taken in order of appearance in
// the text, not sorted by the leading numeral, so an out-of-sequence list is
// not corrected. When no numbered entries exist, every bare "Response <Letter>"
// occurrence is taken instead. Duplicate labels are preserved verbatim. Text
// with no labels at all yields an empty result, which is a valid parse, not an
// error.
func ParseRanking(text string) []string {
	scope := text
	if idx := strings.Index(text, rankingMarker); idx >= 0 {
		scope = text[idx+len(rankingMarker):]
	}

	for _, strategy := range rankingStrategies {
		if labels := strategy(scope); len(labels) > 0 {
			return labels
		}
	}
	return []string{}
}

// parseNumberedList matches "<n>.<optional space>Response <Letter>" entries,
// ignoring any trailing text after the label.
func parseNumberedList(text string) []string {
	matches := numberedLabelRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	labels := make([]string, 0, len(matches))
	for _, m := range matches {
		labels = append(labels, m[1])
	}
	return labels
}

// parseBareLabels matches every "Response <Letter>" occurrence regardless of
// numbering or surrounding prose.
func parseBareLabels(text string) []string {
	return bareLabelRe.FindAllString(text, -1)
}
