package app

import (
	"regexp"
	"strings"
)

const maxTracedQueryLength = 512

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	// Three or more consecutive placeholders, as in IN lists and VALUES rows.
	placeholderRunRegex = regexp.MustCompile(`\$\d+(?:, \$\d+){2,}`)
	valuesRowsRegex     = regexp.MustCompile(`(VALUES \([^()]*\))(?:, \([^()]*\))+`)
)

// formatDBQueryForTrace normalizes a statement for span attributes so that
// the same statement with different row or IN-list counts reads the same.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	normalized = valuesRowsRegex.ReplaceAllString(normalized, "$1, ...")
	normalized = placeholderRunRegex.ReplaceAllStringFunc(normalized, func(run string) string {
		first, _, _ := strings.Cut(run, ",")
		return first + ", ..."
	})
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
