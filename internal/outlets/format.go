package outlets

import "strings"

// formatLongDate renders an upstream date as "02 January, 2006". Unparseable
// or empty input renders as an empty string, never an error.
func formatLongDate(value string) string {
	if value == "" {
		return ""
	}
	t, err := parseUpstreamDate(value)
	if err != nil {
		return ""
	}
	return t.Format("02 January, 2006")
}

// formatShortDate renders an upstream date as "02 Jan, 2006".
func formatShortDate(value string) string {
	if value == "" {
		return ""
	}
	t, err := parseUpstreamDate(value)
	if err != nil {
		return ""
	}
	return t.Format("02 Jan, 2006")
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
