package insights

import (
	"fmt"
	"strings"
	"time"

	"mcp-gut-check/internal/compounds"
)

const minuteRound = time.Minute

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func hourLabel(hour int) string {
	return time.Date(2000, 1, 1, hour, 0, 0, 0, time.UTC).Format("3 PM")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// compoundList joins compound names, optionally limited to one severity.
func compoundList(list []compounds.Compound, severity compounds.Severity) string {
	var names []string
	for _, c := range list {
		if severity == "" || c.Severity == severity {
			names = append(names, c.Name)
		}
	}
	return strings.Join(names, ", ")
}
