package task

import (
	"strings"
	"time"
)

// QuickAdd is the result of parsing a quick-add input line.
type QuickAdd struct {
	Title            string
	EstimatedMinutes int
	Day              *time.Time // nil means backlog
}

// Duration keywords recognized by the quick-add parser. Deliberately a
// handful of substring checks, not natural-language parsing.
var durationTokens = map[string]int{
	"15m": 15,
	"25m": 25,
	"30m": 30,
	"45m": 45,
	"1h":  60,
	"2h":  120,
}

// ParseQuickAdd extracts a title, an optional duration token and an optional
// today/tomorrow keyword from a quick-add line. Recognized tokens are removed
// from the title; everything else is taken literally.
func ParseQuickAdd(input string, now time.Time) QuickAdd {
	qa := QuickAdd{EstimatedMinutes: 0}
	fields := strings.Fields(input)
	var title []string

	for _, f := range fields {
		lower := strings.ToLower(f)
		if mins, ok := durationTokens[lower]; ok && qa.EstimatedMinutes == 0 {
			qa.EstimatedMinutes = mins
			continue
		}
		switch lower {
		case "today":
			day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			qa.Day = &day
			continue
		case "tomorrow":
			day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
			qa.Day = &day
			continue
		}
		title = append(title, f)
	}

	qa.Title = strings.Join(title, " ")
	return qa
}
