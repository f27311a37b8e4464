package session

import (
	"time"

	"github.com/mgilabert/focal/internal/dateutil"
)

// DayStats aggregates one calendar day of focus history.
type DayStats struct {
	Date          time.Time
	Sessions      int
	FocusMinutes  int
	Completed     int
	Interrupted   int
}

// HistoryStats aggregates a range of focus history for the dashboard.
type HistoryStats struct {
	Days          []DayStats
	TotalSessions int
	FocusMinutes  int
	Completed     int
}

// CompletionPercent returns the share of sessions that ran to completion.
func (h HistoryStats) CompletionPercent() int {
	if h.TotalSessions == 0 {
		return 0
	}
	return (h.Completed * 100) / h.TotalSessions
}

// BestDay returns the index of the day with the most focus minutes, or -1
// when the range is empty.
func (h HistoryStats) BestDay() int {
	best, minutes := -1, 0
	for i, d := range h.Days {
		if d.FocusMinutes > minutes {
			minutes = d.FocusMinutes
			best = i
		}
	}
	return best
}

// Aggregate buckets sessions into the given ordered days and totals them.
// Sessions outside the day range are ignored.
func Aggregate(days []time.Time, sessions []*Session) HistoryStats {
	stats := HistoryStats{Days: make([]DayStats, len(days))}
	index := make(map[time.Time]int, len(days))
	for i, d := range days {
		d = dateutil.TruncateToDay(d)
		stats.Days[i] = DayStats{Date: d}
		index[d] = i
	}

	for _, s := range sessions {
		i, ok := index[dateutil.TruncateToDay(s.StartedAt)]
		if !ok {
			continue
		}
		day := &stats.Days[i]
		day.Sessions++
		day.FocusMinutes += s.ActualMinutes
		if s.Completed {
			day.Completed++
		} else {
			day.Interrupted++
		}

		stats.TotalSessions++
		stats.FocusMinutes += s.ActualMinutes
		if s.Completed {
			stats.Completed++
		}
	}

	return stats
}
