// Package stats turns sparse per-bucket aggregation results into the
// complete, contiguous series a chart can render directly.
package stats

import (
	"sort"
	"time"

	"finflio/internal/core"
)

const dayMillis = 24 * 60 * 60 * 1000

// DayKeys enumerates one "YYYY-MM-DD" key per calendar day in the window,
// ascending.
func DayKeys(w core.Window) []string {
	var keys []string
	for ms := w.Start; ms <= w.End; ms += dayMillis {
		keys = append(keys, time.UnixMilli(ms).UTC().Format("2006-01-02"))
	}
	return keys
}

// MonthKeys enumerates one "YYYY-MM" key per calendar month in the window,
// ascending.
func MonthKeys(w core.Window) []string {
	var keys []string
	last := time.UnixMilli(w.End).UTC()
	for t := time.UnixMilli(w.Start).UTC(); !t.After(last); t = t.AddDate(0, 1, 0) {
		keys = append(keys, t.Format("2006-01"))
	}
	return keys
}

// Fill merges the sparse buckets with zero-valued defaults for every
// expected key that is missing, then sorts ascending by date key.
// Lexicographic order is date order because the keys are zero-padded.
// Filling an already complete series returns it unchanged in content.
func Fill(sparse []core.StatsBucket, keys []string) []core.StatsBucket {
	present := make(map[string]bool, len(sparse))
	out := make([]core.StatsBucket, 0, len(keys))
	for _, b := range sparse {
		present[b.Date] = true
		out = append(out, b)
	}
	for _, key := range keys {
		if !present[key] {
			out = append(out, core.StatsBucket{Date: key})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Assemble gap-fills the three raw aggregation results against their
// windows: daily buckets for week and month, monthly buckets for the year.
func Assemble(weekly, monthly, yearly []core.StatsBucket, week, month, year core.Window) core.Stats {
	return core.Stats{
		WeeklyData:  Fill(weekly, DayKeys(week)),
		MonthlyData: Fill(monthly, DayKeys(month)),
		YearlyData:  Fill(yearly, MonthKeys(year)),
	}
}
