package core

import "time"

// Window is an inclusive [Start, End] epoch-millisecond range for a
// calendar period. Ends have second precision (23:59:59), matching the
// boundaries the aggregation queries compare against.
type Window struct {
	Start int64
	End   int64
}

// MonthWindow returns the window covering the given calendar month in UTC.
// Month length and leap years are handled by date normalization: day zero
// of the next month is the last day of this one.
func MonthWindow(year, month int) Window {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.Month(month)+1, 0, 23, 59, 59, 0, time.UTC)
	return Window{Start: start.UnixMilli(), End: end.UnixMilli()}
}

// YearWindow returns the window covering the given calendar year in UTC.
func YearWindow(year int) Window {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	return Window{Start: start.UnixMilli(), End: end.UnixMilli()}
}

// WeekWindow returns the window for the week containing ref, with a fixed
// Monday start and Sunday end.
func WeekWindow(ref time.Time) Window {
	ref = ref.UTC()
	back := (int(ref.Weekday()) + 6) % 7 // days since Monday
	monday := time.Date(ref.Year(), ref.Month(), ref.Day()-back, 0, 0, 0, 0, time.UTC)
	sunday := monday.AddDate(0, 0, 6)
	end := time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 0, time.UTC)
	return Window{Start: monday.UnixMilli(), End: end.UnixMilli()}
}

// Contains reports whether the epoch-millisecond instant falls inside the
// window. Both boundaries are inclusive.
func (w Window) Contains(ms int64) bool {
	return ms >= w.Start && ms <= w.End
}
