package core

// StatsBucket is one point in a time series. Date is a zero-padded key:
// "YYYY-MM-DD" for daily buckets, "YYYY-MM" for monthly ones, so that
// lexicographic order is date order.
type StatsBucket struct {
	Date              string  `json:"date"`
	TotalDailyIncome  float64 `json:"totalDailyIncome"`
	TotalDailyExpense float64 `json:"totalDailyExpense"`
}

// Stats holds the three complete series a chart renders directly: daily
// buckets for the current week and month, monthly buckets for the year.
type Stats struct {
	WeeklyData  []StatsBucket `json:"weeklyData"`
	MonthlyData []StatsBucket `json:"monthlyData"`
	YearlyData  []StatsBucket `json:"yearlyData"`
}

// Page is the envelope of a paginated listing. MonthTotal carries the
// expense-only sum for the month-filtered listing and is zero elsewhere.
type Page struct {
	Items      []Transaction
	TotalPages int
	MonthTotal float64
}
