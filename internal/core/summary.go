package core

// MonthlySummary is the peak number of active device installs seen in one month.
type MonthlySummary struct {
	Month       string `json:"month"` // e.g. "Jan 2024"
	ActiveUsers int64  `json:"activeUsers"`
}
