package models

// Metrics is the admin dashboard overview.
type Metrics struct {
	TotalTemplates int64   `json:"totalTemplates"`
	PendingReviews int64   `json:"pendingReviews"`
	TotalUsers     int64   `json:"totalUsers"`
	ActiveSellers  int64   `json:"activeSellers"`
	TotalSales     float64 `json:"totalSales"`
}

// MonthlyStat is one month bucket in the analytics charts.
type MonthlyStat struct {
	Month     string  `json:"month"`
	Templates int64   `json:"templates"`
	Users     int64   `json:"users"`
	Revenue   float64 `json:"revenue"`
}

// CategoryStat counts approved templates per category with the chart color
// assigned to it.
type CategoryStat struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
	Color string `json:"color"`
}
