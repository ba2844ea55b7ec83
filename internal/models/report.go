package models

// StatusCount is one row of a grouped count (breakdown by agreement status,
// payment status, district or package).
type StatusCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// AreaShare is one district's share of the active records.
type AreaShare struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MonthlyTrend aggregates one calendar month of subscription activity.
type MonthlyTrend struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	MonthName   string  `json:"month_name"`
	Total       int     `json:"total_subscriptions"`
	Agreed      int     `json:"agreed_subscriptions"`
	SuccessRate float64 `json:"success_rate"`
}

// SubscriptionStats are the scalar counters of the dashboard, computed over
// active records in a single pass.
type SubscriptionStats struct {
	Total            int `json:"total_subscriptions"`
	Agreed           int `json:"total_agreed"`
	Refused          int `json:"total_refused"`
	Paid             int `json:"paid"`
	Pending          int `json:"pending"`
	Failed           int `json:"failed"`
	ThisMonth        int `json:"this_month_subscriptions"`
	UpcomingRenewals int `json:"upcoming_renewals"`
}
