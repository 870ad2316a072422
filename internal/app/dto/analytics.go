package dto

type AnalyticsSummary struct {
	TotalBookings     int    `json:"total_bookings"`
	ConfirmedBookings int    `json:"confirmed_bookings"`
	CancelledBookings int    `json:"cancelled_bookings"`
	CompletedBookings int    `json:"completed_bookings"`
	TotalRevenue      string `json:"total_revenue"`
	Currency          string `json:"currency"`
}
