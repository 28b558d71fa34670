package dto

// DashboardResponse aggregates the inventory stats shown on the landing page
// together with the newest messages.
type DashboardResponse struct {
	TotalDrugs     int64             `json:"total_drugs"`
	ExpiredDrugs   int64             `json:"expired_drugs"`
	LowStock       int64             `json:"low_stock"`
	RecentMessages []MessageResponse `json:"recent_messages"`
	Notices        []string          `json:"notices,omitempty"`
}
