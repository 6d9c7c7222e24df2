package response

import "github.com/schoolraise/raffle-api/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type IssueTicketsResponse struct {
	CampaignID    uint  `json:"campaign_id"`
	StudentID     uint  `json:"student_id"`
	TicketNumbers []int `json:"ticket_numbers"`
}

type RunDrawResponse struct {
	CampaignID uint                `json:"campaign_id"`
	Seed       string              `json:"seed"`
	Winners    []domain.RaffleDraw `json:"winners"`
}

// PublicCampaignResponse is the transparency view: counters plus the
// non-sensitive audit trail, no student-identifying ticket listing.
type PublicCampaignResponse struct {
	Campaign domain.Campaign     `json:"campaign"`
	AuditLog []domain.AuditEntry `json:"audit_log"`
}
