package domain

import "time"

type CampaignStatus string

const (
	CampaignStatusDraft  CampaignStatus = "draft"
	CampaignStatusActive CampaignStatus = "active"
	CampaignStatusClosed CampaignStatus = "closed"
)

type Campaign struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	StartDate   *time.Time     `json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	Status      CampaignStatus `json:"status"`
	TicketGoal  int            `json:"ticket_goal"`

	// Aggregate counters, owned exclusively by the issuance and draw
	// engines. Invariant: TicketsAssigned + TicketsAvailable == TicketsTotal.
	TicketsTotal     int `json:"tickets_total"`
	TicketsAssigned  int `json:"tickets_assigned"`
	TicketsDrawn     int `json:"tickets_drawn"`
	TicketsAvailable int `json:"tickets_available"`

	CreatedBy uint      `json:"created_by"`
	UpdatedBy uint      `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AcceptsIssuance reports whether new tickets may be minted right now.
func (c *Campaign) AcceptsIssuance(now time.Time) bool {
	if c.Status != CampaignStatusActive {
		return false
	}
	if c.StartDate != nil && now.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && now.After(*c.EndDate) {
		return false
	}

	return true
}
