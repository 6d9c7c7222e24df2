package domain

import "time"

type TicketStatus string

const (
	TicketStatusAvailable TicketStatus = "available"
	TicketStatusAssigned  TicketStatus = "assigned"
	TicketStatusDrawn     TicketStatus = "drawn"
	TicketStatusCanceled  TicketStatus = "canceled"
)

type Ticket struct {
	ID         uint         `json:"id"`
	CampaignID uint         `json:"campaign_id"`
	Number     int          `json:"number"`
	Status     TicketStatus `json:"status"`

	StudentID    uint   `json:"student_id"`
	StudentName  string `json:"student_name"`
	StudentClass string `json:"student_class"`
	StudentGrade string `json:"student_grade"`
	DonationID   *uint  `json:"donation_id,omitempty"`

	AssignedAt *time.Time `json:"assigned_at"`
	DrawnAt    *time.Time `json:"drawn_at"`
	CreatedBy  uint       `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TicketFilter narrows subscription-style ticket reads.
type TicketFilter struct {
	StudentID  uint
	Status     TicketStatus
	NumberFrom int
	NumberTo   int
	From       *time.Time
	To         *time.Time
}
