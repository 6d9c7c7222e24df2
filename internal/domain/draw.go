package domain

import "time"

// RaffleDraw is one immutable winner record, one row per winning ticket per
// draw execution.
type RaffleDraw struct {
	ID              uint      `json:"id"`
	CampaignID      uint      `json:"campaign_id"`
	TicketID        uint      `json:"ticket_id"`
	TicketNumber    int       `json:"ticket_number"`
	StudentID       uint      `json:"student_id"`
	StudentName     string    `json:"student_name"`
	Seed            string    `json:"seed"`
	PerformedBy     uint      `json:"performed_by"`
	PerformedByName string    `json:"performed_by_name"`
	CreatedAt       time.Time `json:"created_at"`
}
