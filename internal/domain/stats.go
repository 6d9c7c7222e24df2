package domain

import (
	"fmt"
	"time"
)

// StudentCampaignStats is a denormalized per-(campaign, student) counter
// pair kept for fast leaderboard reads. It is a cache: the ticket store is
// authoritative and the row can always be rebuilt from it.
type StudentCampaignStats struct {
	ID              string    `json:"id"`
	CampaignID      uint      `json:"campaign_id"`
	StudentID       uint      `json:"student_id"`
	StudentName     string    `json:"student_name"`
	TicketsAssigned int       `json:"tickets_assigned"`
	TicketsDrawn    int       `json:"tickets_drawn"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// StatsID builds the deterministic composite key, one row per student per
// campaign.
func StatsID(campaignID, studentID uint) string {
	return fmt.Sprintf("%d_%d", campaignID, studentID)
}
