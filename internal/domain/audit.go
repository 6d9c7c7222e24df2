package domain

import (
	"encoding/json"
	"time"
)

// Audit action names.
const (
	AuditActionCampaignCreate = "campaign.create"
	AuditActionCampaignUpdate = "campaign.update"
	AuditActionTicketsCreate  = "tickets.create"
	AuditActionDrawExecute    = "draw.execute"
	AuditActionStatsRebuild   = "stats.rebuild"
	AuditActionUserSignup     = "user.signup"
)

// AuditEntry is an append-only record of one mutating action. Entries are
// never updated or deleted. Sensitive entries are excluded from the public
// transparency view.
type AuditEntry struct {
	ID         uint            `json:"id"`
	Action     string          `json:"action"`
	CampaignID *uint           `json:"campaign_id,omitempty"`
	StudentID  *uint           `json:"student_id,omitempty"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	ActorID    uint            `json:"actor_id"`
	ActorName  string          `json:"actor_name"`
	Sensitive  bool            `json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
}
