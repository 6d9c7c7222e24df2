package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateCampaignRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"` // RFC 3339
	EndDate     string `json:"end_date"`   // RFC 3339
	Status      string `json:"status"`
	TicketGoal  int    `json:"ticket_goal"`
}

func (req *CreateCampaignRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Status, validation.Required, validation.In("draft", "active", "closed")),
		validation.Field(&req.TicketGoal, validation.Min(0)),
	)
}

type UpdateCampaignRequest struct {
	CreateCampaignRequest
}

type IssueTicketsRequest struct {
	StudentID    uint   `json:"student_id"`
	StudentName  string `json:"student_name"`
	StudentClass string `json:"student_class"`
	StudentGrade string `json:"student_grade"`
	Quantity     int    `json:"quantity"`
	DonationID   *uint  `json:"donation_id"`
}

func (req *IssueTicketsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.StudentID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.StudentName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	)
}

type RunDrawRequest struct {
	Seed         string `json:"seed"`
	WinnersCount int    `json:"winners_count"`
}

func (req *RunDrawRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Seed, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.WinnersCount, validation.Required, validation.Min(1)),
	)
}
