package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSignup() SignupRequest {
	return SignupRequest{
		Email:           "park@school.edu",
		Password:        "correct-horse1",
		ConfirmPassword: "correct-horse1",
		Name:            "Ms. Park",
		Role:            "organizer",
	}
}

func TestSignupRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *SignupRequest)
		wantErr bool
	}{
		{"valid organizer", func(r *SignupRequest) {}, false},
		{"valid viewer", func(r *SignupRequest) { r.Role = "viewer" }, false},
		{"bad email", func(r *SignupRequest) { r.Email = "not-an-email" }, true},
		{"unknown role", func(r *SignupRequest) { r.Role = "admin" }, true},
		{"password too short", func(r *SignupRequest) { r.Password = "ab1"; r.ConfirmPassword = "ab1" }, true},
		{"password without digit", func(r *SignupRequest) { r.Password = "lettersonly"; r.ConfirmPassword = "lettersonly" }, true},
		{"password without letter", func(r *SignupRequest) { r.Password = "12345678"; r.ConfirmPassword = "12345678" }, true},
		{"confirm mismatch", func(r *SignupRequest) { r.ConfirmPassword = "different-pass1" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateCampaignRequest_Validate(t *testing.T) {
	valid := CreateCampaignRequest{
		Name:       "Spring Gala",
		Status:     "draft",
		TicketGoal: 500,
	}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.Status = "archived"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Name = "X"
	assert.Error(t, bad.Validate())
}

func TestIssueTicketsRequest_Validate(t *testing.T) {
	valid := IssueTicketsRequest{
		StudentID:   7,
		StudentName: "Ana",
		Quantity:    3,
	}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.Quantity = 0
	assert.Error(t, bad.Validate())

	bad = valid
	bad.StudentName = ""
	assert.Error(t, bad.Validate())
}

func TestRunDrawRequest_Validate(t *testing.T) {
	valid := RunDrawRequest{Seed: "gala-night", WinnersCount: 3}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.Seed = ""
	assert.Error(t, bad.Validate())

	bad = valid
	bad.WinnersCount = 0
	assert.Error(t, bad.Validate())
}
