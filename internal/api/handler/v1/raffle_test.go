package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolraise/raffle-api/internal/api/handler/v1/response"
	"github.com/schoolraise/raffle-api/internal/api/middleware"
	"github.com/schoolraise/raffle-api/internal/domain"
	"github.com/schoolraise/raffle-api/internal/service"
)

type stubUserService struct {
	user domain.User
}

func (s *stubUserService) GetUser(_ context.Context, _ uint) (domain.User, error) {
	return s.user, nil
}

type stubRaffleService struct {
	issueFn func(ctx context.Context, in service.IssueTicketsInput, actor domain.Actor) ([]int, error)
	drawFn  func(ctx context.Context, campaignID uint, seed string, winnersCount int, actor domain.Actor) ([]domain.RaffleDraw, error)
}

func (s *stubRaffleService) IssueTickets(ctx context.Context, in service.IssueTicketsInput, actor domain.Actor) ([]int, error) {
	return s.issueFn(ctx, in, actor)
}

func (s *stubRaffleService) RunDraw(ctx context.Context, campaignID uint, seed string, winnersCount int, actor domain.Actor) ([]domain.RaffleDraw, error) {
	return s.drawFn(ctx, campaignID, seed, winnersCount, actor)
}

func (s *stubRaffleService) GetTicketByNumber(context.Context, uint, int) (domain.Ticket, error) {
	return domain.Ticket{}, nil
}

func (s *stubRaffleService) GetTickets(context.Context, uint, domain.TicketFilter) ([]domain.Ticket, error) {
	return nil, nil
}

func (s *stubRaffleService) GetStats(context.Context, uint) ([]domain.StudentCampaignStats, error) {
	return nil, nil
}

func (s *stubRaffleService) RebuildStats(context.Context, uint, domain.Actor) error {
	return nil
}

func (s *stubRaffleService) GetDraws(context.Context, uint) ([]domain.RaffleDraw, error) {
	return nil, nil
}

type stubAuditService struct {
	lastIncludeSensitive bool
	entries              []domain.AuditEntry
}

func (s *stubAuditService) GetCampaignLog(_ context.Context, _ uint, includeSensitive bool) ([]domain.AuditEntry, error) {
	s.lastIncludeSensitive = includeSensitive
	return s.entries, nil
}

type stubCampaignService struct {
	campaign domain.Campaign
	err      error
}

func (s *stubCampaignService) GetCampaign(context.Context, uint) (domain.Campaign, error) {
	return s.campaign, s.err
}

// newTestRouter mounts the raffle routes behind a middleware stub that
// injects the given user, standing in for the JWT authenticator.
func newTestRouter(user domain.User, handler *RaffleHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	group := router.Group("/api/v1", func(ctx *gin.Context) {
		ctx.Set(middleware.ContextKeyUserID, user.ID)
		ctx.Next()
	})
	group.POST("/campaigns/:campaignID/tickets", handler.HandleIssueTickets)
	group.POST("/campaigns/:campaignID/draws", handler.HandleRunDraw)

	return router
}

func organizer() domain.User {
	return domain.User{ID: 1, Name: "Ms. Park", Role: "organizer"}
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	return recorder
}

func TestHandleIssueTickets(t *testing.T) {
	user := organizer()
	svc := &stubRaffleService{
		issueFn: func(_ context.Context, in service.IssueTicketsInput, actor domain.Actor) ([]int, error) {
			assert.Equal(t, uint(12), in.CampaignID)
			assert.Equal(t, uint(7), in.StudentID)
			assert.Equal(t, 3, in.Quantity)
			assert.Equal(t, user.ID, actor.ID)
			return []int{101, 205, 733}, nil
		},
	}
	handler := NewRaffleHandler(svc, &stubAuditService{}, &stubUserService{user: user})
	router := newTestRouter(user, handler)

	recorder := postJSON(t, router, "/api/v1/campaigns/12/tickets", gin.H{
		"student_id":   7,
		"student_name": "Ana",
		"quantity":     3,
	})

	require.Equal(t, http.StatusCreated, recorder.Code)

	var resp response.IssueTicketsResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, uint(12), resp.CampaignID)
	assert.Equal(t, []int{101, 205, 733}, resp.TicketNumbers)
}

func TestHandleIssueTickets_ViewerForbidden(t *testing.T) {
	user := domain.User{ID: 2, Name: "Viewer", Role: "viewer"}
	handler := NewRaffleHandler(&stubRaffleService{}, &stubAuditService{}, &stubUserService{user: user})
	router := newTestRouter(user, handler)

	recorder := postJSON(t, router, "/api/v1/campaigns/12/tickets", gin.H{
		"student_id":   7,
		"student_name": "Ana",
		"quantity":     3,
	})

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestHandleIssueTickets_InvalidBody(t *testing.T) {
	user := organizer()
	handler := NewRaffleHandler(&stubRaffleService{}, &stubAuditService{}, &stubUserService{user: user})
	router := newTestRouter(user, handler)

	recorder := postJSON(t, router, "/api/v1/campaigns/12/tickets", gin.H{
		"student_id": 7,
		"quantity":   0,
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleIssueTickets_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"campaign not found", service.ErrCampaignNotFound, http.StatusNotFound},
		{"campaign not active", service.ErrCampaignNotActive, http.StatusUnprocessableEntity},
		{"number space exhausted", service.ErrNumberSpaceExhausted, http.StatusConflict},
		{"number conflict", service.ErrTicketNumberConflict, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := organizer()
			svc := &stubRaffleService{
				issueFn: func(context.Context, service.IssueTicketsInput, domain.Actor) ([]int, error) {
					return nil, tt.err
				},
			}
			handler := NewRaffleHandler(svc, &stubAuditService{}, &stubUserService{user: user})
			router := newTestRouter(user, handler)

			recorder := postJSON(t, router, "/api/v1/campaigns/12/tickets", gin.H{
				"student_id":   7,
				"student_name": "Ana",
				"quantity":     3,
			})

			assert.Equal(t, tt.wantCode, recorder.Code)
		})
	}
}

func TestHandleRunDraw(t *testing.T) {
	user := organizer()
	svc := &stubRaffleService{
		drawFn: func(_ context.Context, campaignID uint, seed string, winnersCount int, _ domain.Actor) ([]domain.RaffleDraw, error) {
			assert.Equal(t, uint(12), campaignID)
			assert.Equal(t, "gala-night", seed)
			assert.Equal(t, 2, winnersCount)
			return []domain.RaffleDraw{
				{ID: 1, CampaignID: campaignID, TicketNumber: 101, Seed: seed},
				{ID: 2, CampaignID: campaignID, TicketNumber: 733, Seed: seed},
			}, nil
		},
	}
	handler := NewRaffleHandler(svc, &stubAuditService{}, &stubUserService{user: user})
	router := newTestRouter(user, handler)

	recorder := postJSON(t, router, "/api/v1/campaigns/12/draws", gin.H{
		"seed":          "gala-night",
		"winners_count": 2,
	})

	require.Equal(t, http.StatusCreated, recorder.Code)

	var resp response.RunDrawResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "gala-night", resp.Seed)
	require.Len(t, resp.Winners, 2)
	assert.Equal(t, 101, resp.Winners[0].TicketNumber)
}

func TestHandleRunDraw_NoEligibleTickets(t *testing.T) {
	user := organizer()
	svc := &stubRaffleService{
		drawFn: func(context.Context, uint, string, int, domain.Actor) ([]domain.RaffleDraw, error) {
			return nil, service.ErrNoEligibleTickets
		},
	}
	handler := NewRaffleHandler(svc, &stubAuditService{}, &stubUserService{user: user})
	router := newTestRouter(user, handler)

	recorder := postJSON(t, router, "/api/v1/campaigns/12/draws", gin.H{
		"seed":          "gala-night",
		"winners_count": 2,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestHandleGetPublicCampaign(t *testing.T) {
	gin.SetMode(gin.TestMode)

	audit := &stubAuditService{
		entries: []domain.AuditEntry{{ID: 1, Action: domain.AuditActionDrawExecute}},
	}
	handler := NewPublicHandler(&stubCampaignService{
		campaign: domain.Campaign{ID: 12, Name: "Spring Gala", TicketsTotal: 40},
	}, audit)

	router := gin.New()
	router.GET("/api/v1/public/campaigns/:campaignID", handler.HandleGetPublicCampaign)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/campaigns/12", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.False(t, audit.lastIncludeSensitive, "public view must exclude sensitive entries")

	var resp response.PublicCampaignResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "Spring Gala", resp.Campaign.Name)
	require.Len(t, resp.AuditLog, 1)
}

func TestHandleGetPublicCampaign_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewPublicHandler(&stubCampaignService{err: service.ErrCampaignNotFound}, &stubAuditService{})

	router := gin.New()
	router.GET("/api/v1/public/campaigns/:campaignID", handler.HandleGetPublicCampaign)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/campaigns/404", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
