package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schoolraise/raffle-api/internal/api/handler/v1/request"
	"github.com/schoolraise/raffle-api/internal/api/handler/v1/response"
	"github.com/schoolraise/raffle-api/internal/domain"
	"github.com/schoolraise/raffle-api/internal/service"
)

type RaffleService interface {
	IssueTickets(ctx context.Context, in service.IssueTicketsInput, actor domain.Actor) ([]int, error)
	RunDraw(ctx context.Context, campaignID uint, seed string, winnersCount int, actor domain.Actor) ([]domain.RaffleDraw, error)
	GetTicketByNumber(ctx context.Context, campaignID uint, number int) (domain.Ticket, error)
	GetTickets(ctx context.Context, campaignID uint, filter domain.TicketFilter) ([]domain.Ticket, error)
	GetStats(ctx context.Context, campaignID uint) ([]domain.StudentCampaignStats, error)
	RebuildStats(ctx context.Context, campaignID uint, actor domain.Actor) error
	GetDraws(ctx context.Context, campaignID uint) ([]domain.RaffleDraw, error)
}

type AuditLogService interface {
	GetCampaignLog(ctx context.Context, campaignID uint, includeSensitive bool) ([]domain.AuditEntry, error)
}

type RaffleHandler struct {
	svc   RaffleService
	audit AuditLogService
	uSvc  UserService
}

func NewRaffleHandler(svc RaffleService, audit AuditLogService, uSvc UserService) *RaffleHandler {
	return &RaffleHandler{
		svc:   svc,
		audit: audit,
		uSvc:  uSvc,
	}
}

// HandleIssueTickets godoc
// @Summary      Issue tickets to a student
// @Description  Mints a batch of uniquely numbered tickets for one student in an active campaign. Only organizers can issue tickets.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        campaignID  path      int                          true  "campaign ID"
// @Param        request     body      request.IssueTicketsRequest  true  "issuance details"
// @Success      201  {object}  response.IssueTicketsResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns/{campaignID}/tickets [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleIssueTickets(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if user.Role != "organizer" {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an organizer", user.ID)))
		return
	}

	campaignID, respErr := parseCampaignID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.IssueTicketsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	numbers, err := h.svc.IssueTickets(ctx.Request.Context(), service.IssueTicketsInput{
		CampaignID:   campaignID,
		StudentID:    req.StudentID,
		StudentName:  req.StudentName,
		StudentClass: req.StudentClass,
		StudentGrade: req.StudentGrade,
		Quantity:     req.Quantity,
		DonationID:   req.DonationID,
	}, user.Actor())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCampaignNotFound):
			response.RenderErr(ctx, response.ErrNotFound("campaign", "ID", campaignID))
		case errors.Is(err, service.ErrInvalidQuantity):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidQuantity))
		case errors.Is(err, service.ErrCampaignNotActive):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrCampaignNotActive))
		case errors.Is(err, service.ErrNumberSpaceExhausted):
			response.RenderErr(ctx, response.ErrConflict(service.ErrNumberSpaceExhausted))
		case errors.Is(err, service.ErrTicketNumberConflict):
			response.RenderErr(ctx, response.ErrConflict(service.ErrTicketNumberConflict))
		default:
			err = fmt.Errorf("v1.HandleIssueTickets -> h.svc.IssueTickets -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.IssueTicketsResponse{
		CampaignID:    campaignID,
		StudentID:     req.StudentID,
		TicketNumbers: numbers,
	})
}

// HandleGetTickets godoc
// @Summary      List tickets in a campaign
// @Description  Lists tickets, optionally filtered by student, status, number range and assignment date range.
// @Tags         tickets
// @Produce      json
// @Param        campaignID  path   int     true   "campaign ID"
// @Param        student_id  query  int     false  "filter by student"
// @Param        status      query  string  false  "filter by status"
// @Param        number_from query  int     false  "lowest ticket number"
// @Param        number_to   query  int     false  "highest ticket number"
// @Param        from        query  string  false  "assigned at or after (RFC 3339)"
// @Param        to          query  string  false  "assigned at or before (RFC 3339)"
// @Success      200  {array}   domain.Ticket
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns/{campaignID}/tickets [get]
// @Security     BearerAuth
func (h *RaffleHandler) HandleGetTickets(ctx *gin.Context) {
	campaignID, respErr := parseCampaignID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	filter, err := ticketFilterFromQuery(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	tickets, err := h.svc.GetTickets(ctx.Request.Context(), campaignID, filter)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetTickets -> h.svc.GetTickets -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, tickets)
}

func ticketFilterFromQuery(ctx *gin.Context) (domain.TicketFilter, error) {
	var filter domain.TicketFilter

	if raw := ctx.Query("student_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid student_id (%v)", raw)
		}
		filter.StudentID = uint(id)
	}
	if raw := ctx.Query("status"); raw != "" {
		filter.Status = domain.TicketStatus(raw)
	}
	if raw := ctx.Query("number_from"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid number_from (%v)", raw)
		}
		filter.NumberFrom = n
	}
	if raw := ctx.Query("number_to"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid number_to (%v)", raw)
		}
		filter.NumberTo = n
	}
	if raw := ctx.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, fmt.Errorf("invalid from (%v)", raw)
		}
		filter.From = &t
	}
	if raw := ctx.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, fmt.Errorf("invalid to (%v)", raw)
		}
		filter.To = &t
	}

	return filter, nil
}

// HandleGetTicketByNumber godoc
// @Summary      Look up a ticket by its number
// @Tags         tickets
// @Produce      json
// @Param        campaignID  path  int  true  "campaign ID"
// @Param        number      path  int  true  "ticket number"
// @Success      200  {object}  domain.Ticket
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns/{campaignID}/tickets/{number} [get]
// @Security     BearerAuth
func (h *RaffleHandler) HandleGetTicketByNumber(ctx *gin.Context) {
	campaignID, respErr := parseCampaignID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rawNumber := ctx.Param("number")
	number, err := strconv.Atoi(rawNumber)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid ticket number (%v)", rawNumber)))
		return
	}

	ticket, err := h.svc.GetTicketByNumber(ctx.Request.Context(), campaignID, number)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("ticket", "number", number))
			return
		}

		err = fmt.Errorf("v1.HandleGetTicketByNumber -> h.svc.GetTicketByNumber -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleRunDraw godoc
// @Summary      Run a raffle draw
// @Description  Selects winners from the campaign's assigned tickets using a deterministic seeded sequence. Only organizers can run draws.
// @Tags         draws
// @Accept       json
// @Produce      json
// @Param        campaignID  path      int                     true  "campaign ID"
// @Param        request     body      request.RunDrawRequest  true  "draw details"
// @Success      201  {object}  response.RunDrawResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns/{campaignID}/draws [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleRunDraw(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if user.Role != "organizer" {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an organizer", user.ID)))
		return
	}

	campaignID, respErr := parseCampaignID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RunDrawRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	winners, err := h.svc.RunDraw(ctx.Request.Context(), campaignID, req.Seed, req.WinnersCount, user.Actor())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCampaignNotFound):
			response.RenderErr(ctx, response.ErrNotFound("campaign", "ID", campaignID))
		case errors.Is(err, service.ErrSeedRequired):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrSeedRequired))
		case errors.Is(err, service.ErrInvalidWinnersCount):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidWinnersCount))
		case errors.Is(err, service.ErrNoEligibleTickets):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrNoEligibleTickets))
		case errors.Is(err, service.ErrTicketNotAssigned):
			response.RenderErr(ctx, response.ErrConflict(service.ErrTicketNotAssigned))
		default:
			err = fmt.Errorf("v1.HandleRunDraw -> h.svc.RunDraw -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.RunDrawResponse{
		CampaignID: campaignID,
		Seed:       req.Seed,
		Winners:    winners,
	})
}

// HandleGetDraws godoc
// @Summary      List draw results for a campaign
// @Tags         draws
// @Produce      json
// @Param        campaignID  path  int  true  "campaign ID"
// @Success      200  {array}   domain.RaffleDraw
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns/{campaignID}/draws [get]
// @Security     BearerAuth
func (h *RaffleHandler) HandleGetDraws(ctx *gin.Context) {
	campaignID, respErr := parseCampaignID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	draws, err := h.svc.GetDraws(ctx.Request.Context(), campaignID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetDraws -> h.svc.GetDraws -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, draws)
}

// HandleGetStats godoc
// @Summary      Get the per-student leaderboard for a campaign
// @Tags         stats
// @Produce      json
// @Param        campaignID  path  int  true  "campaign ID"
// @Success      200  {array}   domain.StudentCampaignStats
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns/{campaignID}/stats [get]
// @Security     BearerAuth
func (h *RaffleHandler) HandleGetStats(ctx *gin.Context) {
	campaignID, respErr := parseCampaignID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	stats, err := h.svc.GetStats(ctx.Request.Context(), campaignID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetStats -> h.svc.GetStats -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleRebuildStats godoc
// @Summary      Rebuild the per-student stats cache from the ticket store
// @Tags         stats
// @Produce      json
// @Param        campaignID  path  int  true  "campaign ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns/{campaignID}/stats/rebuild [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleRebuildStats(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if user.Role != "organizer" {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an organizer", user.ID)))
		return
	}

	campaignID, respErr := parseCampaignID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.RebuildStats(ctx.Request.Context(), campaignID, user.Actor()); err != nil {
		if errors.Is(err, service.ErrCampaignNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("campaign", "ID", campaignID))
			return
		}

		err = fmt.Errorf("v1.HandleRebuildStats -> h.svc.RebuildStats -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetAuditLog godoc
// @Summary      Get the full audit log for a campaign
// @Description  Returns every audit entry for the campaign, sensitive entries included. Only organizers can read the full log.
// @Tags         audit
// @Produce      json
// @Param        campaignID  path  int  true  "campaign ID"
// @Success      200  {array}   domain.AuditEntry
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns/{campaignID}/audit [get]
// @Security     BearerAuth
func (h *RaffleHandler) HandleGetAuditLog(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if user.Role != "organizer" {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an organizer", user.ID)))
		return
	}

	campaignID, respErr := parseCampaignID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	entries, err := h.audit.GetCampaignLog(ctx.Request.Context(), campaignID, true)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetAuditLog -> h.audit.GetCampaignLog -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, entries)
}
