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

type CampaignService interface {
	CreateCampaign(ctx context.Context, in service.CampaignInput, actor domain.Actor) (domain.Campaign, error)
	UpdateCampaign(ctx context.Context, id uint, in service.CampaignInput, actor domain.Actor) (domain.Campaign, error)
	GetCampaign(ctx context.Context, id uint) (domain.Campaign, error)
	GetCampaigns(ctx context.Context) ([]domain.Campaign, error)
}

type CampaignHandler struct {
	svc  CampaignService
	uSvc UserService
}

func NewCampaignHandler(svc CampaignService, uSvc UserService) *CampaignHandler {
	return &CampaignHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

func parseCampaignID(ctx *gin.Context) (uint, *response.Err) {
	raw := ctx.Param("campaignID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid campaign ID (%v)", raw))
	}

	return uint(id), nil
}

func campaignInputFromRequest(req request.CreateCampaignRequest) (service.CampaignInput, error) {
	in := service.CampaignInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      domain.CampaignStatus(req.Status),
		TicketGoal:  req.TicketGoal,
	}

	if req.StartDate != "" {
		start, err := time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			return service.CampaignInput{}, fmt.Errorf("invalid start_date (%v)", req.StartDate)
		}
		in.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			return service.CampaignInput{}, fmt.Errorf("invalid end_date (%v)", req.EndDate)
		}
		in.EndDate = &end
	}

	return in, nil
}

// HandleGetCampaigns godoc
// @Summary      List all campaigns
// @Tags         campaigns
// @Produce      json
// @Success      200  {array}   domain.Campaign
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns [get]
// @Security     BearerAuth
func (h *CampaignHandler) HandleGetCampaigns(ctx *gin.Context) {
	campaigns, err := h.svc.GetCampaigns(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetCampaigns -> h.svc.GetCampaigns -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, campaigns)
}

// HandleGetCampaign godoc
// @Summary      Get a campaign by ID
// @Tags         campaigns
// @Produce      json
// @Param        campaignID  path      int  true  "campaign ID"
// @Success      200  {object}  domain.Campaign
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns/{campaignID} [get]
// @Security     BearerAuth
func (h *CampaignHandler) HandleGetCampaign(ctx *gin.Context) {
	campaignID, respErr := parseCampaignID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	campaign, err := h.svc.GetCampaign(ctx.Request.Context(), campaignID)
	if err != nil {
		if errors.Is(err, service.ErrCampaignNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("campaign", "ID", campaignID))
			return
		}

		err = fmt.Errorf("v1.HandleGetCampaign -> h.svc.GetCampaign -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, campaign)
}

// HandleCreateCampaign godoc
// @Summary      Create a new campaign
// @Description  Creates a new raffle campaign. Only organizers can create campaigns.
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateCampaignRequest  true  "campaign details"
// @Success      201  {object}  domain.Campaign
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns [post]
// @Security     BearerAuth
func (h *CampaignHandler) HandleCreateCampaign(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if user.Role != "organizer" {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an organizer", user.ID)))
		return
	}

	var req request.CreateCampaignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	in, err := campaignInputFromRequest(req)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	campaign, err := h.svc.CreateCampaign(ctx.Request.Context(), in, user.Actor())
	if err != nil {
		if errors.Is(err, service.ErrEndBeforeStart) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrEndBeforeStart))
			return
		}

		err = fmt.Errorf("v1.HandleCreateCampaign -> h.svc.CreateCampaign -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, campaign)
}

// HandleUpdateCampaign godoc
// @Summary      Update a campaign
// @Description  Updates a campaign's descriptive fields and status. Counters are never writable through this endpoint.
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        campaignID  path      int                            true  "campaign ID"
// @Param        request     body      request.UpdateCampaignRequest  true  "campaign details"
// @Success      200  {object}  domain.Campaign
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns/{campaignID} [put]
// @Security     BearerAuth
func (h *CampaignHandler) HandleUpdateCampaign(ctx *gin.Context) {
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

	var req request.UpdateCampaignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	in, err := campaignInputFromRequest(req.CreateCampaignRequest)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	campaign, err := h.svc.UpdateCampaign(ctx.Request.Context(), campaignID, in, user.Actor())
	if err != nil {
		if errors.Is(err, service.ErrCampaignNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("campaign", "ID", campaignID))
			return
		}
		if errors.Is(err, service.ErrEndBeforeStart) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrEndBeforeStart))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateCampaign -> h.svc.UpdateCampaign -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, campaign)
}
