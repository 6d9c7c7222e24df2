package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolraise/raffle-api/internal/api/handler/v1/response"
	"github.com/schoolraise/raffle-api/internal/domain"
	"github.com/schoolraise/raffle-api/internal/service"
)

type PublicCampaignService interface {
	GetCampaign(ctx context.Context, id uint) (domain.Campaign, error)
}

// PublicHandler serves the unauthenticated transparency view of a campaign:
// aggregate counters plus the non-sensitive audit trail, never individual
// ticket assignments.
type PublicHandler struct {
	svc   PublicCampaignService
	audit AuditLogService
}

func NewPublicHandler(svc PublicCampaignService, audit AuditLogService) *PublicHandler {
	return &PublicHandler{
		svc:   svc,
		audit: audit,
	}
}

// HandleGetPublicCampaign godoc
// @Summary      Get the public transparency view of a campaign
// @Description  Returns the campaign's aggregate counters and its non-sensitive audit entries. No authentication required.
// @Tags         public
// @Produce      json
// @Param        campaignID  path  int  true  "campaign ID"
// @Success      200  {object}  response.PublicCampaignResponse
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /public/campaigns/{campaignID} [get]
func (h *PublicHandler) HandleGetPublicCampaign(ctx *gin.Context) {
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

		err = fmt.Errorf("v1.HandleGetPublicCampaign -> h.svc.GetCampaign -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	entries, err := h.audit.GetCampaignLog(ctx.Request.Context(), campaignID, false)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetPublicCampaign -> h.audit.GetCampaignLog -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.PublicCampaignResponse{
		Campaign: campaign,
		AuditLog: entries,
	})
}
