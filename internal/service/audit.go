package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/schoolraise/raffle-api/internal/domain"
)

type AuditRepository interface {
	Append(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error)
	GetByCampaign(ctx context.Context, campaignID uint, includeSensitive bool) ([]domain.AuditEntry, error)
}

type AuditService struct {
	repo AuditRepository
}

func NewAuditService(repo AuditRepository) *AuditService {
	return &AuditService{
		repo: repo,
	}
}

// Record appends one audit entry. It runs after the primary transaction has
// committed: a failure here must not undo or fail the action itself, so it
// is logged and swallowed. An entry can be missing for a committed action in
// rare failure windows, but an entry never exists for an action that did not
// commit.
func (s *AuditService) Record(ctx context.Context, action string, campaignID, studentID *uint, before, after interface{}, actor domain.Actor, sensitive bool) {
	entry := domain.AuditEntry{
		Action:     action,
		CampaignID: campaignID,
		StudentID:  studentID,
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Sensitive:  sensitive,
	}

	var err error
	if before != nil {
		if entry.Before, err = json.Marshal(before); err != nil {
			zap.L().Error("failed to marshal audit before snapshot", zap.String("action", action), zap.Error(err))
			return
		}
	}
	if after != nil {
		if entry.After, err = json.Marshal(after); err != nil {
			zap.L().Error("failed to marshal audit after snapshot", zap.String("action", action), zap.Error(err))
			return
		}
	}

	if _, err = s.repo.Append(ctx, entry); err != nil {
		zap.L().Error("failed to append audit entry", zap.String("action", action), zap.Error(err))
	}
}

func (s *AuditService) GetCampaignLog(ctx context.Context, campaignID uint, includeSensitive bool) ([]domain.AuditEntry, error) {
	entries, err := s.repo.GetByCampaign(ctx, campaignID, includeSensitive)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetByCampaign -> %w", err)
	}

	return entries, nil
}
