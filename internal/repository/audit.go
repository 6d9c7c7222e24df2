package repository

import (
	"context"
	"fmt"

	"github.com/schoolraise/raffle-api/internal/domain"
	"github.com/schoolraise/raffle-api/internal/repository/dao"
)

type AuditDAO interface {
	Insert(ctx context.Context, entry dao.AuditEntry) (dao.AuditEntry, error)
	FindByCampaign(ctx context.Context, campaignID uint, includeSensitive bool) ([]dao.AuditEntry, error)
}

type AuditRepository struct {
	dao AuditDAO
}

func NewAuditRepository(dao AuditDAO) *AuditRepository {
	return &AuditRepository{
		dao: dao,
	}
}

func (r *AuditRepository) Append(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error) {
	created, err := r.dao.Insert(ctx, dao.AuditEntry{
		Action:     entry.Action,
		CampaignID: entry.CampaignID,
		StudentID:  entry.StudentID,
		Before:     entry.Before,
		After:      entry.After,
		ActorID:    entry.ActorID,
		ActorName:  entry.ActorName,
		Sensitive:  entry.Sensitive,
	})
	if err != nil {
		return domain.AuditEntry{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return auditDaoToDomain(created), nil
}

func (r *AuditRepository) GetByCampaign(ctx context.Context, campaignID uint, includeSensitive bool) ([]domain.AuditEntry, error) {
	entries, err := r.dao.FindByCampaign(ctx, campaignID, includeSensitive)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByCampaign -> %w", err)
	}

	result := make([]domain.AuditEntry, len(entries))
	for i, e := range entries {
		result[i] = auditDaoToDomain(e)
	}

	return result, nil
}

func auditDaoToDomain(e dao.AuditEntry) domain.AuditEntry {
	return domain.AuditEntry{
		ID:         e.ID,
		Action:     e.Action,
		CampaignID: e.CampaignID,
		StudentID:  e.StudentID,
		Before:     e.Before,
		After:      e.After,
		ActorID:    e.ActorID,
		ActorName:  e.ActorName,
		Sensitive:  e.Sensitive,
		CreatedAt:  e.CreatedAt,
	}
}
