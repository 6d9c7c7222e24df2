package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// AuditEntry is append-only: rows are inserted after the primary transaction
// commits and are never mutated afterwards.
type AuditEntry struct {
	ID         uint   `gorm:"primaryKey"`
	Action     string `gorm:"not null;index"`
	CampaignID *uint  `gorm:"index"`
	StudentID  *uint
	Before     []byte `gorm:"type:jsonb"`
	After      []byte `gorm:"type:jsonb"`
	ActorID    uint   `gorm:"not null"`
	ActorName  string `gorm:"not null"`
	Sensitive  bool   `gorm:"not null;default:false"`
	CreatedAt  time.Time
}

func (AuditEntry) TableName() string {
	return "raffle_audit_logs"
}

type AuditDAO struct {
	db *gorm.DB
}

func NewAuditDAO(db *gorm.DB) *AuditDAO {
	return &AuditDAO{
		db: db,
	}
}

func (d *AuditDAO) Insert(ctx context.Context, entry AuditEntry) (AuditEntry, error) {
	result := d.db.WithContext(ctx).Create(&entry)
	if result.Error != nil {
		return AuditEntry{}, result.Error
	}

	return entry, nil
}

func (d *AuditDAO) FindByCampaign(ctx context.Context, campaignID uint, includeSensitive bool) ([]AuditEntry, error) {
	var entries []AuditEntry

	tx := d.db.WithContext(ctx).Where("campaign_id = ?", campaignID)
	if !includeSensitive {
		tx = tx.Where("sensitive = ?", false)
	}

	result := tx.Order("id").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}
