package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// RaffleDraw rows are immutable once written: one row per winning ticket per
// draw execution, never updated or deleted.
type RaffleDraw struct {
	ID              uint   `gorm:"primaryKey"`
	CampaignID      uint   `gorm:"not null;index"`
	TicketID        uint   `gorm:"not null;uniqueIndex"`
	TicketNumber    int    `gorm:"not null"`
	StudentID       uint   `gorm:"not null;index"`
	StudentName     string `gorm:"not null"`
	Seed            string `gorm:"not null"`
	PerformedBy     uint   `gorm:"not null"`
	PerformedByName string `gorm:"not null"`
	CreatedAt       time.Time
}

func (RaffleDraw) TableName() string {
	return "raffle_draws"
}

type DrawDAO struct {
	db *gorm.DB
}

func NewDrawDAO(db *gorm.DB) *DrawDAO {
	return &DrawDAO{
		db: db,
	}
}

func (d *DrawDAO) FindByCampaign(ctx context.Context, campaignID uint) ([]RaffleDraw, error) {
	var draws []RaffleDraw

	result := d.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("id").
		Find(&draws)
	if result.Error != nil {
		return nil, result.Error
	}

	return draws, nil
}
