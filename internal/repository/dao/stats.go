package dao

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StudentCampaignStats struct {
	ID              string `gorm:"primaryKey"` // "{campaignID}_{studentID}"
	CampaignID      uint   `gorm:"not null;index"`
	StudentID       uint   `gorm:"not null;index"`
	StudentName     string `gorm:"not null"`
	TicketsAssigned int    `gorm:"not null;default:0"`
	TicketsDrawn    int    `gorm:"not null;default:0"`
	UpdatedAt       time.Time
}

func (StudentCampaignStats) TableName() string {
	return "student_campaign_stats"
}

type statsDelta struct {
	CampaignID      uint
	StudentID       uint
	StudentName     string
	TicketsAssigned int
	TicketsDrawn    int
}

// upsertStats merges a counter delta into the per-(campaign, student) stats
// row, creating it on first issuance. Runs inside the caller's transaction.
func upsertStats(tx *gorm.DB, delta statsDelta, now time.Time) error {
	row := StudentCampaignStats{
		ID:              statsID(delta.CampaignID, delta.StudentID),
		CampaignID:      delta.CampaignID,
		StudentID:       delta.StudentID,
		StudentName:     delta.StudentName,
		TicketsAssigned: delta.TicketsAssigned,
		TicketsDrawn:    delta.TicketsDrawn,
		UpdatedAt:       now,
	}

	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"tickets_assigned": gorm.Expr("student_campaign_stats.tickets_assigned + ?", delta.TicketsAssigned),
			"tickets_drawn":    gorm.Expr("student_campaign_stats.tickets_drawn + ?", delta.TicketsDrawn),
			"student_name":     delta.StudentName,
			"updated_at":       now,
		}),
	}).Create(&row).Error
}

func statsID(campaignID, studentID uint) string {
	return fmt.Sprintf("%d_%d", campaignID, studentID)
}

type StatsDAO struct {
	db *gorm.DB
}

func NewStatsDAO(db *gorm.DB) *StatsDAO {
	return &StatsDAO{
		db: db,
	}
}

func (d *StatsDAO) FindByCampaign(ctx context.Context, campaignID uint) ([]StudentCampaignStats, error) {
	var stats []StudentCampaignStats

	result := d.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("tickets_assigned DESC, student_id").
		Find(&stats)
	if result.Error != nil {
		return nil, result.Error
	}

	return stats, nil
}

// Rebuild recomputes every stats row of a campaign from the ticket store.
// The stats table is a cache; the tickets are authoritative.
func (d *StatsDAO) Rebuild(ctx context.Context, campaignID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", campaignID).
			Delete(&StudentCampaignStats{}).Error; err != nil {
			return err
		}

		return tx.Exec(`
			INSERT INTO student_campaign_stats
				(id, campaign_id, student_id, student_name, tickets_assigned, tickets_drawn, updated_at)
			SELECT
				campaign_id || '_' || student_id,
				campaign_id,
				student_id,
				MAX(student_name),
				COUNT(*) FILTER (WHERE status IN ('assigned', 'drawn')),
				COUNT(*) FILTER (WHERE status = 'drawn'),
				NOW()
			FROM tickets
			WHERE campaign_id = ?
			GROUP BY campaign_id, student_id`, campaignID).Error
	})
}
