package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrCampaignNotFound = errors.New("campaign not found")
)

type Campaign struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      string `gorm:"not null;default:draft"`
	TicketGoal  int    `gorm:"not null;default:0"`

	TicketsTotal     int `gorm:"not null;default:0"`
	TicketsAssigned  int `gorm:"not null;default:0"`
	TicketsDrawn     int `gorm:"not null;default:0"`
	TicketsAvailable int `gorm:"not null;default:0"`

	CreatedBy uint `gorm:"not null"`
	UpdatedBy uint `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Campaign) TableName() string {
	return "campaigns"
}

type CampaignDAO struct {
	db *gorm.DB
}

func NewCampaignDAO(db *gorm.DB) *CampaignDAO {
	return &CampaignDAO{
		db: db,
	}
}

func (d *CampaignDAO) Insert(ctx context.Context, campaign Campaign) (Campaign, error) {
	result := d.db.WithContext(ctx).Create(&campaign)
	if result.Error != nil {
		return Campaign{}, result.Error
	}

	return campaign, nil
}

// Update rewrites descriptive fields and status only. The ticket counters
// are owned by the issuance and draw transactions and are never touched here.
func (d *CampaignDAO) Update(ctx context.Context, campaign Campaign) (Campaign, error) {
	result := d.db.WithContext(ctx).
		Model(&Campaign{ID: campaign.ID}).
		Select("name", "description", "start_date", "end_date", "status", "ticket_goal", "updated_by").
		Updates(map[string]interface{}{
			"name":        campaign.Name,
			"description": campaign.Description,
			"start_date":  campaign.StartDate,
			"end_date":    campaign.EndDate,
			"status":      campaign.Status,
			"ticket_goal": campaign.TicketGoal,
			"updated_by":  campaign.UpdatedBy,
		})
	if result.Error != nil {
		return Campaign{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Campaign{}, ErrCampaignNotFound
	}

	return d.FindByID(ctx, campaign.ID)
}

func (d *CampaignDAO) FindByID(ctx context.Context, id uint) (Campaign, error) {
	var campaign Campaign

	result := d.db.WithContext(ctx).First(&campaign, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Campaign{}, ErrCampaignNotFound
		}

		return Campaign{}, result.Error
	}

	return campaign, nil
}

func (d *CampaignDAO) FindAll(ctx context.Context) ([]Campaign, error) {
	var campaigns []Campaign

	result := d.db.WithContext(ctx).Order("id").Find(&campaigns)
	if result.Error != nil {
		return nil, result.Error
	}

	return campaigns, nil
}
