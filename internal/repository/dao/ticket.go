package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCampaignNotActive    = errors.New("campaign is not accepting tickets")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrTicketNumberConflict = errors.New("ticket number already taken")
	ErrTicketNotAssigned    = errors.New("ticket is no longer assigned")
)

type Ticket struct {
	ID         uint   `gorm:"primaryKey"`
	CampaignID uint   `gorm:"not null;uniqueIndex:idx_tickets_campaign_number"`
	Number     int    `gorm:"not null;uniqueIndex:idx_tickets_campaign_number"`
	Status     string `gorm:"not null;index"`

	StudentID    uint   `gorm:"not null;index"`
	StudentName  string `gorm:"not null"`
	StudentClass string
	StudentGrade string
	DonationID   *uint

	AssignedAt *time.Time
	DrawnAt    *time.Time
	CreatedBy  uint `gorm:"not null"`
	CreatedAt  time.Time
}

func (Ticket) TableName() string {
	return "tickets"
}

type TicketDAO struct {
	db *gorm.DB
}

func NewTicketDAO(db *gorm.DB) *TicketDAO {
	return &TicketDAO{
		db: db,
	}
}

// ListNumbers returns every ticket number already used in the campaign,
// regardless of ticket status. Canceled numbers stay burned.
func (d *TicketDAO) ListNumbers(ctx context.Context, campaignID uint) ([]int, error) {
	var numbers []int

	result := d.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("campaign_id = ?", campaignID).
		Pluck("number", &numbers)
	if result.Error != nil {
		return nil, result.Error
	}

	return numbers, nil
}

func (d *TicketDAO) FindByNumber(ctx context.Context, campaignID uint, number int) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).
		First(&ticket, "campaign_id = ? AND number = ?", campaignID, number)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ticket{}, ErrTicketNotFound
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

type TicketQuery struct {
	StudentID  uint
	Status     string
	NumberFrom int
	NumberTo   int
	From       *time.Time
	To         *time.Time
}

func (d *TicketDAO) Find(ctx context.Context, campaignID uint, q TicketQuery) ([]Ticket, error) {
	var tickets []Ticket

	tx := d.db.WithContext(ctx).Where("campaign_id = ?", campaignID)
	if q.StudentID != 0 {
		tx = tx.Where("student_id = ?", q.StudentID)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.NumberFrom != 0 {
		tx = tx.Where("number >= ?", q.NumberFrom)
	}
	if q.NumberTo != 0 {
		tx = tx.Where("number <= ?", q.NumberTo)
	}
	if q.From != nil {
		tx = tx.Where("created_at >= ?", q.From)
	}
	if q.To != nil {
		tx = tx.Where("created_at <= ?", q.To)
	}

	result := tx.Order("number").Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

// FindEligible returns the campaign's assigned tickets ordered ascending by
// number. The draw algorithm indexes into this sequence, so the ordering is
// part of the determinism contract.
func (d *TicketDAO) FindEligible(ctx context.Context, campaignID uint) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("campaign_id = ? AND status = ?", campaignID, "assigned").
		Order("number").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

// IssueAssigned commits one issuance as a single transaction: the campaign
// row is locked FOR UPDATE (serializing issuance per campaign), its status
// and date window are re-validated, the tickets are inserted, the campaign
// counters are incremented and the per-student stats row is upserted. The
// (campaign_id, number) unique index turns any number overlap that slipped
// past the snapshot read into ErrTicketNumberConflict.
func (d *TicketDAO) IssueAssigned(ctx context.Context, campaignID uint, tickets []Ticket) ([]Ticket, error) {
	if len(tickets) == 0 {
		return nil, nil
	}

	now := time.Now()
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var campaign Campaign
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&campaign, campaignID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCampaignNotFound
			}
			return err
		}

		if !campaignAcceptsIssuance(campaign, now) {
			return ErrCampaignNotActive
		}

		if err := tx.Create(&tickets).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrTicketNumberConflict
			}
			return err
		}

		quantity := len(tickets)
		if err := tx.Model(&Campaign{}).
			Where("id = ?", campaignID).
			Updates(map[string]interface{}{
				"tickets_total":    gorm.Expr("tickets_total + ?", quantity),
				"tickets_assigned": gorm.Expr("tickets_assigned + ?", quantity),
			}).Error; err != nil {
			return err
		}

		first := tickets[0]
		return upsertStats(tx, statsDelta{
			CampaignID:      campaignID,
			StudentID:       first.StudentID,
			StudentName:     first.StudentName,
			TicketsAssigned: quantity,
		}, now)
	})
	if err != nil {
		return nil, err
	}

	return tickets, nil
}

// ExecuteDraw commits one draw as a single transaction. Every winning ticket
// is re-validated inside the transaction: the guarded UPDATE only matches
// tickets still in assigned status, and a miss aborts the whole draw with
// ErrTicketNotAssigned so no partial draw is ever applied.
func (d *TicketDAO) ExecuteDraw(ctx context.Context, campaignID uint, winners []Ticket, draws []RaffleDraw) ([]RaffleDraw, error) {
	now := time.Now()
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var campaign Campaign
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&campaign, campaignID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCampaignNotFound
			}
			return err
		}

		for _, winner := range winners {
			result := tx.Model(&Ticket{}).
				Where("id = ? AND status = ?", winner.ID, "assigned").
				Updates(map[string]interface{}{
					"status":   "drawn",
					"drawn_at": now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected != 1 {
				return ErrTicketNotAssigned
			}
		}

		if err := tx.Model(&Campaign{}).
			Where("id = ?", campaignID).
			Update("tickets_drawn", gorm.Expr("tickets_drawn + ?", len(winners))).Error; err != nil {
			return err
		}

		for _, winner := range winners {
			if err := upsertStats(tx, statsDelta{
				CampaignID:   campaignID,
				StudentID:    winner.StudentID,
				StudentName:  winner.StudentName,
				TicketsDrawn: 1,
			}, now); err != nil {
				return err
			}
		}

		return tx.Create(&draws).Error
	})
	if err != nil {
		return nil, err
	}

	return draws, nil
}

func campaignAcceptsIssuance(campaign Campaign, now time.Time) bool {
	if campaign.Status != "active" {
		return false
	}
	if campaign.StartDate != nil && now.Before(*campaign.StartDate) {
		return false
	}
	if campaign.EndDate != nil && now.After(*campaign.EndDate) {
		return false
	}

	return true
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
