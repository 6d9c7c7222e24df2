package repository

import (
	"context"
	"fmt"

	"github.com/schoolraise/raffle-api/internal/domain"
	"github.com/schoolraise/raffle-api/internal/repository/dao"
)

var (
	ErrCampaignNotFound     = dao.ErrCampaignNotFound
	ErrCampaignNotActive    = dao.ErrCampaignNotActive
	ErrTicketNotFound       = dao.ErrTicketNotFound
	ErrTicketNumberConflict = dao.ErrTicketNumberConflict
	ErrTicketNotAssigned    = dao.ErrTicketNotAssigned
)

type CampaignDAO interface {
	Insert(ctx context.Context, campaign dao.Campaign) (dao.Campaign, error)
	Update(ctx context.Context, campaign dao.Campaign) (dao.Campaign, error)
	FindByID(ctx context.Context, id uint) (dao.Campaign, error)
	FindAll(ctx context.Context) ([]dao.Campaign, error)
}

type TicketDAO interface {
	ListNumbers(ctx context.Context, campaignID uint) ([]int, error)
	FindByNumber(ctx context.Context, campaignID uint, number int) (dao.Ticket, error)
	Find(ctx context.Context, campaignID uint, q dao.TicketQuery) ([]dao.Ticket, error)
	FindEligible(ctx context.Context, campaignID uint) ([]dao.Ticket, error)
	IssueAssigned(ctx context.Context, campaignID uint, tickets []dao.Ticket) ([]dao.Ticket, error)
	ExecuteDraw(ctx context.Context, campaignID uint, winners []dao.Ticket, draws []dao.RaffleDraw) ([]dao.RaffleDraw, error)
}

type StatsDAO interface {
	FindByCampaign(ctx context.Context, campaignID uint) ([]dao.StudentCampaignStats, error)
	Rebuild(ctx context.Context, campaignID uint) error
}

type DrawDAO interface {
	FindByCampaign(ctx context.Context, campaignID uint) ([]dao.RaffleDraw, error)
}

type RaffleRepository struct {
	campaigns CampaignDAO
	tickets   TicketDAO
	stats     StatsDAO
	draws     DrawDAO
}

func NewRaffleRepository(campaigns CampaignDAO, tickets TicketDAO, stats StatsDAO, draws DrawDAO) *RaffleRepository {
	return &RaffleRepository{
		campaigns: campaigns,
		tickets:   tickets,
		stats:     stats,
		draws:     draws,
	}
}

func (r *RaffleRepository) CreateCampaign(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error) {
	created, err := r.campaigns.Insert(ctx, campaignDomainToDao(campaign))
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("r.campaigns.Insert -> %w", err)
	}

	return campaignDaoToDomain(created), nil
}

func (r *RaffleRepository) UpdateCampaign(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error) {
	updated, err := r.campaigns.Update(ctx, campaignDomainToDao(campaign))
	if err != nil {
		if err == dao.ErrCampaignNotFound {
			return domain.Campaign{}, ErrCampaignNotFound
		}
		return domain.Campaign{}, fmt.Errorf("r.campaigns.Update -> %w", err)
	}

	return campaignDaoToDomain(updated), nil
}

func (r *RaffleRepository) GetCampaignByID(ctx context.Context, id uint) (domain.Campaign, error) {
	campaign, err := r.campaigns.FindByID(ctx, id)
	if err != nil {
		if err == dao.ErrCampaignNotFound {
			return domain.Campaign{}, ErrCampaignNotFound
		}
		return domain.Campaign{}, fmt.Errorf("r.campaigns.FindByID -> %w", err)
	}

	return campaignDaoToDomain(campaign), nil
}

func (r *RaffleRepository) GetCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	campaigns, err := r.campaigns.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.campaigns.FindAll -> %w", err)
	}

	result := make([]domain.Campaign, len(campaigns))
	for i, c := range campaigns {
		result[i] = campaignDaoToDomain(c)
	}

	return result, nil
}

func (r *RaffleRepository) GetUsedNumbers(ctx context.Context, campaignID uint) ([]int, error) {
	numbers, err := r.tickets.ListNumbers(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("r.tickets.ListNumbers -> %w", err)
	}

	return numbers, nil
}

func (r *RaffleRepository) GetTicketByNumber(ctx context.Context, campaignID uint, number int) (domain.Ticket, error) {
	ticket, err := r.tickets.FindByNumber(ctx, campaignID, number)
	if err != nil {
		if err == dao.ErrTicketNotFound {
			return domain.Ticket{}, ErrTicketNotFound
		}
		return domain.Ticket{}, fmt.Errorf("r.tickets.FindByNumber -> %w", err)
	}

	return ticketDaoToDomain(ticket), nil
}

func (r *RaffleRepository) GetTickets(ctx context.Context, campaignID uint, filter domain.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := r.tickets.Find(ctx, campaignID, dao.TicketQuery{
		StudentID:  filter.StudentID,
		Status:     string(filter.Status),
		NumberFrom: filter.NumberFrom,
		NumberTo:   filter.NumberTo,
		From:       filter.From,
		To:         filter.To,
	})
	if err != nil {
		return nil, fmt.Errorf("r.tickets.Find -> %w", err)
	}

	return ticketsDaoToDomain(tickets), nil
}

func (r *RaffleRepository) GetEligibleTickets(ctx context.Context, campaignID uint) ([]domain.Ticket, error) {
	tickets, err := r.tickets.FindEligible(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("r.tickets.FindEligible -> %w", err)
	}

	return ticketsDaoToDomain(tickets), nil
}

func (r *RaffleRepository) IssueTickets(ctx context.Context, campaignID uint, tickets []domain.Ticket) ([]domain.Ticket, error) {
	daoTickets := make([]dao.Ticket, len(tickets))
	for i, t := range tickets {
		daoTickets[i] = ticketDomainToDao(t)
	}

	created, err := r.tickets.IssueAssigned(ctx, campaignID, daoTickets)
	if err != nil {
		switch err {
		case dao.ErrCampaignNotFound, dao.ErrCampaignNotActive, dao.ErrTicketNumberConflict:
			return nil, err
		}
		return nil, fmt.Errorf("r.tickets.IssueAssigned -> %w", err)
	}

	return ticketsDaoToDomain(created), nil
}

func (r *RaffleRepository) ExecuteDraw(ctx context.Context, campaignID uint, winners []domain.Ticket, draws []domain.RaffleDraw) ([]domain.RaffleDraw, error) {
	daoWinners := make([]dao.Ticket, len(winners))
	for i, t := range winners {
		daoWinners[i] = ticketDomainToDao(t)
	}
	daoDraws := make([]dao.RaffleDraw, len(draws))
	for i, d := range draws {
		daoDraws[i] = drawDomainToDao(d)
	}

	created, err := r.tickets.ExecuteDraw(ctx, campaignID, daoWinners, daoDraws)
	if err != nil {
		switch err {
		case dao.ErrCampaignNotFound, dao.ErrTicketNotAssigned:
			return nil, err
		}
		return nil, fmt.Errorf("r.tickets.ExecuteDraw -> %w", err)
	}

	result := make([]domain.RaffleDraw, len(created))
	for i, d := range created {
		result[i] = drawDaoToDomain(d)
	}

	return result, nil
}

func (r *RaffleRepository) GetStats(ctx context.Context, campaignID uint) ([]domain.StudentCampaignStats, error) {
	stats, err := r.stats.FindByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("r.stats.FindByCampaign -> %w", err)
	}

	result := make([]domain.StudentCampaignStats, len(stats))
	for i, s := range stats {
		result[i] = statsDaoToDomain(s)
	}

	return result, nil
}

func (r *RaffleRepository) RebuildStats(ctx context.Context, campaignID uint) error {
	if err := r.stats.Rebuild(ctx, campaignID); err != nil {
		return fmt.Errorf("r.stats.Rebuild -> %w", err)
	}

	return nil
}

func (r *RaffleRepository) GetDraws(ctx context.Context, campaignID uint) ([]domain.RaffleDraw, error) {
	draws, err := r.draws.FindByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("r.draws.FindByCampaign -> %w", err)
	}

	result := make([]domain.RaffleDraw, len(draws))
	for i, d := range draws {
		result[i] = drawDaoToDomain(d)
	}

	return result, nil
}

func campaignDomainToDao(c domain.Campaign) dao.Campaign {
	return dao.Campaign{
		ID:               c.ID,
		Name:             c.Name,
		Description:      c.Description,
		StartDate:        c.StartDate,
		EndDate:          c.EndDate,
		Status:           string(c.Status),
		TicketGoal:       c.TicketGoal,
		TicketsTotal:     c.TicketsTotal,
		TicketsAssigned:  c.TicketsAssigned,
		TicketsDrawn:     c.TicketsDrawn,
		TicketsAvailable: c.TicketsAvailable,
		CreatedBy:        c.CreatedBy,
		UpdatedBy:        c.UpdatedBy,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func campaignDaoToDomain(c dao.Campaign) domain.Campaign {
	return domain.Campaign{
		ID:               c.ID,
		Name:             c.Name,
		Description:      c.Description,
		StartDate:        c.StartDate,
		EndDate:          c.EndDate,
		Status:           domain.CampaignStatus(c.Status),
		TicketGoal:       c.TicketGoal,
		TicketsTotal:     c.TicketsTotal,
		TicketsAssigned:  c.TicketsAssigned,
		TicketsDrawn:     c.TicketsDrawn,
		TicketsAvailable: c.TicketsAvailable,
		CreatedBy:        c.CreatedBy,
		UpdatedBy:        c.UpdatedBy,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func ticketDomainToDao(t domain.Ticket) dao.Ticket {
	return dao.Ticket{
		ID:           t.ID,
		CampaignID:   t.CampaignID,
		Number:       t.Number,
		Status:       string(t.Status),
		StudentID:    t.StudentID,
		StudentName:  t.StudentName,
		StudentClass: t.StudentClass,
		StudentGrade: t.StudentGrade,
		DonationID:   t.DonationID,
		AssignedAt:   t.AssignedAt,
		DrawnAt:      t.DrawnAt,
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt,
	}
}

func ticketDaoToDomain(t dao.Ticket) domain.Ticket {
	return domain.Ticket{
		ID:           t.ID,
		CampaignID:   t.CampaignID,
		Number:       t.Number,
		Status:       domain.TicketStatus(t.Status),
		StudentID:    t.StudentID,
		StudentName:  t.StudentName,
		StudentClass: t.StudentClass,
		StudentGrade: t.StudentGrade,
		DonationID:   t.DonationID,
		AssignedAt:   t.AssignedAt,
		DrawnAt:      t.DrawnAt,
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt,
	}
}

func ticketsDaoToDomain(tickets []dao.Ticket) []domain.Ticket {
	result := make([]domain.Ticket, len(tickets))
	for i, t := range tickets {
		result[i] = ticketDaoToDomain(t)
	}

	return result
}

func drawDomainToDao(d domain.RaffleDraw) dao.RaffleDraw {
	return dao.RaffleDraw{
		ID:              d.ID,
		CampaignID:      d.CampaignID,
		TicketID:        d.TicketID,
		TicketNumber:    d.TicketNumber,
		StudentID:       d.StudentID,
		StudentName:     d.StudentName,
		Seed:            d.Seed,
		PerformedBy:     d.PerformedBy,
		PerformedByName: d.PerformedByName,
		CreatedAt:       d.CreatedAt,
	}
}

func drawDaoToDomain(d dao.RaffleDraw) domain.RaffleDraw {
	return domain.RaffleDraw{
		ID:              d.ID,
		CampaignID:      d.CampaignID,
		TicketID:        d.TicketID,
		TicketNumber:    d.TicketNumber,
		StudentID:       d.StudentID,
		StudentName:     d.StudentName,
		Seed:            d.Seed,
		PerformedBy:     d.PerformedBy,
		PerformedByName: d.PerformedByName,
		CreatedAt:       d.CreatedAt,
	}
}

func statsDaoToDomain(s dao.StudentCampaignStats) domain.StudentCampaignStats {
	return domain.StudentCampaignStats{
		ID:              s.ID,
		CampaignID:      s.CampaignID,
		StudentID:       s.StudentID,
		StudentName:     s.StudentName,
		TicketsAssigned: s.TicketsAssigned,
		TicketsDrawn:    s.TicketsDrawn,
		UpdatedAt:       s.UpdatedAt,
	}
}
