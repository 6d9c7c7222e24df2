package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/schoolraise/raffle-api/internal/config"
	"github.com/schoolraise/raffle-api/internal/domain"
	"github.com/schoolraise/raffle-api/internal/pkg/drawrand"
	"github.com/schoolraise/raffle-api/internal/repository"
)

var (
	ErrCampaignNotFound     = repository.ErrCampaignNotFound
	ErrCampaignNotActive    = repository.ErrCampaignNotActive
	ErrTicketNotFound       = repository.ErrTicketNotFound
	ErrTicketNotAssigned    = repository.ErrTicketNotAssigned
	ErrTicketNumberConflict = repository.ErrTicketNumberConflict
	ErrNumberSpaceExhausted = errors.New("ticket number space exhausted")

	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrInvalidWinnersCount = errors.New("winners count must be at least 1")
	ErrSeedRequired        = errors.New("draw seed is required")
	ErrEndBeforeStart      = errors.New("campaign end date is before its start date")
	ErrNoEligibleTickets   = errors.New("campaign has no eligible tickets")
)

type RaffleRepository interface {
	CreateCampaign(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error)
	UpdateCampaign(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error)
	GetCampaignByID(ctx context.Context, id uint) (domain.Campaign, error)
	GetCampaigns(ctx context.Context) ([]domain.Campaign, error)
	GetUsedNumbers(ctx context.Context, campaignID uint) ([]int, error)
	GetTicketByNumber(ctx context.Context, campaignID uint, number int) (domain.Ticket, error)
	GetTickets(ctx context.Context, campaignID uint, filter domain.TicketFilter) ([]domain.Ticket, error)
	GetEligibleTickets(ctx context.Context, campaignID uint) ([]domain.Ticket, error)
	IssueTickets(ctx context.Context, campaignID uint, tickets []domain.Ticket) ([]domain.Ticket, error)
	ExecuteDraw(ctx context.Context, campaignID uint, winners []domain.Ticket, draws []domain.RaffleDraw) ([]domain.RaffleDraw, error)
	GetStats(ctx context.Context, campaignID uint) ([]domain.StudentCampaignStats, error)
	RebuildStats(ctx context.Context, campaignID uint) error
	GetDraws(ctx context.Context, campaignID uint) ([]domain.RaffleDraw, error)
}

type RaffleService struct {
	repo  RaffleRepository
	audit *AuditService
	conf  *config.RaffleConfig
}

func NewRaffleService(repo RaffleRepository, audit *AuditService, conf *config.RaffleConfig) *RaffleService {
	return &RaffleService{
		repo:  repo,
		audit: audit,
		conf:  conf,
	}
}

type CampaignInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      domain.CampaignStatus
	TicketGoal  int
}

func (s *RaffleService) CreateCampaign(ctx context.Context, in CampaignInput, actor domain.Actor) (domain.Campaign, error) {
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return domain.Campaign{}, ErrEndBeforeStart
	}

	campaign := domain.Campaign{
		Name:        in.Name,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      in.Status,
		TicketGoal:  in.TicketGoal,
		CreatedBy:   actor.ID,
		UpdatedBy:   actor.ID,
	}

	created, err := s.repo.CreateCampaign(ctx, campaign)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("s.repo.CreateCampaign -> %w", err)
	}

	s.audit.Record(ctx, domain.AuditActionCampaignCreate, &created.ID, nil, nil, created, actor, false)

	return created, nil
}

func (s *RaffleService) UpdateCampaign(ctx context.Context, id uint, in CampaignInput, actor domain.Actor) (domain.Campaign, error) {
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return domain.Campaign{}, ErrEndBeforeStart
	}

	before, err := s.repo.GetCampaignByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			return domain.Campaign{}, ErrCampaignNotFound
		}
		return domain.Campaign{}, fmt.Errorf("s.repo.GetCampaignByID -> %w", err)
	}

	updated, err := s.repo.UpdateCampaign(ctx, domain.Campaign{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      in.Status,
		TicketGoal:  in.TicketGoal,
		UpdatedBy:   actor.ID,
	})
	if err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			return domain.Campaign{}, ErrCampaignNotFound
		}
		return domain.Campaign{}, fmt.Errorf("s.repo.UpdateCampaign -> %w", err)
	}

	s.audit.Record(ctx, domain.AuditActionCampaignUpdate, &id, nil, before, updated, actor, false)

	return updated, nil
}

func (s *RaffleService) GetCampaign(ctx context.Context, id uint) (domain.Campaign, error) {
	campaign, err := s.repo.GetCampaignByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			return domain.Campaign{}, ErrCampaignNotFound
		}
		return domain.Campaign{}, fmt.Errorf("s.repo.GetCampaignByID -> %w", err)
	}

	return campaign, nil
}

func (s *RaffleService) GetCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	campaigns, err := s.repo.GetCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetCampaigns -> %w", err)
	}

	return campaigns, nil
}

type IssueTicketsInput struct {
	CampaignID   uint
	StudentID    uint
	StudentName  string
	StudentClass string
	StudentGrade string
	Quantity     int
	DonationID   *uint
}

// IssueTickets mints a batch of uniquely numbered tickets for one student.
// Candidate numbers are sampled against a snapshot of the numbers already
// used in the campaign; the commit itself re-validates everything inside one
// transaction, and a duplicate number discovered at commit time (a
// concurrent issuance won the race) triggers a fresh generation attempt.
func (s *RaffleService) IssueTickets(ctx context.Context, in IssueTicketsInput, actor domain.Actor) ([]int, error) {
	if in.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	campaign, err := s.repo.GetCampaignByID(ctx, in.CampaignID)
	if err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("s.repo.GetCampaignByID -> %w", err)
	}
	if !campaign.AcceptsIssuance(time.Now()) {
		return nil, ErrCampaignNotActive
	}

	retries := s.conf.ConflictRetries
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		used, err := s.repo.GetUsedNumbers(ctx, in.CampaignID)
		if err != nil {
			return nil, fmt.Errorf("s.repo.GetUsedNumbers -> %w", err)
		}

		numbers, err := s.generateNumbers(used, in.Quantity)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		tickets := make([]domain.Ticket, len(numbers))
		for i, number := range numbers {
			tickets[i] = domain.Ticket{
				CampaignID:   in.CampaignID,
				Number:       number,
				Status:       domain.TicketStatusAssigned,
				StudentID:    in.StudentID,
				StudentName:  in.StudentName,
				StudentClass: in.StudentClass,
				StudentGrade: in.StudentGrade,
				DonationID:   in.DonationID,
				AssignedAt:   &now,
				CreatedBy:    actor.ID,
			}
		}

		if _, err = s.repo.IssueTickets(ctx, in.CampaignID, tickets); err != nil {
			if errors.Is(err, repository.ErrTicketNumberConflict) {
				lastErr = err
				zap.L().Warn("ticket number conflict at commit, regenerating",
					zap.Uint("campaignID", in.CampaignID),
					zap.Int("attempt", attempt+1),
				)
				continue
			}
			if errors.Is(err, ErrCampaignNotFound) || errors.Is(err, ErrCampaignNotActive) {
				return nil, err
			}
			return nil, fmt.Errorf("s.repo.IssueTickets -> %w", err)
		}

		s.audit.Record(ctx, domain.AuditActionTicketsCreate, &in.CampaignID, &in.StudentID, nil, map[string]interface{}{
			"student_id":   in.StudentID,
			"student_name": in.StudentName,
			"quantity":     in.Quantity,
			"numbers":      numbers,
		}, actor, false)

		return numbers, nil
	}

	return nil, fmt.Errorf("issuance retries exhausted -> %w", lastErr)
}

// generateNumbers rejection-samples quantity unique numbers from the
// configured range, skipping numbers already used in the campaign. The
// attempt budget is quantity x attempt_multiplier; exhausting it means the
// usable number space is too sparse and the caller gets a capacity error.
func (s *RaffleService) generateNumbers(used []int, quantity int) ([]int, error) {
	usedSet := make(map[int]struct{}, len(used))
	for _, n := range used {
		usedSet[n] = struct{}{}
	}

	min, max := s.conf.NumberMin, s.conf.NumberMax
	budget := quantity * s.conf.AttemptMultiplier

	numbers := make([]int, 0, quantity)
	for attempts := 0; len(numbers) < quantity; attempts++ {
		if attempts >= budget {
			return nil, ErrNumberSpaceExhausted
		}

		candidate := min + rand.Intn(max-min+1)
		if _, taken := usedSet[candidate]; taken {
			continue
		}

		usedSet[candidate] = struct{}{}
		numbers = append(numbers, candidate)
	}

	// Ascending order is a presentation convention, not a correctness
	// requirement.
	sort.Ints(numbers)

	return numbers, nil
}

// RunDraw selects winnersCount tickets from the campaign's assigned pool
// using a deterministic seeded sequence and commits the winner transitions
// atomically. Same seed against the same unchanged pool yields the same
// winner sequence.
func (s *RaffleService) RunDraw(ctx context.Context, campaignID uint, seed string, winnersCount int, actor domain.Actor) ([]domain.RaffleDraw, error) {
	if seed == "" {
		return nil, ErrSeedRequired
	}
	if winnersCount < 1 {
		return nil, ErrInvalidWinnersCount
	}

	if _, err := s.repo.GetCampaignByID(ctx, campaignID); err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("s.repo.GetCampaignByID -> %w", err)
	}

	eligible, err := s.repo.GetEligibleTickets(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetEligibleTickets -> %w", err)
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligibleTickets
	}

	winners := selectWinners(drawrand.New(seed, campaignID), eligible, winnersCount)

	draws := make([]domain.RaffleDraw, len(winners))
	for i, winner := range winners {
		draws[i] = domain.RaffleDraw{
			CampaignID:      campaignID,
			TicketID:        winner.ID,
			TicketNumber:    winner.Number,
			StudentID:       winner.StudentID,
			StudentName:     winner.StudentName,
			Seed:            seed,
			PerformedBy:     actor.ID,
			PerformedByName: actor.Name,
		}
	}

	created, err := s.repo.ExecuteDraw(ctx, campaignID, winners, draws)
	if err != nil {
		if errors.Is(err, ErrTicketNotAssigned) || errors.Is(err, ErrCampaignNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("s.repo.ExecuteDraw -> %w", err)
	}

	winnerNumbers := make([]int, len(created))
	for i, d := range created {
		winnerNumbers[i] = d.TicketNumber
	}
	s.audit.Record(ctx, domain.AuditActionDrawExecute, &campaignID, nil, nil, map[string]interface{}{
		"seed":           seed,
		"winners_count":  winnersCount,
		"eligible_count": len(eligible),
		"winner_numbers": winnerNumbers,
	}, actor, false)

	return created, nil
}

// selectWinners walks the seeded sequence, indexing into the eligible pool
// and skipping indexes already selected, until the requested count is
// reached or the pool runs out. An undersized pool yields fewer winners,
// never an error.
func selectWinners(src drawrand.Source, eligible []domain.Ticket, count int) []domain.Ticket {
	target := count
	if len(eligible) < target {
		target = len(eligible)
	}

	selected := make(map[int]struct{}, target)
	winners := make([]domain.Ticket, 0, target)
	for len(winners) < target {
		idx := int(src.Float64() * float64(len(eligible)))
		if idx >= len(eligible) {
			idx = len(eligible) - 1
		}
		if _, done := selected[idx]; done {
			continue
		}

		selected[idx] = struct{}{}
		winners = append(winners, eligible[idx])
	}

	return winners
}

func (s *RaffleService) GetTicketByNumber(ctx context.Context, campaignID uint, number int) (domain.Ticket, error) {
	ticket, err := s.repo.GetTicketByNumber(ctx, campaignID, number)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return domain.Ticket{}, ErrTicketNotFound
		}
		return domain.Ticket{}, fmt.Errorf("s.repo.GetTicketByNumber -> %w", err)
	}

	return ticket, nil
}

func (s *RaffleService) GetTickets(ctx context.Context, campaignID uint, filter domain.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.repo.GetTickets(ctx, campaignID, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetTickets -> %w", err)
	}

	return tickets, nil
}

func (s *RaffleService) GetStats(ctx context.Context, campaignID uint) ([]domain.StudentCampaignStats, error) {
	stats, err := s.repo.GetStats(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetStats -> %w", err)
	}

	return stats, nil
}

// RebuildStats recomputes the cached per-student counters from the ticket
// store. The stats table is never authoritative; this is the repair path.
func (s *RaffleService) RebuildStats(ctx context.Context, campaignID uint, actor domain.Actor) error {
	if _, err := s.repo.GetCampaignByID(ctx, campaignID); err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			return ErrCampaignNotFound
		}
		return fmt.Errorf("s.repo.GetCampaignByID -> %w", err)
	}

	if err := s.repo.RebuildStats(ctx, campaignID); err != nil {
		return fmt.Errorf("s.repo.RebuildStats -> %w", err)
	}

	s.audit.Record(ctx, domain.AuditActionStatsRebuild, &campaignID, nil, nil, nil, actor, false)

	return nil
}

func (s *RaffleService) GetDraws(ctx context.Context, campaignID uint) ([]domain.RaffleDraw, error) {
	draws, err := s.repo.GetDraws(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetDraws -> %w", err)
	}

	return draws, nil
}
