package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/tanki/internal/errors"
	"github.com/vytor/tanki/internal/flashcard"
	"github.com/vytor/tanki/internal/logger"
	"github.com/vytor/tanki/internal/models"
	"github.com/vytor/tanki/internal/repository"
)

// ReviewService runs review and cram sessions over a deck
type ReviewService interface {
	SessionID() string
	Due(deck *models.Deck) ([]models.Card, error)
	Review(ctx context.Context, deck *models.Deck, card models.Card, quality int) (models.Card, error)
	Cram(deck *models.Deck, tag string) ([]models.Card, error)
	Stats(ctx context.Context, deck *models.Deck) (*models.ReviewStat, error)
	History(ctx context.Context, deck *models.Deck, limit int) ([]models.ReviewEntry, error)
}

type reviewService struct {
	scheduler *flashcard.Scheduler
	journal   repository.ReviewJournal
	sessionID string
	now       func() time.Time
}

// NewReviewService creates a ReviewService. journal may be nil, in which case
// ratings are not recorded.
func NewReviewService(scheduler *flashcard.Scheduler, journal repository.ReviewJournal) ReviewService {
	return NewReviewServiceWithClock(scheduler, journal, time.Now)
}

// NewReviewServiceWithClock is NewReviewService with an explicit clock.
func NewReviewServiceWithClock(scheduler *flashcard.Scheduler, journal repository.ReviewJournal, now func() time.Time) ReviewService {
	if scheduler == nil {
		scheduler = flashcard.NewSchedulerWithClock(now)
	}
	return &reviewService{
		scheduler: scheduler,
		journal:   journal,
		sessionID: uuid.NewString(),
		now:       now,
	}
}

func (s *reviewService) SessionID() string { return s.sessionID }

func (s *reviewService) Due(deck *models.Deck) ([]models.Card, error) {
	if deck == nil {
		return nil, errors.NewNoSelectionError()
	}
	return deck.DueCardsAt(s.now()), nil
}

func (s *reviewService) Review(ctx context.Context, deck *models.Deck, card models.Card, quality int) (models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("review")

	if deck == nil {
		return card, errors.NewNoSelectionError()
	}
	if quality < 0 || quality > models.MaxRating {
		return card, errors.NewValidationError("quality", "must be between 0 and 5")
	}
	log.Debug("reviewing card: id=%d, quality=%d", card.ID, quality)

	card.LastRating = quality
	s.scheduler.ApplyReview(&card, quality)
	if !deck.UpdateCard(card) {
		log.Warn("card %d is not in deck %q", card.ID, deck.Name())
		return card, errors.NewNotFoundError("card", card.ID)
	}
	log.Debug("applied review, new interval=%d days, ease_factor=%.2f", card.IntervalDays, card.EaseFactor)

	if s.journal != nil {
		entry := models.ReviewEntry{
			SessionID:    s.sessionID,
			DeckName:     deck.Name(),
			Front:        card.Front,
			Back:         card.Back,
			Quality:      quality,
			IntervalDays: card.IntervalDays,
			EaseFactor:   card.EaseFactor,
			DueAt:        card.DueAt,
			ReviewedAt:   s.now(),
		}
		if _, err := s.journal.Record(ctx, entry); err != nil {
			// Don't fail the review if the journal write fails
			log.Warn("failed to record review: %v", err)
		}
	}
	return card, nil
}

// Cram returns the cards to drill without rescheduling. An empty tag selects
// the whole deck.
func (s *reviewService) Cram(deck *models.Deck, tag string) ([]models.Card, error) {
	if deck == nil {
		return nil, errors.NewNoSelectionError()
	}
	all := deck.Cards()
	if tag == "" {
		return all, nil
	}
	var subset []models.Card
	for _, c := range all {
		if c.HasTag(tag) {
			subset = append(subset, c)
		}
	}
	return subset, nil
}

// Stats returns the journal aggregate for deck, with today starting at local
// midnight. Without a journal it returns nil.
func (s *reviewService) Stats(ctx context.Context, deck *models.Deck) (*models.ReviewStat, error) {
	if deck == nil {
		return nil, errors.NewNoSelectionError()
	}
	if s.journal == nil {
		return nil, nil
	}
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stat, err := s.journal.Stats(ctx, deck.Name(), midnight)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("review").Error("failed to read review stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return stat, nil
}

func (s *reviewService) History(ctx context.Context, deck *models.Deck, limit int) ([]models.ReviewEntry, error) {
	if deck == nil {
		return nil, errors.NewNoSelectionError()
	}
	if s.journal == nil {
		return nil, nil
	}
	entries, err := s.journal.Recent(ctx, deck.Name(), limit)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("review").Error("failed to read review history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return entries, nil
}
