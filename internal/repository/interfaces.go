package repository

import (
	"context"
	"time"

	"github.com/vytor/tanki/internal/models"
)

// ReviewJournal records every rating given during review sessions.
type ReviewJournal interface {
	Record(ctx context.Context, entry models.ReviewEntry) (int64, error)
	// Stats aggregates the reviews of deckName. Reviews at or after since
	// count towards ReviewsToday.
	Stats(ctx context.Context, deckName string, since time.Time) (*models.ReviewStat, error)
	Recent(ctx context.Context, deckName string, limit int) ([]models.ReviewEntry, error)
}
