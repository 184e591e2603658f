package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/tanki/internal/models"
)

// MockReviewJournal is a mock implementation of repository.ReviewJournal
type MockReviewJournal struct {
	mock.Mock
}

func (m *MockReviewJournal) Record(ctx context.Context, entry models.ReviewEntry) (int64, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewJournal) Stats(ctx context.Context, deckName string, since time.Time) (*models.ReviewStat, error) {
	args := m.Called(ctx, deckName, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewStat), args.Error(1)
}

func (m *MockReviewJournal) Recent(ctx context.Context, deckName string, limit int) ([]models.ReviewEntry, error) {
	args := m.Called(ctx, deckName, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewEntry), args.Error(1)
}
