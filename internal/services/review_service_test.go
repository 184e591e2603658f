package services_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/tanki/internal/errors"
	"github.com/vytor/tanki/internal/flashcard"
	"github.com/vytor/tanki/internal/models"
	"github.com/vytor/tanki/internal/services"
	"github.com/vytor/tanki/internal/testutil/mocks"
)

var reviewNow = time.Date(2024, 3, 10, 15, 30, 0, 0, time.Local)

func clock() time.Time { return reviewNow }

func reviewDeck() (*models.Deck, *models.IDAllocator) {
	ids := models.NewIDAllocator()
	deck := models.NewDeck("spanish")

	due := models.NewCard(ids.Next(), "uno", "one", reviewNow.Add(-time.Hour))
	due.SetTags("numbers")
	deck.AddCard(due)

	later := models.NewCard(ids.Next(), "dos", "two", reviewNow)
	later.DueAt = reviewNow.Add(48 * time.Hour)
	later.SetTags("numbers")
	deck.AddCard(later)

	suspended := models.NewCard(ids.Next(), "hola", "hello", reviewNow.Add(-time.Hour))
	suspended.Suspended = true
	deck.AddCard(suspended)

	return deck, ids
}

func TestReviewService_Due(t *testing.T) {
	svc := services.NewReviewServiceWithClock(nil, nil, clock)
	deck, _ := reviewDeck()

	due, err := svc.Due(deck)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "uno", due[0].Front)

	_, err = svc.Due(nil)
	assert.True(t, errors.IsNoSelection(err))
}

func TestReviewService_ReviewUpdatesDeckAndJournal(t *testing.T) {
	journal := new(mocks.MockReviewJournal)
	svc := services.NewReviewServiceWithClock(flashcard.NewSchedulerWithClock(clock), journal, clock)
	deck, _ := reviewDeck()
	card := deck.Cards()[0]

	journal.On("Record", mock.Anything, mock.MatchedBy(func(e models.ReviewEntry) bool {
		return e.DeckName == "spanish" &&
			e.Front == "uno" &&
			e.Quality == 4 &&
			e.IntervalDays == 1 &&
			e.SessionID == svc.SessionID() &&
			e.ReviewedAt.Equal(reviewNow)
	})).Return(int64(1), nil).Once()

	updated, err := svc.Review(context.Background(), deck, card, 4)
	require.NoError(t, err)

	assert.Equal(t, 1, updated.IntervalDays)
	assert.Equal(t, 4, updated.LastRating)
	assert.Equal(t, reviewNow.Unix()+86400, updated.DueAt.Unix())

	stored, ok := deck.Card(card.ID)
	require.True(t, ok)
	assert.Equal(t, 1, stored.IntervalDays)
	assert.Equal(t, 4, stored.LastRating)
	assert.InDelta(t, 2.5, stored.EaseFactor, 1e-9)
	assert.True(t, stored.HasTag("numbers"))

	journal.AssertExpectations(t)
}

func TestReviewService_JournalFailureDoesNotFailReview(t *testing.T) {
	journal := new(mocks.MockReviewJournal)
	svc := services.NewReviewServiceWithClock(nil, journal, clock)
	deck, _ := reviewDeck()

	journal.On("Record", mock.Anything, mock.Anything).Return(int64(0), stderrors.New("disk full"))

	updated, err := svc.Review(context.Background(), deck, deck.Cards()[0], 1)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.IntervalDays)
	journal.AssertExpectations(t)
}

func TestReviewService_ReviewUnknownCard(t *testing.T) {
	journal := new(mocks.MockReviewJournal)
	svc := services.NewReviewServiceWithClock(nil, journal, clock)
	deck, ids := reviewDeck()

	stray := models.NewCard(ids.Next(), "x", "y", reviewNow)
	_, err := svc.Review(context.Background(), deck, stray, 3)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, 3, deck.Len())
	journal.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestReviewService_ReviewValidation(t *testing.T) {
	svc := services.NewReviewServiceWithClock(nil, nil, clock)
	deck, _ := reviewDeck()
	card := deck.Cards()[0]

	_, err := svc.Review(context.Background(), deck, card, 6)
	assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
	_, err = svc.Review(context.Background(), deck, card, -1)
	assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
	_, err = svc.Review(context.Background(), nil, card, 3)
	assert.True(t, errors.IsNoSelection(err))

	stored, _ := deck.Card(card.ID)
	assert.Equal(t, 0, stored.LastRating)
}

func TestReviewService_Cram(t *testing.T) {
	svc := services.NewReviewServiceWithClock(nil, nil, clock)
	deck, _ := reviewDeck()

	all, err := svc.Cram(deck, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	tagged, err := svc.Cram(deck, "numbers")
	require.NoError(t, err)
	require.Len(t, tagged, 2)
	assert.Equal(t, "uno", tagged[0].Front)
	assert.Equal(t, "dos", tagged[1].Front)

	none, err := svc.Cram(deck, "Numbers")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReviewService_Stats(t *testing.T) {
	journal := new(mocks.MockReviewJournal)
	svc := services.NewReviewServiceWithClock(nil, journal, clock)
	deck, _ := reviewDeck()

	midnight := time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)
	want := &models.ReviewStat{TotalReviews: 3, CorrectReviews: 2}
	journal.On("Stats", mock.Anything, "spanish", midnight).Return(want, nil)

	got, err := svc.Stats(context.Background(), deck)
	require.NoError(t, err)
	assert.Same(t, want, got)

	journal.AssertExpectations(t)
}

func TestReviewService_StatsWithoutJournal(t *testing.T) {
	svc := services.NewReviewServiceWithClock(nil, nil, clock)
	deck, _ := reviewDeck()

	stat, err := svc.Stats(context.Background(), deck)
	require.NoError(t, err)
	assert.Nil(t, stat)

	history, err := svc.History(context.Background(), deck, 10)
	require.NoError(t, err)
	assert.Nil(t, history)
}

func TestReviewService_HistoryError(t *testing.T) {
	journal := new(mocks.MockReviewJournal)
	svc := services.NewReviewServiceWithClock(nil, journal, clock)
	deck, _ := reviewDeck()

	journal.On("Recent", mock.Anything, "spanish", 5).Return(nil, stderrors.New("boom"))

	_, err := svc.History(context.Background(), deck, 5)
	assert.Equal(t, errors.ErrCodeInternal, errors.CodeOf(err))
}

func TestReviewService_SessionIDsDiffer(t *testing.T) {
	a := services.NewReviewService(nil, nil)
	b := services.NewReviewService(nil, nil)
	assert.NotEmpty(t, a.SessionID())
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}
