package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/tanki/internal/flashcard"
	"github.com/vytor/tanki/internal/logger"
	"github.com/vytor/tanki/internal/models"
	"github.com/vytor/tanki/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const reviewTable = "review_history"

var reviewColumns = []string{
	"id", "session_id", "deck_name", "front", "back", "quality",
	"interval_days", "ease_factor", "due_at", "reviewed_at",
}

type reviewJournal struct {
	db *sql.DB
}

// NewReviewJournal creates a new ReviewJournal implementation
func NewReviewJournal(db *sql.DB) repository.ReviewJournal {
	return &reviewJournal{db: db}
}

func (r *reviewJournal) Record(ctx context.Context, e models.ReviewEntry) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("review_journal")
	log.Debug("recording review: deck=%s, quality=%d, interval=%d", e.DeckName, e.Quality, e.IntervalDays)

	reviewedAt := e.ReviewedAt
	if reviewedAt.IsZero() {
		reviewedAt = time.Now()
	}

	query, args, err := sqlBuilder.Insert(reviewTable).
		Columns(reviewColumns[1:]...).
		Values(e.SessionID, e.DeckName, e.Front, e.Back, e.Quality,
			e.IntervalDays, e.EaseFactor, e.DueAt.Unix(), reviewedAt.Unix()).
		ToSql()
	if err != nil {
		log.Error("failed to build insert: %v", err)
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to record review: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	log.Debug("review recorded: id=%d", id)
	return id, nil
}

func (r *reviewJournal) Stats(ctx context.Context, deckName string, since time.Time) (*models.ReviewStat, error) {
	log := logger.FromContext(ctx).WithPrefix("review_journal")
	log.Debug("aggregating reviews: deck=%s, since=%d", deckName, since.Unix())

	query, args, err := sqlBuilder.Select("COUNT(*)").
		Column(squirrel.Expr("COALESCE(SUM(CASE WHEN quality >= ? THEN 1 ELSE 0 END), 0)", flashcard.PassThreshold)).
		Column(squirrel.Expr("COALESCE(SUM(CASE WHEN reviewed_at >= ? THEN 1 ELSE 0 END), 0)", since.Unix())).
		Column("MAX(reviewed_at)").
		From(reviewTable).
		Where(squirrel.Eq{"deck_name": deckName}).
		ToSql()
	if err != nil {
		log.Error("failed to build stats query: %v", err)
		return nil, err
	}

	var stat models.ReviewStat
	var last sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&stat.TotalReviews, &stat.CorrectReviews, &stat.ReviewsToday, &last); err != nil {
		log.Error("failed to aggregate reviews: %v", err)
		return nil, fmt.Errorf("review stats for %q: %w", deckName, err)
	}
	if stat.TotalReviews > 0 {
		stat.Accuracy = float64(stat.CorrectReviews) / float64(stat.TotalReviews)
	}
	if last.Valid {
		t := time.Unix(last.Int64, 0)
		stat.LastReviewedAt = &t
	}
	log.Debug("deck %s: %d reviews, %d today", deckName, stat.TotalReviews, stat.ReviewsToday)
	return &stat, nil
}

func (r *reviewJournal) Recent(ctx context.Context, deckName string, limit int) ([]models.ReviewEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("review_journal")
	log.Debug("listing recent reviews: deck=%s, limit=%d", deckName, limit)

	q := sqlBuilder.Select(reviewColumns...).
		From(reviewTable).
		Where(squirrel.Eq{"deck_name": deckName}).
		OrderBy("reviewed_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list reviews: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []models.ReviewEntry
	for rows.Next() {
		var e models.ReviewEntry
		var dueAt, reviewedAt int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.DeckName, &e.Front, &e.Back, &e.Quality,
			&e.IntervalDays, &e.EaseFactor, &dueAt, &reviewedAt); err != nil {
			log.Error("failed to scan review row: %v", err)
			return nil, err
		}
		e.DueAt = time.Unix(dueAt, 0)
		e.ReviewedAt = time.Unix(reviewedAt, 0)
		entries = append(entries, e)
	}
	log.Debug("found %d reviews", len(entries))
	return entries, rows.Err()
}
