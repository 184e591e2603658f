package models

import "time"

// ReviewEntry is one rating recorded in the review journal.
type ReviewEntry struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"session_id"`
	DeckName     string    `json:"deck_name"`
	Front        string    `json:"front"`
	Back         string    `json:"back"`
	Quality      int       `json:"quality"`
	IntervalDays int       `json:"interval_days"`
	EaseFactor   float64   `json:"ease_factor"`
	DueAt        time.Time `json:"due_at"`
	ReviewedAt   time.Time `json:"reviewed_at"`
}

// ReviewStat aggregates the journal for one deck.
type ReviewStat struct {
	TotalReviews   int        `json:"total_reviews"`
	CorrectReviews int        `json:"correct_reviews"`
	Accuracy       float64    `json:"accuracy"`
	ReviewsToday   int        `json:"reviews_today"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
}
