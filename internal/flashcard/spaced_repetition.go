package flashcard

import (
	"time"

	"github.com/vytor/tanki/internal/models"
)

const (
	secondsPerDay = 24 * 60 * 60
	// PassThreshold is the lowest quality that counts as a successful recall.
	PassThreshold = 3
)

// Scheduler applies the SM-2 variant to cards. It holds no state besides
// its clock.
type Scheduler struct {
	now func() time.Time
}

// NewScheduler returns a scheduler on the wall clock.
func NewScheduler() *Scheduler {
	return &Scheduler{now: time.Now}
}

// NewSchedulerWithClock returns a scheduler that reads the time from now.
func NewSchedulerWithClock(now func() time.Time) *Scheduler {
	return &Scheduler{now: now}
}

// ApplyReview updates card's interval, ease factor and due date in place.
// quality runs 0..5; values outside are clamped. Below 3 is a lapse.
func (s *Scheduler) ApplyReview(card *models.Card, quality int) {
	quality = ClampQuality(quality)

	ef := card.EaseFactor
	interval := card.IntervalDays

	if quality < PassThreshold {
		interval = 1
	} else {
		switch interval {
		case 0:
			interval = 1
		case 1:
			interval = 6
		default:
			interval = int(float64(interval)*ef + 0.5)
		}
		ef = NextEaseFactor(ef, quality)
	}

	card.IntervalDays = interval
	card.EaseFactor = ef
	card.DueAt = time.Unix(s.now().Unix()+int64(interval)*secondsPerDay, 0)
}

// NextEaseFactor is the SM-2 ease update for a passing quality, floored at
// models.MinEaseFactor.
func NextEaseFactor(ef float64, quality int) float64 {
	miss := float64(models.MaxRating - quality)
	ef = ef + (0.1 - miss*(0.08+miss*0.02))
	if ef < models.MinEaseFactor {
		ef = models.MinEaseFactor
	}
	return ef
}

// ClampQuality forces q into 0..5.
func ClampQuality(q int) int {
	if q < 0 {
		return 0
	}
	if q > models.MaxRating {
		return models.MaxRating
	}
	return q
}

// IsPass reports whether quality counts as a successful recall.
func IsPass(quality int) bool {
	return ClampQuality(quality) >= PassThreshold
}
