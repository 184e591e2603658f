package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/vytor/tanki/internal/errors"
	"github.com/vytor/tanki/internal/models"
)

const (
	// MatureIntervalDays is the interval at which a card stops counting as
	// learning.
	MatureIntervalDays = 21
	// ForecastDays is the length of the due-date forecast.
	ForecastDays = 7

	secondsPerDay = 24 * 60 * 60
)

// Summary counts the cards of a deck by state.
type Summary struct {
	DeckName        string  `json:"deck_name"`
	Total           int     `json:"total"`
	New             int     `json:"new"`
	Learning        int     `json:"learning"`
	Mature          int     `json:"mature"`
	Suspended       int     `json:"suspended"`
	AvgEaseFactor   float64 `json:"avg_ease_factor"`
	AvgIntervalDays float64 `json:"avg_interval_days"`
}

// Forecast holds the number of cards due on each of the next seven days;
// index 0 is today and includes overdue cards.
type Forecast [ForecastDays]int

// Total is the number of cards the forecast covers.
func (f Forecast) Total() int {
	n := 0
	for _, c := range f {
		n += c
	}
	return n
}

// Summarize classifies every card by interval. Suspended cards are counted
// in their interval class as well as in Suspended.
func Summarize(deck *models.Deck) (Summary, error) {
	if deck == nil {
		return Summary{}, errors.NewNoDeckError()
	}

	s := Summary{DeckName: deck.Name()}
	var easeSum float64
	var intervalSum int
	for _, c := range deck.Cards() {
		s.Total++
		if c.Suspended {
			s.Suspended++
		}
		switch {
		case c.IntervalDays == 0:
			s.New++
		case c.IntervalDays < MatureIntervalDays:
			s.Learning++
		default:
			s.Mature++
		}
		easeSum += c.EaseFactor
		intervalSum += c.IntervalDays
	}
	if s.Total > 0 {
		s.AvgEaseFactor = easeSum / float64(s.Total)
		s.AvgIntervalDays = float64(intervalSum) / float64(s.Total)
	}
	return s, nil
}

// ForecastFor buckets the deck's non-suspended cards by days until due,
// starting now.
func ForecastFor(deck *models.Deck) (Forecast, error) {
	return ForecastAt(deck, time.Now())
}

// ForecastAt buckets non-suspended cards by floor((due-now)/day). Overdue
// cards land in bucket 0; cards seven or more days out are left out.
func ForecastAt(deck *models.Deck, now time.Time) (Forecast, error) {
	var f Forecast
	if deck == nil {
		return f, errors.NewNoDeckError()
	}

	nowSec := now.Unix()
	for _, c := range deck.Cards() {
		if c.Suspended {
			continue
		}
		diff := c.DueAt.Unix() - nowSec
		if diff <= 0 {
			f[0]++
			continue
		}
		if day := diff / secondsPerDay; day < ForecastDays {
			f[day]++
		}
	}
	return f, nil
}

// RenderSummary formats the summary the way the terminal shows it.
func RenderSummary(deck *models.Deck) string {
	s, err := Summarize(deck)
	if err != nil {
		return "No deck selected."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Deck: %s\n", s.DeckName)
	fmt.Fprintf(&sb, "Total: %d\n", s.Total)
	fmt.Fprintf(&sb, "New: %d\n", s.New)
	fmt.Fprintf(&sb, "Learning (<%dd): %d\n", MatureIntervalDays, s.Learning)
	fmt.Fprintf(&sb, "Mature: %d\n", s.Mature)
	fmt.Fprintf(&sb, "Suspended: %d\n", s.Suspended)
	if s.Total > 0 {
		fmt.Fprintf(&sb, "Avg ease: %.2f\n", s.AvgEaseFactor)
		fmt.Fprintf(&sb, "Avg interval: %.1fd\n", s.AvgIntervalDays)
	}
	return sb.String()
}

// RenderForecast formats the seven-day forecast.
func RenderForecast(deck *models.Deck, now time.Time) string {
	f, err := ForecastAt(deck, now)
	if err != nil {
		return "No deck."
	}
	var sb strings.Builder
	sb.WriteString("Cards due in next 7 days:\n")
	for i, n := range f {
		fmt.Fprintf(&sb, "Day %d: %d\n", i, n)
	}
	return sb.String()
}

// RenderReviewStat formats journal statistics. A nil stat renders as empty.
func RenderReviewStat(rs *models.ReviewStat) string {
	if rs == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Reviews: %d (today %d)\n", rs.TotalReviews, rs.ReviewsToday)
	fmt.Fprintf(&sb, "Accuracy: %.0f%%\n", rs.Accuracy*100)
	if rs.LastReviewedAt != nil {
		fmt.Fprintf(&sb, "Last review: %s\n", rs.LastReviewedAt.Local().Format("2006-01-02 15:04"))
	}
	return sb.String()
}
