package models

import (
	"sort"
	"strings"
	"time"
)

const (
	// DefaultEaseFactor is the ease a card starts with.
	DefaultEaseFactor = 2.5
	// MinEaseFactor is the floor the scheduler never goes below.
	MinEaseFactor = 1.3
	// MaxRating is the highest review quality.
	MaxRating = 5

	tagSeparator = ","
	tagJoiner    = ", "
)

// Card is a single flashcard with its scheduling state.
type Card struct {
	ID           int64     `json:"id"`
	Front        string    `json:"front"`
	Back         string    `json:"back"`
	DueAt        time.Time `json:"due_at"`
	Suspended    bool      `json:"suspended"`
	IntervalDays int       `json:"interval_days"`
	EaseFactor   float64   `json:"ease_factor"`
	LastRating   int       `json:"last_rating"`

	tags map[string]struct{}
}

// NewCard returns a card in its initial state: new, default ease, due now.
func NewCard(id int64, front, back string, now time.Time) Card {
	return Card{
		ID:         id,
		Front:      front,
		Back:       back,
		DueAt:      time.Unix(now.Unix(), 0),
		EaseFactor: DefaultEaseFactor,
	}
}

// IsNew reports whether the card has never been passed.
func (c Card) IsNew() bool {
	return c.IntervalDays == 0
}

// IsDue reports whether the card should be reviewed at now.
func (c Card) IsDue(now time.Time) bool {
	return !c.Suspended && !c.DueAt.After(now)
}

// SetTags replaces the tag set with the comma separated tags in s.
// Pieces are trimmed and empty pieces dropped.
func (c *Card) SetTags(s string) {
	c.tags = nil
	for _, piece := range strings.Split(s, tagSeparator) {
		t := strings.Trim(piece, " \t")
		if t == "" {
			continue
		}
		if c.tags == nil {
			c.tags = make(map[string]struct{})
		}
		c.tags[t] = struct{}{}
	}
}

// AddTag inserts a single tag after trimming it.
func (c *Card) AddTag(tag string) {
	t := strings.Trim(tag, " \t")
	if t == "" || strings.Contains(t, tagSeparator) {
		return
	}
	if c.tags == nil {
		c.tags = make(map[string]struct{})
	}
	c.tags[t] = struct{}{}
}

// HasTag is an exact membership test.
func (c Card) HasTag(tag string) bool {
	_, ok := c.tags[tag]
	return ok
}

// Tags returns the tags in sorted order.
func (c Card) Tags() []string {
	out := make([]string, 0, len(c.tags))
	for t := range c.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// TagsString renders the tag set in sorted order, suitable for SetTags.
func (c Card) TagsString() string {
	return strings.Join(c.Tags(), tagJoiner)
}

// Clone returns a copy that shares no tag storage with c.
func (c Card) Clone() Card {
	out := c
	if c.tags != nil {
		out.tags = make(map[string]struct{}, len(c.tags))
		for t := range c.tags {
			out.tags[t] = struct{}{}
		}
	}
	return out
}
