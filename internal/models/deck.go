package models

import "time"

// Deck is a named, ordered collection of cards. The name doubles as the
// on-disk file stem.
type Deck struct {
	name  string
	cards []Card
}

// NewDeck creates an empty deck.
func NewDeck(name string) *Deck {
	return &Deck{name: name}
}

// Name returns the deck name.
func (d *Deck) Name() string { return d.name }

// SetName renames the deck.
func (d *Deck) SetName(name string) { d.name = name }

// Len returns the number of cards in the deck.
func (d *Deck) Len() int { return len(d.cards) }

// AddCard appends card. Deduplication is the caller's policy.
func (d *Deck) AddCard(card Card) {
	d.cards = append(d.cards, card.Clone())
}

// UpdateCard replaces the first card with card.ID. It reports false when no
// card matched.
func (d *Deck) UpdateCard(card Card) bool {
	for i := range d.cards {
		if d.cards[i].ID == card.ID {
			d.cards[i] = card.Clone()
			return true
		}
	}
	return false
}

// Card returns the card with the given id.
func (d *Deck) Card(id int64) (Card, bool) {
	for _, c := range d.cards {
		if c.ID == id {
			return c.Clone(), true
		}
	}
	return Card{}, false
}

// SetCards replaces the whole sequence.
func (d *Deck) SetCards(cards []Card) {
	d.cards = cloneCards(cards)
}

// Cards returns a copy of the sequence.
func (d *Deck) Cards() []Card {
	return cloneCards(d.cards)
}

// DueCards returns the cards due right now.
func (d *Deck) DueCards() []Card {
	return d.DueCardsAt(time.Now())
}

// DueCardsAt returns, in deck order, every non-suspended card due at or
// before now.
func (d *Deck) DueCardsAt(now time.Time) []Card {
	var due []Card
	for _, c := range d.cards {
		if c.IsDue(now) {
			due = append(due, c.Clone())
		}
	}
	return due
}

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	out := make([]Card, len(cards))
	for i, c := range cards {
		out[i] = c.Clone()
	}
	return out
}
