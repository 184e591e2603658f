package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/vytor/tanki/internal/errors"
	"github.com/vytor/tanki/internal/logger"
	"github.com/vytor/tanki/internal/models"
	"github.com/vytor/tanki/internal/storage"
)

// Library owns the decks loaded from a Store and tracks the current one.
// It is not safe for concurrent use.
type Library struct {
	store   *storage.Store
	decks   []*models.Deck
	current *models.Deck
	now     func() time.Time
}

// NewLibrary creates an empty library backed by store.
func NewLibrary(store *storage.Store) *Library {
	return NewLibraryWithClock(store, time.Now)
}

// NewLibraryWithClock is NewLibrary with an explicit clock for new cards.
func NewLibraryWithClock(store *storage.Store, now func() time.Time) *Library {
	return &Library{store: store, now: now}
}

// Store returns the backing store.
func (l *Library) Store() *storage.Store { return l.store }

// LoadAll loads every deck file of the store, replacing whatever the library
// held. Files that fail to load are logged and skipped. It returns the number
// of decks loaded.
func (l *Library) LoadAll(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("library")

	paths, err := l.store.ListDeckFiles()
	if err != nil {
		log.Error("failed to list deck files: %v", err)
		return 0, err
	}

	decks := make([]*models.Deck, 0, len(paths))
	for _, p := range paths {
		deck, report, err := l.store.LoadDeck(p)
		if err != nil {
			log.Warn("skipping deck file %s: %v", p, err)
			continue
		}
		if len(report.Skipped) > 0 {
			log.Warn("deck %q: %d card lines skipped", deck.Name(), len(report.Skipped))
		}
		decks = append(decks, deck)
	}

	l.decks = decks
	l.current = nil
	log.Info("loaded %d decks from %s", len(decks), l.store.Dir())
	return len(decks), nil
}

// SaveAll writes every deck. It keeps going after a failure and returns all
// failures joined.
func (l *Library) SaveAll(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("library")

	var errs []error
	for _, d := range l.decks {
		if err := l.store.SaveDeck(d); err != nil {
			log.Error("failed to save deck %q: %v", d.Name(), err)
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// Save writes a single deck.
func (l *Library) Save(ctx context.Context, deck *models.Deck) error {
	if err := l.store.SaveDeck(deck); err != nil {
		logger.FromContext(ctx).WithPrefix("library").Error("failed to save deck: %v", err)
		return err
	}
	return nil
}

// Decks returns the loaded decks in load order.
func (l *Library) Decks() []*models.Deck {
	out := make([]*models.Deck, len(l.decks))
	copy(out, l.decks)
	return out
}

// Find returns the deck called name.
func (l *Library) Find(name string) (*models.Deck, error) {
	for _, d := range l.decks {
		if d.Name() == name {
			return d, nil
		}
	}
	return nil, errors.NewNotFoundError("deck", name)
}

// Create adds an empty deck, makes it current and writes every deck.
func (l *Library) Create(ctx context.Context, name string) (*models.Deck, error) {
	if err := validateDeckName(name); err != nil {
		return nil, err
	}
	if _, err := l.Find(name); err == nil {
		return nil, errors.NewValidationError("name", fmt.Sprintf("a deck named %q already exists", name))
	}

	deck := models.NewDeck(name)
	l.decks = append(l.decks, deck)
	l.current = deck
	logger.FromContext(ctx).WithPrefix("library").Info("created deck %q", name)

	return deck, l.SaveAll(ctx)
}

func validateDeckName(name string) error {
	switch {
	case name == "":
		return errors.NewValidationError("name", "cannot be empty")
	case strings.ContainsAny(name, `/\`):
		return errors.NewValidationError("name", "cannot contain a path separator")
	case strings.ContainsAny(name, "\r\n"):
		return errors.NewValidationError("name", "cannot contain a line break")
	case strings.TrimSpace(name) != name:
		return errors.NewValidationError("name", "cannot start or end with whitespace")
	case name == "." || name == "..":
		return errors.NewValidationError("name", "is reserved")
	}
	return nil
}

// Select makes the deck called name current.
func (l *Library) Select(name string) (*models.Deck, error) {
	d, err := l.Find(name)
	if err != nil {
		return nil, err
	}
	l.current = d
	return d, nil
}

// Current returns the selected deck or a NO_SELECTION error.
func (l *Library) Current() (*models.Deck, error) {
	if l.current == nil {
		return nil, errors.NewNoSelectionError()
	}
	return l.current, nil
}

// ImportCSV imports the CSV file at path into the current deck and saves it.
func (l *Library) ImportCSV(ctx context.Context, path string) (storage.ImportReport, error) {
	deck, err := l.Current()
	if err != nil {
		return storage.ImportReport{}, err
	}
	report, err := l.store.ImportCSV(deck, path)
	if err != nil {
		return report, err
	}
	if report.Added == 0 {
		return report, nil
	}
	return report, l.Save(ctx, deck)
}

// AddCard appends a new card to the current deck. Front and back may not
// contain the deck file separator or line breaks.
func (l *Library) AddCard(front, back, tags string) (models.Card, error) {
	deck, err := l.Current()
	if err != nil {
		return models.Card{}, err
	}
	if front == "" {
		return models.Card{}, errors.NewValidationError("front", "cannot be empty")
	}
	for _, f := range [][2]string{{"front", front}, {"back", back}, {"tags", tags}} {
		if strings.ContainsAny(f[1], "|\r\n") {
			return models.Card{}, errors.NewValidationError(f[0], "cannot contain '|' or line breaks")
		}
	}

	card := models.NewCard(l.store.IDs().Next(), front, back, l.now())
	card.SetTags(tags)
	deck.AddCard(card)
	return card, nil
}

// DeleteCard removes the card at index from the current deck and returns it.
func (l *Library) DeleteCard(index int) (models.Card, error) {
	deck, err := l.Current()
	if err != nil {
		return models.Card{}, err
	}
	cards := deck.Cards()
	if err := checkIndex(index, len(cards)); err != nil {
		return models.Card{}, err
	}
	removed := cards[index]
	deck.SetCards(append(cards[:index], cards[index+1:]...))
	return removed, nil
}

// ToggleSuspend flips the suspended flag of the card at index and returns the
// updated card.
func (l *Library) ToggleSuspend(index int) (models.Card, error) {
	deck, err := l.Current()
	if err != nil {
		return models.Card{}, err
	}
	cards := deck.Cards()
	if err := checkIndex(index, len(cards)); err != nil {
		return models.Card{}, err
	}
	card := cards[index]
	card.Suspended = !card.Suspended
	deck.UpdateCard(card)
	return card, nil
}

func checkIndex(index, n int) error {
	if n == 0 {
		return errors.NewValidationError("index", "deck is empty")
	}
	if index < 0 || index >= n {
		return errors.NewValidationError("index", fmt.Sprintf("must be between 0 and %d", n-1))
	}
	return nil
}
