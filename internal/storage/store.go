package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vytor/tanki/internal/errors"
	"github.com/vytor/tanki/internal/logger"
	"github.com/vytor/tanki/internal/models"
)

// DefaultExt is the extension deck files carry unless configured otherwise.
const DefaultExt = ".deck"

// LoadReport summarises one LoadDeck call.
type LoadReport struct {
	Path    string
	Cards   int
	Skipped []LineError
}

// Store reads and writes deck files in a single directory.
type Store struct {
	dir string
	ext string
	ids *models.IDAllocator
	log *logger.Logger
}

// NewStore creates a Store for dir. Cards it creates draw ids from ids. A nil
// log falls back to the default logger.
func NewStore(dir, ext string, ids *models.IDAllocator, log *logger.Logger) *Store {
	if ext == "" {
		ext = DefaultExt
	}
	if ids == nil {
		ids = models.NewIDAllocator()
	}
	if log == nil {
		log = logger.Default()
	}
	return &Store{
		dir: dir,
		ext: ext,
		ids: ids,
		log: log.WithPrefix("store"),
	}
}

func (s *Store) Dir() string                 { return s.dir }
func (s *Store) Ext() string                 { return s.ext }
func (s *Store) IDs() *models.IDAllocator    { return s.ids }
func (s *Store) DeckPath(name string) string { return filepath.Join(s.dir, name+s.ext) }

// EnsureDir creates the deck directory if it is missing.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("create deck directory %s: %w", s.dir, err)
	}
	return nil
}

// ListDeckFiles returns the deck files in the store's directory.
func (s *Store) ListDeckFiles() ([]string, error) {
	return ListDeckFiles(s.dir, s.ext)
}

// ListDeckFiles returns, sorted by name, the regular files directly inside
// dir whose extension is ext. It does not recurse.
func ListDeckFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("deck directory", dir)
		}
		return nil, fmt.Errorf("list deck directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ext {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadDeck reads the deck file at path. It fails with NOT_FOUND when the
// file cannot be opened or has no name line; bad card lines are skipped and
// listed in the report.
func (s *Store) LoadDeck(path string) (*models.Deck, LoadReport, error) {
	log := s.log.WithField("path", path)
	report := LoadReport{Path: path}

	f, err := os.Open(path)
	if err != nil {
		log.Debug("cannot open deck file: %v", err)
		return nil, report, &errors.AppError{
			Code:    errors.ErrCodeNotFound,
			Message: fmt.Sprintf("deck file not found: %s", path),
			Err:     err,
		}
	}
	defer f.Close()

	deck, skipped, err := Decode(f, s.ids)
	report.Skipped = skipped
	if err != nil {
		log.Warn("failed to load deck: %v", err)
		return nil, report, err
	}
	report.Cards = deck.Len()

	for _, le := range skipped {
		log.Warn("skipped card line: %v", le)
	}
	log.Debug("loaded deck %q: %d cards, %d skipped", deck.Name(), report.Cards, len(skipped))
	return deck, report, nil
}

// SaveDeck writes deck to <dir>/<name><ext>. The new content goes to a
// temporary file in the same directory which is then renamed over the
// target, so the file on disk is always a complete deck.
func (s *Store) SaveDeck(deck *models.Deck) error {
	if deck == nil {
		return errors.NewNoDeckError()
	}
	target := s.DeckPath(deck.Name())
	log := s.log.WithField("path", target)

	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		log.Error("failed to create temp deck file: %v", err)
		return errors.NewInternalError(fmt.Errorf("create temp file for deck %q: %w", deck.Name(), err))
	}
	tmpPath := tmp.Name()

	if err := Encode(tmp, deck); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		log.Error("failed to write deck: %v", err)
		return errors.NewInternalError(fmt.Errorf("write deck %q: %w", deck.Name(), err))
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.NewInternalError(fmt.Errorf("sync deck %q: %w", deck.Name(), err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.NewInternalError(fmt.Errorf("close temp file for deck %q: %w", deck.Name(), err))
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		log.Error("failed to replace deck file: %v", err)
		return errors.NewInternalError(fmt.Errorf("replace deck file %s: %w", target, err))
	}

	log.Debug("saved deck %q with %d cards", deck.Name(), deck.Len())
	return nil
}

// ExportCSV is declared for parity with import but not implemented.
func (s *Store) ExportCSV(deck *models.Deck, path string) error {
	return errors.NewNotImplementedError("CSV export")
}
