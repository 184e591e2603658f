package storage

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/vytor/tanki/internal/errors"
	"github.com/vytor/tanki/internal/models"
)

// ImportReport counts what an import did with each non-empty line.
type ImportReport struct {
	Added      int
	Duplicates int
	Malformed  int
}

// ImportCSV appends the front,back pairs in the CSV file at path to deck.
// Pairs already in the deck (exact front and back) are skipped. It fails only
// when deck is nil or the file cannot be opened.
func (s *Store) ImportCSV(deck *models.Deck, path string) (ImportReport, error) {
	if deck == nil {
		return ImportReport{}, errors.NewNoDeckError()
	}
	log := s.log.WithFields(map[string]any{"deck": deck.Name(), "csv": path})

	f, err := os.Open(path)
	if err != nil {
		log.Debug("cannot open csv file: %v", err)
		return ImportReport{}, &errors.AppError{
			Code:    errors.ErrCodeNotFound,
			Message: fmt.Sprintf("csv file not found: %s", path),
			Err:     err,
		}
	}
	defer f.Close()

	report, err := ImportPairs(f, deck, s.ids, time.Now())
	if err != nil {
		log.Warn("csv import stopped early: %v", err)
		return report, errors.NewInternalError(fmt.Errorf("read csv %s: %w", path, err))
	}
	log.Info("imported %d cards (%d duplicates, %d malformed lines)", report.Added, report.Duplicates, report.Malformed)
	return report, nil
}

// ImportPairs does the work of ImportCSV on an open reader. New cards are
// due at now. Lines without a second field, or with a '|' in front or back,
// count as malformed.
func ImportPairs(r io.Reader, deck *models.Deck, ids *models.IDAllocator, now time.Time) (ImportReport, error) {
	var report ImportReport

	existing := make(map[string]struct{}, deck.Len())
	for _, c := range deck.Cards() {
		existing[dedupKey(c.Front, c.Back)] = struct{}{}
	}

	lines := newLineReader(r)
	for lines.Next() {
		line := lines.Text()
		if line == "" {
			continue
		}
		front, back, ok := splitPair(line)
		if !ok || !storable(front) || !storable(back) {
			report.Malformed++
			continue
		}
		key := dedupKey(front, back)
		if _, dup := existing[key]; dup {
			report.Duplicates++
			continue
		}
		deck.AddCard(models.NewCard(ids.Next(), front, back, now))
		existing[key] = struct{}{}
		report.Added++
	}
	return report, lines.Err()
}

// splitPair takes the first two comma separated fields of line. A line
// with nothing after its first comma has no second field.
func splitPair(line string) (front, back string, ok bool) {
	comma := strings.IndexByte(line, ',')
	if comma < 0 || comma == len(line)-1 {
		return "", "", false
	}
	front = line[:comma]
	back = line[comma+1:]
	if next := strings.IndexByte(back, ','); next >= 0 {
		back = back[:next]
	}
	return unquote(front), unquote(back), true
}

// unquote drops one leading and one trailing double quote, if present.
func unquote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return s
}

// storable reports whether s fits in a deck file field.
func storable(s string) bool {
	return !strings.Contains(s, fieldSeparator)
}

func dedupKey(front, back string) string {
	return front + fieldSeparator + back
}
