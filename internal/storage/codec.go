package storage

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vytor/tanki/internal/errors"
	"github.com/vytor/tanki/internal/models"
)

// Deck file layout: the first line is the deck name, then one card per line
// as front|back|interval|easeFactor|dueDate|suspended|tags|
const (
	fieldSeparator = "|"
	recordFields   = 7
)

// LineError describes a data line that was skipped while decoding.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error { return e.Err }

// Encode writes deck in the deck file format.
func Encode(w io.Writer, deck *models.Deck) error {
	if deck == nil {
		return errors.NewNoDeckError()
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(deck.Name() + "\n"); err != nil {
		return err
	}
	for _, c := range deck.Cards() {
		if _, err := bw.WriteString(encodeCard(c)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func encodeCard(c models.Card) string {
	suspended := "0"
	if c.Suspended {
		suspended = "1"
	}
	fields := []string{
		c.Front,
		c.Back,
		strconv.Itoa(c.IntervalDays),
		strconv.FormatFloat(c.EaseFactor, 'g', -1, 64),
		strconv.FormatInt(c.DueAt.Unix(), 10),
		suspended,
		c.TagsString(),
	}
	return strings.Join(fields, fieldSeparator) + fieldSeparator + "\n"
}

// Decode reads a deck. Every card gets a fresh id from ids. Lines that do
// not decode are skipped and returned as LineErrors; only a missing name
// line or a read failure fails the whole decode.
func Decode(r io.Reader, ids *models.IDAllocator) (*models.Deck, []LineError, error) {
	lines := newLineReader(r)

	if !lines.Next() {
		if err := lines.Err(); err != nil {
			return nil, nil, fmt.Errorf("read deck name: %w", err)
		}
		return nil, nil, errors.NewNotFoundError("deck name line", "empty file")
	}
	deck := models.NewDeck(lines.Text())

	var skipped []LineError
	lineNo := 1
	for lines.Next() {
		lineNo++
		line := lines.Text()
		if line == "" {
			continue
		}
		card, err := decodeCard(line, ids)
		if err != nil {
			skipped = append(skipped, LineError{Line: lineNo, Err: err})
			continue
		}
		deck.AddCard(card)
	}
	if err := lines.Err(); err != nil {
		return nil, skipped, fmt.Errorf("read deck line %d: %w", lineNo+1, err)
	}
	return deck, skipped, nil
}

// decodeCard parses one data line. Fields past the seventh are ignored.
func decodeCard(line string, ids *models.IDAllocator) (models.Card, error) {
	fields := strings.Split(line, fieldSeparator)
	if len(fields) < recordFields {
		return models.Card{}, errors.NewMalformedRecordError(recordFields, len(fields))
	}

	interval, err := strconv.Atoi(fields[2])
	if err != nil {
		return models.Card{}, errors.NewParseError("interval", err)
	}
	if interval < 0 {
		return models.Card{}, errors.NewParseError("interval", fmt.Errorf("negative value %d", interval))
	}
	ease, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return models.Card{}, errors.NewParseError("ease factor", err)
	}
	if math.IsNaN(ease) || math.IsInf(ease, 0) || ease < models.MinEaseFactor {
		return models.Card{}, errors.NewParseError("ease factor", fmt.Errorf("%v out of range, minimum is %v", ease, models.MinEaseFactor))
	}
	due, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return models.Card{}, errors.NewParseError("due date", err)
	}

	card := models.Card{
		ID:           ids.Next(),
		Front:        fields[0],
		Back:         fields[1],
		DueAt:        time.Unix(due, 0),
		Suspended:    fields[5] == "1",
		IntervalDays: interval,
		EaseFactor:   ease,
	}
	card.SetTags(fields[6])
	return card, nil
}
