package storage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/tanki/internal/errors"
	"github.com/vytor/tanki/internal/logger"
	"github.com/vytor/tanki/internal/models"
	"github.com/vytor/tanki/internal/storage"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cards.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImportCSV_QuotedPairIntoEmptyDeck(t *testing.T) {
	store := storage.NewStore(t.TempDir(), ".deck", models.NewIDAllocator(), logger.Discard())
	deck := models.NewDeck("greetings")

	report, err := store.ImportCSV(deck, writeCSV(t, `"Hello","World"`+"\n"))
	require.NoError(t, err)
	assert.Equal(t, storage.ImportReport{Added: 1}, report)

	cards := deck.Cards()
	require.Len(t, cards, 1)
	assert.Equal(t, "Hello", cards[0].Front)
	assert.Equal(t, "World", cards[0].Back)
	assert.True(t, cards[0].IsNew())
	assert.Equal(t, models.DefaultEaseFactor, cards[0].EaseFactor)
}

func TestImportCSV_Deduplicates(t *testing.T) {
	ids := models.NewIDAllocator()
	store := storage.NewStore(t.TempDir(), ".deck", ids, logger.Discard())
	deck := models.NewDeck("d")
	deck.AddCard(models.NewCard(ids.Next(), "uno", "one", time.Now()))

	report, err := store.ImportCSV(deck, writeCSV(t, "uno,one\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, deck.Len(), "existing pair leaves the count unchanged")
	assert.Equal(t, 1, report.Duplicates)

	report, err = store.ImportCSV(deck, writeCSV(t, "dos,two\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, deck.Len(), "new pair adds exactly one card")
	assert.Equal(t, 1, report.Added)
}

func TestImportCSV_MissingFile(t *testing.T) {
	store := storage.NewStore(t.TempDir(), ".deck", nil, logger.Discard())
	deck := models.NewDeck("d")

	_, err := store.ImportCSV(deck, filepath.Join(t.TempDir(), "missing.csv"))
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, 0, deck.Len())
}

func TestImportCSV_NilDeck(t *testing.T) {
	store := storage.NewStore(t.TempDir(), ".deck", nil, logger.Discard())
	_, err := store.ImportCSV(nil, writeCSV(t, "a,b\n"))
	assert.True(t, errors.IsNoDeck(err))
}

func TestImportPairs_LineRules(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantPairs [][2]string
		wantRep   storage.ImportReport
	}{
		{
			name:      "extra fields ignored",
			input:     "a,b,c,d\n",
			wantPairs: [][2]string{{"a", "b"}},
			wantRep:   storage.ImportReport{Added: 1},
		},
		{
			name:    "single field is malformed",
			input:   "lonely\n",
			wantRep: storage.ImportReport{Malformed: 1},
		},
		{
			name:    "nothing after the comma is malformed",
			input:   "front,\n",
			wantRep: storage.ImportReport{Malformed: 1},
		},
		{
			name:      "empty second field before a third",
			input:     "front,,third\n",
			wantPairs: [][2]string{{"front", ""}},
			wantRep:   storage.ImportReport{Added: 1},
		},
		{
			name:      "blank lines skipped silently",
			input:     "\n\na,b\n\n",
			wantPairs: [][2]string{{"a", "b"}},
			wantRep:   storage.ImportReport{Added: 1},
		},
		{
			name:      "only one quote stripped per side",
			input:     `""quoted"",x` + "\n",
			wantPairs: [][2]string{{`"quoted"`, "x"}},
			wantRep:   storage.ImportReport{Added: 1},
		},
		{
			name:      "one-sided quotes",
			input:     `"open,close"` + "\n",
			wantPairs: [][2]string{{"open", "close"}},
			wantRep:   storage.ImportReport{Added: 1},
		},
		{
			name:      "duplicates within the file collapse",
			input:     "a,b\na,b\nA,b\n",
			wantPairs: [][2]string{{"a", "b"}, {"A", "b"}},
			wantRep:   storage.ImportReport{Added: 2, Duplicates: 1},
		},
		{
			name:      "header row is imported literally",
			input:     "front,back\nq,a\n",
			wantPairs: [][2]string{{"front", "back"}, {"q", "a"}},
			wantRep:   storage.ImportReport{Added: 2},
		},
		{
			name:      "windows line endings",
			input:     "\"a\",\"b\"\r\n",
			wantPairs: [][2]string{{"a", "b"}},
			wantRep:   storage.ImportReport{Added: 1},
		},
		{
			name:      "whitespace is kept",
			input:     " a , b \n",
			wantPairs: [][2]string{{" a ", " b "}},
			wantRep:   storage.ImportReport{Added: 1},
		},
		{
			name:      "field separator in front or back is malformed",
			input:     "a|b,c\nx,y\nq,\"r|s\"\n",
			wantPairs: [][2]string{{"x", "y"}},
			wantRep:   storage.ImportReport{Added: 1, Malformed: 2},
		},
		{
			name:      "very long lines do not stop the import",
			input:     "a,b\n" + strings.Repeat("x", 2<<20) + "\nc,d\n",
			wantPairs: [][2]string{{"a", "b"}, {"c", "d"}},
			wantRep:   storage.ImportReport{Added: 2, Malformed: 1},
		},
		{
			name:      "last line without newline",
			input:     "a,b\nc,d",
			wantPairs: [][2]string{{"a", "b"}, {"c", "d"}},
			wantRep:   storage.ImportReport{Added: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deck := models.NewDeck("d")
			now := time.Unix(1700000000, 0)

			report, err := storage.ImportPairs(strings.NewReader(tt.input), deck, models.NewIDAllocator(), now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRep, report)

			cards := deck.Cards()
			require.Len(t, cards, len(tt.wantPairs))
			for i, pair := range tt.wantPairs {
				assert.Equal(t, pair[0], cards[i].Front)
				assert.Equal(t, pair[1], cards[i].Back)
				assert.True(t, cards[i].DueAt.Equal(now))
			}
		})
	}
}

func TestImportCSV_LongPairSurvivesSave(t *testing.T) {
	ids := models.NewIDAllocator()
	store := storage.NewStore(t.TempDir(), ".deck", ids, logger.Discard())
	deck := models.NewDeck("long")
	front := strings.Repeat("w", 2<<20)

	report, err := store.ImportCSV(deck, writeCSV(t, front+",back\nc,d\n"))
	require.NoError(t, err)
	assert.Equal(t, storage.ImportReport{Added: 2}, report)

	require.NoError(t, store.SaveDeck(deck))
	loaded, loadReport, err := store.LoadDeck(store.DeckPath("long"))
	require.NoError(t, err)
	assert.Empty(t, loadReport.Skipped)
	require.Equal(t, 2, loaded.Len())
	assert.Equal(t, front, loaded.Cards()[0].Front)
}
