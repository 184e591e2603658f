package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/vytor/tanki/internal/logger"
)

type handlerFunc func(ctx context.Context)

// commands maps menu keys to their handlers.
func (a *App) commands() map[byte]handlerFunc {
	return map[byte]handlerFunc{
		'r': a.handleReview,
		'c': a.handleCram,
		'b': a.handleBrowse,
		'i': a.handleImport,
		'x': a.handleDeleteCard,
		't': a.handleStats,
		's': a.handleSchedule,
		'd': a.handleSwitchDeck,
		'n': a.handleCreateDeck,
		'a': a.handleAddCard,
		'u': a.handleToggleSuspend,
		'e': a.handleExport,
		'?': a.handleHelp,
	}
}

const helpText = `Shortcuts:
  r = Review
  c = Cram
  b = Browse
  i = Import CSV
  x = Delete Card
  a = Add Card
  u = Suspend/Unsuspend Card
  t = Stats
  s = Schedule
  d = Switch Deck
  n = Create Deck
  e = Export CSV
  ? = Help
  q = Quit`

// Interactive runs the menu loop until the user quits or input ends.
func (a *App) Interactive(ctx context.Context) {
	log := logger.FromContext(ctx).WithPrefix("menu")
	handlers := a.commands()

	for {
		deck, err := a.Library.Current()
		if err != nil {
			if !a.startScreen(ctx) {
				return
			}
			continue
		}

		a.printf("\n[%s] r)eview c)ram b)rowse i)mport x)delete a)dd u)suspend t)stats s)chedule d)eck n)ew ?)help q)uit\n", deck.Name())
		line, ok := a.prompt(">")
		if !ok {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line[0] == 'q' {
			return
		}
		h, found := handlers[line[0]]
		if !found {
			log.Debug("unknown key %q", line)
			continue
		}
		h(ctx)
	}
}

// startScreen lets the user pick, create or quit when no deck is selected.
// It returns false when the session should end.
func (a *App) startScreen(ctx context.Context) bool {
	decks := a.Library.Decks()
	if len(decks) == 0 {
		a.println("Welcome to tanki. No decks found.")
		line, ok := a.prompt("(n) create a deck, (q) quit:")
		if !ok {
			return false
		}
		switch strings.TrimSpace(line) {
		case "n":
			a.handleCreateDeck(ctx)
			return true
		case "q":
			return false
		}
		return true
	}

	a.println("Welcome to tanki. Decks:")
	a.listDecks()
	line, ok := a.prompt("Pick a deck number, (n) new deck, (q) quit:")
	if !ok {
		return false
	}
	switch line = strings.TrimSpace(line); line {
	case "n":
		a.handleCreateDeck(ctx)
	case "q":
		return false
	default:
		a.selectByNumber(ctx, line)
	}
	return true
}

func (a *App) listDecks() {
	for i, d := range a.Library.Decks() {
		a.printf("  %d. %s (%d cards)\n", i+1, d.Name(), d.Len())
	}
}

// selectByNumber selects the deck at the 1-based position in s.
func (a *App) selectByNumber(ctx context.Context, s string) bool {
	decks := a.Library.Decks()
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > len(decks) {
		return false
	}
	if _, err := a.Library.Select(decks[n-1].Name()); err != nil {
		a.handleError(ctx, err)
		return false
	}
	return true
}
