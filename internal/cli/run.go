package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/vytor/tanki/internal/errors"
	"github.com/vytor/tanki/internal/stats"
)

// Usage describes the one-shot commands.
const Usage = `usage: tanki [flags] [command [args]]

Without a command tanki starts the interactive menu.

commands:
  list                          list decks
  new DECK                      create a deck
  add DECK FRONT BACK [TAGS]    add a card
  import DECK FILE              import front,back pairs from a CSV file
  export DECK FILE              export a deck as CSV
  review DECK                   review the due cards of a deck
  cram DECK [TAG]               drill cards without rescheduling
  browse DECK                   list the cards of a deck
  stats DECK                    show deck statistics
  schedule DECK                 show the 7-day forecast
  help                          show this text`

// Run executes one command. An empty args starts the interactive menu.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.Interactive(ctx)
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help", "-h", "--help":
		a.println(Usage)
		return nil
	case "list":
		if len(a.Library.Decks()) == 0 {
			a.println("No decks available.")
			return nil
		}
		a.listDecks()
		return nil
	case "new":
		if err := wantArgs(cmd, rest, 1, 1); err != nil {
			return err
		}
		name := strings.TrimSpace(rest[0])
		if _, err := a.Library.Create(ctx, name); err != nil {
			return err
		}
		a.println("Created new deck: " + name)
		return nil
	}

	// Everything else works on an existing deck.
	if !deckCommands[cmd] {
		return errors.NewValidationError("command", fmt.Sprintf("unknown command %q", cmd))
	}
	if len(rest) == 0 {
		return errors.NewValidationError("deck", fmt.Sprintf("%s needs a deck name", cmd))
	}
	deck, err := a.Library.Select(rest[0])
	if err != nil {
		return err
	}
	rest = rest[1:]

	switch cmd {
	case "add":
		if err := wantArgs(cmd, rest, 2, 3); err != nil {
			return err
		}
		tags := ""
		if len(rest) == 3 {
			tags = rest[2]
		}
		if _, err := a.Library.AddCard(rest[0], rest[1], tags); err != nil {
			return err
		}
		a.println("Card added.")
		return a.Library.Save(ctx, deck)
	case "import":
		if err := wantArgs(cmd, rest, 1, 1); err != nil {
			return err
		}
		report, err := a.Library.ImportCSV(ctx, rest[0])
		if err != nil {
			return err
		}
		a.printf("%d added, %d duplicates, %d malformed lines.\n", report.Added, report.Duplicates, report.Malformed)
		return nil
	case "export":
		if err := wantArgs(cmd, rest, 1, 1); err != nil {
			return err
		}
		return a.Library.Store().ExportCSV(deck, rest[0])
	case "review":
		a.handleReview(ctx)
		return nil
	case "cram":
		if err := wantArgs(cmd, rest, 0, 1); err != nil {
			return err
		}
		tag := ""
		if len(rest) == 1 {
			tag = rest[0]
		}
		cards, err := a.Reviews.Cram(deck, tag)
		if err != nil {
			return err
		}
		for _, c := range cards {
			if _, ok := a.showCard(c, false); !ok {
				break
			}
		}
		a.println("Cram session done.")
		return nil
	case "browse":
		a.printCards(deck)
		return nil
	case "stats":
		a.handleStats(ctx)
		return nil
	case "schedule":
		a.printf("%s", stats.RenderForecast(deck, a.Now()))
		return nil
	}
	return nil
}

var deckCommands = map[string]bool{
	"add": true, "import": true, "export": true, "review": true,
	"cram": true, "browse": true, "stats": true, "schedule": true,
}

func wantArgs(cmd string, args []string, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		return errors.NewValidationError("args", fmt.Sprintf("wrong number of arguments for %s: %s", cmd, strings.Join(args, " ")))
	}
	return nil
}
