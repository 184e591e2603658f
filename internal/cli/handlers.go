package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/vytor/tanki/internal/logger"
	"github.com/vytor/tanki/internal/models"
	"github.com/vytor/tanki/internal/stats"
)

const historyLimit = 5

func (a *App) handleReview(ctx context.Context) {
	log := logger.FromContext(ctx).WithPrefix("review")

	deck, err := a.Library.Current()
	if err != nil {
		a.handleError(ctx, err)
		return
	}
	due, err := a.Reviews.Due(deck)
	if err != nil {
		a.handleError(ctx, err)
		return
	}
	log.Debug("starting review: deck=%s, due=%d", deck.Name(), len(due))

	reviewed := 0
	for _, card := range due {
		quality, ok := a.showCard(card, true)
		if !ok {
			break
		}
		if _, err := a.Reviews.Review(ctx, deck, card, quality); err != nil {
			a.handleError(ctx, err)
			continue
		}
		reviewed++
	}
	if reviewed > 0 {
		a.save(ctx)
	}
	a.printf("Review session complete. %d of %d due cards reviewed.\n", reviewed, len(due))
}

func (a *App) handleCram(ctx context.Context) {
	deck, err := a.Library.Current()
	if err != nil {
		a.handleError(ctx, err)
		return
	}
	tag, ok := a.prompt("Enter tag to cram (blank=all):")
	if !ok {
		return
	}
	cards, err := a.Reviews.Cram(deck, strings.TrimSpace(tag))
	if err != nil {
		a.handleError(ctx, err)
		return
	}
	for _, card := range cards {
		if _, ok := a.showCard(card, false); !ok {
			break
		}
	}
	a.println("Cram session done.")
}

// showCard shows the front, waits, then shows the back. When rate is set it
// asks for a quality. ok is false when the user quits or input ends.
func (a *App) showCard(card models.Card, rate bool) (quality int, ok bool) {
	a.printf("\nFront: %s\n", card.Front)
	line, ok := a.prompt("[Enter to flip, q to quit]")
	if !ok || strings.TrimSpace(line) == "q" {
		return 0, false
	}
	a.printf("Back: %s\n", card.Back)
	if !rate {
		return 0, true
	}
	for {
		line, ok := a.prompt("Rate 0-5 (0-2 again, 3 hard, 4 good, 5 easy), q to quit:")
		if !ok {
			return 0, false
		}
		line = strings.TrimSpace(line)
		if line == "q" {
			return 0, false
		}
		if q, err := strconv.Atoi(line); err == nil && q >= 0 && q <= models.MaxRating {
			return q, true
		}
	}
}

func (a *App) handleBrowse(ctx context.Context) {
	deck, err := a.Library.Current()
	if err != nil {
		a.handleError(ctx, err)
		return
	}
	a.printCards(deck)
}

func (a *App) printCards(deck *models.Deck) {
	cards := deck.Cards()
	if len(cards) == 0 {
		a.println("Deck is empty.")
		return
	}
	a.printf("Deck %s, %d cards:\n", deck.Name(), len(cards))
	for i, c := range cards {
		flag := ""
		if c.Suspended {
			flag = " [suspended]"
		}
		tags := ""
		if t := c.TagsString(); t != "" {
			tags = " {" + t + "}"
		}
		a.printf("%3d. %s -> %s%s (ivl %dd, due %s)%s\n",
			i, c.Front, c.Back, tags, c.IntervalDays, c.DueAt.Local().Format("2006-01-02"), flag)
	}
}

func (a *App) handleImport(ctx context.Context) {
	if _, err := a.Library.Current(); err != nil {
		a.println("No deck selected to import into!")
		return
	}
	path, ok := a.prompt("Enter CSV file path:")
	if !ok {
		return
	}
	if path = strings.TrimSpace(path); path == "" {
		a.println("No path given.")
		return
	}
	report, err := a.Library.ImportCSV(ctx, path)
	if err != nil {
		a.handleError(ctx, err)
		return
	}
	a.printf("Import successful! %d added, %d duplicates, %d malformed lines.\n",
		report.Added, report.Duplicates, report.Malformed)
}

func (a *App) handleExport(ctx context.Context) {
	deck, err := a.Library.Current()
	if err != nil {
		a.handleError(ctx, err)
		return
	}
	if err := a.Library.Store().ExportCSV(deck, ""); err != nil {
		a.handleError(ctx, err)
	}
}

// promptIndex lists the deck and reads a card index. ok is false when the
// user cancels.
func (a *App) promptIndex(deck *models.Deck, msg string) (int, bool) {
	a.printCards(deck)
	if deck.Len() == 0 {
		return 0, false
	}
	line, ok := a.prompt(msg)
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, false
	}
	return idx, true
}

func (a *App) handleDeleteCard(ctx context.Context) {
	deck, err := a.Library.Current()
	if err != nil {
		a.handleError(ctx, err)
		return
	}
	idx, ok := a.promptIndex(deck, "Index to delete (blank to cancel):")
	if !ok {
		a.println("Delete canceled.")
		return
	}
	if _, err := a.Library.DeleteCard(idx); err != nil {
		a.handleError(ctx, err)
		return
	}
	a.save(ctx)
	a.printf("Card %d deleted.\n", idx)
}

func (a *App) handleToggleSuspend(ctx context.Context) {
	deck, err := a.Library.Current()
	if err != nil {
		a.handleError(ctx, err)
		return
	}
	idx, ok := a.promptIndex(deck, "Index to suspend/unsuspend (blank to cancel):")
	if !ok {
		return
	}
	card, err := a.Library.ToggleSuspend(idx)
	if err != nil {
		a.handleError(ctx, err)
		return
	}
	a.save(ctx)
	if card.Suspended {
		a.printf("Card %d suspended.\n", idx)
	} else {
		a.printf("Card %d unsuspended.\n", idx)
	}
}

func (a *App) handleAddCard(ctx context.Context) {
	if _, err := a.Library.Current(); err != nil {
		a.handleError(ctx, err)
		return
	}
	front, ok := a.prompt("Front:")
	if !ok {
		return
	}
	back, ok := a.prompt("Back:")
	if !ok {
		return
	}
	tags, ok := a.prompt("Tags (comma separated, optional):")
	if !ok {
		return
	}
	if _, err := a.Library.AddCard(front, back, tags); err != nil {
		a.handleError(ctx, err)
		return
	}
	a.save(ctx)
	a.println("Card added.")
}

func (a *App) handleStats(ctx context.Context) {
	deck, err := a.Library.Current()
	if err != nil {
		a.handleError(ctx, err)
		return
	}
	a.printf("%s", stats.RenderSummary(deck))

	stat, err := a.Reviews.Stats(ctx, deck)
	if err != nil {
		a.handleError(ctx, err)
		return
	}
	a.printf("%s", stats.RenderReviewStat(stat))

	history, err := a.Reviews.History(ctx, deck, historyLimit)
	if err != nil {
		a.handleError(ctx, err)
		return
	}
	if len(history) > 0 {
		a.println("Recent reviews:")
		for _, e := range history {
			a.printf("  %s  %s (q=%d, next in %dd)\n",
				e.ReviewedAt.Local().Format("2006-01-02 15:04"), e.Front, e.Quality, e.IntervalDays)
		}
	}
}

func (a *App) handleSchedule(ctx context.Context) {
	deck, err := a.Library.Current()
	if err != nil {
		a.handleError(ctx, err)
		return
	}
	a.printf("%s", stats.RenderForecast(deck, a.Now()))
}

func (a *App) handleSwitchDeck(ctx context.Context) {
	if len(a.Library.Decks()) == 0 {
		a.println("No decks available.")
		return
	}
	a.listDecks()
	line, ok := a.prompt("Deck number:")
	if !ok {
		return
	}
	if a.selectByNumber(ctx, strings.TrimSpace(line)) {
		deck, _ := a.Library.Current()
		a.println("Switched to deck: " + deck.Name())
	}
}

func (a *App) handleCreateDeck(ctx context.Context) {
	name, ok := a.prompt("Enter a name for the new deck:")
	if !ok {
		return
	}
	if name = strings.TrimSpace(name); name == "" {
		a.println("No name provided.")
		return
	}
	deck, err := a.Library.Create(ctx, name)
	if err != nil && deck == nil {
		a.handleError(ctx, err)
		return
	}
	if err != nil {
		a.println("Warning: decks could not be saved.")
	}
	a.println("Created new deck: " + name)
}

func (a *App) handleHelp(context.Context) {
	a.println(helpText)
}
