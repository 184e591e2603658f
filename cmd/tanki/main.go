package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/vytor/tanki/internal/cli"
	"github.com/vytor/tanki/internal/config"
	"github.com/vytor/tanki/internal/db"
	"github.com/vytor/tanki/internal/flashcard"
	"github.com/vytor/tanki/internal/logger"
	"github.com/vytor/tanki/internal/models"
	"github.com/vytor/tanki/internal/repository"
	"github.com/vytor/tanki/internal/repository/sqlite"
	"github.com/vytor/tanki/internal/services"
	"github.com/vytor/tanki/internal/storage"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := config.Load()

	flags := pflag.NewFlagSet("tanki", pflag.ContinueOnError)
	flags.StringVar(&cfg.DeckDir, "dir", cfg.DeckDir, "deck directory (TANKI_DECK_DIR)")
	flags.StringVar(&cfg.JournalPath, "journal", cfg.JournalPath, "review journal database, empty to disable (TANKI_JOURNAL_PATH)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "DEBUG, INFO, WARN or ERROR (LOG_LEVEL)")
	flags.SetInterspersed(false)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, cli.Usage)
		fmt.Fprintln(os.Stderr, "\nflags:")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	log := logger.New(
		logger.WithOutput(os.Stderr),
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(cfg.LogColors),
	)
	logger.SetDefault(log)
	ctx := logger.NewContext(context.Background(), log)

	log.Debug("deck_dir=%s", cfg.DeckDir)
	log.Debug("deck_ext=%s", cfg.DeckExt)
	log.Debug("journal_path=%s", cfg.JournalPath)
	log.Debug("log_level=%s", cfg.LogLevel)

	store := storage.NewStore(cfg.DeckDir, cfg.DeckExt, models.NewIDAllocator(), log)
	if err := store.EnsureDir(); err != nil {
		log.Error("failed to create deck directory: %v", err)
		return 1
	}

	var journal repository.ReviewJournal
	if cfg.JournalPath != "" {
		database, err := db.Open(cfg.JournalPath)
		if err != nil {
			log.Error("failed to open review journal: %v", err)
			return 1
		}
		defer func() {
			log.Debug("closing review journal")
			database.Close()
		}()
		journal = sqlite.NewReviewJournal(database.DB)
	}

	library := services.NewLibrary(store)
	if _, err := library.LoadAll(ctx); err != nil {
		log.Error("failed to load decks: %v", err)
		return 1
	}

	app := cli.New(library, services.NewReviewService(flashcard.NewScheduler(), journal), os.Stdin, os.Stdout)
	runErr := app.Run(ctx, flags.Args())

	status := 0
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		status = 1
	}
	if err := library.SaveAll(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "warning: some decks could not be saved:", err)
		status = 1
	}
	return status
}
