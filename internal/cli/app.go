package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vytor/tanki/internal/services"
)

// App is the line-oriented terminal front end.
type App struct {
	Library *services.Library
	Reviews services.ReviewService
	Now     func() time.Time

	in  *bufio.Reader
	out io.Writer
}

// New creates an App reading commands from in and writing to out.
func New(lib *services.Library, reviews services.ReviewService, in io.Reader, out io.Writer) *App {
	return &App{
		Library: lib,
		Reviews: reviews,
		Now:     time.Now,
		in:      bufio.NewReader(in),
		out:     out,
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}

// prompt prints msg and reads one line without its line ending. ok is false
// once input is exhausted.
func (a *App) prompt(msg string) (line string, ok bool) {
	if msg != "" {
		a.printf("%s ", msg)
	}
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

// save writes the current deck, warning when it could not be persisted.
func (a *App) save(ctx context.Context) {
	deck, err := a.Library.Current()
	if err != nil {
		return
	}
	if err := a.Library.Save(ctx, deck); err != nil {
		a.println("Warning: deck could not be saved.")
	}
}
