// Package cli implements the interactive terminal front end for the
// chtime auth subsystem. It is a thin presentation layer: every decision
// stays inside the auth manager.
package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"github.com/chtime/chtime/internal/auth"
	"github.com/chtime/chtime/internal/config"
	"github.com/chtime/chtime/internal/logging"
	"github.com/chtime/chtime/internal/storage"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	manager *auth.Manager
	store   *storage.SQLiteStore
	reader  *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	store, err := storage.OpenSQLite(ctx, c.StorePath)
	if err != nil {
		return nil, err
	}

	logger := logging.NewSlogLogger(slog.Default())
	manager := auth.NewManager(store, c, logger)

	return &App{
		config:  c,
		manager: manager,
		store:   store,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.store.Close()
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.manager.IsAuthenticated(context.Background())
}

// status renders the prompt segment showing who is logged in.
func (a *App) status() string {
	ident := a.manager.CurrentIdentity(context.Background())
	if ident == nil {
		return "anonymous"
	}
	if ident.IsAdmin() {
		return ident.Username + " (admin)"
	}
	return ident.Username
}
