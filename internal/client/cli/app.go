package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ashishkaushik/leazzy/internal/client/client"
	"github.com/ashishkaushik/leazzy/internal/client/config"
	"github.com/ashishkaushik/leazzy/internal/client/services"
	"github.com/ashishkaushik/leazzy/internal/client/session"
	"github.com/ashishkaushik/leazzy/internal/common"
	"github.com/ashishkaushik/leazzy/internal/filex"
	"github.com/ashishkaushik/leazzy/internal/logging"
)

// App wires the CLI together: local storage, the backend adapter, the
// session synchronizer, and the domain services.
type App struct {
	config     *config.Config
	repos      *client.Repositories
	api        *client.HTTPClient
	sync       *session.Synchronizer
	guard      session.Guard
	favorites  *services.FavoritesService
	properties *services.PropertyService
	logger     logging.Logger
	reader     *bufio.Reader
	out        io.Writer
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	ctx := context.Background()

	dsn, err := databasePath(c.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, "error preparing data directory", "error", err)
		return nil, err
	}

	repos, err := client.InitDatabase(ctx, dsn)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	api := client.NewHTTPClient(c.ServerEndpointAddr, client.WithClientLogger(logger))

	a := &App{
		config:     c,
		repos:      repos,
		api:        api,
		guard:      session.Guard{RequireVerifiedEmail: true},
		favorites:  services.NewFavoritesService(repos.Secure, logger),
		properties: services.NewPropertyService(api, repos.Listings, logger),
		logger:     logger,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}
	a.sync = session.NewSynchronizer(api, repos.Secure, session.WithSyncLogger(logger))
	return a, nil
}

// databasePath keeps bare database filenames inside a "data" subdirectory of
// the working directory. Absolute paths and in-memory DSNs pass through.
func databasePath(dsn string) (string, error) {
	if filepath.IsAbs(dsn) || strings.Contains(dsn, ":memory:") {
		return dsn, nil
	}
	dir, err := filex.EnsureSubdDir("data")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dsn), nil
}

// Run restores the persisted session if possible and enters the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.repos.DB.Close()

	a.sync.Start(ctx)
	a.favorites.Start(ctx)
	a.restoreSession(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// restoreSession adopts the persisted bearer token and asks the backend for
// the profile behind it. Without a token, or with a rejected one, the
// unauthenticated verdict is announced immediately.
func (a *App) restoreSession(ctx context.Context) {
	token, err := a.repos.Secure.Get(ctx, session.BearerTokenKey)
	if err != nil {
		a.logger.Error(ctx, "failed to read persisted token", "error", err)
	}
	if len(token) == 0 {
		a.api.Announce()
		return
	}

	a.api.RestoreToken(string(token), "")
	if _, err := a.api.Reload(ctx); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			a.api.RestoreToken("", "")
			a.api.Announce()
			return
		}
		// Server unreachable: keep the cached record visible and leave the
		// verdict pending.
		a.logger.Warn(ctx, "could not verify persisted session", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.sync.State() == session.StateAuthenticated
}

func (a *App) getStatus() string {
	snap := a.sync.Snapshot()
	switch {
	case snap.Loading:
		return "(...)"
	case snap.User != nil:
		return "(" + snap.User.Email + ")"
	default:
		return "(signed out)"
	}
}
