package cli

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/tengjizhang/bbopml/internal/config"
	"github.com/tengjizhang/bbopml/internal/fetch"
	"github.com/tengjizhang/bbopml/internal/opml"
	"github.com/tengjizhang/bbopml/internal/store"
)

type App struct {
	cfg      config.Config
	log      *zap.Logger
	client   *fetch.Client
	renderer *fetch.Renderer
	db       *sql.DB
	store    *store.Store
}

// NewApp wires the network side of the application. The library database is
// opened separately by openStore.
func NewApp(cfg config.Config, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		cfg:      cfg,
		log:      log,
		client:   fetch.NewClient(cfg.HTTPTimeout, cfg.UserAgent),
		renderer: fetch.NewRenderer(),
	}
}

func (a *App) openStore(dbPath string) error {
	a.cfg.DBPath = dbPath
	db, err := store.OpenDB(dbPath)
	if err != nil {
		return err
	}
	a.db = db
	a.store = store.NewStore(db)
	return nil
}

func (a *App) importer(allowEmpty bool) *opml.Importer {
	return opml.NewImporter(a.client,
		opml.WithLogger(a.log.Named("import")),
		opml.WithAllowEmptyGuides(allowEmpty || a.cfg.AllowEmptyGuides),
	)
}

func (a *App) checker() *fetch.Checker {
	return fetch.NewChecker(a.client, a.renderer, a.cfg.CheckConcurrency, a.log.Named("check"))
}

func (a *App) Close() error {
	_ = a.log.Sync()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
