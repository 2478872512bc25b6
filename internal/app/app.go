package app

import (
	"context"
	"fmt"
	"net/http"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/domain/access"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/infrastructure/livefeed"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/matchday/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/matchday/internal/platform/id"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"github.com/riskibarqy/matchday/internal/usecase"
	"github.com/sourcegraph/conc/pool"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// App owns the HTTP server and everything it must release on shutdown.
type App struct {
	Server *http.Server

	hub *livefeed.Hub
	db  *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{}
	store, directory, err := a.buildStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	matchSvc := usecase.NewMatchService(store, directory, idgen.NewRandomGenerator(), logger)

	var feed httpapi.LiveFeedServer
	if cfg.LiveFeedEnabled {
		hub, err := livefeed.NewHub(livefeed.Config{
			ClientSendBuffer: cfg.LiveFeedSendBuffer,
			WriteTimeout:     cfg.LiveFeedWriteTimeout,
			PongWait:         cfg.LiveFeedPongWait,
			PingInterval:     cfg.LiveFeedPingInterval,
			PublishWorkers:   cfg.LiveFeedPublishWorkers,
			AllowedOrigins:   cfg.CORSAllowedOrigins,
		}, logger.With("component", "livefeed"))
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.hub = hub
		matchSvc.SetLiveFeed(hub)
		feed = hub
	} else {
		logger.Info("live feed disabled", "reason", "LIVEFEED_ENABLED=false")
	}

	handler := httpapi.NewHandler(matchSvc, feed, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return a, nil
}

func (a *App) buildStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (match.Store, access.Directory, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		a.db = db
		if cfg.DBBootstrapSeed {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				_ = db.Close()
				return nil, nil, err
			}
		}
		logger.Info("store ready", "driver", config.StorePostgres, "db", dbNameFromURL(cfg.DBURL))
		breaker := resilience.NewCircuitBreaker(cfg.DBCircuitBreaker)
		breaker.OnStateChange(func(from, to resilience.CircuitState) {
			logger.Warn("match store circuit breaker transition", "from", from, "to", to)
		})
		return postgres.NewMatchStore(db, breaker), postgres.NewDirectory(db), nil
	default:
		logger.Info("store ready", "driver", config.StoreMemory)
		return memory.NewMatchStore(), memory.NewDirectory(memory.SeedCoaches(), memory.SeedReferees()), nil
	}
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open(
		"postgres",
		normalizeDBURL(cfg.DBURL, cfg.DBBinaryParameters),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, crerr.Wrap(err, "open database")
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, crerr.Wrap(err, "ping database")
	}
	return db, nil
}

// Close disconnects spectators and closes the database concurrently.
func (a *App) Close() error {
	p := pool.New().WithErrors()
	if a.hub != nil {
		p.Go(func() error {
			a.hub.Close()
			return nil
		})
	}
	if a.db != nil {
		p.Go(func() error {
			return crerr.Wrap(a.db.Close(), "close database")
		})
	}
	return p.Wait()
}
