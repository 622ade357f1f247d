package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/client/pkg/config"
	"github.com/pocketledger/client/pkg/connectivity"
	v1 "github.com/pocketledger/client/pkg/controllers/v1"
	"github.com/pocketledger/client/pkg/models"
	"github.com/pocketledger/client/pkg/preferences"
	"github.com/pocketledger/client/pkg/remote"
	"github.com/pocketledger/client/pkg/repository"
	"github.com/pocketledger/client/pkg/store"
	"github.com/pocketledger/client/pkg/syncer"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// app holds everything a command needs, built from the configuration.
type app struct {
	cfg          config.Config
	db           *gorm.DB
	store        *store.Store
	prefs        *preferences.Preferences
	accounts     *repository.Accounts
	categories   *repository.Categories
	transactions *repository.Transactions
	analysis     *repository.Analysis
	pusher       *syncer.Pusher
	connectivity *connectivity.Observer
}

// configureLogging sets up the global logger.
//
// If the log format is not set, it defaults to human readable for
// development and JSON for release.
func configureLogging(cfg config.Config, out io.Writer) {
	output := out
	if (cfg.LogFormat == "" && gin.IsDebugging()) || cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: out}
	}

	level := cfg.LogLevel
	if gin.IsDebugging() && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = log.Output(output).With().Timestamp().Logger()
}

// newApp loads the configuration, opens the cache and wires all components.
func newApp(stderr io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	configureLogging(cfg, stderr)

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := models.Connect(models.DSN(cfg.DatabasePath()))
	if err != nil {
		return nil, err
	}

	// Migrate all models so that the schema is correct
	if err := models.Migrate(db); err != nil {
		return nil, err
	}

	prefs, err := preferences.Open(cfg.PreferencesDir())
	if err != nil {
		return nil, err
	}

	client := remote.New(remote.Config{
		BaseURL: cfg.APIURL,
		Token:   cfg.APIToken,
		Timeout: cfg.HTTPTimeout,
	}, log.Logger)

	opts := repository.Options{
		AccountID:   cfg.AccountID,
		Retry:       cfg.RetryPolicy(),
		FetchPolicy: cfg.FetchPolicy,
		Logger:      log.Logger,
	}

	s := store.New(db)
	transactions := repository.NewTransactions(s, client, opts)

	return &app{
		cfg:          cfg,
		db:           db,
		store:        s,
		prefs:        prefs,
		accounts:     repository.NewAccounts(s, client, prefs, opts),
		categories:   repository.NewCategories(s, client, opts),
		transactions: transactions,
		analysis:     repository.NewAnalysis(transactions),
		pusher:       syncer.New(s, client, cfg.AccountID, cfg.RetryPolicy(), log.Logger),
		connectivity: connectivity.New(connectivity.DialProber{
			Address: connectivity.Address(cfg.APIURL),
			Timeout: cfg.HTTPTimeout,
		}, cfg.ConnectivityInterval, log.Logger),
	}, nil
}

// controller returns the local API controller.
func (a *app) controller() v1.Controller {
	return v1.Controller{
		Accounts:     a.accounts,
		Categories:   a.categories,
		Transactions: a.transactions,
		Analysis:     a.analysis,
		Pusher:       a.pusher,
		Connectivity: a.connectivity,
		Preferences:  a.prefs,
	}
}

func (a *app) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
