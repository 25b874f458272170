// Package app wires configuration, records and the document pipeline
// together for the server and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Junction-25/pdf-service/internal/config"
	"github.com/Junction-25/pdf-service/internal/render"
	"github.com/Junction-25/pdf-service/internal/repository"
	"github.com/Junction-25/pdf-service/internal/service"

	"go.uber.org/zap"
)

const loadTimeout = 30 * time.Second

// App holds the long-lived components shared by every request
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Records  *repository.Snapshot
	Reasoner *service.OpenAIClient
	Pipeline *service.Pipeline

	// Database is set when records come from PostgreSQL
	Database *repository.PostgresLoader
}

// New loads the record snapshot and builds the pipeline
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	records, database, err := LoadRecords(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	fees, err := config.LoadFeeSchedule(cfg.Quote.FeesFile)
	if err != nil {
		if database != nil {
			_ = database.Close()
		}
		return nil, err
	}

	reasoner := service.NewOpenAIClient(&cfg.Reasoning, logger.Named("reasoning"))
	if !reasoner.IsEnabled() {
		logger.Warn("reasoning service disabled, documents will use the rule-based analysis",
			zap.String("hint", "set OPENROUTER_API_KEY or OPENAI_API_KEY to enable it"))
	}

	ranker := service.NewRanker(cfg.Ranking)
	analyzer := service.NewAnalysisGenerator(reasoner, ranker, cfg.Quote.Currency, logger.Named("analysis"))
	assembler := service.NewAssembler(render.NewPDFRenderer(), cfg.Quote, fees, nil)
	pipeline := service.NewPipeline(service.NewResolver(records), analyzer, assembler, logger.Named("pipeline"))

	return &App{
		Config:   cfg,
		Logger:   logger,
		Records:  records,
		Reasoner: reasoner,
		Pipeline: pipeline,
		Database: database,
	}, nil
}

// Close releases the database connection, if any
func (a *App) Close() error {
	if a.Database == nil {
		return nil
	}
	return a.Database.Close()
}

// LoadRecords builds the snapshot from the configured source. For the
// postgres source the open loader is returned as well; the caller closes it.
func LoadRecords(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repository.Snapshot, *repository.PostgresLoader, error) {
	var (
		records  *repository.Snapshot
		database *repository.PostgresLoader
		err      error
	)

	switch cfg.Data.Source {
	case "postgres":
		records, database, err = loadFromPostgres(ctx, cfg)
	default:
		records, err = repository.LoadJSON(cfg.Data.PropertiesFile, cfg.Data.ContactsFile)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load records from %s: %w", cfg.Data.Source, err)
	}

	properties, contacts := records.Counts()
	logger.Info("records loaded",
		zap.String("source", cfg.Data.Source),
		zap.Int("properties", properties),
		zap.Int("contacts", contacts),
	)
	return records, database, nil
}

// loadFromPostgres reads the tables once. The connection stays open for
// health checks.
func loadFromPostgres(ctx context.Context, cfg *config.Config) (*repository.Snapshot, *repository.PostgresLoader, error) {
	loader, err := repository.NewPostgresLoader(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()
	records, err := loader.Load(ctx)
	if err != nil {
		_ = loader.Close()
		return nil, nil, err
	}
	return records, loader, nil
}
