package util

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/f1results/log"
	"github.com/mpapenbr/f1results/pkg/config"
	"github.com/mpapenbr/f1results/pkg/dataset"
	"github.com/mpapenbr/f1results/pkg/dataset/csvsource"
	"github.com/mpapenbr/f1results/pkg/dataset/dbsource"
	"github.com/mpapenbr/f1results/pkg/db/postgres"
	bobRepos "github.com/mpapenbr/f1results/pkg/repository/bob"
	"github.com/mpapenbr/f1results/pkg/utils"
)

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// Env carries the resources shared by the commands
type Env struct {
	Logger    *log.Logger
	SQLLogger *log.Logger
	telemetry *config.Telemetry
	pool      *pgxpool.Pool
}

// Setup configures logging and telemetry according to the config values.
// The returned Env must be closed.
func Setup(w io.Writer) (*Env, error) {
	if w == nil {
		w = os.Stderr
	}
	env := &Env{}
	switch config.LogFormat {
	case "json":
		env.Logger = log.New(w,
			ParseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true), log.AddCallerSkip(1))
		env.SQLLogger = log.New(w,
			ParseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true), log.AddCallerSkip(1))
	default:
		env.Logger = log.DevLogger(w,
			ParseLogLevel(config.LogLevel, log.WarnLevel),
			log.WithCaller(true), log.AddCallerSkip(1))
		env.SQLLogger = log.DevLogger(w,
			ParseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true), log.AddCallerSkip(1))
	}
	filtered, err := env.Logger.WithFilter(config.LogFilter)
	if err != nil {
		return nil, fmt.Errorf("invalid log filter: %w", err)
	}
	env.Logger = filtered
	log.ResetDefault(env.Logger)

	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		if env.telemetry, err = config.SetupTelemetry(w); err != nil {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
	}
	return env, nil
}

// Pool returns the database pool, creating it on first use
func (e *Env) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	if e.pool != nil {
		return e.pool, nil
	}
	if err := waitForDB(ctx); err != nil {
		return nil, err
	}
	traceOption := postgres.WithTracer(e.SQLLogger.Named("sql"), log.DebugLevel)
	if e.telemetry != nil {
		traceOption = postgres.WithOtlpTracer()
	}
	pool, err := postgres.InitWithURL(ctx, postgres.PrepareURL(config.DB), traceOption)
	if err != nil {
		return nil, err
	}
	e.pool = pool
	return pool, nil
}

// Dataset opens the dataset of the configured source
func (e *Env) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	var src dataset.Source
	switch config.Source {
	case config.SourceCSV:
		src = csvsource.New(config.DataDir,
			csvsource.WithResultsFile(config.ResultsFile),
			csvsource.WithLapTimesFile(config.LapTimesFile),
			csvsource.WithPitStopsFile(config.PitStopsFile),
		)
	case config.SourcePostgres:
		pool, err := e.Pool(ctx)
		if err != nil {
			return nil, err
		}
		src = dbsource.New(bobRepos.NewRepositoriesFromPool(pool),
			dbsource.WithSeasons(config.Seasons...))
	default:
		return nil, fmt.Errorf("unknown source %q (use %s or %s)",
			config.Source, config.SourceCSV, config.SourcePostgres)
	}
	log.Debug("Using dataset source", log.String("source", config.Source))
	return dataset.New(src, dataset.WithLogger(e.Logger.Named("dataset"))), nil
}

func (e *Env) Close() {
	if e.pool != nil {
		e.pool.Close()
	}
	if e.telemetry != nil {
		e.telemetry.Shutdown()
	}
	//nolint:errcheck // sync on stderr may fail
	log.Sync()
}

func waitForDB(ctx context.Context) error {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	addr := utils.ExtractFromDBURL(config.DB)
	if addr == "" {
		return nil
	}
	if err := utils.WaitForTCP(ctx, addr, timeout); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}
	return nil
}
