package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jgoulah/powerscheduler/internal/config"
	"github.com/jgoulah/powerscheduler/internal/database"
	"github.com/jgoulah/powerscheduler/internal/source"
)

var (
	cfgFile  string
	dbPath   string
	logLevel string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "powerscheduler",
	Short: "Find the lowest-demand hour in a week of electricity usage",
	Long: `PowerScheduler analyzes hourly electricity consumption readings.
It orders and validates the readings, averages consumption per hour of day, fits a
linear trend over the week and recommends the hour with the lowest average demand.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./data.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
}

// setup loads the config and installs the logger in the command context
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := cfg.GetLogLevel()
	if logLevel != "" {
		level = logLevel
	}
	logger, err := newLogger(level)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.WithContext(ctx))
	return nil
}

// newLogger builds a human-readable stderr logger
func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path (local directory)
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return "data.db"
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// openDB opens the database connection
func openDB() (*database.DB, error) {
	path := getDBPath()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// openSource builds the configured reading source. The returned close func is never nil.
func openSource(kind string) (source.Source, func(), error) {
	noop := func() {}

	switch kind {
	case config.SourceCSV:
		return source.NewCSVSource(cfg.GetCSVPath()), noop, nil
	case config.SourceSynthetic:
		start, err := cfg.GetSyntheticStart()
		if err != nil {
			return nil, noop, err
		}
		return source.NewSyntheticSource(cfg.Synthetic.Seed, start, cfg.Synthetic.Hours), noop, nil
	case config.SourceDB:
		db, err := openDB()
		if err != nil {
			return nil, noop, fmt.Errorf("opening database: %w", err)
		}
		return source.NewStoreSource(db), func() { db.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown source: %s (available: csv, synthetic, db)", kind)
	}
}
