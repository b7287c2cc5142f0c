// techpackctl is the command-line companion to techpackd. It analyzes
// single tech pack PDFs, batch-processes directories against Postgres
// or a local SQLite file, and exports workspace styles.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/haldkarsurbhi/risk-analyser-backend/gen/ent"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/common"
	repo "github.com/haldkarsurbhi/risk-analyser-backend/internal/repository"
)

var logger *slog.Logger

var rootCmd = &cobra.Command{
	Use:   "techpackctl",
	Short: "Analyze and export garment tech packs from the command line",
	Long: `techpackctl runs the tech pack pipeline without a server.

analyze extracts style fields from a single PDF and prints them as JSON.
batch ingests a directory, processes every file and writes an XLSX
summary. export writes the styles of an existing workspace to XLSX or
CSV. batch and export talk to the database named by DB_URL, or to a
local SQLite file when --sqlite is given.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadEnv()
		logger = newLogger()
		slog.SetDefault(logger)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(exportCmd)
}

// loadEnv loads a .env file from the working directory or its parent,
// silently doing nothing when neither exists.
func loadEnv() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// newLogger builds a stderr logger so stdout stays clean for JSON and
// export output. LOG_LEVEL controls verbosity, defaulting to info.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openDatabase opens the SQLite file when a path is given and the
// DB_URL Postgres pool otherwise. The pool is nil in SQLite mode.
func openDatabase(ctx context.Context, sqlitePath string, cfg *common.Config) (*ent.Client, *pgxpool.Pool, error) {
	if sqlitePath != "" {
		entc, err := repo.OpenSQLite(ctx, sqlitePath, logger)
		return entc, nil, err
	}
	if cfg.Database.DSN == "" {
		return nil, nil, fmt.Errorf("DB_URL is not set; pass --sqlite for a local database")
	}
	return repo.Open(ctx, repo.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
