package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

// gooseLogger routes goose's output through the service logger.
type gooseLogger struct {
	logger zerolog.Logger
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Fatal().Msgf(strings.TrimSpace(format), v...)
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Info().Msgf(strings.TrimSpace(format), v...)
}

// RunMigrations brings the backup catalog and document schemas up to date
// from the given migrations directory.
func RunMigrations(logger zerolog.Logger, databaseURL, migrationsDir string) error {
	conn, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	goose.SetLogger(gooseLogger{logger: logger.With().Str("component", "migrate").Logger()})

	if err := goose.Up(conn, migrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, err := goose.GetDBVersion(conn)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.Info().Int64("schema_version", version).Msg("schema up to date")

	return nil
}
