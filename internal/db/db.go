package db

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Init opens a PostgreSQL connection, retrying while the database comes up
// (the usual case under compose).
func Init(databaseURL string) (*sqlx.DB, error) {
	const maxRetries = 10
	const retryInterval = 2 * time.Second

	var (
		conn *sqlx.DB
		err  error
	)
	for attempt := 1; attempt <= maxRetries; attempt++ {
		conn, err = sqlx.Connect("postgres", databaseURL)
		if err == nil {
			log.Info().Msg("connected to database")
			return conn, nil
		}
		log.Error().Err(err).
			Int("attempt", attempt).
			Msgf("failed to connect to database, retrying in %s", retryInterval)
		time.Sleep(retryInterval)
	}
	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", maxRetries, err)
}

// RunMigrations finds all "*.up.sql" files under migrationsPath and executes
// their contents in lexical order. "*.down.sql" files are ignored.
func RunMigrations(conn *sqlx.DB, migrationsPath string) error {
	pattern := filepath.Join(migrationsPath, "*.up.sql")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("failed to glob migrations: %w", err)
	}
	if len(files) == 0 {
		return nil
	}
	sort.Strings(files)

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("could not read migration %q: %w", file, err)
		}
		if len(sqlBytes) == 0 {
			continue
		}
		if _, err := conn.Exec(string(sqlBytes)); err != nil {
			return fmt.Errorf("error executing migration %q: %w", file, err)
		}
		log.Info().Str("file", filepath.Base(file)).Msg("applied migration")
	}
	return nil
}
