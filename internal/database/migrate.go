package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationFS embed.FS

// ORA-00955: 이미 존재하는 객체 이름
const oracleObjectExists = "ORA-00955"

// RunMigrations applies every pending up migration for driver. It opens its
// own connection so closing the migrator never closes the application pool.
func RunMigrations(driver, dsn string) error {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("could not open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("could not ping database: %w", err)
	}

	switch driver {
	case config.DriverOracle:
		return runOracleMigrations(db)
	case config.DriverSQLite, config.DriverMySQL:
		return runMigrate(db, driver)
	default:
		return fmt.Errorf("no migrations for driver %q", driver)
	}
}

func runMigrate(db *sql.DB, driver string) error {
	l := logger.Get()

	source, err := iofs.New(migrationFS, path.Join("migrations", driver))
	if err != nil {
		return fmt.Errorf("could not load migrations: %w", err)
	}

	var target migratedb.Driver
	switch driver {
	case config.DriverSQLite:
		target, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	case config.DriverMySQL:
		target, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	}
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, target)
	if err != nil {
		return fmt.Errorf("could not create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	l.Info("Migrations completed successfully", zap.String("driver", driver), zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// runOracleMigrations executes each .up.sql file statement by statement.
// golang-migrate ships no Oracle driver, so re-runs rely on ORA-00955 being
// ignored for objects that already exist.
func runOracleMigrations(db *sql.DB) error {
	l := logger.Get()
	dir := path.Join("migrations", config.DriverOracle)

	entries, err := fs.ReadDir(migrationFS, dir)
	if err != nil {
		return fmt.Errorf("could not read migrations directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		content, err := fs.ReadFile(migrationFS, path.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", entry.Name(), err)
		}

		for _, stmt := range SplitStatements(string(content)) {
			if _, err := db.Exec(stmt); err != nil {
				if strings.Contains(err.Error(), oracleObjectExists) {
					l.Debug("Skipping existing object", zap.String("file", entry.Name()))
					continue
				}
				return fmt.Errorf("could not execute migration %s: %w", entry.Name(), err)
			}
		}
		l.Info("Executed migration", zap.String("file", entry.Name()))
	}

	l.Info("Migrations completed successfully", zap.String("driver", config.DriverOracle))
	return nil
}

// SplitStatements splits a migration file on ";" terminators. Oracle rejects
// trailing semicolons and multiple statements per Exec.
func SplitStatements(script string) []string {
	var stmts []string
	for _, part := range strings.Split(script, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
