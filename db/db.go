package db

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/saeidalz13/battleship-engine/db/migration"
	"github.com/saeidalz13/battleship-engine/db/sqlc"
)

const (
	maxOpenConns = 30
	maxIdleConns = 10
	connMaxLife  = time.Minute * 15
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSqlite   Dialect = "sqlite"
)

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"

// ParseDatabaseUrl picks the driver from the url scheme and returns the dsn
// that driver expects. sqlite urls look like sqlite://path/to/file.db.
func ParseDatabaseUrl(databaseUrl string) (Dialect, string, error) {
	databaseUrl = strings.TrimSpace(databaseUrl)

	switch {
	case strings.HasPrefix(databaseUrl, "postgres://"), strings.HasPrefix(databaseUrl, "postgresql://"):
		return DialectPostgres, databaseUrl, nil

	case strings.HasPrefix(databaseUrl, "sqlite://"):
		path := strings.TrimPrefix(databaseUrl, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("sqlite database path is empty")
		}
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return DialectSqlite, path + sep + sqlitePragmas, nil

	default:
		return "", "", fmt.Errorf("unsupported database url scheme: %q", databaseUrl)
	}
}

// Connect opens and pings the database. The returned DBTX is what the
// generated queries must run on for this dialect.
func Connect(databaseUrl string) (*sql.DB, sqlc.DBTX, Dialect, error) {
	dialect, dsn, err := ParseDatabaseUrl(databaseUrl)
	if err != nil {
		return nil, nil, "", err
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, nil, "", fmt.Errorf("open %s db: %w", dialect, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, "", fmt.Errorf("ping %s db: %w", dialect, err)
	}

	if dialect == DialectSqlite {
		// sqlite serializes writers anyway
		db.SetMaxOpenConns(1)
		return db, sqlc.NewRebindDBTX(db), dialect, nil
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLife)
	return db, db, dialect, nil
}

// Migrate applies the embedded migrations of the dialect.
func Migrate(db *sql.DB, dialect Dialect) error {
	var (
		driver database.Driver
		err    error
	)
	switch dialect {
	case DialectPostgres:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	case DialectSqlite:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	default:
		return fmt.Errorf("unsupported dialect: %q", dialect)
	}
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	migrations, err := fs.Sub(migration.FS, string(dialect))
	if err != nil {
		return err
	}
	source, err := iofs.New(migrations, ".")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, string(dialect), driver)
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	if dirty {
		return fmt.Errorf("database is dirty at version %d", version)
	}
	log.Println("migration version:", version)

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return err
	}
	log.Println("migration successful...")
	return nil
}

// MustConnectToDb connects, migrates and wraps the database in the managers
// the api works with.
func MustConnectToDb(databaseUrl string) (*sql.DB, sqlc.DbManager) {
	db, dbtx, dialect, err := Connect(databaseUrl)
	if err != nil {
		panic(err)
	}
	if err := Migrate(db, dialect); err != nil {
		panic(err)
	}
	log.Printf("connected to %s database\n", dialect)
	return db, sqlc.NewDbManager(sqlc.New(dbtx))
}
