package sql

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ncruces/go-sqlite3"
	_ "github.com/ncruces/go-sqlite3/embed" // wasm build of SQLite used by gormlite
	"github.com/ncruces/go-sqlite3/gormlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"

	"github.com/c3g/chord-project-service/pkg/config"
)

type Store struct {
	config *config.Config
	db     *gorm.DB
}

// NewDialector picks the gorm driver for a store location. Locations with a
// postgres, mysql or sqlserver scheme go to those servers, a file:// URL or a plain
// path is a SQLite file, and any other scheme is an error.
//
//nolint:ireturn
func NewDialector(location string) (gorm.Dialector, error) {
	scheme, rest, found := strings.Cut(location, "://")
	if !found {
		return gormlite.Open(sqliteDSN(location)), nil
	}

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return postgres.Open(location), nil
	case "mysql":
		// The mysql driver takes its own DSN format, user:pass@tcp(host:port)/db.
		return mysql.Open(rest), nil
	case "sqlserver":
		return sqlserver.Open(location), nil
	case "file":
		return gormlite.Open(location), nil
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}

	return "file:" + (&url.URL{Path: path}).EscapedPath() +
		"?_pragma=busy_timeout(10000)&_pragma=foreign_keys(1)"
}

func NewSQLStore(logger *logrus.Logger, cfg *config.Config) (*Store, error) {
	dialector, err := NewDialector(cfg.Database)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: NewLoggerAdaptor(logger, LoggerAdaptorConfig{
			SlowThreshold:             500 * time.Millisecond,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %q: %w", cfg.Database, err)
	}

	if db.Dialector.Name() == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		// One writer at a time; requests queue on the pool instead of failing with SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := EnsureSchema(db); err != nil {
		return nil, fmt.Errorf("failed to prepare schema: %w", err)
	}

	return &Store{config: cfg, db: db}, nil
}

func (s Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}

	return sqlDB.Close()
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, sqlite3.CONSTRAINT_UNIQUE) ||
		errors.Is(err, sqlite3.CONSTRAINT_PRIMARYKEY)
}
