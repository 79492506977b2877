package db

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/pkg/config"
	_ "github.com/mattn/go-sqlite3"
)

// sqliteSidecars are the files SQLite keeps next to the main database file.
var sqliteSidecars = []string{"", "-wal", "-shm"}

// NewSQLiteDBFromConfig creates a new SQLite DB with the given configuration.
// Pragmas are passed through the DSN so every pooled connection gets them.
func NewSQLiteDBFromConfig(cfg config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"file:%s?_txlock=immediate&_journal_mode=%s&_synchronous=%s&_busy_timeout=%d&_cache_size=%d",
		cfg.Path,
		cfg.JournalMode,
		cfg.Synchronous,
		cfg.BusyTimeout,
		cfg.CacheSize,
	)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", cfg.Path, err)
	}

	return db, nil
}

// Open opens the database described by cfg and brings its schema up to date.
func Open(log *logger.Logger, cfg config.DatabaseConfig, migrations []Migration) (*sql.DB, error) {
	db, err := NewSQLiteDBFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	if err := RunMigrationsDB(log, db, migrations); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// DBTotalSize returns the combined size of the database file and its WAL
// and shared-memory sidecars. Missing files count as zero.
func DBTotalSize(dbPath string) (int64, error) {
	var total int64
	for _, suffix := range sqliteSidecars {
		info, err := os.Stat(dbPath + suffix)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return 0, fmt.Errorf("failed to stat %s: %w", dbPath+suffix, err)
		}
		total += info.Size()
	}
	return total, nil
}

// Vacuum rebuilds the database file, reclaiming free pages.
func Vacuum(db *sql.DB) error {
	if _, err := db.Exec("VACUUM"); err != nil {
		return fmt.Errorf("vacuum failed: %w", err)
	}
	return nil
}
