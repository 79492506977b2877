package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/goran-ethernal/StateIndexor/internal/logger"
	migrate "github.com/rubenv/sql-migrate"
)

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"

	// NoLimitMigrations indicates there is no limit on the number of migrations to run.
	NoLimitMigrations = 0
)

// Migration is one embedded SQL file. The file carries a Down section
// followed by an Up section.
type Migration struct {
	ID  string
	SQL string
}

// parse splits the migration into its Up and Down statements.
func (m Migration) parse() (*migrate.Migration, error) {
	downPart, upPart, found := strings.Cut(m.SQL, upMarker)
	if !found {
		return nil, fmt.Errorf("migration %s missing '%s' separator", m.ID, upMarker)
	}

	if _, after, ok := strings.Cut(downPart, downMarker); ok {
		downPart = after
	}

	up := strings.TrimSpace(upPart)
	if up == "" {
		return nil, fmt.Errorf("migration %s has an empty Up section", m.ID)
	}

	return &migrate.Migration{
		Id:   m.ID,
		Up:   []string{up},
		Down: []string{strings.TrimSpace(downPart)},
	}, nil
}

// RunMigrationsDB applies every pending migration.
func RunMigrationsDB(log *logger.Logger, db *sql.DB, migrations []Migration) error {
	return RunMigrationsDBExtended(log, db, migrations, migrate.Up, NoLimitMigrations)
}

// RunMigrationsDBExtended applies at most maxMigrations migrations in direction dir.
func RunMigrationsDBExtended(
	log *logger.Logger,
	db *sql.DB,
	migrations []Migration,
	dir migrate.MigrationDirection,
	maxMigrations int,
) error {
	source := &migrate.MemoryMigrationSource{}
	ids := make([]string, 0, len(migrations))

	for _, m := range migrations {
		parsed, err := m.parse()
		if err != nil {
			return err
		}
		source.Migrations = append(source.Migrations, parsed)
		ids = append(ids, m.ID)
	}

	list := strings.Join(ids, ", ")
	log.Debugf("running migrations (max %d/%d): %s", maxMigrations, len(ids), list)

	n, err := migrate.ExecMax(db, "sqlite3", source, dir, maxMigrations)
	if err != nil {
		return fmt.Errorf("error executing migrations (max %d/%d) %s: %w", maxMigrations, len(ids), list, err)
	}

	log.Infof("successfully ran %d migrations from: %s", n, list)
	return nil
}
