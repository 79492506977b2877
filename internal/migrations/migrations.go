package migrations

import (
	_ "embed"

	"github.com/goran-ethernal/StateIndexor/internal/db"
)

//go:embed 001_undo_log.sql
var mig001 string

// UndoLog returns the undo log schema migrations in order.
func UndoLog() []db.Migration {
	return []db.Migration{
		{
			ID:  "001_undo_log.sql",
			SQL: mig001,
		},
	}
}
