package repository

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/VaultoHoldings/vaulto-api.git/internal/database"
	"github.com/stretchr/testify/require"
)

// newTestDB abre una base sqlite temporal con el esquema completo
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.InitDBAt(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
