package boot

import (
	"log"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func TestSlotIndexOnlyCoversLiveConfirmedRows(t *testing.T) {
	gdb, mock := NewMockDB()

	// the index must be partial: cancelled and soft-deleted rows may not
	// keep occupying their slot
	mock.ExpectExec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_slot ON reservations (.+) WHERE status = 'confirmed' AND deleted_at IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := createSlotIndex(gdb)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
