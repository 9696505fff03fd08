package postgres

import (
	"context"
	"testing"

	apperrors "github.com/rijnfleet/fleet-backend/errors"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgEarningStore_Link(t *testing.T) {
	ctx := context.Background()

	t.Run("claims unlinked earning", func(t *testing.T) {
		mock, cleanup := createMockPool(t)
		defer cleanup()
		store := NewPgEarningStore(mock)

		mock.ExpectExec("UPDATE earnings").
			WithArgs("settlement-1", "earning-1", "company-1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := store.Link(ctx, "earning-1", "company-1", "settlement-1")
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("linked earning is refused", func(t *testing.T) {
		mock, cleanup := createMockPool(t)
		defer cleanup()
		store := NewPgEarningStore(mock)

		mock.ExpectExec("UPDATE earnings").
			WithArgs("settlement-1", "earning-1", "company-1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := store.Link(ctx, "earning-1", "company-1", "settlement-1")
		require.Error(t, err)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.EarningAlreadyLinkedError, appErr.Type)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
