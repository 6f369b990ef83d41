package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/PrayerLoop/models"
)

func TestNotifyAuthorOfComment(t *testing.T) {
	t.Run("writes an inbox entry", func(t *testing.T) {
		mock := setupMockDB(t)
		mock.ExpectExec(`INSERT INTO "notification" .*'Other commented on your prayer'.*'PRAYER_COMMENT'.*'UNREAD'`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		NotifyAuthorOfComment(1, 2, "Other", 7)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commenting on your own prayer is silent", func(t *testing.T) {
		mock := setupMockDB(t)

		NotifyAuthorOfComment(1, 1, "Test", 7)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNotifyAuthorOfLike(t *testing.T) {
	debounce := `INSERT INTO notification_debounce`

	t.Run("first like in the window notifies", func(t *testing.T) {
		mock := setupMockDB(t)
		mock.ExpectQuery(debounce).
			WithArgs(models.NotificationTypePrayerLike, 1, 7, "60").
			WillReturnRows(sqlmock.NewRows([]string{"debounce_id"}).AddRow(3))
		mock.ExpectExec(`INSERT INTO "notification" .*'PRAYER_LIKE'`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		NotifyAuthorOfLike(1, 2, 7)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("debounced like is dropped", func(t *testing.T) {
		mock := setupMockDB(t)
		mock.ExpectQuery(debounce).WillReturnRows(sqlmock.NewRows([]string{"debounce_id"}))

		NotifyAuthorOfLike(1, 2, 7)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
