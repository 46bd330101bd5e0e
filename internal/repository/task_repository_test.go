package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kawasin/task-tracker/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func TestGormTaskRepository_List_AppliesFixedOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM .tasks. WHERE owner_id = \?`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	// The select must carry the full deterministic ORDER BY chain
	mock.ExpectQuery(`ORDER BY CASE WHEN tasks\.due_date IS NULL THEN 1 ELSE 0 END, tasks\.due_date ASC, ` +
		`CASE tasks\.priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END, ` +
		`tasks\.created_at DESC, tasks\.id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "owner_id", "status", "priority"}).
			AddRow(1, "first", 7, "todo", "medium").
			AddRow(2, "second", 7, "todo", "low"))

	tasks, total, err := repo.List(TaskFilter{OwnerID: 7, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, tasks, 2)
	assert.Equal(t, "first", tasks[0].Title)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_List_FiltersByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	status := models.TaskStatusBlocked

	mock.ExpectQuery(`SELECT count\(\*\) FROM .tasks. WHERE owner_id = \? AND tasks\.status = \?`).
		WithArgs(uint64(7), status).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`WHERE owner_id = \? AND tasks\.status = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "owner_id", "status", "priority"}))

	tasks, total, err := repo.List(TaskFilter{OwnerID: 7, Status: &status, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, tasks)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_UpdateStatus_NoRowIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE .tasks. SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateStatus(99, 7, models.TaskStatusCompleted)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_Delete_NoRowIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE .tasks. SET .deleted_at.=\?`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(99, 7)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}
