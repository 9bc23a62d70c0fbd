package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aularium-api/internal/models"
	"github.com/noah-isme/aularium-api/pkg/retry"
)

var teacherRowColumns = []string{"id", "name", "email", "availability", "created_at", "updated_at"}

func TestTeacherRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(teacherRowColumns).
		AddRow("t1", "Ada", "ada@example.com", []byte(`{"MONDAY":{"08:00":true}}`), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, availability, created_at, updated_at FROM teachers WHERE 1=1 ORDER BY name ASC, id ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM teachers WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.TeacherFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.True(t, list[0].Availability.Configured())
	assert.True(t, list[0].Availability[models.Monday][models.NewClockTime(8, 0)])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListSearchAndSort(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM teachers WHERE 1=1 AND (LOWER(name) LIKE $1 OR LOWER(email) LIKE $1) ORDER BY email DESC, id ASC LIMIT 5 OFFSET 5")).
		WithArgs("%ada%").
		WillReturnRows(sqlmock.NewRows(teacherRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM teachers")).
		WithArgs("%ada%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, total, err := repo.List(context.Background(), models.TeacherFilter{Search: "ADA", SortBy: "email", SortOrder: "desc", Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryCreateIsUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO teachers") + ".*ON CONFLICT \\(id\\) DO UPDATE").
		WithArgs(sqlmock.AnyArg(), "Ada", "ada@example.com", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	teacher := &models.Teacher{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, repo.Create(context.Background(), teacher))
	assert.NotEmpty(t, teacher.ID)
	assert.False(t, teacher.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryRetriesTransientErrors(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db, WithRetryPolicy(fastRetry()))

	query := regexp.QuoteMeta("SELECT id, name, email, availability, created_at, updated_at FROM teachers WHERE id = $1")
	mock.ExpectQuery(query).WithArgs("t1").WillReturnError(connectionFailure())
	mock.ExpectQuery(query).WithArgs("t1").
		WillReturnRows(sqlmock.NewRows(teacherRowColumns).AddRow("t1", "Ada", "ada@example.com", nil, time.Now(), time.Now()))

	teacher, err := repo.FindByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", teacher.Name)
	assert.False(t, teacher.Availability.Configured())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryGivesUpAfterAttempts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db, WithRetryPolicy(fastRetry()))

	for i := 0; i < 3; i++ {
		mock.ExpectExec("DELETE FROM teachers").WithArgs("t1").WillReturnError(connectionFailure())
	}

	err := repo.Delete(context.Background(), nil, "t1")
	var exhausted *retry.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryExistsByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM teachers WHERE LOWER(email) = LOWER($1) AND id <> $2 LIMIT 1")).
		WithArgs("ada@example.com", "t1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err := repo.ExistsByEmail(context.Background(), "ada@example.com", "t1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListByIDs(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM teachers WHERE id IN (?, ?)")).
		WithArgs("t1", "t2").
		WillReturnRows(sqlmock.NewRows(teacherRowColumns).
			AddRow("t1", "Ada", "ada@example.com", nil, now, now).
			AddRow("t2", "Grace", "grace@example.com", nil, now, now))

	teachers, err := repo.ListByIDs(context.Background(), []string{"t1", "t2"})
	require.NoError(t, err)
	assert.Len(t, teachers, 2)
	assert.Equal(t, "Grace", teachers["t2"].Name)

	empty, err := repo.ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}
