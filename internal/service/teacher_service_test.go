package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aularium-api/internal/models"
	appErrors "github.com/noah-isme/aularium-api/pkg/errors"
)

func newTeacherFixture(t *testing.T) (*TeacherService, *memStore, *fakeTx) {
	t.Helper()
	store := newMemStore()
	store.teachers = []models.Teacher{{ID: "t1", Name: "Ada", Email: "ada@example.com"}}
	tx := &fakeTx{}
	return NewTeacherService(fakeTeachers{store}, fakeSubjects{store}, tx, nil, nil), store, tx
}

func TestTeacherServiceCreate(t *testing.T) {
	svc, store, _ := newTeacherFixture(t)

	teacher, err := svc.Create(context.Background(), CreateTeacherRequest{
		Name:         " Grace ",
		Email:        "grace@example.com",
		Availability: models.WeeklyAvailability{models.Monday: {models.NewClockTime(8, 0): true}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, teacher.ID)
	assert.Equal(t, "Grace", teacher.Name)
	assert.Len(t, store.teachers, 2)
}

func TestTeacherServiceCreateValidation(t *testing.T) {
	svc, _, _ := newTeacherFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateTeacherRequest{Name: "Bob", Email: "not-an-email"})
	requireAppError(t, err, appErrors.ErrValidation)

	_, err = svc.Create(ctx, CreateTeacherRequest{Name: "Bob", Email: "ADA@example.com"})
	requireAppError(t, err, appErrors.ErrConflict)

	_, err = svc.Create(ctx, CreateTeacherRequest{
		Name:         "Bob",
		Email:        "bob@example.com",
		Availability: models.WeeklyAvailability{models.Monday: {models.NewClockTime(8, 30): true}},
	})
	requireAppError(t, err, appErrors.ErrValidation)

	_, err = svc.Create(ctx, CreateTeacherRequest{
		Name:         "Bob",
		Email:        "bob@example.com",
		Availability: models.WeeklyAvailability{"HOLIDAY": {models.NewClockTime(8, 0): true}},
	})
	requireAppError(t, err, appErrors.ErrValidation)
}

func TestTeacherServiceSetAvailability(t *testing.T) {
	svc, store, _ := newTeacherFixture(t)

	teacher, err := svc.SetAvailability(context.Background(), "t1", models.WeeklyAvailability{models.Friday: {models.NewClockTime(14, 0): true}})
	require.NoError(t, err)
	assert.True(t, teacher.Availability.Configured())
	hours, ok := store.teachers[0].Availability.Day(models.Friday)
	require.True(t, ok)
	assert.True(t, hours[models.NewClockTime(14, 0)])

	_, err = svc.SetAvailability(context.Background(), "missing", nil)
	requireAppError(t, err, appErrors.ErrNotFound)
}

func TestTeacherServiceDeleteClearsSubjects(t *testing.T) {
	svc, store, tx := newTeacherFixture(t)
	store.subjects[models.Period1] = []models.Subject{{ID: "s1", TeacherID: strPtr("t1")}, {ID: "s2", TeacherID: strPtr("t9")}}
	store.subjects[models.Period2] = []models.Subject{{ID: "s3", TeacherID: strPtr("t1")}}

	require.NoError(t, svc.Delete(context.Background(), "t1"))
	assert.Equal(t, 1, tx.calls)
	assert.Empty(t, store.teachers)
	assert.Nil(t, store.subjects[models.Period1][0].TeacherID)
	assert.Equal(t, "t9", *store.subjects[models.Period1][1].TeacherID)
	assert.Nil(t, store.subjects[models.Period2][0].TeacherID)
}
