package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hr-onboard-api/internal/models"
)

func TestRosterRepositoryListOptedInMilestones(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewRosterRepository(db)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "email", "full_name", "notify_milestones", "notify_expiry", "active", "created_at"}).
		AddRow("member-1", "lead@example.com", "Lead", true, false, true, now)
	mock.ExpectQuery("SELECT id, email, full_name").WillReturnRows(rows)

	members, err := repo.ListOptedIn(context.Background(), models.NotificationMilestone)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "lead@example.com", members[0].Email)
}

func TestRosterRepositoryRejectsUnknownCategory(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewRosterRepository(db)
	_, err := repo.ListOptedIn(context.Background(), models.NotificationReminder)
	require.Error(t, err)
}
