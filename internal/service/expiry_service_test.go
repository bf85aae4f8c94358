package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hr-onboard-api/internal/models"
)

func TestExpiryRunNotifiesRosterThenEmployeeAndMarks(t *testing.T) {
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	assignments := &assignmentRepoStub{candidates: []models.LearningAssignment{
		{ID: "assignment-1", FresherID: "fresher-1", Deadline: now.AddDate(0, 0, -1)},
	}}
	freshers := &fresherRepoStub{freshers: map[string]*models.Fresher{"fresher-1": testFresher()}}
	roster := &rosterRepoStub{members: []models.RosterMember{
		{Email: "lead@example.com"},
		{Email: "mentor@example.com"},
	}}
	notifier := &notifierStub{}

	svc := NewExpiryService(assignments, &progressRepoStub{}, freshers, roster, notifier, nil, nil)
	summary, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Selected)
	assert.Equal(t, 1, summary.Notified)

	// Roster first, employee last.
	require.Len(t, notifier.expiryRecipients, 3)
	assert.Equal(t, "lead@example.com", notifier.expiryRecipients[0].Email)
	assert.Equal(t, "mentor@example.com", notifier.expiryRecipients[1].Email)
	assert.Equal(t, "ana@example.com", notifier.expiryRecipients[2].Email)

	assert.Equal(t, []string{"fresher-1"}, assignments.expiryMarked)
}

func TestExpiryRosterFailureSkipsEmployeeAndGuard(t *testing.T) {
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	assignments := &assignmentRepoStub{candidates: []models.LearningAssignment{
		{ID: "assignment-1", FresherID: "fresher-1", Deadline: now.AddDate(0, 0, -1)},
	}}
	freshers := &fresherRepoStub{freshers: map[string]*models.Fresher{"fresher-1": testFresher()}}
	roster := &rosterRepoStub{members: []models.RosterMember{
		{Email: "lead@example.com"},
		{Email: "mentor@example.com"},
	}}
	notifier := &notifierStub{expiryFailFor: map[string]bool{"lead@example.com": true}}

	svc := NewExpiryService(assignments, &progressRepoStub{}, freshers, roster, notifier, nil, nil)
	summary, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Skipped)
	assert.Zero(t, summary.Notified)

	// The second member was still attempted, the employee was not.
	require.Len(t, notifier.expiryRecipients, 1)
	assert.Equal(t, "mentor@example.com", notifier.expiryRecipients[0].Email)
	assert.Empty(t, assignments.expiryMarked)
}

func TestExpiryEmployeeFailureLeavesGuardUnset(t *testing.T) {
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	assignments := &assignmentRepoStub{candidates: []models.LearningAssignment{
		{ID: "assignment-1", FresherID: "fresher-1", Deadline: now.AddDate(0, 0, -2)},
	}}
	freshers := &fresherRepoStub{freshers: map[string]*models.Fresher{"fresher-1": testFresher()}}
	roster := &rosterRepoStub{members: []models.RosterMember{{Email: "lead@example.com"}}}
	notifier := &notifierStub{expiryFailFor: map[string]bool{"ana@example.com": true}}

	svc := NewExpiryService(assignments, &progressRepoStub{}, freshers, roster, notifier, nil, nil)
	summary, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Empty(t, assignments.expiryMarked)
}

func TestExpiryRunWithoutRosterNotifiesEmployee(t *testing.T) {
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	assignments := &assignmentRepoStub{candidates: []models.LearningAssignment{
		{ID: "assignment-1", FresherID: "fresher-1", Deadline: now.AddDate(0, 0, -1)},
	}}
	freshers := &fresherRepoStub{freshers: map[string]*models.Fresher{"fresher-1": testFresher()}}
	notifier := &notifierStub{}

	svc := NewExpiryService(assignments, &progressRepoStub{}, freshers, &rosterRepoStub{}, notifier, nil, nil)
	summary, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Notified)
	require.Len(t, notifier.expiryRecipients, 1)
	assert.Equal(t, "ana@example.com", notifier.expiryRecipients[0].Email)
}

func TestExpiryRunListFailureAborts(t *testing.T) {
	assignments := &assignmentRepoStub{listErr: errors.New("db down")}
	svc := NewExpiryService(assignments, &progressRepoStub{}, &fresherRepoStub{}, &rosterRepoStub{}, &notifierStub{}, nil, nil)

	_, err := svc.Run(context.Background(), time.Now().UTC())
	require.Error(t, err)
}

func TestExpiryRosterListFailureAborts(t *testing.T) {
	now := time.Now().UTC()
	assignments := &assignmentRepoStub{candidates: []models.LearningAssignment{
		{ID: "assignment-1", FresherID: "fresher-1", Deadline: now.AddDate(0, 0, -1)},
	}}
	roster := &rosterRepoStub{err: errors.New("db down")}

	svc := NewExpiryService(assignments, &progressRepoStub{}, &fresherRepoStub{}, roster, &notifierStub{}, nil, nil)
	_, err := svc.Run(context.Background(), now)
	require.Error(t, err)
}
