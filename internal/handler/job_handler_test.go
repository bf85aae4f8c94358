package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hr-onboard-api/internal/middleware"
	"github.com/noah-isme/hr-onboard-api/internal/models"
	appErrors "github.com/noah-isme/hr-onboard-api/pkg/errors"
)

type batchJobMock struct {
	summary models.JobRunSummary
	err     error
	ranAt   time.Time
}

func (m *batchJobMock) Run(ctx context.Context, now time.Time) (models.JobRunSummary, error) {
	m.ranAt = now
	if m.err != nil {
		return models.JobRunSummary{}, m.err
	}
	return m.summary, nil
}

func TestJobHandlerRunReminders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	job := &batchJobMock{summary: models.JobRunSummary{Job: "reminders", Selected: 3, Notified: 2, Failed: 1}}
	handler := NewJobHandler(job, &batchJobMock{}, &batchJobMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/jobs/reminders", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "scheduler", Role: models.RoleScheduler})

	handler.RunReminders(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"notified":2`)
	assert.Contains(t, w.Body.String(), `"triggered_by":"scheduler"`)
}

func TestJobHandlerHonorsAsOf(t *testing.T) {
	gin.SetMode(gin.TestMode)
	job := &batchJobMock{}
	handler := NewJobHandler(&batchJobMock{}, job, &batchJobMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/jobs/milestones?asOf=2026-06-01T08:00:00Z", nil)
	c.Request = req

	handler.RunMilestones(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC), job.ranAt)
}

func TestJobHandlerRejectsBadAsOf(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewJobHandler(&batchJobMock{}, &batchJobMock{}, &batchJobMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/jobs/expiry?asOf=yesterday", nil)
	c.Request = req

	handler.RunExpiry(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJobHandlerPropagatesJobError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	job := &batchJobMock{err: appErrors.Clone(appErrors.ErrInternal, "failed to list reminder candidates")}
	handler := NewJobHandler(job, &batchJobMock{}, &batchJobMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/jobs/reminders", nil)
	c.Request = req

	handler.RunReminders(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
