package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hr-onboard-api/internal/models"
	appErrors "github.com/noah-isme/hr-onboard-api/pkg/errors"
	"github.com/noah-isme/hr-onboard-api/pkg/response"
)

type batchJob interface {
	Run(ctx context.Context, now time.Time) (models.JobRunSummary, error)
}

// JobHandler exposes the batch job trigger endpoints used by the external
// scheduler. Each endpoint runs one job synchronously and returns its summary.
type JobHandler struct {
	reminders  batchJob
	milestones batchJob
	expiry     batchJob
}

// NewJobHandler builds a new handler.
func NewJobHandler(reminders, milestones, expiry batchJob) *JobHandler {
	return &JobHandler{reminders: reminders, milestones: milestones, expiry: expiry}
}

// RunReminders godoc
// @Summary Run the reminder batch job
// @Tags Jobs
// @Produce json
// @Param asOf query string false "Reference time (RFC 3339), defaults to now"
// @Success 200 {object} response.Envelope
// @Router /jobs/reminders [post]
func (h *JobHandler) RunReminders(c *gin.Context) {
	h.run(c, h.reminders)
}

// RunMilestones godoc
// @Summary Run the milestone report batch job
// @Tags Jobs
// @Produce json
// @Param asOf query string false "Reference time (RFC 3339), defaults to now"
// @Success 200 {object} response.Envelope
// @Router /jobs/milestones [post]
func (h *JobHandler) RunMilestones(c *gin.Context) {
	h.run(c, h.milestones)
}

// RunExpiry godoc
// @Summary Run the expiry notice batch job
// @Tags Jobs
// @Produce json
// @Param asOf query string false "Reference time (RFC 3339), defaults to now"
// @Success 200 {object} response.Envelope
// @Router /jobs/expiry [post]
func (h *JobHandler) RunExpiry(c *gin.Context) {
	h.run(c, h.expiry)
}

func (h *JobHandler) run(c *gin.Context, job batchJob) {
	now := time.Now().UTC()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "asOf must be RFC 3339"))
			return
		}
		now = parsed.UTC()
	}

	summary, err := job.Run(c.Request.Context(), now)
	if err != nil {
		response.Error(c, err)
		return
	}

	var meta map[string]interface{}
	if claims := claimsFromContext(c); claims != nil {
		meta = map[string]interface{}{"triggered_by": claims.UserID}
	}
	response.JSON(c, http.StatusOK, summary, nil, meta)
}
