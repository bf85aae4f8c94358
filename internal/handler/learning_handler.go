package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hr-onboard-api/internal/models"
	"github.com/noah-isme/hr-onboard-api/internal/service"
	appErrors "github.com/noah-isme/hr-onboard-api/pkg/errors"
	"github.com/noah-isme/hr-onboard-api/pkg/response"
)

type assignmentManager interface {
	Assign(ctx context.Context, req service.AssignLearningPlanRequest) (*models.LearningAssignment, error)
	AddCustomResource(ctx context.Context, fresherID string, req service.AddCustomResourceRequest) (*models.ProgressItem, error)
}

type progressManager interface {
	GetProgress(ctx context.Context, fresherID string) (*models.ProgressReport, error)
	UpdateProgress(ctx context.Context, fresherID string, itemNo int, req service.UpdateProgressRequest) (*models.ProgressItem, error)
}

// LearningHandler exposes the learning assignment and progress endpoints.
type LearningHandler struct {
	assignments assignmentManager
	progress    progressManager
}

// NewLearningHandler builds a new handler.
func NewLearningHandler(assignments assignmentManager, progress progressManager) *LearningHandler {
	return &LearningHandler{assignments: assignments, progress: progress}
}

// Assign godoc
// @Summary Assign a learning plan to a fresher
// @Tags Learning
// @Accept json
// @Produce json
// @Param payload body service.AssignLearningPlanRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /learning/assignments [post]
func (h *LearningHandler) Assign(c *gin.Context) {
	var req service.AssignLearningPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	assignment, err := h.assignments.Assign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// AddResource godoc
// @Summary Add a custom resource to a fresher's plan
// @Tags Learning
// @Accept json
// @Produce json
// @Param id path string true "Fresher ID"
// @Param payload body service.AddCustomResourceRequest true "Resource payload"
// @Success 201 {object} response.Envelope
// @Router /learning/freshers/{id}/resources [post]
func (h *LearningHandler) AddResource(c *gin.Context) {
	var req service.AddCustomResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid resource payload"))
		return
	}
	item, err := h.assignments.AddCustomResource(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// GetProgress godoc
// @Summary Get a fresher's learning progress
// @Tags Learning
// @Produce json
// @Param id path string true "Fresher ID"
// @Success 200 {object} response.Envelope
// @Router /learning/freshers/{id}/progress [get]
func (h *LearningHandler) GetProgress(c *gin.Context) {
	report, err := h.progress.GetProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// UpdateProgress godoc
// @Summary Update one progress item
// @Tags Learning
// @Accept json
// @Produce json
// @Param id path string true "Fresher ID"
// @Param itemNo path int true "Item number within the plan"
// @Param payload body service.UpdateProgressRequest true "Progress patch"
// @Success 200 {object} response.Envelope
// @Router /learning/freshers/{id}/progress/{itemNo} [patch]
func (h *LearningHandler) UpdateProgress(c *gin.Context) {
	itemNo, err := strconv.Atoi(c.Param("itemNo"))
	if err != nil || itemNo <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "item number must be a positive integer"))
		return
	}

	var req service.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid progress payload"))
		return
	}

	item, err := h.progress.UpdateProgress(c.Request.Context(), c.Param("id"), itemNo, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}
