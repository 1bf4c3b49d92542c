package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yourusername/jobseeker-api/internal/model"
	"github.com/yourusername/jobseeker-api/internal/service"
)

type applicationView struct {
	model.Application
	JobDetails service.DisplayJob `json:"jobDetails"`
}

// ListApplications handles GET /applications. Applications to jobs that no
// longer exist are left out. Anonymous callers get an empty list.
func (h *Handler) ListApplications(c *gin.Context) {
	userID := getUserID(c)
	views := []applicationView{}
	if userID == uuid.Nil {
		c.JSON(http.StatusOK, views)
		return
	}

	apps, err := h.refs.ListApplications(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list applications")
		return
	}
	enriched, err := h.enricher.EnrichApplications(c.Request.Context(), apps)
	if err != nil {
		respondError(c, err, "Failed to list applications")
		return
	}

	now := h.now()
	for _, e := range enriched {
		views = append(views, applicationView{Application: e.Reference, JobDetails: service.ToDisplay(*e.Job, now)})
	}
	c.JSON(http.StatusOK, views)
}

// Apply handles POST /jobs/:id/application. The body is optional.
func (h *Handler) Apply(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	jobID := c.Param("id")

	var req service.ApplyInput
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	view, err := h.reconciler.Reconcile(ctx, userID, []string{jobID})
	if err != nil {
		respondError(c, err, "Failed to submit application")
		return
	}
	view, app, err := h.tracker.Apply(ctx, userID, jobID, req, view)
	if errors.Is(err, service.ErrDuplicate) {
		respondError(c, err, "You have already applied to this job")
		return
	}
	if err != nil {
		respondError(c, err, "Failed to submit application")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"application": app, "status": view})
}

// UpdateApplicationStatus handles PUT /applications/:id/status
func (h *Handler) UpdateApplicationStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	appID, ok := parseUUIDParam(c, "id", "application")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	_, updated, err := h.tracker.UpdateStatus(c.Request.Context(), userID, appID, req.Status, req.Note, service.EmptyStatus())
	if err != nil {
		respondError(c, err, "Failed to update application")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ApplicationHistory handles GET /applications/:id/history
func (h *Handler) ApplicationHistory(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	appID, ok := parseUUIDParam(c, "id", "application")
	if !ok {
		return
	}

	history, err := h.tracker.History(c.Request.Context(), userID, appID)
	if err != nil {
		respondError(c, err, "Failed to load application history")
		return
	}
	c.JSON(http.StatusOK, history)
}

// Withdraw handles DELETE /applications/:id
func (h *Handler) Withdraw(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	appID, ok := parseUUIDParam(c, "id", "application")
	if !ok {
		return
	}

	if _, err := h.tracker.Withdraw(c.Request.Context(), userID, appID, service.EmptyStatus()); err != nil {
		respondError(c, err, "Failed to withdraw application")
		return
	}
	c.Status(http.StatusNoContent)
}
