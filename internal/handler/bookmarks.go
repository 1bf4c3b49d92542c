package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yourusername/jobseeker-api/internal/model"
	"github.com/yourusername/jobseeker-api/internal/service"
)

type bookmarkView struct {
	model.Bookmark
	JobDetails service.DisplayJob `json:"jobDetails"`
}

// ListBookmarks handles GET /bookmarks. Bookmarks of jobs that no longer
// exist are left out. Anonymous callers get an empty list.
func (h *Handler) ListBookmarks(c *gin.Context) {
	userID := getUserID(c)
	views := []bookmarkView{}
	if userID == uuid.Nil {
		c.JSON(http.StatusOK, views)
		return
	}

	bookmarks, err := h.refs.ListBookmarks(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list bookmarks")
		return
	}
	enriched, err := h.enricher.EnrichBookmarks(c.Request.Context(), bookmarks)
	if err != nil {
		respondError(c, err, "Failed to list bookmarks")
		return
	}

	now := h.now()
	for _, e := range enriched {
		views = append(views, bookmarkView{Bookmark: e.Reference, JobDetails: service.ToDisplay(*e.Job, now)})
	}
	c.JSON(http.StatusOK, views)
}

// CreateBookmark handles POST /jobs/:id/bookmark
func (h *Handler) CreateBookmark(c *gin.Context) {
	ctx := c.Request.Context()
	userID, jobID := getUserID(c), c.Param("id")

	view, err := h.reconciler.Reconcile(ctx, userID, []string{jobID})
	if err != nil {
		respondError(c, err, "Failed to bookmark job")
		return
	}
	view, bookmark, err := h.tracker.Bookmark(ctx, userID, jobID, view)
	if errors.Is(err, service.ErrDuplicate) {
		respondError(c, err, "Job is already bookmarked")
		return
	}
	if err != nil {
		respondError(c, err, "Failed to bookmark job")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bookmark": bookmark, "status": view})
}

// Unbookmark handles DELETE /jobs/:id/bookmark
func (h *Handler) Unbookmark(c *gin.Context) {
	ctx := c.Request.Context()
	userID, jobID := getUserID(c), c.Param("id")

	view, err := h.reconciler.Reconcile(ctx, userID, []string{jobID})
	if err != nil {
		respondError(c, err, "Failed to remove bookmark")
		return
	}
	view, err = h.tracker.Unbookmark(ctx, userID, jobID, view)
	if err != nil {
		respondError(c, err, "Failed to remove bookmark")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": view})
}

// DeleteBookmark handles DELETE /bookmarks/:id
func (h *Handler) DeleteBookmark(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	bookmarkID, ok := parseUUIDParam(c, "id", "bookmark")
	if !ok {
		return
	}

	if _, err := h.tracker.RemoveBookmark(c.Request.Context(), userID, bookmarkID, service.EmptyStatus()); err != nil {
		respondError(c, err, "Failed to remove bookmark")
		return
	}
	c.Status(http.StatusNoContent)
}
