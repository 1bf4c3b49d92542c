package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/jobseeker-api/internal/service"
)

type searchResponse struct {
	*service.SearchResultSet
	Status service.StatusSet `json:"status"`
}

// SearchJobs handles GET /jobs?keyword=&location=&type=&page=
func (h *Handler) SearchJobs(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
			return
		}
		page = p
	}

	q := service.SearchQuery{
		Filters: service.SearchFilters{
			Keyword:        c.Query("keyword"),
			Location:       c.Query("location"),
			EmploymentType: c.Query("type"),
		},
		Page: page,
	}

	result, err := h.searcher.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, "Failed to search jobs")
		return
	}

	ids := make([]string, 0, len(result.Jobs))
	for _, j := range result.Jobs {
		ids = append(ids, j.ID)
	}
	status, err := h.reconciler.Reconcile(c.Request.Context(), getUserID(c), ids)
	if err != nil {
		respondError(c, err, "Failed to load saved jobs")
		return
	}

	c.JSON(http.StatusOK, searchResponse{SearchResultSet: result, Status: status})
}

type jobDetailResponse struct {
	Job               service.DisplayJob `json:"job"`
	Bookmarked        bool               `json:"bookmarked"`
	Applied           bool               `json:"applied"`
	ApplicationStatus string             `json:"applicationStatus,omitempty"`
}

// GetJob handles GET /jobs/:id
func (h *Handler) GetJob(c *gin.Context) {
	jobID := c.Param("id")

	job, err := h.enricher.Job(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, err, "Failed to get job")
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found", "code": "not_found"})
		return
	}

	status, err := h.reconciler.Reconcile(c.Request.Context(), getUserID(c), []string{jobID})
	if err != nil {
		respondError(c, err, "Failed to load saved jobs")
		return
	}

	c.JSON(http.StatusOK, jobDetailResponse{
		Job:               service.ToDisplay(*job, h.now()),
		Bookmarked:        status.IsBookmarked(jobID),
		Applied:           status.IsApplied(jobID),
		ApplicationStatus: status.ApplicationStatus(jobID),
	})
}

// Status handles GET /status?jobIds=a,b,c
func (h *Handler) Status(c *gin.Context) {
	var ids []string
	for _, raw := range c.QueryArray("jobIds") {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	status, err := h.reconciler.Reconcile(c.Request.Context(), getUserID(c), ids)
	if err != nil {
		respondError(c, err, "Failed to load saved jobs")
		return
	}
	c.JSON(http.StatusOK, status)
}
