package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/jobseeker-api/internal/middleware"
	"github.com/yourusername/jobseeker-api/internal/model"
	"github.com/yourusername/jobseeker-api/internal/service"
)

// SignIn handles POST /auth/signin
// Creates or fetches a user based on the verified Firebase token
func (h *Handler) SignIn(c *gin.Context) {
	ctx := c.Request.Context()
	firebaseUID := middleware.GetFirebaseUID(c)
	if firebaseUID == "" {
		respondError(c, service.ErrUnauthenticated, "Not authenticated")
		return
	}

	user, err := h.users.FindByFirebaseUID(ctx, firebaseUID)
	if err != nil {
		respondError(c, err, "Failed to look up account")
		return
	}
	if user != nil {
		c.JSON(http.StatusOK, user)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	status := http.StatusCreated
	user, err = h.users.CreateUser(ctx, firebaseUID, middleware.GetEmail(c), strings.TrimSpace(req.Name))
	if errors.Is(err, service.ErrDuplicate) {
		// A concurrent sign-in created the account first
		status = http.StatusOK
		user, err = h.users.FindByFirebaseUID(ctx, firebaseUID)
	}
	if err != nil || user == nil {
		if err == nil {
			err = errors.New("account missing after create")
		}
		respondError(c, err, "Failed to create account")
		return
	}

	if status == http.StatusCreated {
		log.Info().Str("uid", firebaseUID).Msg("New user created")
	}
	c.JSON(status, user)
}

// GetProfile handles GET /profile
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.users.FindUserByID(c.Request.Context(), getUserID(c))
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "code": "not_found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name      string   `json:"name"`
		Headline  string   `json:"headline"`
		Location  string   `json:"location"`
		Skills    []string `json:"skills"`
		ResumeRef string   `json:"resumeRef"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	skills := make([]string, 0, len(req.Skills))
	for _, s := range req.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}

	updated, err := h.users.UpdateUser(c.Request.Context(), getUserID(c), &model.User{
		Name:      strings.TrimSpace(req.Name),
		Headline:  strings.TrimSpace(req.Headline),
		Location:  strings.TrimSpace(req.Location),
		Skills:    skills,
		ResumeRef: strings.TrimSpace(req.ResumeRef),
	})
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "code": "not_found"})
		return
	}
	c.JSON(http.StatusOK, updated)
}
