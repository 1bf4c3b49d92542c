package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/jobseeker-api/internal/middleware"
	"github.com/yourusername/jobseeker-api/internal/service"
)

// Handler serves the job seeker API
type Handler struct {
	users      service.UserStore
	refs       service.ReferenceStore
	searcher   *service.Searcher
	enricher   *service.Enricher
	reconciler *service.Reconciler
	tracker    *service.Tracker
	clock      func() time.Time
}

// Deps are the collaborators the router wires into handlers
type Deps struct {
	Jobs           service.JobStore
	Refs           service.ReferenceStore
	Users          service.UserStore
	Auth           *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
	PageSize       int
	PageWindow     int
	FanOutLimit    int
}

func New(d Deps) *Handler {
	enricher := service.NewEnricher(d.Jobs, d.FanOutLimit)
	return &Handler{
		users:      d.Users,
		refs:       d.Refs,
		searcher:   service.NewSearcher(d.Jobs, d.PageSize, d.PageWindow),
		enricher:   enricher,
		reconciler: service.NewReconciler(d.Refs),
		tracker:    service.NewTracker(d.Refs, enricher),
	}
}

// NewRouter builds the gin engine with middleware and every route
func NewRouter(d Deps) *gin.Engine {
	h := New(d)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	if len(d.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Health check (unauthenticated)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "jobseeker-api",
			"time":    time.Now().UTC(),
		})
	})

	// ── Optionally authenticated routes ──────────────────
	api := r.Group("/", d.Auth.OptionalAuthenticate())
	if d.RateLimiter != nil {
		api.Use(d.RateLimiter.Limit())
	}
	api.Use(middleware.ResolveUser(d.Users))
	{
		// Auth
		api.POST("/auth/signin", h.SignIn)

		// Jobs
		api.GET("/jobs", h.SearchJobs)
		api.GET("/jobs/:id", h.GetJob)
		api.GET("/status", h.Status)

		// Bookmarks
		api.GET("/bookmarks", h.ListBookmarks)
		api.POST("/jobs/:id/bookmark", h.CreateBookmark)
		api.DELETE("/jobs/:id/bookmark", h.Unbookmark)
		api.DELETE("/bookmarks/:id", h.DeleteBookmark)

		// Applications
		api.GET("/applications", h.ListApplications)
		api.POST("/jobs/:id/application", h.Apply)
		api.PUT("/applications/:id/status", h.UpdateApplicationStatus)
		api.GET("/applications/:id/history", h.ApplicationHistory)
		api.DELETE("/applications/:id", h.Withdraw)
	}

	// ── Signed-in routes ─────────────────────────────────
	account := api.Group("/", middleware.RequireUser())
	{
		account.GET("/profile", h.GetProfile)
		account.PUT("/profile", h.UpdateProfile)
	}

	return r
}
