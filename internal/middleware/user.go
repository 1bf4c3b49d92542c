package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/jobseeker-api/internal/model"
)

// UserFinder looks up the profile for a Firebase UID
type UserFinder interface {
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (*model.User, error)
}

// ResolveUser maps the Firebase UID to the internal user id for all subsequent
// handlers. Callers without an account yet stay anonymous until they sign in.
func ResolveUser(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		firebaseUID := GetFirebaseUID(c)
		if firebaseUID == "" {
			c.Next()
			return
		}

		user, err := users.FindByFirebaseUID(c.Request.Context(), firebaseUID)
		if err != nil {
			log.Error().Err(err).Msg("Failed to resolve user ID")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
			return
		}
		if user != nil {
			c.Set(ContextKeyUserID, user.ID)
		}
		c.Next()
	}
}

// RequireUser rejects callers that have no resolved account
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Sign in to continue",
				"code":  "unauthenticated",
			})
			return
		}
		c.Next()
	}
}
