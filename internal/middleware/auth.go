package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

const (
	// ContextKeyFirebaseUID is the key for the Firebase UID in the Gin context
	ContextKeyFirebaseUID = "firebase_uid"
	// ContextKeyEmail is the key for the verified email claim
	ContextKeyEmail = "email"
	// ContextKeyUserID is the key for the internal user UUID in the Gin context
	ContextKeyUserID = "user_id"
)

var errMalformedHeader = errors.New("invalid Authorization header format")

// Identity is what a verified ID token says about the caller
type Identity struct {
	UID   string
	Email string
}

// TokenVerifier checks a bearer token and returns the identity it carries
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*Identity, error)
}

// FirebaseVerifier verifies Firebase ID tokens
type FirebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier creates a verifier for the given Firebase project
func NewFirebaseVerifier(ctx context.Context, projectID string) (*FirebaseVerifier, error) {
	var app *firebase.App
	var err error

	if projectID != "" {
		conf := &firebase.Config{ProjectID: projectID}
		app, err = firebase.NewApp(ctx, conf)
	} else {
		// Falls back to GOOGLE_APPLICATION_CREDENTIALS or default credentials
		app, err = firebase.NewApp(ctx, nil, option.WithoutAuthentication())
	}
	if err != nil {
		return nil, err
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) VerifyToken(ctx context.Context, idToken string) (*Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	id := &Identity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		id.Email = email
	}
	return id, nil
}

// AuthMiddleware validates bearer tokens and injects the caller's identity into context
type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate rejects requests without a valid token
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return am.handler(true)
}

// OptionalAuthenticate lets requests without an Authorization header through
// as anonymous. A header carrying a bad token is still rejected.
func (am *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return am.handler(false)
}

func (am *AuthMiddleware) handler(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Missing Authorization header",
					"code":  "unauthenticated",
				})
				return
			}
			c.Next()
			return
		}

		token, err := bearerToken(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid Authorization header format",
				"code":  "unauthenticated",
			})
			return
		}

		identity, err := am.verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to verify ID token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
				"code":  "unauthenticated",
			})
			return
		}

		c.Set(ContextKeyFirebaseUID, identity.UID)
		if identity.Email != "" {
			c.Set(ContextKeyEmail, identity.Email)
		}
		c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>"
func bearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", errMalformedHeader
	}
	return strings.TrimSpace(parts[1]), nil
}

// GetFirebaseUID extracts the Firebase UID from the Gin context
func GetFirebaseUID(c *gin.Context) string {
	return c.GetString(ContextKeyFirebaseUID)
}

// GetEmail extracts the verified email from the Gin context
func GetEmail(c *gin.Context) string {
	return c.GetString(ContextKeyEmail)
}

// GetUserID returns the resolved internal user id, or uuid.Nil for anonymous callers
func GetUserID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(ContextKeyUserID)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}
