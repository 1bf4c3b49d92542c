package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yourusername/jobseeker-api/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	tokens map[string]Identity
}

func (f fakeVerifier) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	id, ok := f.tokens[token]
	if !ok {
		return nil, errors.New("token expired")
	}
	return &id, nil
}

type fakeUsers struct {
	users map[string]*model.User
	err   error
}

func (f fakeUsers) FindByFirebaseUID(ctx context.Context, uid string) (*model.User, error) {
	return f.users[uid], f.err
}

// newTestEngine echoes the caller's identity as seen by handlers.
func newTestEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"uid":    GetFirebaseUID(c),
			"email":  GetEmail(c),
			"userId": GetUserID(c).String(),
		})
	})
	return r
}

func do(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOptionalAuthenticate(t *testing.T) {
	am := NewAuthMiddleware(fakeVerifier{tokens: map[string]Identity{"good": {UID: "u1", Email: "a@b.c"}}})
	r := newTestEngine(am.OptionalAuthenticate())

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"anonymous", "", http.StatusOK},
		{"valid", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"malformed", "Token good", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(r, tt.header); w.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body)
			}
		})
	}
}

func TestAuthenticateRequiresHeader(t *testing.T) {
	am := NewAuthMiddleware(fakeVerifier{})
	r := newTestEngine(am.Authenticate())

	if w := do(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestResolveUser(t *testing.T) {
	userID := uuid.New()
	am := NewAuthMiddleware(fakeVerifier{tokens: map[string]Identity{
		"known": {UID: "u1"},
		"new":   {UID: "u2"},
	}})
	users := fakeUsers{users: map[string]*model.User{"u1": {ID: userID}}}

	r := newTestEngine(am.OptionalAuthenticate(), ResolveUser(users), RequireUser())

	if w := do(r, "Bearer known"); w.Code != http.StatusOK {
		t.Errorf("known user status = %d, want 200", w.Code)
	}
	if w := do(r, "Bearer new"); w.Code != http.StatusUnauthorized {
		t.Errorf("unregistered user status = %d, want 401", w.Code)
	}
	if w := do(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", w.Code)
	}

	failing := newTestEngine(am.OptionalAuthenticate(), ResolveUser(fakeUsers{err: errors.New("db down")}))
	if w := do(failing, "Bearer known"); w.Code != http.StatusInternalServerError {
		t.Errorf("lookup failure status = %d, want 500", w.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1)
	t.Cleanup(rl.Stop)
	r := newTestEngine(rl.Limit())

	// burst is 2 * rps
	for i := 0; i < 2; i++ {
		if w := do(r, ""); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, w.Code)
		}
	}
	if w := do(r, ""); w.Code != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", w.Code)
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(0)
	t.Cleanup(rl.Stop)
	r := newTestEngine(rl.Limit())

	for i := 0; i < 5; i++ {
		if w := do(r, ""); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, w.Code)
		}
	}
}
