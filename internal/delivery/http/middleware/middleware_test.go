package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-jobportal-backend/internal/delivery/http/response"
	"go-jobportal-backend/internal/domain"
	"go-jobportal-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "ok", nil)
	})

	t.Run("generates an id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, decode(t, rec).RequestID)
	})

	t.Run("honours a well-formed incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "edge-1234.abc")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, "edge-1234.abc", rec.Header().Get(RequestIDHeader))
	})

	t.Run("replaces a malformed incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "<script>")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.NotEqual(t, "<script>", rec.Header().Get(RequestIDHeader))
	})
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	r.GET("/missing", func(c *gin.Context) {
		c.Error(apperror.NotFound("Job not found"))
	})
	r.GET("/invalid", func(c *gin.Context) {
		c.Error(apperror.BadRequest("Invalid query parameters").WithDetails([]string{"top_n: out of range"}))
	})
	r.GET("/upstream", func(c *gin.Context) {
		c.Error(apperror.Upstream("Failed to load jobs", errors.New("pq: password authentication failed")))
	})
	r.GET("/panic-free", func(c *gin.Context) {
		c.Error(errors.New("secret internals"))
	})

	tests := []struct {
		path    string
		code    int
		message string
	}{
		{"/missing", http.StatusNotFound, "Job not found"},
		{"/invalid", http.StatusBadRequest, "Invalid query parameters"},
		{"/upstream", http.StatusBadGateway, "Failed to load jobs"},
		{"/panic-free", http.StatusInternalServerError, "An unexpected error occurred. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.code, rec.Code)
			body := decode(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
			assert.NotEmpty(t, body.RequestID)
			assert.NotContains(t, rec.Body.String(), "password")
			assert.NotContains(t, rec.Body.String(), "secret internals")
		})
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invalid", nil))
	assert.Contains(t, rec.Body.String(), "top_n: out of range")
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("https://jobs.example.com/"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://jobs.example.com")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, "https://jobs.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("lookalike origin is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://jobs.example.com.evil.io")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://jobs.example.com")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

type fakeAuthUC struct {
	users map[string]*domain.User
	err   error
}

func (f *fakeAuthUC) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperror.Unauthorized("User no longer exists")
}

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func authRouter(uc domain.AuthUsecase, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(testSecret, uc)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		response.Success(c, http.StatusOK, "ok", gin.H{
			"id":   c.GetString(string(domain.KeyUserID)),
			"role": c.GetString(string(domain.KeyUserRole)),
		})
	})
	r.GET("/me", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	uc := &fakeAuthUC{users: map[string]*domain.User{
		"u1": {ID: "u1", Role: domain.RoleEmployer},
		"u2": {ID: "u2"},
	}}
	r := authRouter(uc)
	valid := func(sub string) string {
		return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"sub": sub,
			"exp": time.Now().Add(time.Hour).Unix(),
		})
	}

	serve := func(setup func(*http.Request)) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		setup(req)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing token", func(t *testing.T) {
		rec := serve(func(*http.Request) {})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bearer token", func(t *testing.T) {
		rec := serve(func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+valid("u1")) })
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"role":"employer"`)
	})

	t.Run("cookie token and role fallback", func(t *testing.T) {
		rec := serve(func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "auth_token", Value: valid("u2")})
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"role":"candidate"`)
	})

	t.Run("wrong secret", func(t *testing.T) {
		bad := signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "u1"})
		rec := serve(func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+bad) })
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"sub": "u1",
			"exp": time.Now().Add(-time.Minute).Unix(),
		})
		rec := serve(func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+expired) })
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("other hmac algorithm", func(t *testing.T) {
		hs512 := signToken(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.MapClaims{"sub": "u1"})
		rec := serve(func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+hs512) })
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing subject", func(t *testing.T) {
		noSub := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"email": "x@example.com"})
		rec := serve(func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+noSub) })
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := serve(func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+valid("ghost")) })
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("user store down", func(t *testing.T) {
		down := authRouter(&fakeAuthUC{err: apperror.Upstream("Failed to load user", errors.New("timeout"))})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+valid("u1"))
		rec := httptest.NewRecorder()
		down.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	uc := &fakeAuthUC{users: map[string]*domain.User{
		"emp":  {ID: "emp", Role: domain.RoleEmployer},
		"cand": {ID: "cand", Role: domain.RoleCandidate},
	}}
	r := authRouter(uc, RequireRole(domain.RoleEmployer, domain.RoleAdmin))

	for sub, code := range map[string]int{"emp": http.StatusOK, "cand": http.StatusForbidden} {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": sub})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, code, rec.Code, sub)
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store, private", rec.Header().Get("Cache-Control"))
}
