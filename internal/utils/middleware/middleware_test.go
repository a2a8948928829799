package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/outbound"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/utils/logger"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/utils/metrics"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/utils/requestctx"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonLogger(buf *bytes.Buffer, level string) *logger.Logger {
	return logger.New(&logger.Config{Level: level, Format: "json", Output: buf})
}

// logLines decodes each JSON log line written to buf.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &entry))
		lines = append(lines, entry)
	}
	return lines
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		assert.Equal(t, GetRequestID(c), requestctx.RequestID(c.Request.Context()))
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generated", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/ping", nil)

		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/ping", map[string]string{RequestIDHeader: "upstream-7"})

		assert.Equal(t, "upstream-7", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "upstream-7", w.Body.String())
	})

	t.Run("oversized header replaced", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/ping", map[string]string{RequestIDHeader: strings.Repeat("x", 500)})

		assert.Len(t, w.Body.String(), 36)
	})

	t.Run("empty without middleware", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Empty(t, GetRequestID(c))
	})
}

func TestLogging(t *testing.T) {
	levels := []struct {
		status int
		level  string
	}{
		{http.StatusCreated, "INFO"},
		{http.StatusConflict, "WARN"},
		{http.StatusServiceUnavailable, "ERROR"},
	}
	for _, tt := range levels {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			buf := &bytes.Buffer{}
			router := gin.New()
			router.Use(RequestID(), Logging(jsonLogger(buf, "debug")))
			router.POST("/postings/:id/applications", func(c *gin.Context) {
				c.Status(tt.status)
			})

			serve(router, http.MethodPost, "/postings/42/applications?dry=1", map[string]string{RequestIDHeader: "req-1"})

			lines := logLines(t, buf)
			require.Len(t, lines, 1)
			entry := lines[0]
			assert.Equal(t, "HTTP Request", entry["msg"])
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, float64(tt.status), entry["status"])
			assert.Equal(t, "/postings/42/applications", entry["path"])
			assert.Equal(t, "/postings/:id/applications", entry["route"])
			assert.Equal(t, "dry=1", entry["query"])
			assert.Equal(t, "req-1", entry["request_id"])
		})
	}

	t.Run("handlers see request logger", func(t *testing.T) {
		buf := &bytes.Buffer{}
		router := gin.New()
		router.Use(RequestID(), Logging(jsonLogger(buf, "info")))
		router.GET("/work", func(c *gin.Context) {
			l, ok := logger.LoggerFromContext(c.Request.Context())
			require.True(t, ok)
			l.Info("inside handler")
			c.Status(http.StatusOK)
		})

		serve(router, http.MethodGet, "/work", map[string]string{RequestIDHeader: "req-2"})

		lines := logLines(t, buf)
		require.Len(t, lines, 2)
		assert.Equal(t, "inside handler", lines[0]["msg"])
		assert.Equal(t, "req-2", lines[0]["request_id"])
	})

	t.Run("authenticated user is logged", func(t *testing.T) {
		buf := &bytes.Buffer{}
		userID := uuid.New()
		router := gin.New()
		router.Use(Logging(jsonLogger(buf, "info")))
		router.GET("/me", func(c *gin.Context) {
			SetPrincipal(c, Principal{UserID: userID})
			c.Status(http.StatusOK)
		})

		serve(router, http.MethodGet, "/me", nil)

		lines := logLines(t, buf)
		require.Len(t, lines, 1)
		assert.Equal(t, userID.String(), lines[0]["user_id"])
	})
}

func TestRecovery(t *testing.T) {
	t.Run("panic becomes 500", func(t *testing.T) {
		buf := &bytes.Buffer{}
		router := gin.New()
		router.Use(Recovery(jsonLogger(buf, "error")), RequestID(), Logging(jsonLogger(&bytes.Buffer{}, "error")))
		router.GET("/panic", func(c *gin.Context) {
			panic("ledger corrupted")
		})

		var w *httptest.ResponseRecorder
		require.NotPanics(t, func() {
			w = serve(router, http.MethodGet, "/panic", nil)
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
		assert.NotContains(t, w.Body.String(), "ledger corrupted")
	})

	t.Run("logs through fallback logger", func(t *testing.T) {
		buf := &bytes.Buffer{}
		router := gin.New()
		router.Use(Recovery(jsonLogger(buf, "error")))
		router.GET("/panic", func(c *gin.Context) {
			panic("ledger corrupted")
		})

		serve(router, http.MethodGet, "/panic", nil)

		lines := logLines(t, buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "Panic recovered", lines[0]["msg"])
		assert.Equal(t, "ledger corrupted", lines[0]["error"])
		assert.NotEmpty(t, lines[0]["stack"])
	})

	t.Run("nil logger", func(t *testing.T) {
		router := gin.New()
		router.Use(Recovery(nil))
		router.GET("/panic", func(c *gin.Context) {
			panic("boom")
		})

		assert.Equal(t, http.StatusInternalServerError, serve(router, http.MethodGet, "/panic", nil).Code)
	})
}

func TestCORS(t *testing.T) {
	preflight := func(origins []string, origin string) *httptest.ResponseRecorder {
		router := gin.New()
		router.Use(CORS(origins))
		router.GET("/postings/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
		return serve(router, http.MethodOptions, "/postings/1", map[string]string{
			"Origin":                        origin,
			"Access-Control-Request-Method": http.MethodGet,
		})
	}

	t.Run("any origin without credentials", func(t *testing.T) {
		w := preflight(nil, "https://anywhere.test")

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("listed origin with credentials", func(t *testing.T) {
		w := preflight([]string{"https://app.example.com"}, "https://app.example.com")

		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unlisted origin refused", func(t *testing.T) {
		w := preflight([]string{"https://app.example.com"}, "https://evil.test")

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard wins over list", func(t *testing.T) {
		cfg := corsConfig([]string{"https://app.example.com", "*"})

		assert.True(t, cfg.AllowAllOrigins)
		assert.False(t, cfg.AllowCredentials)
	})
}

type stubValidator struct {
	claims *outbound.JWTClaims
}

func (s *stubValidator) ValidateAccessToken(token string) (*outbound.JWTClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return s.claims, nil
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()
	validator := &stubValidator{claims: &outbound.JWTClaims{UserID: userID, Email: "dev@example.com"}}

	router := gin.New()
	router.Use(RequireAuth(validator))
	router.GET("/me", func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		require.True(t, ok)
		assert.Equal(t, "dev@example.com", p.Email)
		assert.Equal(t, p.UserID, requestctx.UserID(c.Request.Context()))
		c.String(http.StatusOK, GetUserID(c).String())
	})

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"valid", "Bearer good", http.StatusOK, ""},
		{"scheme is case insensitive", "bearer good", http.StatusOK, ""},
		{"missing", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"empty token", "Bearer   ", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"basic scheme", "Basic Z29vZA==", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forged", "Bearer forged", http.StatusUnauthorized, "INVALID_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers[AuthorizationHeader] = tt.header
			}
			w := serve(router, http.MethodGet, "/me", headers)

			assert.Equal(t, tt.status, w.Code)
			if tt.code == "" {
				assert.Equal(t, userID.String(), w.Body.String())
				return
			}
			assert.Contains(t, w.Body.String(), tt.code)
			assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
		})
	}

	t.Run("claims without subject", func(t *testing.T) {
		router := gin.New()
		router.Use(RequireAuth(&stubValidator{claims: &outbound.JWTClaims{}}))
		router.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := serve(router, http.MethodGet, "/me", map[string]string{AuthorizationHeader: "Bearer good"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("no principal outside auth", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		_, ok := GetPrincipal(c)
		assert.False(t, ok)
		assert.Equal(t, uuid.Nil, GetUserID(c))
	})
}

func TestMetrics(t *testing.T) {
	m := metrics.New("test", prometheus.NewRegistry())

	router := gin.New()
	router.Use(Metrics(m))
	router.GET("/postings/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for _, path := range []string{"/postings/a", "/postings/b", "/missing"} {
		serve(router, http.MethodGet, path, nil)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/postings/:id", "2xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", unmatchedRoute, "4xx")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.HTTPRequestsInFlight))
}
