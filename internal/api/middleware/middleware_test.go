package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"school-organizer/config"
	"school-organizer/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-for-unit-testing",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
}

func authedEngine(mgr *jwt.Manager, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuth(mgr, nil)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		jti, ttl := TokenFromContext(c)
		if jti == "" || ttl <= 0 {
			c.String(http.StatusInternalServerError, "missing token info")
			return
		}
		c.String(http.StatusOK, c.GetString(CtxUserID))
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

// ── JWTAuth ──

func TestJWTAuth_ValidAccessToken(t *testing.T) {
	mgr := newTestJWT()
	token, err := mgr.GenerateAccessToken("user-1", "teacher")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	w := doGet(authedEngine(mgr), "/protected", token)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "user-1" {
		t.Errorf("期望注入 user-1，实际: %s", w.Body.String())
	}
}

func TestJWTAuth_Rejects(t *testing.T) {
	mgr := newTestJWT()
	refresh, _ := mgr.GenerateRefreshToken("user-1", "teacher")

	cases := map[string]string{
		"缺少认证头":        "",
		"伪造 Token":     "not-a-token",
		"Refresh Token": refresh,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			w := doGet(authedEngine(mgr), "/protected", token)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}

// ── RoleAuth ──

func TestRoleAuth(t *testing.T) {
	mgr := newTestJWT()
	editors := RoleAuth("teacher", "admin")

	cases := []struct {
		role   string
		status int
	}{
		{"teacher", http.StatusOK},
		{"admin", http.StatusOK},
		{"viewer", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			token, _ := mgr.GenerateAccessToken("user-1", tc.role)
			w := doGet(authedEngine(mgr, editors), "/protected", token)
			if w.Code != tc.status {
				t.Errorf("expected %d, got %d", tc.status, w.Code)
			}
		})
	}
}

// ── RequestID ──

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("期望沿用 abc-123，实际: %s", got)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 100))
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); len(got) != 36 || got != w.Body.String() {
		t.Errorf("期望重新生成 UUID，实际: %s", got)
	}
}

// ── BodyLimit ──

func TestBodyLimit_TooLarge(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/", func(c *gin.Context) {
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil {
			_ = c.Error(err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"notes":"`+strings.Repeat("a", 64)+`"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}

// ── RateLimit ──

func TestRateLimit_PassThroughWithoutRedis(t *testing.T) {
	r := gin.New()
	r.GET("/export", RateLimit(nil, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		if w := doGet(r, "/export", ""); w.Code != http.StatusOK {
			t.Fatalf("第 %d 次请求期望 200，实际: %d", i+1, w.Code)
		}
	}
}

// ── SecurityHeaders / CORS ──

func TestSecurityHeadersAndCORS(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(), CORS([]string{"http://localhost:5173"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)

	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("期望设置 X-Content-Type-Options")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("期望允许来源，实际: %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if !strings.Contains(w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition") {
		t.Error("期望暴露 Content-Disposition")
	}
}
