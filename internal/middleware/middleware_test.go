package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/config"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/service"
	"github.com/rs/zerolog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuth(expiry time.Duration) *service.AuthService {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: expiry, BcryptCost: 4}
	return service.NewAuthService(cfg, nil, nil, zerolog.Nop())
}

func tokenFor(t *testing.T, auth *service.AuthService, role model.StaffRole) string {
	t.Helper()
	d := &model.Driver{ID: uuid.New(), Name: "Staff", Role: role}
	token, _, err := auth.GenerateToken(d, model.PermissionsFor(role))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func protected(auth *service.AuthService, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append([]gin.HandlerFunc{RequireJWT(auth), CheckSession(auth)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		c.String(http.StatusOK, Actor(c).UserName)
	})
	r.GET("/x", chain...)
	return r
}

func do(r http.Handler, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": {"Bearer " + token}}
}

func TestRequireJWT(t *testing.T) {
	auth := newAuth(time.Hour)
	expired := newAuth(-time.Minute)
	r := protected(auth)

	tests := []struct {
		name     string
		header   http.Header
		wantCode int
		wantBody string
	}{
		{"missing header", nil, http.StatusUnauthorized, "TOKEN_REQUIRED"},
		{"wrong scheme", http.Header{"Authorization": {"Basic abc"}}, http.StatusUnauthorized, "TOKEN_REQUIRED"},
		{"garbage token", bearer("abc.def.ghi"), http.StatusUnauthorized, "TOKEN_INVALID"},
		{"expired token", bearer(tokenFor(t, expired, model.RoleDriver)), http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"valid token", bearer(tokenFor(t, auth, model.RoleDriver)), http.StatusOK, "Staff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.header)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want %s", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRoleAndPermissionGuards(t *testing.T) {
	auth := newAuth(time.Hour)
	driver := bearer(tokenFor(t, auth, model.RoleDriver))
	admin := bearer(tokenFor(t, auth, model.RoleAdmin))

	tests := []struct {
		name   string
		guard  gin.HandlerFunc
		header http.Header
		want   int
	}{
		{"admin only rejects driver", RequireAdmin(), driver, http.StatusForbidden},
		{"admin only accepts admin", RequireAdmin(), admin, http.StatusOK},
		{"driver may generate reports", RequirePermission(model.PermissionReportsGenerate), driver, http.StatusOK},
		{"driver may not import", RequirePermission(model.PermissionDataImport), driver, http.StatusForbidden},
		{"any of several", RequireAnyPermission(model.PermissionRollover, model.PermissionLearnersRead), driver, http.StatusOK},
		{"none of several", RequireAnyPermission(model.PermissionRollover, model.PermissionAuditRead), driver, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(protected(auth, tt.guard), tt.header); w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(ctx, 2, time.Minute)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.GET("/x", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 4)
	for range 3 {
		codes = append(codes, do(r, nil).Code)
	}
	now = now.Add(time.Minute)
	codes = append(codes, do(r, nil).Code)

	want := []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests, http.StatusNoContent}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d status = %d, want %d", i, codes[i], want[i])
		}
	}
}

func TestBrotli(t *testing.T) {
	text := strings.Repeat("transport manifest ", 200)
	pdf := append([]byte("%PDF-1.3\n"), bytes.Repeat([]byte{0}, 4096)...)

	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{Skipper: SkipPathSuffix("/raw")}))
	r.GET("/text", func(c *gin.Context) { c.String(http.StatusOK, text) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/pdf", func(c *gin.Context) { c.Data(http.StatusOK, "application/pdf", pdf) })
	r.GET("/raw", func(c *gin.Context) { c.String(http.StatusOK, text) })

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "gzip, br;q=1.0")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/text")
	if w.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("large text not compressed: %v", w.Header())
	}
	plain, err := io.ReadAll(brotli.NewReader(w.Body))
	if err != nil || string(plain) != text {
		t.Errorf("decompressed body mismatch (err=%v)", err)
	}

	for _, tt := range []struct {
		path string
		body []byte
	}{
		{"/small", []byte("ok")},
		{"/pdf", pdf},
		{"/raw", []byte(text)},
	} {
		w := get(tt.path)
		if enc := w.Header().Get("Content-Encoding"); enc != "" {
			t.Errorf("%s: Content-Encoding = %q, want none", tt.path, enc)
		}
		if !bytes.Equal(w.Body.Bytes(), tt.body) {
			t.Errorf("%s: body altered", tt.path)
		}
	}
}
