package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"citycut/internal/middleware"
	"citycut/internal/model"
	"citycut/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

const testSecret = "middleware-test-secret-0123456789abcdef"

func principal(role model.Role) *session.Principal {
	return &session.Principal{UserID: uuid.New(), Email: "x@citycut.com", Role: role}
}

func TestDecide(t *testing.T) {
	admin := principal(model.RoleAdmin)
	rep := principal(model.RoleSalesRep)
	stranger := &session.Principal{UserID: uuid.New(), Role: model.Role("GUEST")}

	cases := []struct {
		name string
		path string
		p    *session.Principal
		want string
	}{
		{"anon admin dashboard", "/admin/dashboard", nil, "/login"},
		{"rep admin dashboard", "/admin/dashboard", rep, "/unauthorized"},
		{"admin admin dashboard", "/admin/dashboard", admin, ""},
		{"admin sales", "/sales", admin, "/unauthorized"},
		{"rep sales", "/sales/services", rep, ""},
		{"anon sales", "/sales", nil, "/login"},
		{"anon unauthorized page", "/unauthorized", nil, "/login"},
		{"rep unauthorized page", "/unauthorized", rep, ""},
		{"plain prefix gates administrator", "/administrator", rep, "/unauthorized"},
		{"plain prefix gates salesforce", "/salesforce", admin, "/unauthorized"},
		{"loginx is not public", "/loginx", nil, "/login"},
		{"unknown role on admin", "/admin", stranger, "/unauthorized"},
		{"unknown role on sales", "/sales", stranger, "/unauthorized"},
		{"other path needs a session", "/profile", nil, "/login"},
		{"other path with session", "/profile", rep, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, middleware.Decide(tc.path, tc.p).Redirect)
		})
	}
}

func TestDecide_PublicPathsAlwaysAllowed(t *testing.T) {
	sessions := []*session.Principal{nil, principal(model.RoleAdmin), principal(model.RoleSalesRep)}
	for _, path := range []string{"/", "/login", "/login/", "/login/callback"} {
		for _, p := range sessions {
			assert.True(t, middleware.Decide(path, p).Allowed(), path)
		}
	}
}

func TestDecide_AdminPathsRejectEveryNonAdmin(t *testing.T) {
	for _, path := range []string{"/admin", "/admin/", "/admin/sales", "/admin/customers/1", "/adminx"} {
		for _, p := range []*session.Principal{nil, principal(model.RoleSalesRep)} {
			d := middleware.Decide(path, p)
			assert.False(t, d.Allowed(), path)
		}
	}
}

func gateEngine(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()
	mgr := session.NewManager(testSecret, time.Hour)
	r := gin.New()
	r.Use(middleware.AccessGate(session.NewTokenOracle(mgr)))
	ok := func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		role := ""
		if p != nil {
			role = string(p.Role)
		}
		c.JSON(http.StatusOK, gin.H{"role": role})
	}
	r.GET("/", ok)
	r.GET("/login", ok)
	r.GET("/admin/dashboard", ok)
	r.GET("/sales", ok)
	return r, mgr
}

func token(t *testing.T, mgr *session.Manager, role model.Role) string {
	t.Helper()
	tok, err := mgr.Issue(&model.User{ID: uuid.New(), Email: "u@citycut.com", Role: role})
	require.NoError(t, err)
	return tok
}

func TestAccessGate(t *testing.T) {
	r, mgr := gateEngine(t)

	do := func(path string, cookie string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do("/admin/dashboard", "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = do("/admin/dashboard", token(t, mgr, model.RoleSalesRep))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/unauthorized", w.Header().Get("Location"))

	w = do("/admin/dashboard", token(t, mgr, model.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"ADMIN"}`, w.Body.String())

	w = do("/sales", token(t, mgr, model.RoleSalesRep))
	assert.Equal(t, http.StatusOK, w.Code)

	w = do("/", "")
	assert.Equal(t, http.StatusOK, w.Code)

	// A forged token is treated as no session.
	forged := session.NewManager("some-other-secret-some-other-secret", time.Hour)
	w = do("/admin/dashboard", token(t, forged, model.RoleAdmin))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// Public paths still see the principal when one exists.
	w = do("/login", token(t, mgr, model.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"ADMIN"}`, w.Body.String())
}

func TestAccessGate_BearerHeader(t *testing.T) {
	r, mgr := gateEngine(t)
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, mgr, model.RoleAdmin))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.POST("/login", middleware.LoginRateLimiter(2), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "other IPs have their own bucket")
}

func TestRequestIDAndRecovery(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Recovery(), middleware.ErrorHandler())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/err", func(c *gin.Context) { _ = c.Error(assert.AnError) })

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
	assert.JSONEq(t, `{"detail":"Internal server error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "boom")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/err", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}
