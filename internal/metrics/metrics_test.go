package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/admin/sales/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/admin/sales/:id", "204"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/sales/abc", nil))

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/admin/sales/:id", "204"))
	assert.Equal(t, before+1, after)
}

func TestRecordAction(t *testing.T) {
	before := testutil.ToFloat64(actions.WithLabelValues("expense.delete", "not_found"))
	RecordAction("expense.delete", "not_found")
	assert.Equal(t, before+1, testutil.ToFloat64(actions.WithLabelValues("expense.delete", "not_found")))
}

func TestHandler_ExposesRegistry(t *testing.T) {
	RecordGateDecision("/login")
	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "citycut_gate_decisions_total")
}
