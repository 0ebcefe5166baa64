package handler

import (
	"net/http"

	"citycut/internal/apierror"
	"citycut/internal/middleware"
	"citycut/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// SalesDashboard godoc
// @Summary      Sales rep dashboard
// @Description  Today's totals and the latest entries recorded by the signed-in rep, plus form options.
// @Tags         dashboards
// @Produce      json
// @Success      200 {object} dto.SalesDashboard
// @Router       /sales [get]
func (h *DashboardHandler) SalesDashboard(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	if p == nil {
		c.JSON(http.StatusUnauthorized, apierror.New(service.MsgNotAuthenticated))
		return
	}
	resp, err := h.svc.Sales(c.Request.Context(), p)
	respondView(c, resp, err)
}

// AdminDashboard godoc
// @Summary  Admin dashboard
// @Tags     dashboards
// @Produce  json
// @Success  200 {object} dto.AdminDashboard
// @Router   /admin/dashboard [get]
func (h *DashboardHandler) AdminDashboard(c *gin.Context) {
	resp, err := h.svc.Admin(c.Request.Context())
	respondView(c, resp, err)
}

// AdminHome redirects /admin to the dashboard.
func (h *DashboardHandler) AdminHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, service.ViewAdminDashboard)
}
