package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"citycut/internal/infra"
	"citycut/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler { return &ReportsHandler{svc: svc} }

// Report godoc
// @Summary      Business report
// @Description  Revenue, expenses, margins, growth, retention and breakdowns for the current period.
// @Tags         reports
// @Produce      json
// @Param        period query string false "month | quarter | year" default(month)
// @Success      200 {object} dto.Report
// @Failure      422 {object} apierror.APIError
// @Router       /admin/reports [get]
func (h *ReportsHandler) Report(c *gin.Context) {
	resp, err := h.svc.Build(c.Request.Context(), c.Query("period"))
	respondView(c, resp, err)
}

// ReportPDF godoc
// @Summary  Business report as PDF
// @Tags     reports
// @Produce  application/pdf
// @Param    period query string false "month | quarter | year" default(month)
// @Success  200 {file} file
// @Failure  422 {object} apierror.APIError
// @Router   /admin/reports/pdf [get]
func (h *ReportsHandler) ReportPDF(c *gin.Context) {
	r, err := h.svc.Build(c.Request.Context(), c.Query("period"))
	if err != nil {
		respondView(c, nil, err)
		return
	}
	var buf bytes.Buffer
	if err := infra.WriteReportPDF(r, &buf); err != nil {
		_ = c.Error(err)
		return
	}
	name := fmt.Sprintf("citycut_%s_%s.pdf", r.Period, r.From.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
