package handler

import (
	"net/http"

	"citycut/internal/apierror"
	"citycut/internal/dto"
	"citycut/internal/middleware"
	"citycut/internal/service"

	"github.com/gin-gonic/gin"
)

type RecordsHandler struct{ svc service.RecordService }

func NewRecordsHandler(svc service.RecordService) *RecordsHandler { return &RecordsHandler{svc: svc} }

// writeAction renders an action envelope. A decided outcome is always a 200;
// success=false carries the failure.
func writeAction(c *gin.Context, res apierror.ActionResult) {
	c.JSON(http.StatusOK, res)
}

// CreateRecord godoc
// @Summary      Record a service
// @Description  Upserts the customer by phone (counting the visit) and stores the service record in one transaction.
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateServiceRecordRequest true "Service details"
// @Success      200  {object} apierror.ActionResult
// @Failure      422  {object} apierror.ValidationError
// @Router       /sales/services [post]
func (h *RecordsHandler) CreateRecord(c *gin.Context) {
	var req dto.CreateServiceRecordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	res := h.svc.Create(c.Request.Context(), middleware.GetPrincipal(c), req)
	writeAction(c, res)
}

// UpdateRecord godoc
// @Summary  Edit a service record
// @Tags     records
// @Accept   json
// @Produce  json
// @Param    id   path string                         true "Record ID"
// @Param    body body dto.UpdateServiceRecordRequest true "New values"
// @Success  200  {object} apierror.ActionResult
// @Failure  400  {object} apierror.APIError
// @Failure  422  {object} apierror.ValidationError
// @Router   /admin/sales/{id} [put]
func (h *RecordsHandler) UpdateRecord(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateServiceRecordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	writeAction(c, h.svc.Update(c.Request.Context(), middleware.GetPrincipal(c), id, req))
}

// DeleteRecord godoc
// @Summary  Delete a service record
// @Tags     records
// @Produce  json
// @Param    id path string true "Record ID"
// @Success  200 {object} apierror.ActionResult
// @Failure  400 {object} apierror.APIError
// @Router   /admin/sales/{id} [delete]
func (h *RecordsHandler) DeleteRecord(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	writeAction(c, h.svc.Delete(c.Request.Context(), middleware.GetPrincipal(c), id))
}

// ListRecords godoc
// @Summary  List service records
// @Tags     records
// @Produce  json
// @Param    filter query string false "all | day | month"
// @Param    date   query string false "YYYY-MM-DD or YYYY-MM"
// @Success  200 {object} dto.ServiceRecordListResponse
// @Failure  422 {object} apierror.APIError
// @Router   /admin/sales [get]
func (h *RecordsHandler) ListRecords(c *gin.Context) {
	var f dto.PeriodFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), f)
	respondView(c, resp, err)
}
