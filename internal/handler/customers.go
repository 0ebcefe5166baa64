package handler

import (
	"strings"

	"citycut/internal/dto"
	"citycut/internal/middleware"
	"citycut/internal/service"

	"github.com/gin-gonic/gin"
)

type CustomersHandler struct{ svc service.CustomerService }

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

// ListCustomers godoc
// @Summary      List customers
// @Description  Optional q matches name or phone. Each row carries visit stats and a WhatsApp link.
// @Tags         customers
// @Produce      json
// @Param        q query string false "Search text"
// @Success      200 {object} dto.CustomerListResponse
// @Router       /admin/customers [get]
func (h *CustomersHandler) ListCustomers(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), strings.TrimSpace(c.Query("q")))
	respondView(c, resp, err)
}

// UpdateCustomer godoc
// @Summary  Edit a customer
// @Tags     customers
// @Accept   json
// @Produce  json
// @Param    id   path string                    true "Customer ID"
// @Param    body body dto.UpdateCustomerRequest true "Name and phone"
// @Success  200  {object} apierror.ActionResult
// @Failure  422  {object} apierror.ValidationError
// @Router   /admin/customers/{id} [put]
func (h *CustomersHandler) UpdateCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	writeAction(c, h.svc.Update(c.Request.Context(), middleware.GetPrincipal(c), id, req))
}

// DeleteCustomer godoc
// @Summary      Delete a customer
// @Description  Also removes the customer's service records.
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID"
// @Success      200 {object} apierror.ActionResult
// @Router       /admin/customers/{id} [delete]
func (h *CustomersHandler) DeleteCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	writeAction(c, h.svc.Delete(c.Request.Context(), middleware.GetPrincipal(c), id))
}
