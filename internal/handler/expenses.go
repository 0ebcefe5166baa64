package handler

import (
	"citycut/internal/dto"
	"citycut/internal/middleware"
	"citycut/internal/service"

	"github.com/gin-gonic/gin"
)

type ExpensesHandler struct{ svc service.ExpenseService }

func NewExpensesHandler(svc service.ExpenseService) *ExpensesHandler {
	return &ExpensesHandler{svc: svc}
}

// CreateExpense godoc
// @Summary      Record an expense
// @Description  Category is stored lower-cased; the date defaults to now.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateExpenseRequest true "Expense"
// @Success      200  {object} apierror.ActionResult
// @Failure      422  {object} apierror.ValidationError
// @Router       /sales/expenses [post]
func (h *ExpensesHandler) CreateExpense(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	writeAction(c, h.svc.Create(c.Request.Context(), middleware.GetPrincipal(c), req))
}

// UpdateExpense godoc
// @Summary  Edit an expense
// @Tags     expenses
// @Accept   json
// @Produce  json
// @Param    id   path string                   true "Expense ID"
// @Param    body body dto.UpdateExpenseRequest true "New values"
// @Success  200  {object} apierror.ActionResult
// @Failure  422  {object} apierror.ValidationError
// @Router   /admin/expenses/{id} [put]
func (h *ExpensesHandler) UpdateExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	writeAction(c, h.svc.Update(c.Request.Context(), middleware.GetPrincipal(c), id, req))
}

// DeleteExpense godoc
// @Summary  Delete an expense
// @Tags     expenses
// @Produce  json
// @Param    id path string true "Expense ID"
// @Success  200 {object} apierror.ActionResult
// @Router   /admin/expenses/{id} [delete]
func (h *ExpensesHandler) DeleteExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	writeAction(c, h.svc.Delete(c.Request.Context(), middleware.GetPrincipal(c), id))
}

// ListExpenses godoc
// @Summary  List expenses
// @Tags     expenses
// @Produce  json
// @Param    filter query string false "all | day | month"
// @Param    date   query string false "YYYY-MM-DD or YYYY-MM"
// @Success  200 {object} dto.ExpenseListResponse
// @Router   /admin/expenses [get]
func (h *ExpensesHandler) ListExpenses(c *gin.Context) {
	var f dto.PeriodFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), f)
	respondView(c, resp, err)
}
