package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rijnfleet/fleet-backend/errors"
	"github.com/rijnfleet/fleet-backend/middleware"
	"github.com/rijnfleet/fleet-backend/models"
	"github.com/rijnfleet/fleet-backend/types"
)

// ExpenseHandler exposes company expenses and the BTW report.
type ExpenseHandler struct {
	expenseModel *models.ExpenseModel
}

func NewExpenseHandler(model *models.ExpenseModel) *ExpenseHandler {
	return &ExpenseHandler{expenseModel: model}
}

func (h *ExpenseHandler) CreateExpenseHandler(c *gin.Context) {
	var req types.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	companyID := middleware.GetCompanyID(c)
	expense, err := h.expenseModel.CreateExpense(c.Request.Context(), companyID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHandler) GetExpenseHandler(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)
	expense, err := h.expenseModel.GetExpense(c.Request.Context(), c.Param("id"), companyID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandler) ListExpensesHandler(c *gin.Context) {
	limit, offset := getPagination(c)
	companyID := middleware.GetCompanyID(c)

	resp, err := h.expenseModel.ListExpenses(c.Request.Context(), companyID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ExpenseHandler) ArchiveExpenseHandler(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)
	if err := h.expenseModel.ArchiveExpense(c.Request.Context(), c.Param("id"), companyID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BtwReportHandler aggregates VAT over the from/to query range
// (RFC 3339 or YYYY-MM-DD).
func (h *ExpenseHandler) BtwReportHandler(c *gin.Context) {
	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		_ = c.Error(errors.ValidationFailed("Invalid from date", err.Error()))
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		_ = c.Error(errors.ValidationFailed("Invalid to date", err.Error()))
		return
	}

	companyID := middleware.GetCompanyID(c)
	report, err := h.expenseModel.BtwReport(c.Request.Context(), companyID, from, to)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
