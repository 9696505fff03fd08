package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rijnfleet/fleet-backend/errors"
	"github.com/rijnfleet/fleet-backend/middleware"
	"github.com/rijnfleet/fleet-backend/models"
	"github.com/rijnfleet/fleet-backend/types"
)

// EarningHandler exposes standalone earning records over HTTP.
type EarningHandler struct {
	earningModel *models.EarningModel
}

func NewEarningHandler(model *models.EarningModel) *EarningHandler {
	return &EarningHandler{earningModel: model}
}

func (h *EarningHandler) CreateEarningHandler(c *gin.Context) {
	var req types.CreateEarningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	companyID := middleware.GetCompanyID(c)
	earning, err := h.earningModel.CreateEarning(c.Request.Context(), companyID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, earning)
}

func (h *EarningHandler) GetEarningHandler(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)
	earning, err := h.earningModel.GetEarning(c.Request.Context(), c.Param("id"), companyID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, earning)
}

// ListEarningsHandler lists earnings, optionally filtered by the
// contractId query parameter or a from/to week range.
func (h *EarningHandler) ListEarningsHandler(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)

	if c.Query("from") != "" || c.Query("to") != "" {
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
		earnings, err := h.earningModel.ListEarningsByPeriod(c.Request.Context(), companyID, from, to)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": earnings})
		return
	}

	limit, offset := getPagination(c)
	resp, err := h.earningModel.ListEarnings(c.Request.Context(), companyID, c.Query("contractId"), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EarningHandler) ArchiveEarningHandler(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)
	if err := h.earningModel.ArchiveEarning(c.Request.Context(), c.Param("id"), companyID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
