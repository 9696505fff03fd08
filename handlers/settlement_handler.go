package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rijnfleet/fleet-backend/errors"
	"github.com/rijnfleet/fleet-backend/logger"
	"github.com/rijnfleet/fleet-backend/middleware"
	"github.com/rijnfleet/fleet-backend/models"
	"github.com/rijnfleet/fleet-backend/services"
	"github.com/rijnfleet/fleet-backend/types"
)

// SettlementHandler exposes the settlement workflow over HTTP.
type SettlementHandler struct {
	settlementModel *models.SettlementModel
	pdfService      *services.PDFService
}

func NewSettlementHandler(model *models.SettlementModel, pdfService *services.PDFService) *SettlementHandler {
	return &SettlementHandler{
		settlementModel: model,
		pdfService:      pdfService,
	}
}

// CreateSettlementHandler builds a settlement from the listed earnings.
// On success the response carries the recalculated totals.
func (h *SettlementHandler) CreateSettlementHandler(c *gin.Context) {
	log := logger.GetLogger()

	var req types.CreateSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnw("Invalid settlement request body", "error", err)
		_ = c.Error(errors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	companyID := middleware.GetCompanyID(c)
	settlement, err := h.settlementModel.CreateSettlement(c.Request.Context(), companyID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, settlement)
}

// GetSettlementHandler returns a settlement with its contract, earnings,
// driver and car.
func (h *SettlementHandler) GetSettlementHandler(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)
	settlement, err := h.settlementModel.GetSettlement(c.Request.Context(), c.Param("id"), companyID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, settlement)
}

// ListSettlementsHandler returns the company's settlements, paginated.
func (h *SettlementHandler) ListSettlementsHandler(c *gin.Context) {
	limit, offset := getPagination(c)
	companyID := middleware.GetCompanyID(c)

	resp, err := h.settlementModel.ListSettlements(c.Request.Context(), companyID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateSettlementStatusHandler advances a settlement along its lifecycle.
func (h *SettlementHandler) UpdateSettlementStatusHandler(c *gin.Context) {
	var req types.UpdateSettlementStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	companyID := middleware.GetCompanyID(c)
	if err := h.settlementModel.UpdateStatus(c.Request.Context(), c.Param("id"), companyID, req.Status); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// ConfirmSettlementHandler records the driver's confirmation of a paid
// settlement.
func (h *SettlementHandler) ConfirmSettlementHandler(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)
	settlement, err := h.settlementModel.ConfirmByDriver(c.Request.Context(), c.Param("id"), companyID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, settlement)
}

// AddEarningHandler links one more earning to a pending settlement.
func (h *SettlementHandler) AddEarningHandler(c *gin.Context) {
	var spec types.EarningSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		_ = c.Error(errors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	companyID := middleware.GetCompanyID(c)
	settlement, err := h.settlementModel.AddEarning(c.Request.Context(), c.Param("id"), companyID, &spec)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, settlement)
}

// SettlementPDFHandler streams the settlement statement as a PDF.
func (h *SettlementHandler) SettlementPDFHandler(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)
	settlement, err := h.settlementModel.GetSettlement(c.Request.Context(), c.Param("id"), companyID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	data, err := h.pdfService.SettlementStatement(settlement)
	if err != nil {
		_ = c.Error(errors.Wrap(err, errors.ServerError, "Failed to generate settlement statement"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=settlement-%s.pdf", settlement.ID))
	c.Data(http.StatusOK, "application/pdf", data)
}
