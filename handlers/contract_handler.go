package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rijnfleet/fleet-backend/errors"
	"github.com/rijnfleet/fleet-backend/middleware"
	"github.com/rijnfleet/fleet-backend/models"
	"github.com/rijnfleet/fleet-backend/types"
)

// ContractHandler exposes rental contracts over HTTP.
type ContractHandler struct {
	contractModel *models.ContractModel
}

func NewContractHandler(model *models.ContractModel) *ContractHandler {
	return &ContractHandler{contractModel: model}
}

func (h *ContractHandler) CreateContractHandler(c *gin.Context) {
	var req types.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	companyID := middleware.GetCompanyID(c)
	contract, err := h.contractModel.CreateContract(c.Request.Context(), companyID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (h *ContractHandler) GetContractHandler(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)
	contract, err := h.contractModel.GetContract(c.Request.Context(), c.Param("id"), companyID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *ContractHandler) ListContractsHandler(c *gin.Context) {
	limit, offset := getPagination(c)
	companyID := middleware.GetCompanyID(c)

	resp, err := h.contractModel.ListContracts(c.Request.Context(), companyID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContractHandler) UpdateContractHandler(c *gin.Context) {
	var req types.UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	companyID := middleware.GetCompanyID(c)
	contract, err := h.contractModel.UpdateContract(c.Request.Context(), c.Param("id"), companyID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *ContractHandler) ArchiveContractHandler(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)
	if err := h.contractModel.ArchiveContract(c.Request.Context(), c.Param("id"), companyID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ContractHandler) RestoreContractHandler(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)
	if err := h.contractModel.RestoreContract(c.Request.Context(), c.Param("id"), companyID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
