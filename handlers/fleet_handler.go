package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rijnfleet/fleet-backend/errors"
	"github.com/rijnfleet/fleet-backend/middleware"
	"github.com/rijnfleet/fleet-backend/models"
	"github.com/rijnfleet/fleet-backend/types"
)

// CompanyHandler exposes tenant records over HTTP.
type CompanyHandler struct {
	companyModel *models.CompanyModel
}

func NewCompanyHandler(model *models.CompanyModel) *CompanyHandler {
	return &CompanyHandler{companyModel: model}
}

func (h *CompanyHandler) CreateCompanyHandler(c *gin.Context) {
	var req types.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	company, err := h.companyModel.CreateCompany(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

// GetCompanyHandler returns the caller's own company.
func (h *CompanyHandler) GetCompanyHandler(c *gin.Context) {
	company, err := h.companyModel.GetCompany(c.Request.Context(), middleware.GetCompanyID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) UpdateCompanyHandler(c *gin.Context) {
	var req types.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	company, err := h.companyModel.UpdateCompany(c.Request.Context(), middleware.GetCompanyID(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) ArchiveCompanyHandler(c *gin.Context) {
	if err := h.companyModel.ArchiveCompany(c.Request.Context(), middleware.GetCompanyID(c)); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompanyHandler) RestoreCompanyHandler(c *gin.Context) {
	if err := h.companyModel.RestoreCompany(c.Request.Context(), middleware.GetCompanyID(c)); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DriverHandler exposes driver records over HTTP.
type DriverHandler struct {
	driverModel *models.DriverModel
}

func NewDriverHandler(model *models.DriverModel) *DriverHandler {
	return &DriverHandler{driverModel: model}
}

func (h *DriverHandler) CreateDriverHandler(c *gin.Context) {
	var req types.CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	driver, err := h.driverModel.CreateDriver(c.Request.Context(), middleware.GetCompanyID(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, driver)
}

func (h *DriverHandler) GetDriverHandler(c *gin.Context) {
	driver, err := h.driverModel.GetDriver(c.Request.Context(), c.Param("id"), middleware.GetCompanyID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, driver)
}

func (h *DriverHandler) ListDriversHandler(c *gin.Context) {
	limit, offset := getPagination(c)
	resp, err := h.driverModel.ListDrivers(c.Request.Context(), middleware.GetCompanyID(c), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DriverHandler) UpdateDriverHandler(c *gin.Context) {
	var req types.UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	driver, err := h.driverModel.UpdateDriver(c.Request.Context(), c.Param("id"), middleware.GetCompanyID(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, driver)
}

func (h *DriverHandler) ArchiveDriverHandler(c *gin.Context) {
	if err := h.driverModel.ArchiveDriver(c.Request.Context(), c.Param("id"), middleware.GetCompanyID(c)); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DriverHandler) RestoreDriverHandler(c *gin.Context) {
	if err := h.driverModel.RestoreDriver(c.Request.Context(), c.Param("id"), middleware.GetCompanyID(c)); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CarHandler exposes fleet vehicle records over HTTP.
type CarHandler struct {
	carModel *models.CarModel
}

func NewCarHandler(model *models.CarModel) *CarHandler {
	return &CarHandler{carModel: model}
}

func (h *CarHandler) CreateCarHandler(c *gin.Context) {
	var req types.CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	car, err := h.carModel.CreateCar(c.Request.Context(), middleware.GetCompanyID(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, car)
}

func (h *CarHandler) GetCarHandler(c *gin.Context) {
	car, err := h.carModel.GetCar(c.Request.Context(), c.Param("id"), middleware.GetCompanyID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (h *CarHandler) ListCarsHandler(c *gin.Context) {
	limit, offset := getPagination(c)
	resp, err := h.carModel.ListCars(c.Request.Context(), middleware.GetCompanyID(c), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarHandler) UpdateCarHandler(c *gin.Context) {
	var req types.UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	car, err := h.carModel.UpdateCar(c.Request.Context(), c.Param("id"), middleware.GetCompanyID(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (h *CarHandler) ArchiveCarHandler(c *gin.Context) {
	if err := h.carModel.ArchiveCar(c.Request.Context(), c.Param("id"), middleware.GetCompanyID(c)); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CarHandler) RestoreCarHandler(c *gin.Context) {
	if err := h.carModel.RestoreCar(c.Request.Context(), c.Param("id"), middleware.GetCompanyID(c)); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
