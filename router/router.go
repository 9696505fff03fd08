// Package router wires the HTTP routes to their handlers.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rijnfleet/fleet-backend/config"
	"github.com/rijnfleet/fleet-backend/handlers"
	"github.com/rijnfleet/fleet-backend/middleware"
)

// Dependencies holds everything required for setting up routes.
type Dependencies struct {
	Config            *config.Config
	HealthHandler     *handlers.HealthHandler
	CompanyHandler    *handlers.CompanyHandler
	DriverHandler     *handlers.DriverHandler
	CarHandler        *handlers.CarHandler
	ContractHandler   *handlers.ContractHandler
	EarningHandler    *handlers.EarningHandler
	SettlementHandler *handlers.SettlementHandler
	ExpenseHandler    *handlers.ExpenseHandler
}

// SetupRouter configures and returns the main gin engine with all routes
// defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	// Health routes, no auth required.
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)

	v1 := r.Group("/v1")
	v1.Use(middleware.AuthMiddleware(&deps.Config.Server))
	{
		companyRoutes := v1.Group("/companies")
		{
			companyRoutes.POST("", deps.CompanyHandler.CreateCompanyHandler)
			companyRoutes.GET("/me", deps.CompanyHandler.GetCompanyHandler)
			companyRoutes.PUT("/me", deps.CompanyHandler.UpdateCompanyHandler)
			companyRoutes.DELETE("/me", deps.CompanyHandler.ArchiveCompanyHandler)
			companyRoutes.POST("/me/restore", deps.CompanyHandler.RestoreCompanyHandler)
		}

		driverRoutes := v1.Group("/drivers")
		{
			driverRoutes.POST("", deps.DriverHandler.CreateDriverHandler)
			driverRoutes.GET("", deps.DriverHandler.ListDriversHandler)
			driverRoutes.GET("/:id", deps.DriverHandler.GetDriverHandler)
			driverRoutes.PUT("/:id", deps.DriverHandler.UpdateDriverHandler)
			driverRoutes.DELETE("/:id", deps.DriverHandler.ArchiveDriverHandler)
			driverRoutes.POST("/:id/restore", deps.DriverHandler.RestoreDriverHandler)
		}

		carRoutes := v1.Group("/cars")
		{
			carRoutes.POST("", deps.CarHandler.CreateCarHandler)
			carRoutes.GET("", deps.CarHandler.ListCarsHandler)
			carRoutes.GET("/:id", deps.CarHandler.GetCarHandler)
			carRoutes.PUT("/:id", deps.CarHandler.UpdateCarHandler)
			carRoutes.DELETE("/:id", deps.CarHandler.ArchiveCarHandler)
			carRoutes.POST("/:id/restore", deps.CarHandler.RestoreCarHandler)
		}

		contractRoutes := v1.Group("/contracts")
		{
			contractRoutes.POST("", deps.ContractHandler.CreateContractHandler)
			contractRoutes.GET("", deps.ContractHandler.ListContractsHandler)
			contractRoutes.GET("/:id", deps.ContractHandler.GetContractHandler)
			contractRoutes.PUT("/:id", deps.ContractHandler.UpdateContractHandler)
			contractRoutes.DELETE("/:id", deps.ContractHandler.ArchiveContractHandler)
			contractRoutes.POST("/:id/restore", deps.ContractHandler.RestoreContractHandler)
		}

		earningRoutes := v1.Group("/earnings")
		{
			earningRoutes.POST("", deps.EarningHandler.CreateEarningHandler)
			earningRoutes.GET("", deps.EarningHandler.ListEarningsHandler)
			earningRoutes.GET("/:id", deps.EarningHandler.GetEarningHandler)
			earningRoutes.DELETE("/:id", deps.EarningHandler.ArchiveEarningHandler)
		}

		settlementRoutes := v1.Group("/settlements")
		{
			settlementRoutes.POST("", deps.SettlementHandler.CreateSettlementHandler)
			settlementRoutes.GET("", deps.SettlementHandler.ListSettlementsHandler)
			settlementRoutes.GET("/:id", deps.SettlementHandler.GetSettlementHandler)
			settlementRoutes.PATCH("/:id/status", deps.SettlementHandler.UpdateSettlementStatusHandler)
			settlementRoutes.POST("/:id/confirm", deps.SettlementHandler.ConfirmSettlementHandler)
			settlementRoutes.POST("/:id/earnings", deps.SettlementHandler.AddEarningHandler)
			settlementRoutes.GET("/:id/pdf", deps.SettlementHandler.SettlementPDFHandler)
		}

		expenseRoutes := v1.Group("/expenses")
		{
			expenseRoutes.POST("", deps.ExpenseHandler.CreateExpenseHandler)
			expenseRoutes.GET("", deps.ExpenseHandler.ListExpensesHandler)
			expenseRoutes.GET("/:id", deps.ExpenseHandler.GetExpenseHandler)
			expenseRoutes.DELETE("/:id", deps.ExpenseHandler.ArchiveExpenseHandler)
		}

		v1.GET("/reports/btw", deps.ExpenseHandler.BtwReportHandler)
	}

	return r
}
