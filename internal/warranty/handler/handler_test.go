package handler

import (
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bitfantasy/nimo-warranty/internal/config"
	"github.com/bitfantasy/nimo-warranty/internal/middleware"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/service"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/testutil"
)

// setupTestAPI wires the full API surface against an isolated test schema,
// mirroring the route table in cmd/server.
func setupTestAPI(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, nil, &config.Config{})
	handlers := NewHandlers(services)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")

	customers := api.Group("/customers")
	customers.GET("", handlers.Customer.List)
	customers.POST("", handlers.Customer.Register)
	customers.GET("/:id", handlers.Customer.Get)
	customers.PUT("/:id", handlers.Customer.Update)
	customers.GET("/:id/warranties", handlers.Customer.ListWarranties)
	customers.GET("/:id/claims", handlers.Customer.ListClaims)

	products := api.Group("/products")
	products.GET("", handlers.Product.List)
	products.POST("", handlers.Product.Create)
	products.GET("/categories/list", handlers.Product.ListCategories)
	products.GET("/:id", handlers.Product.Get)
	products.PUT("/:id", handlers.Product.Update)

	warranties := api.Group("/warranties")
	warranties.GET("", handlers.Warranty.List)
	warranties.POST("", handlers.Warranty.Register)
	warranties.GET("/:id", handlers.Warranty.Get)
	warranties.PUT("/:id", handlers.Warranty.Update)
	warranties.GET("/:id/verify", handlers.Warranty.Verify)
	warranties.PUT("/:id/cancel", handlers.Warranty.Cancel)

	claims := api.Group("/claims")
	claims.GET("", handlers.Claim.List)
	claims.POST("", handlers.Claim.File)
	claims.GET("/:id", handlers.Claim.Get)
	claims.PUT("/:id/approve", middleware.RequireRole("claims_manager"), handlers.Claim.Approve)
	claims.PUT("/:id/deny", middleware.RequireRole("claims_manager"), handlers.Claim.Deny)
	claims.PUT("/:id/close", handlers.Claim.Close)
	claims.PUT("/:id/status", handlers.Claim.UpdateStatus)
	claims.GET("/:id/attachments", handlers.Claim.ListAttachments)

	serviceCenters := api.Group("/service-centers")
	serviceCenters.GET("", handlers.ServiceCenter.List)
	serviceCenters.POST("", handlers.ServiceCenter.Create)
	serviceCenters.GET("/dispatch/recommend", handlers.ServiceCenter.Recommend)
	serviceCenters.GET("/:id", handlers.ServiceCenter.Get)
	serviceCenters.PUT("/:id", handlers.ServiceCenter.Update)
	serviceCenters.GET("/:id/technicians", handlers.ServiceCenter.ListTechnicians)

	technicians := api.Group("/technicians")
	technicians.GET("", handlers.Technician.List)
	technicians.POST("", handlers.Technician.Create)
	technicians.GET("/:id", handlers.Technician.Get)
	technicians.PUT("/:id", handlers.Technician.Update)
	technicians.PUT("/:id/availability", handlers.Technician.SetAvailability)

	repairOrders := api.Group("/repair-orders")
	repairOrders.GET("", handlers.RepairOrder.List)
	repairOrders.POST("", handlers.RepairOrder.Create)
	repairOrders.GET("/:id", handlers.RepairOrder.Get)
	repairOrders.PUT("/:id", handlers.RepairOrder.Update)
	repairOrders.PUT("/:id/complete", handlers.RepairOrder.Complete)
	repairOrders.PUT("/:id/cancel", handlers.RepairOrder.Cancel)

	reports := api.Group("/reports")
	reports.GET("/dashboard", handlers.Report.Dashboard)
	reports.GET("/claims-summary", handlers.Report.ClaimsSummary)
	reports.GET("/warranty-expiration", handlers.Report.WarrantyExpiration)
	reports.GET("/service-center-performance", handlers.Report.ServiceCenterPerformance)
	reports.GET("/replacement-candidates", handlers.Report.ReplacementCandidates)

	return router, db
}
