// Package router wires the HTTP handlers into a gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopbook/backend/internal/infrastructure/ai"
	"github.com/shopbook/backend/internal/infrastructure/config"
	"github.com/shopbook/backend/internal/infrastructure/logger"
	"github.com/shopbook/backend/internal/interfaces/http/handler"
	"github.com/shopbook/backend/internal/interfaces/http/middleware"
)

// Dependencies bundles what the router needs to build the API.
type Dependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	Stores  *handler.Stores
	Advisor *ai.Advisor // nil when AI is not configured
}

// Setup builds the gin engine with all middleware and routes.
func Setup(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(deps.Logger))
	engine.Use(logger.Recovery(deps.Logger))
	engine.Use(middleware.CORS([]string{"*"}))

	catalogHandler := handler.NewCatalogHandler(deps.Stores)
	tradeHandler := handler.NewTradeHandler(deps.Stores)
	partnerHandler := handler.NewPartnerHandler(deps.Stores)
	financeHandler := handler.NewFinanceHandler(deps.Stores)
	identityHandler := handler.NewIdentityHandler(deps.Stores, deps.Config.Storage.TenantID)
	reportHandler := handler.NewReportHandler(deps.Stores, deps.Advisor, deps.Logger)
	systemHandler := handler.NewSystemHandler(deps.Stores)

	engine.GET("/health", systemHandler.Health)

	api := engine.Group("/api/v1")
	{
		products := api.Group("/products")
		{
			products.POST("", catalogHandler.CreateProduct)
			products.GET("", catalogHandler.ListProducts)
			products.GET("/:barcode", catalogHandler.GetProduct)
			products.PUT("/:barcode", catalogHandler.UpdateProduct)
			products.DELETE("/:barcode", catalogHandler.DeleteProduct)
		}

		settings := api.Group("/settings")
		{
			settings.GET("", catalogHandler.GetSettings)
			settings.PUT("", catalogHandler.SaveSettings)
			settings.GET("/exchange-rates", catalogHandler.GetExchangeRates)
			settings.PUT("/exchange-rates", catalogHandler.SaveExchangeRates)
			settings.GET("/cost-titles", catalogHandler.ListCostTitles)
			settings.POST("/cost-titles", catalogHandler.AddCostTitle)
			settings.DELETE("/cost-titles/:id", catalogHandler.DeleteCostTitle)
		}

		sales := api.Group("/sales")
		{
			sales.POST("", tradeHandler.CompleteSale)
			sales.GET("", tradeHandler.ListSales)
		}

		payments := api.Group("/payments")
		{
			payments.POST("", tradeHandler.CreatePayment)
			payments.GET("", tradeHandler.ListPayments)
		}

		customers := api.Group("/customers")
		{
			customers.POST("", partnerHandler.CreateCustomer)
			customers.GET("", partnerHandler.ListCustomers)
			customers.GET("/:id", partnerHandler.GetCustomer)
			customers.PUT("/:id", partnerHandler.UpdateCustomer)
			customers.DELETE("/:id", partnerHandler.DeleteCustomer)
		}

		expenses := api.Group("/expenses")
		{
			expenses.POST("", financeHandler.CreateExpense)
			expenses.GET("", financeHandler.ListExpenses)
			expenses.PUT("/:id", financeHandler.UpdateExpense)
			expenses.DELETE("/:id", financeHandler.DeleteExpense)
		}

		recurring := api.Group("/recurring-expenses")
		{
			recurring.POST("", financeHandler.CreateRecurringExpense)
			recurring.GET("", financeHandler.ListRecurringExpenses)
			recurring.DELETE("/:id", financeHandler.DeleteRecurringExpense)
			recurring.POST("/apply", financeHandler.ApplyRecurringExpenses)
		}

		employees := api.Group("/employees")
		{
			employees.POST("", financeHandler.CreateEmployee)
			employees.GET("", financeHandler.ListEmployees)
			employees.DELETE("/:id", financeHandler.DeleteEmployee)
		}

		api.GET("/attachments", financeHandler.ListAttachments)
		api.POST("/files", financeHandler.UploadFile)

		api.GET("/profile", identityHandler.GetProfile)
		api.PUT("/profile", identityHandler.SaveProfile)
		api.GET("/profiles", identityHandler.ListProfiles)

		reports := api.Group("/reports")
		{
			reports.GET("/summary", reportHandler.Summary)
			reports.GET("/units-sold", reportHandler.UnitsSold)
			reports.GET("/low-stock", reportHandler.LowStock)
			reports.GET("/export", reportHandler.Export)
			reports.GET("/recommendations", reportHandler.Recommendations)
		}

		system := api.Group("/system")
		{
			system.GET("/backend", systemHandler.GetBackend)
			system.PUT("/backend", systemHandler.SwitchBackend)
		}
	}

	return engine
}
