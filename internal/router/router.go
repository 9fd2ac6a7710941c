// Package router assembles the gin engine serving the fizcal API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fizcal/internal/handlers"
	"fizcal/internal/middleware"
	"fizcal/internal/services"
)

// Services are the business services the routes delegate to.
type Services struct {
	Users        services.UserServicer
	Accounts     services.AccountServicer
	Transactions services.TransactionServicer
	Budgets      services.BudgetServicer
	Categories   services.CategoryServicer
	Reports      services.ReportServicer
	Snapshots    services.SnapshotServicer
}

// New builds the engine. An empty pipelineAPIKey leaves the pipeline routes
// mounted but answering 503.
func New(svc Services, pipelineAPIKey string) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users)
	accountHandler := handlers.NewAccountHandler(svc.Accounts, svc.Transactions)
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions)
	budgetHandler := handlers.NewBudgetHandler(svc.Budgets)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories)
	reportHandler := handlers.NewReportHandler(svc.Reports)
	snapshotHandler := handlers.NewSnapshotHandler(svc.Snapshots)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Pipeline routes authenticate with X-API-Key instead of a user token.
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(pipelineAPIKey))
	pipeline.POST("/snapshots", snapshotHandler.ComputeSnapshots)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)

	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetUserAccounts)
	accounts.GET("/summary", accountHandler.GetBalanceSummary)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.GET("/:id/reconcile", accountHandler.ReconcileAccount)
	accounts.GET("/:id/transactions", accountHandler.GetAccountTransactions)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/recent", transactionHandler.GetRecentTransactions)
	transactions.GET("/export", transactionHandler.ExportTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetUserBudgets)
	budgets.GET("/progress", budgetHandler.GetBudgetsProgress)
	budgets.POST("/preview", budgetHandler.PreviewBudget)
	budgets.GET("/:id", budgetHandler.GetBudgetByID)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	protected.GET("/categories", categoryHandler.GetUserCategories)
	protected.GET("/reports", reportHandler.GetReport)
	protected.GET("/dashboard", reportHandler.GetDashboard)
	protected.GET("/snapshots", snapshotHandler.GetSnapshots)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
