package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-bookstore-api/internal/handler"
	"go-bookstore-api/internal/middleware"
	"go-bookstore-api/internal/model"
	"go-bookstore-api/internal/repository"
	"go-bookstore-api/internal/service"
	"go-bookstore-api/pkg/database"
	applog "go-bookstore-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Book{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Transaction{},
		&model.User{},
	)

	// 3. Seed default admin user
	seedAdminUser(db)

	// 4. Dependency Injection (Wiring Layers)
	bookRepo := repository.NewBookRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	ledgerRepo := repository.NewLedgerRepo(db)
	userRepo := repository.NewUserRepo(db)

	procurementService := service.NewProcurementService(orderRepo, bookRepo, ledgerRepo, db)
	salesService := service.NewSalesService(saleRepo, bookRepo, ledgerRepo, db)
	catalogService := service.NewCatalogService(bookRepo)
	reportService := service.NewReportService(ledgerRepo)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)

	procurementHandler := handler.NewProcurementHandler(procurementService)
	salesHandler := handler.NewSalesHandler(salesService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	reportHandler := handler.NewReportHandler(reportService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Bookstore Back-Office v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))
	admin := middleware.RequireAdmin()

	protected.Post("/auth/change-password", authHandler.ChangePassword)

	// Catalog: reads for any authenticated user, writes for admins
	protected.Get("/books", catalogHandler.GetBooks)
	protected.Get("/books/:id", catalogHandler.GetBook)
	protected.Post("/books", admin, catalogHandler.CreateBook)
	protected.Put("/books/:id", admin, catalogHandler.UpdateBook)
	protected.Delete("/books/:id", admin, catalogHandler.DeleteBook)

	// Procurement: admin only
	protected.Post("/orders", admin, procurementHandler.CreateOrder)
	protected.Get("/orders", admin, procurementHandler.GetOrders)
	protected.Get("/orders/:id", admin, procurementHandler.GetOrder)
	protected.Put("/orders/:id", admin, procurementHandler.UpdateOrder)
	protected.Post("/orders/:id/pay", admin, procurementHandler.PayOrder)
	protected.Post("/orders/:id/return", admin, procurementHandler.ReturnOrder)
	protected.Post("/orders/:id/stock-in", admin, procurementHandler.StockInOrder)

	// Sales: any authenticated user
	protected.Post("/sales", salesHandler.CreateSale)
	protected.Get("/sales", salesHandler.GetSales)
	protected.Get("/sales/:id", salesHandler.GetSale)
	protected.Post("/sales/:id/refund", salesHandler.RefundSale)
	protected.Post("/sales/:id/cancel", salesHandler.CancelSale)

	// Ledger & reports: admin only
	protected.Get("/transactions", admin, reportHandler.GetTransactions)
	protected.Get("/reports/summary", admin, reportHandler.GetSummary)
	protected.Get("/reports/trend", admin, reportHandler.GetTrend)
	protected.Get("/reports/dashboard", admin, reportHandler.GetDashboard)

	// User management: admin only
	protected.Get("/users", admin, userHandler.GetUsers)
	protected.Get("/users/:id", admin, userHandler.GetUser)
	protected.Post("/users", admin, userHandler.CreateUser)
	protected.Put("/users/:id", admin, userHandler.UpdateUser)
	protected.Delete("/users/:id", admin, userHandler.DeleteUser)

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	applog.Get().Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	applog.Get().Info("Server exited")
}

// seedAdminUser creates the default admin account if it doesn't exist yet.
func seedAdminUser(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}

	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	admin := &model.User{
		Email:    email,
		FullName: "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	} else {
		log.Printf("Admin user created: %s", email)
	}
}
