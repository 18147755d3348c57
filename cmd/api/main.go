package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/handler"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/middleware"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/mirror"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/repository"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/service"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/store"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/ws"
	"github.com/MahounanRomain/barflowbj-22-sub000/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Open local store
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	st, err := store.Open(dataDir)
	if err != nil {
		log.Fatalf("Failed to open data store: %v", err)
	}

	// 3. Seed default settings and manager account
	seedDefaults(st)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	itemRepo := repository.NewInventoryRepo(st)
	categoryRepo := repository.NewCategoryRepo(st)
	staffRepo := repository.NewStaffRepo(st)
	saleRepo := repository.NewSaleRepo(st)
	tableRepo := repository.NewTableRepo(st)
	cashRepo := repository.NewCashRepo(st)
	historyRepo := repository.NewHistoryRepo(st)
	settingsRepo := repository.NewSettingsRepo(st)

	// One command mutex shared by every writing service: commands that
	// read-modify-write the same keys must never interleave.
	var commandMu sync.Mutex

	invService := service.NewInventoryService(&commandMu, itemRepo, historyRepo, wsHub)
	salesService := service.NewSalesService(&commandMu, saleRepo, itemRepo, staffRepo, tableRepo, cashRepo, historyRepo, wsHub)
	cashService := service.NewCashService(&commandMu, cashRepo, wsHub)
	tableService := service.NewTableService(&commandMu, tableRepo, wsHub)
	staffService := service.NewStaffService(&commandMu, staffRepo, wsHub)
	authService := service.NewAuthService(staffRepo)
	reportService := service.NewReportService(saleRepo, itemRepo, tableRepo, historyRepo)
	exportService := service.NewExportService(&commandMu, st, itemRepo, staffRepo, saleRepo, tableRepo, cashRepo, categoryRepo, settingsRepo)

	invHandler := handler.NewInventoryHandler(invService)
	categoryHandler := handler.NewCategoryHandler(&commandMu, categoryRepo, wsHub)
	salesHandler := handler.NewSalesHandler(salesService)
	cashHandler := handler.NewCashHandler(cashService)
	tableHandler := handler.NewTableHandler(tableService)
	staffHandler := handler.NewStaffHandler(staffService)
	authHandler := handler.NewAuthHandler(authService)
	reportHandler := handler.NewReportHandler(reportService)
	exportHandler := handler.NewExportHandler(exportService)
	settingsHandler := handler.NewSettingsHandler(settingsRepo)

	// 6. Optional cloud mirror
	var cloudMirror *mirror.Mirror
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := database.Connect(dsn)
		if err != nil {
			log.Printf("Warning: cloud mirror disabled: %v", err)
		} else {
			interval := 30 * time.Second
			if raw := os.Getenv("MIRROR_INTERVAL"); raw != "" {
				if d, err := time.ParseDuration(raw); err == nil {
					interval = d
				} else {
					log.Printf("Warning: invalid MIRROR_INTERVAL %q, using %s", raw, interval)
				}
			}
			cloudMirror, err = mirror.New(db, st, interval)
			if err != nil {
				log.Printf("Warning: cloud mirror disabled: %v", err)
			} else {
				cloudMirror.Start(context.Background())
				log.Printf("Cloud mirror flushing every %s", interval)
			}
		}
	}

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "BarFlow API v2.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(staffRepo))

	// Inventory
	protected.Get("/inventory", invHandler.GetItems)
	protected.Get("/inventory/:id", invHandler.GetItem)
	protected.Get("/inventory/:id/history", invHandler.GetItemHistory)
	protected.Post("/inventory", invHandler.CreateItem)
	protected.Put("/inventory/:id", invHandler.UpdateItem)
	protected.Post("/inventory/:id/restock", invHandler.Restock)
	protected.Post("/inventory/:id/damage", invHandler.ReportDamage)
	protected.Delete("/inventory/:id", middleware.RequireManager(), invHandler.DeleteItem)

	// Categories
	protected.Get("/categories", categoryHandler.GetCategories)
	protected.Post("/categories", categoryHandler.CreateCategory)
	protected.Delete("/categories/:id", middleware.RequireManager(), categoryHandler.DeleteCategory)

	// Sales
	protected.Get("/sales", salesHandler.GetSales)
	protected.Get("/sales/:id", salesHandler.GetSale)
	protected.Post("/sales", salesHandler.RecordSale)
	protected.Delete("/sales/:id", middleware.RequireManager(), salesHandler.DeleteSale)

	// Cash
	protected.Get("/cash/balance", cashHandler.GetBalance)
	protected.Get("/cash/transactions", cashHandler.GetTransactions)
	protected.Get("/cash/summary", cashHandler.GetSummary)
	protected.Post("/cash/initialize", middleware.RequireManager(), cashHandler.Initialize)
	protected.Post("/cash/transactions", cashHandler.AddTransaction)
	protected.Delete("/cash/transactions/:id", middleware.RequireManager(), cashHandler.DeleteTransaction)

	// Tables
	protected.Get("/tables", tableHandler.GetTables)
	protected.Post("/tables", tableHandler.CreateTable)
	protected.Put("/tables/:id", tableHandler.UpdateTable)
	protected.Put("/tables/:id/status", tableHandler.SetStatus)
	protected.Delete("/tables/:id", middleware.RequireManager(), tableHandler.DeleteTable)

	// Staff (manager only)
	staff := protected.Group("/staff", middleware.RequireManager())
	staff.Get("/", staffHandler.GetMembers)
	staff.Get("/:id", staffHandler.GetMember)
	staff.Post("/", staffHandler.CreateMember)
	staff.Put("/:id", staffHandler.UpdateMember)
	staff.Put("/:id/pin", staffHandler.SetPIN)
	staff.Post("/:id/deactivate", staffHandler.Deactivate)
	staff.Post("/:id/reactivate", staffHandler.Reactivate)
	staff.Delete("/:id", staffHandler.DeleteMember)

	// Reports
	protected.Get("/reports/sales", reportHandler.GetSalesReport)
	protected.Get("/reports/profitability", reportHandler.GetProfitability)
	protected.Get("/reports/stock-depletion", reportHandler.GetStockDepletion)
	protected.Get("/reports/history", reportHandler.GetHistory)
	protected.Get("/dashboard/stats", reportHandler.GetDashboardStats)

	// Settings
	protected.Get("/settings", settingsHandler.GetSettings)
	protected.Put("/settings", middleware.RequireManager(), settingsHandler.UpdateSettings)

	// Export / Import (manager only)
	protected.Get("/export/json", middleware.RequireManager(), exportHandler.ExportJSON)
	protected.Get("/export/xlsx", middleware.RequireManager(), exportHandler.ExportWorkbook)
	protected.Post("/import", middleware.RequireManager(), exportHandler.Import)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	if cloudMirror != nil {
		cloudMirror.Stop()
	}

	log.Println("Server exited")
}

// seedDefaults writes the default settings and a manager account on
// first run so a fresh install can log in.
func seedDefaults(st *store.Store) {
	settingsRepo := repository.NewSettingsRepo(st)
	staffRepo := repository.NewStaffRepo(st)

	if !st.Exists(repository.KeySettings) {
		defaults := model.DefaultSettings()
		if err := settingsRepo.Save(&defaults); err != nil {
			log.Printf("Warning: Failed to seed settings: %v", err)
		} else {
			log.Println("Default settings created")
		}
	}

	members, err := staffRepo.FindAll()
	if err != nil {
		log.Printf("Warning: Failed to read staff: %v", err)
		return
	}
	for _, m := range members {
		if m.Role == model.RoleManager {
			return
		}
	}

	manager := &model.StaffMember{
		ID:        uuid.New(),
		Name:      "Gérant",
		Role:      model.RoleManager,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := manager.SetPIN("0000"); err != nil {
		log.Printf("Warning: Failed to hash manager PIN: %v", err)
		return
	}
	if err := staffRepo.Insert(manager); err != nil {
		log.Printf("Warning: Failed to create manager account: %v", err)
	} else {
		log.Println("Manager account created: Gérant / PIN 0000")
	}
}
