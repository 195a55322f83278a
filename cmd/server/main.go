package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"gymtrack_echo/internal/handlers"
	appmw "gymtrack_echo/internal/middleware"
	"gymtrack_echo/internal/models"
	"gymtrack_echo/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Initialize Redis (sessions and read caches)
	var cache *services.RedisCache
	var sessions *services.SessionStore
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		sessions = services.NewSessionStore(cache)
	} else {
		log.Println("Warning: REDIS_URL not set, logins disabled")
	}

	// Core services
	accounts := services.NewAccountService(db)
	fitness := services.NewFitnessService(db)
	availability := services.NewAvailabilityService(db)
	billing := services.NewBillingService(db)
	maintenance := services.NewMaintenanceService(db)

	// Payment gateway (optional)
	var checkout *services.CheckoutService
	if os.Getenv("MIDTRANS_SERVER_KEY") != "" {
		gateway := services.NewMidtransService()
		checkout = services.NewCheckoutService(db, billing, gateway)
	} else {
		log.Println("Warning: MIDTRANS_SERVER_KEY not set, online payment disabled")
	}

	// Create Echo instance
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.HTTPErrorHandler = appmw.JSONErrorHandler

	// Handlers
	authHandler := handlers.NewAuthHandler(accounts, sessions)
	memberHandler := handlers.NewMemberHandler(accounts, fitness, billing, checkout, os.Getenv("MIDTRANS_FINISH_URL"))
	trainerHandler := handlers.NewTrainerHandler(accounts, fitness, availability)
	billingHandler := handlers.NewBillingHandler(billing, accounts, cache)
	equipmentHandler := handlers.NewEquipmentHandler(maintenance, cache)
	dashboardHandler := handlers.NewDashboardHandler(accounts, billing, maintenance, cache)
	gatewayHandler := handlers.NewGatewayHandler(checkout)

	// Public routes
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.POST("/payments/midtrans/callback", gatewayHandler.MidtransCallback)

	// Member routes
	member := e.Group("/api/member")
	member.Use(appmw.RequireAuth(sessions), appmw.RequireRole(models.RoleMember))
	member.GET("/profile", memberHandler.Profile)
	member.POST("/profile", memberHandler.UpdateProfile)
	member.GET("/dashboard", memberHandler.Dashboard)
	member.POST("/metrics", memberHandler.AddMetric)
	member.GET("/metrics/history", memberHandler.MetricHistory)
	member.POST("/goals", memberHandler.SetGoal)
	member.GET("/bills", memberHandler.MyBills)
	member.POST("/bills/:id/pay", memberHandler.PayBill)

	// Trainer routes
	trainer := e.Group("/api/trainer")
	trainer.Use(appmw.RequireAuth(sessions), appmw.RequireRole(models.RoleTrainer))
	trainer.GET("/members", trainerHandler.Members)
	trainer.GET("/members/:id", trainerHandler.MemberDetails)
	trainer.GET("/availability", trainerHandler.ListAvailability)
	trainer.POST("/availability", trainerHandler.AddAvailability)
	trainer.DELETE("/availability/:id", trainerHandler.RemoveAvailability)
	trainer.POST("/availability/check-overlaps", trainerHandler.CheckOverlaps)
	trainer.GET("/schedule", trainerHandler.Schedule)

	// Admin routes
	admin := e.Group("/api/admin")
	admin.Use(appmw.RequireAuth(sessions), appmw.RequireRole(models.RoleAdmin))
	admin.GET("/overview", dashboardHandler.Overview)
	admin.GET("/equipment", equipmentHandler.ListEquipment)
	admin.POST("/equipment", equipmentHandler.AddEquipment)
	admin.GET("/maintenance-logs", equipmentHandler.ListLogs)
	admin.POST("/maintenance-logs", equipmentHandler.LogMaintenance)
	admin.GET("/repair-tasks", equipmentHandler.ListTasks)
	admin.POST("/repair-tasks", equipmentHandler.AssignRepair)
	admin.POST("/repair-tasks/:id/complete", equipmentHandler.CompleteRepair)
	admin.GET("/bills", billingHandler.ListBills)
	admin.POST("/bills", billingHandler.GenerateBill)
	admin.GET("/bills/:id", billingHandler.BillDetails)
	admin.POST("/bills/:id/payments", billingHandler.RecordPayment)
	admin.GET("/payments", billingHandler.ListPayments)
	admin.GET("/members", billingHandler.MembersForBilling)
	admin.GET("/reports/financial", billingHandler.FinancialReports)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
