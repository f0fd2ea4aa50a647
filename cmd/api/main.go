package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/kavinesh/fleetbook-backend/internal/database"
	"github.com/kavinesh/fleetbook-backend/internal/handlers"
	"github.com/kavinesh/fleetbook-backend/internal/logger"
	"github.com/kavinesh/fleetbook-backend/internal/middleware"
	"github.com/kavinesh/fleetbook-backend/internal/scheduling"
	"github.com/kavinesh/fleetbook-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on env vars")
	}

	logger.Setup()

	db, err := database.InitDB()
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Redis is an optimization layer only; start without it if down.
	rdb, err := services.InitRedis()
	if err != nil {
		logrus.Warnf("Redis unavailable, availability caching disabled: %v", err)
		rdb = nil
	}

	// Trip assignment engine
	store := scheduling.NewGormStore(db)
	assigner := scheduling.NewAssigner(store, store, store, store)
	var cache scheduling.AvailabilityCache
	if rdb != nil {
		cache = services.NewAvailabilityCache(rdb)
	}
	availability := scheduling.NewAvailability(store, cache)

	// WebSocket hub for assignment and status notifications
	hub := services.NewHub()
	go hub.Run()

	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", handlers.Login(db))
			auth.POST("/register", middleware.AuthMiddleware(), middleware.RequireAdmin(), handlers.Register(db))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			bookings := protected.Group("/bookings")
			{
				bookings.POST("/create", middleware.RequireRole("booker"), handlers.CreateBooking(db))
				bookings.GET("/my-bookings", middleware.RequireRole("booker"), handlers.GetUserBookings(db))
				bookings.DELETE("/:id", middleware.RequireRole("booker"), handlers.CancelBooking(db))
				bookings.GET("/all", middleware.RequireAdmin(), handlers.GetAllBookings(db))
				bookings.PATCH("/:id/status", middleware.RequireAdmin(), handlers.UpdateBookingStatus(db, hub))
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("/trips/assign", handlers.AssignTrip(db, assigner, hub, rdb))
				admin.GET("/trips", handlers.GetTrips(db))
				admin.GET("/available-drivers", handlers.GetAvailableDrivers(availability))
				admin.GET("/available-vehicles", handlers.GetAvailableVehicles(availability))
				admin.GET("/bookings/:id", handlers.GetBookingDetails(db))
				admin.POST("/locations", handlers.CreateLocation(db))
				admin.POST("/vehicle-types", handlers.CreateVehicleType(db))
				admin.POST("/vehicles", handlers.CreateVehicle(db))
				admin.GET("/users", handlers.GetUsers(db))
				admin.DELETE("/users/:id", handlers.DeleteUser(db))
				admin.GET("/fuel", handlers.GetFuelLogs(db))
			}

			dropdowns := protected.Group("/dropdowns")
			{
				dropdowns.GET("/vehicle-types", handlers.GetVehicleTypes(db))
				dropdowns.GET("/locations", handlers.GetLocations(db))
				dropdowns.GET("/drivers", middleware.RequireAdmin(), handlers.GetDrivers(db))
				dropdowns.GET("/vehicles", middleware.RequireAdmin(), handlers.GetVehicles(db))
			}

			driver := protected.Group("/driver")
			driver.Use(middleware.RequireRole("driver"))
			{
				driver.GET("/trips", handlers.GetDriverTrips(db))
				driver.GET("/trips/:bookingId", handlers.GetDriverBooking(db))
				driver.PUT("/trips/:bookingId", handlers.UpdateTripProgress(db, hub))
				driver.GET("/vehicle", handlers.GetMyVehicle(db))
				driver.POST("/fuel-log", handlers.CreateFuelLog(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logrus.Infof("Server running on :%s", port)
	if err := r.Run(":" + port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
