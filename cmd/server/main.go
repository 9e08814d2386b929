// @title           Tienda Personalizados API
// @version         1.0.0
// @description     Storefront API for custom and personalized products. Customers browse the catalog, submit order requests and follow progress through an opaque tracking link; staff manage orders, reference images and inventory.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"log"
	"net/http"
	"net/url"

	"tienda-backend/docs"
	"tienda-backend/internal/config"
	"tienda-backend/internal/database"
	"tienda-backend/internal/handlers"
	"tienda-backend/internal/middleware"
	"tienda-backend/internal/realtime"
	"tienda-backend/internal/session"
	"tienda-backend/internal/storage"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with the deployed host
	if cfg.BaseURL != "" {
		if baseURL, err := url.Parse(cfg.BaseURL); err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	// Run migrations before opening the main pool
	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	if err := migrator.Run(); err != nil {
		migrator.Close()
		log.Fatalf("Migration failed: %v", err)
	}
	migrator.Close()
	log.Println("Migrations completed successfully")

	db, err := database.NewClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	storageClient, err := storage.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}

	realtimeClient, err := realtime.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey)
	if err != nil {
		log.Fatalf("Failed to initialize realtime client: %v", err)
	}

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.Production())

	catalogHandler := handlers.NewCatalogHandler(db)
	ordersHandler := handlers.NewOrdersHandler(db, sessions, cfg.BaseURL)
	trackingHandler := handlers.NewTrackingHandler(db)
	adminHandler := handlers.NewAdminHandler(db, storageClient, realtimeClient, cfg.Site)

	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// Customer routes
	router.GET("/", catalogHandler.Home)
	router.GET("/catalogo/", catalogHandler.ListCatalog)
	router.GET("/producto/:id/", catalogHandler.GetProduct)
	router.GET("/solicitar-pedido/", ordersHandler.OrderForm)
	router.POST("/solicitar-pedido/", ordersHandler.SubmitOrder)
	router.GET("/pedido-exitoso/", ordersHandler.Confirmation)
	router.GET("/seguimiento/:token/", trackingHandler.Track)

	// Staff routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.StaffAuth(cfg))

	admin.GET("/site", adminHandler.Site)

	admin.GET("/orders", adminHandler.ListOrders)
	admin.GET("/orders/:order_id", adminHandler.GetOrder)
	admin.PATCH("/orders/:order_id", adminHandler.UpdateOrderDetails)
	admin.PATCH("/orders/:order_id/status", adminHandler.UpdateOrderStatus)
	admin.DELETE("/orders/:order_id", adminHandler.DeleteOrder)
	admin.POST("/orders/:order_id/images", adminHandler.UploadImages)
	admin.DELETE("/images/:image_id", adminHandler.DeleteImage)

	admin.POST("/categories", adminHandler.CreateCategory)
	admin.POST("/products", adminHandler.CreateProduct)
	admin.PATCH("/products/:product_id", adminHandler.UpdateProduct)

	admin.GET("/supplies", adminHandler.ListSupplies)
	admin.POST("/supplies", adminHandler.CreateSupply)
	admin.PATCH("/supplies/:supply_id", adminHandler.UpdateSupply)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
