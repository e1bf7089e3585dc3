package main

import (
	"context"
	"log"
	"os"
	"time"

	"backend/internal/database"
	"backend/internal/gateway"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Church Management API
// @version         1.0
// @description     Membership, events, donations and payments backend with role-based access control.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Payment gateway client
	paystack := gateway.NewPaystackClient(gateway.Config{
		BaseURL:     os.Getenv("PAYSTACK_BASE_URL"),
		SecretKey:   os.Getenv("PAYSTACK_SECRET_KEY"),
		CallbackURL: os.Getenv("PAYSTACK_CALLBACK_URL"),
		Timeout:     15 * time.Second,
	})

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txm := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	pledgeRepo := repository.NewPledgeRepository(db)
	eventRepo := repository.NewEventRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	jurisdictionRepo := repository.NewJurisdictionRepository(db)
	contentRepo := repository.NewContentRepository(db)
	customTypeRepo := repository.NewCustomTypeRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)

	roleService := service.NewRoleService(roleRepo, userRepo, auditRepo, txm)
	authService := service.NewAuthService(userRepo, middleware.GetJWTSecret())
	userService := service.NewUserService(userRepo, roleRepo, auditRepo, txm)
	paymentService := service.NewPaymentService(paystack, txRepo, donationRepo, pledgeRepo, eventRepo, auditRepo, txm, wsHub)
	donationService := service.NewDonationService(donationRepo, pledgeRepo, userRepo, auditRepo, paymentService, txm)
	eventService := service.NewEventService(eventRepo, auditRepo, paymentService, txm)
	memberService := service.NewMemberService(memberRepo, customTypeRepo, jurisdictionRepo)
	jurisdictionService := service.NewJurisdictionService(jurisdictionRepo, memberRepo)
	contentService := service.NewContentService(contentRepo, txm)
	customTypeService := service.NewCustomTypeService(customTypeRepo)
	auditService := service.NewAuditService(auditRepo)
	dashboardService := service.NewDashboardService(statsRepo, userRepo)

	// Seed the permission catalog and default Super Admin role
	if err := roleService.SeedDefaults(context.Background()); err != nil {
		log.Fatalf("Failed to seed defaults: %v", err)
	}

	// Permission middleware consults the role engine
	middleware.InitPermissionMiddleware(roleService)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService)
	roleHandler := handler.NewRoleHandler(roleService)
	userHandler := handler.NewUserHandler(userService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	donationHandler := handler.NewDonationHandler(donationService)
	eventHandler := handler.NewEventHandler(eventService)
	memberHandler := handler.NewMemberHandler(memberService)
	jurisdictionHandler := handler.NewJurisdictionHandler(jurisdictionService)
	contentHandler := handler.NewContentHandler(contentService)
	customTypeHandler := handler.NewCustomTypeHandler(customTypeService)
	auditHandler := handler.NewAuditHandler(auditService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	root := router.Group("")
	authHandler.RegisterRoutes(root)
	roleHandler.RegisterRoutes(root)
	userHandler.RegisterRoutes(root)
	paymentHandler.RegisterRoutes(root)
	donationHandler.RegisterRoutes(root)
	eventHandler.RegisterRoutes(root)
	memberHandler.RegisterRoutes(root)
	jurisdictionHandler.RegisterRoutes(root)
	contentHandler.RegisterRoutes(root)
	customTypeHandler.RegisterRoutes(root)
	auditHandler.RegisterRoutes(root)
	dashboardHandler.RegisterRoutes(root)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
