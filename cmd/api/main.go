package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/nivaancare/clinic-api/internal/application/service"
	"github.com/nivaancare/clinic-api/internal/config"
	"github.com/nivaancare/clinic-api/internal/infrastructure/database"
	"github.com/nivaancare/clinic-api/internal/infrastructure/repository"
	"github.com/nivaancare/clinic-api/internal/presentation/http/handler"
	"github.com/nivaancare/clinic-api/internal/presentation/http/routes"
	"github.com/nivaancare/clinic-api/pkg/email"
	"github.com/nivaancare/clinic-api/pkg/oauth"
	"github.com/nivaancare/clinic-api/pkg/printer"
	"github.com/nivaancare/clinic-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	centerRepo := repository.NewCenterRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	serviceItemRepo := repository.NewServiceItemRepository(db)
	billRepo := repository.NewBillRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	slitRepo := repository.NewSlitOrderRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.Email.FrontendURL,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, passwordResetRepo, jwtManager, emailService, googleOAuthService)
	centerService := service.NewCenterService(centerRepo)
	patientService := service.NewPatientService(patientRepo)
	serviceItemService := service.NewServiceItemService(serviceItemRepo)
	billService := service.NewBillService(billRepo, transactionRepo, patientRepo, serviceItemRepo, centerRepo, emailService)
	reportService := service.NewReportService(billRepo, transactionRepo)
	transactionService := service.NewTransactionService(transactionRepo)
	appointmentService := service.NewAppointmentService(appointmentRepo, patientRepo, userRepo)
	slitService := service.NewSlitOrderService(slitRepo, patientRepo, userRepo)
	dashboardService := service.NewDashboardService(analyticsRepo, patientRepo, appointmentRepo, slitRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	userService := service.NewUserService(userRepo, roleRepo, permissionRepo)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, billRepo, centerRepo, cfg.Printer.Type)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Center:      handler.NewCenterHandler(centerService),
		Patient:     handler.NewPatientHandler(patientService),
		ServiceItem: handler.NewServiceItemHandler(serviceItemService),
		Bill:        handler.NewBillHandler(billService),
		Transaction: handler.NewTransactionHandler(transactionService),
		Report:      handler.NewReportHandler(reportService),
		Appointment: handler.NewAppointmentHandler(appointmentService),
		SlitOrder:   handler.NewSlitOrderHandler(slitService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		Settings:    handler.NewSettingsHandler(settingsService),
		User:        handler.NewUserHandler(userService),
		Printer:     handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		CenterRepo:      centerRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
