package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nivaancare/clinic-api/internal/config"
	domainRepo "github.com/nivaancare/clinic-api/internal/domain/repository"
	"github.com/nivaancare/clinic-api/internal/presentation/http/handler"
	"github.com/nivaancare/clinic-api/internal/presentation/http/middleware"
	"github.com/nivaancare/clinic-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	Center      *handler.CenterHandler
	Patient     *handler.PatientHandler
	ServiceItem *handler.ServiceItemHandler
	Bill        *handler.BillHandler
	Transaction *handler.TransactionHandler
	Report      *handler.ReportHandler
	Appointment *handler.AppointmentHandler
	SlitOrder   *handler.SlitOrderHandler
	Dashboard   *handler.DashboardHandler
	Settings    *handler.SettingsHandler
	User        *handler.UserHandler
	Printer     *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	CenterRepo      domainRepo.CenterRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.CenterMiddleware(deps.CenterRepo))

		// Per-center rate limiter
		rateLimiter := middleware.NewCenterRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Settings
	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", h.Settings.UpdateSettings)
	protected.POST("/settings/reset", h.Settings.ResetSettings)

	// Dashboard
	protected.GET("/dashboard", middleware.RequirePermission("view-dashboard"), h.Dashboard.GetStats)

	// Centers
	registerCenterRoutes(protected, h)

	// Patients
	registerPatientRoutes(protected, h)

	// Service catalog
	registerServiceItemRoutes(protected, h)

	// Bills
	registerBillRoutes(protected, h, deps)

	// Payment ledger
	registerTransactionRoutes(protected, h)

	// Appointments
	registerAppointmentRoutes(protected, h)

	// SLIT orders
	registerSlitRoutes(protected, h)

	// Reports
	registerReportRoutes(protected, h)

	// Users (Admin)
	registerUserRoutes(protected, h)

	// Roles (Admin)
	registerRoleRoutes(protected, h)

	// Permissions (Admin)
	registerPermissionRoutes(protected, h)

	// Printer
	registerPrinterRoutes(protected, h)
}

func registerCenterRoutes(protected *gin.RouterGroup, h *Handlers) {
	centers := protected.Group("/centers")
	{
		centers.GET("", h.Center.ListCenters)
		centers.POST("", middleware.RequirePermission("manage-centers"), h.Center.CreateCenter)
		centers.GET("/current", h.Center.GetCurrentCenter)
		centers.PUT("/current", middleware.RequirePermission("manage-centers"), h.Center.UpdateCenter)
		centers.GET("/current/members", h.Center.ListMembers)
		centers.POST("/current/members", middleware.RequirePermission("manage-centers"), h.Center.InviteMember)
		centers.PUT("/current/members/:user_id", middleware.RequirePermission("manage-centers"), h.Center.UpdateMemberRole)
		centers.DELETE("/current/members/:user_id", middleware.RequirePermission("manage-centers"), h.Center.RemoveMember)
	}
}

func registerPatientRoutes(protected *gin.RouterGroup, h *Handlers) {
	patients := protected.Group("/patients")
	patients.Use(middleware.RequirePermission("manage-patients"))
	{
		patients.GET("", h.Patient.List)
		patients.POST("", h.Patient.Create)
		patients.GET("/mrn/:mrn", h.Patient.GetByMRN)
		patients.GET("/:id", h.Patient.Get)
		patients.PUT("/:id", h.Patient.Update)
		patients.DELETE("/:id", h.Patient.Delete)
	}
}

func registerServiceItemRoutes(protected *gin.RouterGroup, h *Handlers) {
	services := protected.Group("/services")
	services.Use(middleware.RequirePermission("manage-services"))
	{
		services.GET("", h.ServiceItem.List)
		services.POST("", h.ServiceItem.Create)
		services.GET("/:id", h.ServiceItem.Get)
		services.PUT("/:id", h.ServiceItem.Update)
		services.DELETE("/:id", h.ServiceItem.Delete)
	}
}

func registerBillRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	bills := protected.Group("/bills")
	bills.Use(middleware.RequirePermission("manage-bills"))
	{
		bills.GET("", h.Bill.List)
		// Bill creation uses idempotency middleware to prevent duplicates
		bills.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Bill.Create)
		bills.GET("/:id", h.Bill.Get)
		bills.POST("/:id/payments", h.Bill.RecordPayment)
		bills.POST("/:id/refund/preview", middleware.RequirePermission("refund-bills"), h.Bill.PreviewRefund)
		bills.POST("/:id/refund", middleware.RequirePermission("refund-bills"), h.Bill.EditWithRefund)
		bills.POST("/:id/cancel", middleware.RequirePermission("refund-bills"), h.Bill.Cancel)
	}
}

func registerAppointmentRoutes(protected *gin.RouterGroup, h *Handlers) {
	appointments := protected.Group("/appointments")
	appointments.Use(middleware.RequirePermission("manage-appointments"))
	{
		appointments.GET("", h.Appointment.List)
		appointments.POST("", h.Appointment.Book)
		appointments.GET("/doctors", h.Appointment.ListDoctors)
		appointments.GET("/:id", h.Appointment.Get)
		appointments.PUT("/:id/reschedule", h.Appointment.Reschedule)
		appointments.PUT("/:id/status", h.Appointment.UpdateStatus)
		appointments.POST("/:id/cancel", h.Appointment.Cancel)
	}
}

func registerSlitRoutes(protected *gin.RouterGroup, h *Handlers) {
	slitOrders := protected.Group("/slit-orders")
	slitOrders.Use(middleware.RequirePermission("manage-slit-orders"))
	{
		slitOrders.GET("", h.SlitOrder.List)
		slitOrders.POST("", h.SlitOrder.Create)
		slitOrders.GET("/stats", h.SlitOrder.Stats)
		slitOrders.GET("/:id", h.SlitOrder.Get)
		slitOrders.PUT("/:id/status", h.SlitOrder.UpdateStatus)
		slitOrders.PUT("/:id/bill", h.SlitOrder.LinkBill)
	}
}

func registerTransactionRoutes(protected *gin.RouterGroup, h *Handlers) {
	transactions := protected.Group("/transactions")
	transactions.Use(middleware.RequirePermission("view-collections"))
	{
		transactions.GET("", h.Transaction.List)
		transactions.GET("/:id", h.Transaction.Get)
		transactions.GET("/receipt/:number", h.Transaction.GetByReceipt)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	reports.Use(middleware.RequirePermission("view-collections"))
	{
		reports.GET("/collections", h.Report.GetCollections)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission("manage-users"))
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.PUT("/:id/roles", h.User.UpdateRoles)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerRoleRoutes(protected *gin.RouterGroup, h *Handlers) {
	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission("manage-users"))
	{
		roles.GET("", h.User.ListRoles)
	}
}

func registerPermissionRoutes(protected *gin.RouterGroup, h *Handlers) {
	permissions := protected.Group("/permissions")
	permissions.Use(middleware.RequirePermission("manage-users"))
	{
		permissions.GET("", h.User.ListPermissions)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
		printerGroup.POST("/receipt", h.Printer.PrintReceipt)
	}
}
