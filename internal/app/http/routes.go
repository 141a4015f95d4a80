package routes

import (
	adminapi "streaming-app/internal/api/admin"
	authapi "streaming-app/internal/api/auth"
	catalogapi "streaming-app/internal/api/catalog"
	"streaming-app/internal/api/entitlements"
	"streaming-app/internal/api/payments"
	usersapi "streaming-app/internal/api/users"
	"streaming-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/auth/google", authapi.GoogleStart)
	r.GET("/auth/google/callback", authapi.GoogleCallback)

	// Catalog is public, read-only.
	r.GET("/titles", catalogapi.ListTitles)
	r.GET("/titles/:slug", catalogapi.GetTitle)

	// Resolution works for anonymous callers too; the verdict tells the
	// frontend whether to route to sign-in or to the payment flow.
	public := r.Group("/")
	public.Use(middleware.OptionalAuth())
	public.GET("/entitlements/:slug", entitlements.Resolve)
	public.GET("/watch/:slug", middleware.RequireEntitlement(), catalogapi.Watch)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(), middleware.SanitizeAndCleanInputMiddleware())
	auth.GET("/me", usersapi.GetCurrentUser)
	auth.GET("/payments", payments.GetPaymentHistory)
	auth.POST("/payments/session", payments.CreateSession)
	auth.POST("/payments/callback", payments.Callback)
	auth.DELETE("/payments/session/:transactionId", payments.AbandonSession)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/payments", adminapi.ListAllPayments)
	admin.GET("/reconciliation", adminapi.ListReconciliationCases)
}
