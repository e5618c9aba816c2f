package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the public widget endpoint and the dashboard API.
func SetupRoutes(r *gin.Engine, widget *WidgetHandler, admin *AdminHandler, auth *AuthHandler, middleware *Middleware) {
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method Not Allowed"})
	})

	// Apply Security Middleware
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(1 << 20)) // 1MB max request size
	r.Use(middleware.CORSMiddleware())

	// Public widget endpoint
	r.POST("/widget/chat", middleware.RateLimitPerIP(2, 5), widget.HandleWidget)

	// Public Auth Routes
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/login", auth.Login)
		authGroup.POST("/register", auth.Register)
	}

	// Protected Dashboard Routes
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	api.Use(middleware.RateLimitPerUser(5, 10))
	{
		api.GET("/tenant", admin.GetTenant)
		api.PUT("/tenant/config", admin.UpdateConfig)
		api.POST("/tenant/products", admin.UpsertProduct)
		api.DELETE("/tenant/products/:id", admin.DeleteProduct)
		api.GET("/tenant/usage", admin.GetUsage)
		api.GET("/tenant/leads", admin.GetLeads)

		// WhatsApp alert-channel pairing
		api.GET("/whatsapp/qr", admin.GetWhatsAppQR)
		api.GET("/whatsapp/status", admin.GetWhatsAppStatus)
		api.POST("/whatsapp/connect", admin.ConnectWhatsApp)
		api.POST("/whatsapp/logout", admin.LogoutWhatsApp)
	}
}
