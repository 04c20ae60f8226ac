package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"wiz-homes/controllers"
	"wiz-homes/middleware"
	"wiz-homes/services"
)

// Handlers bundles what the router needs to mount every endpoint.
type Handlers struct {
	Rooms         *controllers.RoomController
	Bookings      *controllers.BookingController
	Auth          *controllers.AuthController
	Settings      *controllers.SettingsController
	Admin         *controllers.AdminController
	Notifications *controllers.NotificationController
	Gate          *services.AuthGate

	CorsOrigins []string
	UploadDir   string
}

func SetupRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	if h.UploadDir != "" {
		r.Static("/uploads", h.UploadDir)
	}

	origins := h.CorsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireSession := middleware.RequireSession(h.Gate)

	api := r.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", h.Rooms.ListRooms)
			// must stay ahead of /:id
			rooms.GET("/featured", h.Rooms.FeaturedRooms)
			rooms.GET("/:id", h.Rooms.GetRoom)
			rooms.GET("/:id/quote", h.Rooms.QuoteRoom)
			rooms.POST("/:id/reserve", h.Rooms.ReserveRoom)
		}

		api.GET("/bookings", requireSession, h.Bookings.GetBookings)

		settings := api.Group("/settings")
		{
			settings.GET("/theme", h.Settings.GetTheme)
			settings.PUT("/theme", h.Settings.UpdateTheme)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/logout", requireSession, h.Auth.Logout)
			auth.GET("/me", requireSession, h.Auth.Me)
		}

		api.GET("/routes/resolve", middleware.OptionalSession(h.Gate), h.Auth.ResolveRoute)

		admin := api.Group("/admin", requireSession)
		{
			admin.GET("/workspace", h.Admin.GetWorkspace)
			admin.GET("/dashboard", h.Admin.Dashboard)
			admin.PUT("/tab", h.Admin.SetTab)
			admin.POST("/records", h.Admin.AddRecord)

			admin.POST("/rooms/:id/edit", h.Admin.BeginEdit)
			admin.POST("/rooms/:id/view", h.Admin.BeginView)
			admin.POST("/rooms/:id/status", h.Admin.BeginStatusChange)
			admin.DELETE("/rooms/:id", h.Admin.DeleteRoom)
			admin.DELETE("/bookings/:id", h.Admin.DeleteBooking)

			admin.PATCH("/editing", h.Admin.UpdateDraft)
			admin.DELETE("/editing", h.Admin.CancelEdit)
			admin.POST("/editing/submit", h.Admin.SubmitEdit)
			admin.POST("/editing/gallery", h.Admin.AddGalleryURL)
			admin.POST("/editing/gallery/upload", h.Admin.UploadGalleryImage)
			admin.DELETE("/editing/gallery/:index", h.Admin.RemoveGalleryImage)
			admin.POST("/editing/image", h.Admin.ReplacePrimaryImage)

			admin.PUT("/status", h.Admin.ChangeStatus)
			admin.DELETE("/status", h.Admin.CancelStatusChange)
			admin.DELETE("/viewing", h.Admin.CloseView)
			admin.DELETE("/notification", h.Admin.DismissNotification)

			admin.GET("/notifications/ws", h.Notifications.Stream)
		}
	}

	return r
}
