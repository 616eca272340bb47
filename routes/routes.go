package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pension-backend/config"
	"pension-backend/controllers"
	"pension-backend/middleware"
)

// Controllers groups the handlers mounted by SetupRouter. Admin may be nil,
// in which case the operator routes are not registered.
type Controllers struct {
	Rooms    *controllers.RoomController
	Bookings *controllers.BookingController
	Site     *controllers.SiteController
	Admin    *controllers.AdminController
}

func SetupRouter(s *config.Settings, log logrus.FieldLogger, h Controllers) *gin.Engine {
	controllers.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(log))
	r.MaxMultipartMemory = 8 << 20
	if s.StorageDriver == "disk" {
		r.Static("/uploads", s.UploadDir)
	}

	origins := s.AllowedOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Idempotency-Key", "X-Admin-Key", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Idempotency-Key", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", h.Rooms.GetRooms)
			rooms.GET("/pick", h.Rooms.PickRooms)
			rooms.GET("/:id", h.Rooms.GetRoom)
			rooms.GET("/:id/availability", h.Bookings.RoomAvailability)
		}
		api.GET("/floors/:floor", h.Rooms.GetFloor)

		bookings := api.Group("/bookings")
		{
			bookings.POST("", h.Bookings.CreateBooking)
			bookings.POST("/quote", h.Bookings.Quote)
		}
		api.GET("/payments/bank-details", h.Site.GetBankDetails)

		api.GET("/room-media", h.Site.GetRoomMedia)
		api.GET("/reviews/featured", h.Site.GetFeaturedReviews)
		api.GET("/contact-info", h.Site.GetContactInfo)
		api.GET("/social-links", h.Site.GetSocialLinks)
		api.GET("/services-gallery", h.Site.GetServicesGallery)
		api.GET("/settings/hotel", h.Site.GetHotelSettings)
		api.POST("/contact-messages", h.Site.CreateContactMessage)

		if h.Admin != nil && s.AdminAPIKey != "" {
			admin := api.Group("/admin", middleware.RequireAdminKey(s.AdminAPIKey))
			{
				admin.POST("/payments/:id/verify", h.Admin.VerifyPayment)
				admin.POST("/payments/:id/reject", h.Admin.RejectPayment)
				admin.POST("/bookings/:id/checkout", h.Admin.CheckoutBooking)
				admin.PUT("/settings/hotel", h.Admin.UpdateHotelSettings)
			}
		}
	}

	return r
}
