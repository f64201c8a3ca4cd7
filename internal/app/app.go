package app

import (
	"log"
	"net/http"

	"rideshare/docs"
	"rideshare/internal/config"
	"rideshare/internal/domain"
	"rideshare/internal/domain/notification"
	"rideshare/internal/domain/subscription"
	"rideshare/internal/domain/verification"
	"rideshare/internal/middleware"
	"rideshare/internal/modules/admin"
	"rideshare/internal/modules/auth"
	"rideshare/internal/modules/booking"
	"rideshare/internal/modules/payment"
	"rideshare/internal/modules/rating"
	"rideshare/internal/modules/trip"
	jwtsvc "rideshare/internal/pkg/jwt"
	"rideshare/internal/pkg/validator"
	"rideshare/internal/repository"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// App holds the HTTP router and the services that background jobs reuse.
type App struct {
	Router        *gin.Engine
	JWT           *jwtsvc.Service
	Hub           *notification.Hub
	Bookings      *booking.Service
	Subscriptions *subscription.Service
	Notifications *notification.Service
}

// Models lists every table the API needs.
func Models() []any {
	models := repository.Models()
	models = append(models, subscription.Models()...)
	models = append(models, &notification.Notification{}, &verification.DriverVerification{})
	return models
}

// Services builds the domain layer without HTTP. Background commands use it directly.
func Services(cfg *config.Config, db *gorm.DB) *App {
	hub := notification.NewHub(cfg.CORSAllowedOrigins)
	notifSvc := notification.NewService(notification.NewRepository(db), hub)

	userRepo := repository.NewUserRepository(db)
	tripRepo := repository.NewTripRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	subSvc := subscription.NewService(subscription.NewRepository(db), userRepo, notifSvc, subscription.Settings{
		TrialDays:        cfg.TrialDays,
		SubscriptionDays: cfg.SubscriptionDays,
		DriverPrice:      cfg.DriverSubscriptionPrice,
		PassengerPrice:   cfg.PassengerSubscriptionPrice,
	}, log.Printf)

	bookingSvc := booking.NewService(bookingRepo, tripRepo, userRepo, subSvc, notifSvc, cfg.NotifyTimeout, log.Printf)

	return &App{
		JWT:           jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL),
		Hub:           hub,
		Bookings:      bookingSvc,
		Subscriptions: subSvc,
		Notifications: notifSvc,
	}
}

// New wires repositories, services and handlers into a gin router.
func New(cfg *config.Config, db *gorm.DB) *App {
	validator.RegisterWithGin()

	a := Services(cfg, db)

	userRepo := repository.NewUserRepository(db)
	tripRepo := repository.NewTripRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	verificationSvc := verification.NewService(verification.NewRepository(db), a.Notifications, log.Printf)

	authHandler := auth.NewHandler(auth.NewService(userRepo, a.Subscriptions, ratingRepo, a.Notifications, a.JWT, log.Printf))
	tripHandler := trip.NewHandler(trip.NewService(tripRepo, a.Subscriptions, verificationSvc, cfg.RequireDriverVerification, log.Printf))
	bookingHandler := booking.NewHandler(a.Bookings)
	paymentHandler := payment.NewHandler(payment.NewService(bookingRepo, paymentRepo, userRepo, a.Notifications, cfg.NotifyTimeout, log.Printf))
	ratingHandler := rating.NewHandler(rating.NewService(ratingRepo, bookingRepo, log.Printf))
	subscriptionHandler := subscription.NewHandler(a.Subscriptions)
	verificationHandler := verification.NewHandler(verificationSvc)
	notificationHandler := notification.NewHandler(a.Notifications, a.Hub)
	adminHandler := admin.NewHandler(admin.NewService(userRepo, tripRepo, bookingRepo, paymentRepo, verificationSvc, log.Printf))

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	docs.SwaggerInfo.BasePath = "/api/v1"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		tripHandler.RegisterPublicRoutes(v1)

		// websocket, token in the query string
		ws := v1.Group("", middleware.QueryTokenAuth(a.JWT))

		protected := v1.Group("", middleware.JWTAuth(a.JWT))
		{
			authHandler.RegisterProtectedRoutes(protected)
			tripHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)
			ratingHandler.RegisterRoutes(protected)
			subscription.RegisterRoutes(protected, subscriptionHandler)
			notification.RegisterRoutes(protected, ws, notificationHandler)

			driver := protected.Group("", middleware.RequireRole(domain.RoleDriver))
			verification.RegisterDriverRoutes(driver, verificationHandler)
		}

		adminGroup := v1.Group("/admin", middleware.JWTAuth(a.JWT), middleware.AdminOnly())
		{
			adminHandler.RegisterRoutes(adminGroup)
			paymentHandler.RegisterAdminRoutes(adminGroup)
			verification.RegisterAdminRoutes(adminGroup, verificationHandler)
			subscription.RegisterAdminRoutes(adminGroup, subscriptionHandler)
		}
	}

	a.Router = r
	return a
}
