package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/clippr-app/clippr-api/internal/audit"
	"github.com/clippr-app/clippr-api/internal/cache"
	"github.com/clippr-app/clippr-api/internal/config"
	"github.com/clippr-app/clippr-api/internal/handlers"
	infraRepo "github.com/clippr-app/clippr-api/internal/infra/repository"
	"github.com/clippr-app/clippr-api/internal/media"
	"github.com/clippr-app/clippr-api/internal/middleware"
	ucBooking "github.com/clippr-app/clippr-api/internal/usecase/booking"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	availCache := cache.NewAvailability(rdb, cfg.AvailabilityTTL)
	mediaStorage := media.NewStorage(cfg)

	// ======================================================
	// 🧠 USE CASES — BOOKING
	// ======================================================
	availabilityUC := ucBooking.NewGetAvailability(bookingRepo, availCache)

	bookUC := ucBooking.NewBookSlot(
		bookingRepo,
		auditDispatcher,
		availCache,
	)

	cancelUC := ucBooking.NewCancelReservation(
		bookingRepo,
		auditDispatcher,
		availCache,
	)

	completeUC := ucBooking.NewCompleteReservation(
		bookingRepo,
		auditDispatcher,
	)

	agendaUC := ucBooking.NewListAgenda(bookingRepo)
	myReservationsUC := ucBooking.NewListCustomerReservations(bookingRepo)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	barbershopHandler := handlers.NewBarbershopHandler(db)

	barberHandler := handlers.NewBarberHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	scheduleHandler := handlers.NewScheduleHandler(db)
	mediaHandler := handlers.NewMediaHandler(db, mediaStorage)

	publicHandler := handlers.NewPublicHandler(db, availabilityUC)

	bookingHandler := handlers.NewBookingHandler(
		bookUC,
		cancelUC,
		myReservationsUC,
	)

	agendaHandler := handlers.NewAgendaHandler(
		db,
		agendaUC,
		cancelUC,
		completeUC,
	)

	reviewHandler := handlers.NewReviewHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/barbershops", publicHandler.ListBarbershops)
			publicAPI.GET("/:slug", publicHandler.GetBarbershop)
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.GET("/:slug/reviews", reviewHandler.ListForShop)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/register-barbershop", authHandler.RegisterBarbershop)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// BOOKINGS (cliente)
			// ------------------------------
			secured.POST("/bookings", bookingHandler.Create)
			secured.DELETE("/bookings/:id", bookingHandler.Cancel)
			secured.GET("/me/bookings", bookingHandler.ListMine)
			secured.POST("/bookings/:id/review", reviewHandler.Create)

			// ------------------------------
			// ÁREA DA BARBEARIA (owner)
			// ------------------------------
			owner := secured.Group("/me")
			owner.Use(middleware.RequireOwner())
			{
				owner.GET("/barbershop", barbershopHandler.GetMine)
				owner.PATCH("/barbershop", barbershopHandler.UpdateMine)

				owner.POST("/barbershop/logo", mediaHandler.UploadLogo)
				owner.POST("/barbershop/cover", mediaHandler.UploadCover)

				owner.GET("/barbers", barberHandler.List)
				owner.POST("/barbers", barberHandler.Create)
				owner.PATCH("/barbers/:barberId", barberHandler.Update)

				owner.GET("/services", serviceHandler.List)
				owner.POST("/services", serviceHandler.Create)
				owner.PATCH("/services/:id", serviceHandler.Update)

				owner.GET("/barbers/:barberId/working-hours", scheduleHandler.GetWorkingHours)
				owner.PUT("/barbers/:barberId/working-hours", scheduleHandler.UpdateWorkingHours)

				owner.GET("/barbers/:barberId/time-off", scheduleHandler.ListTimeOff)
				owner.POST("/barbers/:barberId/time-off", scheduleHandler.CreateTimeOff)
				owner.DELETE("/barbers/:barberId/time-off/:id", scheduleHandler.DeleteTimeOff)

				owner.GET("/agenda", agendaHandler.ListByDate)
				owner.GET("/agenda/month", agendaHandler.ListByMonth)
				owner.PATCH("/agenda/:id/cancel", agendaHandler.Cancel)
				owner.PATCH("/agenda/:id/complete", agendaHandler.Complete)

				owner.PATCH("/reviews/:id/reply", reviewHandler.Reply)

				owner.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
