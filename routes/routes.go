package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"quitcoach/handlers"
	"quitcoach/middleware"
	"quitcoach/models"
)

// RegisterTimeSlotRoutes registers the catalog endpoint.
func RegisterTimeSlotRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/time-slots", hb.ListTimeSlotsHandler)
}

// RegisterScheduleRoutes registers coach availability endpoints.
func RegisterScheduleRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	schedules := api.Group("/schedules")
	{
		schedules.GET("/week", hb.GetWeekHandler)

		coach := schedules.Group("")
		coach.Use(middleware.RequireRole(models.RoleCoach))
		coach.POST("", hb.SetupSchedulesHandler)
		coach.DELETE("/:date/:timeSlotId", hb.WithdrawScheduleHandler)
	}
}

// RegisterAppointmentRoutes registers booking and appointment query endpoints.
func RegisterAppointmentRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	appointments := api.Group("/appointments")
	{
		appointments.POST("", hb.CreateAppointmentHandler)
		appointments.GET("/coach-appointments", middleware.RequireRole(models.RoleCoach), hb.CoachAppointmentsHandler)
		appointments.GET("/member-appointments", middleware.RequireRole(models.RoleMember), hb.MemberAppointmentsHandler)

		appointments.GET("/:id", hb.GetAppointmentHandler)
		appointments.PATCH("/:id", hb.UpdateAppointmentHandler)
		appointments.POST("/:id/status", hb.TransitionAppointmentHandler)
		appointments.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), hb.DeleteAppointmentHandler)
	}
}

// RegisterHealthRoute registers the health and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)

	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())
	RegisterTimeSlotRoutes(api, hb)
	RegisterScheduleRoutes(api, hb)
	RegisterAppointmentRoutes(api, hb)
}
