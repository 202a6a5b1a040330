package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"clinic-connect/authentication"
	"clinic-connect/configuration"
	"clinic-connect/controllers"
)

func SetupRoutes() *gin.Engine {
	//creates a new Gin engine instance with default configurations
	r := gin.Default()

	if len(configuration.App.Server.Cors) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     configuration.App.Server.Cors,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
			AllowCredentials: true,
			MaxAge:           300 * time.Second,
		}))
	}

	// session routes
	r.POST("/users/login", controllers.Login)
	r.GET("/users/logout", controllers.Logout)

	// public booking flow: new patients book before they have an account
	bookingGroup := r.Group("/booking")
	{
		bookingGroup.POST("/start", controllers.StartBooking)
		bookingGroup.POST("/:id/personal", controllers.SubmitPersonalStage)
		bookingGroup.POST("/:id/medical", controllers.SubmitMedicalStage)
		bookingGroup.POST("/:id/details", controllers.SubmitDetailsStage)
		bookingGroup.GET("/:id/slots", controllers.BookingAvailability)
		bookingGroup.POST("/:id/slot", controllers.SelectBookingSlot)
		bookingGroup.POST("/:id/confirm", controllers.ConfirmBooking)
		bookingGroup.POST("/:id/payment/success", controllers.PaymentSuccess)
		bookingGroup.POST("/:id/reset", controllers.ResetBooking)
	}

	// availability lookup used by both flows
	r.GET("/patients/:token/available-slots", controllers.CheckAvailability)

	// admin routes
	admin := r.Group("/admin")
	admin.Use(authentication.AuthMiddleware(), authentication.AdminOnly())
	{
		admin.GET("/consultations", controllers.ListConsultations)
		admin.GET("/consultations/:token", controllers.GetConsultation)

		admin.POST("/reschedule/:token/date", controllers.RescheduleSelectDate)
		admin.POST("/reschedule/:token/slot", controllers.RescheduleSelectSlot)
		admin.POST("/reschedule/:token/submit", controllers.RescheduleSubmit)

		admin.GET("/prescriptions/:token", controllers.GetPrescriptionData)
		admin.POST("/treatment_histories", controllers.AddTreatmentHistory)
		admin.POST("/prescription_notes", controllers.AddPrescriptionNote)

		admin.PUT("/schedules/:token/toggle_status", controllers.ToggleScheduleStatus)
		admin.PUT("/schedules/update_by_day", controllers.UpdateScheduleByDay)
		admin.PUT("/schedules/update_by_date", controllers.UpdateScheduleByDate)

		admin.GET("/meeting", controllers.MeetingStatus)
		admin.POST("/meeting/open", controllers.OpenMeeting)
		admin.POST("/meeting/close", controllers.CloseMeeting)
	}

	return r
}
