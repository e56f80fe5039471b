package routers

import (
	"virem-service/internal/app/delivery/http/controllers"
	"virem-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachRegistrationRoutes(router chi.Router, deviceLimiter *middlewares.DeviceRateLimiter, registrationController *controllers.RegistrationController) {
	router.Post("/", registrationController.Start)
	router.Route("/{registration_id}", func(r chi.Router) {
		r.Get("/", registrationController.GetState)
		r.Delete("/", registrationController.Abandon)
		r.Post("/profile", registrationController.SelectProfile)
		r.Post("/photo", registrationController.UploadDoctorPhoto)
		r.With(deviceLimiter.Limit).Post("/personal-data", registrationController.SubmitPersonalData)
		r.With(deviceLimiter.Limit).Post("/credentials", registrationController.SubmitCredentials)
	})
}
