package routers

import (
	"virem-service/internal/app/delivery/http/controllers"
	"virem-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachAuthRoutes(router chi.Router, middlewares *middlewares.Middlewares, deviceLimiter *middlewares.DeviceRateLimiter, authController *controllers.AuthController) {
	router.Group(func(r chi.Router) {
		r.Use(middlewares.RequireDeviceID)
		r.With(deviceLimiter.Limit).Post("/login", authController.Login)
		r.Post("/logout", authController.Logout)
		r.Get("/session", authController.GetSession)
	})

	router.Route("/recovery", func(r chi.Router) {
		r.With(deviceLimiter.Limit).Post("/", authController.RequestRecoveryCode)
		r.Get("/{recovery_id}", authController.GetRecoveryState)
		r.With(deviceLimiter.Limit).Post("/{recovery_id}/verify", authController.VerifyRecoveryCode)
		r.Post("/{recovery_id}/password", authController.SetNewPassword)
	})
}
