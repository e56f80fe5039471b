package routers

import (
	"fmt"
	"net/http"
	"virem-service/internal/app/config"
	"virem-service/internal/app/delivery/http/controllers"
	"virem-service/internal/app/delivery/http/middlewares"
	"virem-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	referenceController *controllers.ReferenceController,
	registrationController *controllers.RegistrationController,
	authController *controllers.AuthController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   internalConfig.App.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", constvars.HeaderXDeviceID, constvars.HeaderXRequestID},
		ExposedHeaders:   []string{constvars.HeaderXRequestID, constvars.HeaderRetryAfter},
		AllowCredentials: false,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(middlewares.GlobalRateLimit())
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)
	router.Use(middlewares.ErrorHandler)
	router.Use(middlewares.BodyLimit)

	// one budget shared by every route that reaches a backend verification
	deviceLimiter := middlewares.DeviceRateLimiter()

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/reference", func(r chi.Router) {
				attachReferenceRoutes(r, referenceController)
			})

			r.Route("/registrations", func(r chi.Router) {
				attachRegistrationRoutes(r, deviceLimiter, registrationController)
			})

			r.Route("/auth", func(r chi.Router) {
				attachAuthRoutes(r, middlewares, deviceLimiter, authController)
			})
		})
	})
}
