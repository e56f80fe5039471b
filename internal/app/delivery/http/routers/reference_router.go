package routers

import (
	"virem-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachReferenceRoutes(router chi.Router, referenceController *controllers.ReferenceController) {
	router.Get("/countries", referenceController.ListCountries)
	router.Get("/specialties", referenceController.SearchSpecialties)
	router.Get("/genders", referenceController.ListGenders)
}
