package controllers

import (
	"net/http"
	"sync"
	"virem-service/internal/app/contracts"
	"virem-service/internal/pkg/constvars"
	"virem-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type ReferenceController struct {
	Log              *zap.Logger
	ReferenceUsecase contracts.ReferenceUsecase
}

var (
	referenceControllerInstance *ReferenceController
	onceReferenceController     sync.Once
)

func NewReferenceController(logger *zap.Logger, referenceUsecase contracts.ReferenceUsecase) *ReferenceController {
	onceReferenceController.Do(func() {
		referenceControllerInstance = &ReferenceController{
			Log:              logger,
			ReferenceUsecase: referenceUsecase,
		}
	})
	return referenceControllerInstance
}

func (ctrl *ReferenceController) ListCountries(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "ReferenceController.ListCountries")
	if !ok {
		return
	}

	result := ctrl.ReferenceUsecase.ListCountries(r.Context())

	ctrl.Log.Info("ReferenceController.ListCountries succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingResponseLengthKey, len(result)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CountriesGetSuccess, result)
}

func (ctrl *ReferenceController) SearchSpecialties(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "ReferenceController.SearchSpecialties")
	if !ok {
		return
	}
	query := r.URL.Query().Get(constvars.URLQueryParamSearch)

	result := ctrl.ReferenceUsecase.SearchSpecialties(r.Context(), query)

	ctrl.Log.Info("ReferenceController.SearchSpecialties succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueryKey, result.Query),
		zap.Int(constvars.LoggingResponseLengthKey, len(result.Specialties)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SpecialtiesGetSuccess, result)
}

func (ctrl *ReferenceController) ListGenders(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestIDFrom(ctrl.Log, w, r, "ReferenceController.ListGenders"); !ok {
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GendersGetSuccess, ctrl.ReferenceUsecase.ListGenders(r.Context()))
}
