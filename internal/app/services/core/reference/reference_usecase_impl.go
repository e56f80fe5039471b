package reference

import (
	"context"
	"strings"
	"sync"
	"virem-service/internal/app/config"
	"virem-service/internal/app/contracts"
	"virem-service/internal/app/services/core/registration"
	"virem-service/internal/pkg/constvars"
	"virem-service/internal/pkg/dto/responses"
	"virem-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type referenceUsecase struct {
	ReferenceData *config.ReferenceData
	Log           *zap.Logger
}

var (
	referenceUsecaseInstance contracts.ReferenceUsecase
	onceReferenceUsecase     sync.Once
)

func NewReferenceUsecase(referenceData *config.ReferenceData, logger *zap.Logger) contracts.ReferenceUsecase {
	onceReferenceUsecase.Do(func() {
		referenceUsecaseInstance = &referenceUsecase{
			ReferenceData: referenceData,
			Log:           logger,
		}
	})
	return referenceUsecaseInstance
}

func (uc *referenceUsecase) ListCountries(ctx context.Context) []responses.Country {
	countries := make([]responses.Country, 0, len(uc.ReferenceData.Countries))
	for _, country := range uc.ReferenceData.Countries {
		countries = append(countries, registration.CountryResponse(country))
	}
	return countries
}

func (uc *referenceUsecase) SearchSpecialties(ctx context.Context, query string) *responses.Specialties {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	specialties := utils.FilterSpecialties(uc.ReferenceData.Specialties, query)
	uc.Log.Debug("referenceUsecase.SearchSpecialties",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingResponseLengthKey, len(specialties)),
	)
	return &responses.Specialties{
		Query:       strings.TrimSpace(query),
		Specialties: specialties,
	}
}

func (uc *referenceUsecase) ListGenders(ctx context.Context) []string {
	genders := make([]string, len(uc.ReferenceData.Genders))
	copy(genders, uc.ReferenceData.Genders)
	return genders
}
