package contracts

import (
	"context"
	"virem-service/internal/pkg/dto/requests"
	"virem-service/internal/pkg/dto/responses"
)

type RegistrationUsecase interface {
	Start(ctx context.Context) (*responses.RegistrationState, error)
	GetState(ctx context.Context, registrationID string) (*responses.RegistrationState, error)
	SelectProfile(ctx context.Context, registrationID string, request *requests.SelectProfile) (*responses.RegistrationState, error)
	SubmitPersonalData(ctx context.Context, registrationID string, request *requests.RegistrationPersonalData) (*responses.RegistrationState, error)
	UploadDoctorPhoto(ctx context.Context, registrationID string, request *requests.DoctorPhoto) (*responses.RegistrationState, error)
	SubmitCredentials(ctx context.Context, registrationID string, request *requests.RegistrationCredentials) (*responses.RegistrationState, error)
	Abandon(ctx context.Context, registrationID string) error
}
