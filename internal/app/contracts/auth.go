package contracts

import (
	"context"
	"virem-service/internal/pkg/dto/requests"
	"virem-service/internal/pkg/dto/responses"
)

type AuthUsecase interface {
	Login(ctx context.Context, deviceID string, request *requests.Login) (*responses.Session, error)
	Logout(ctx context.Context, deviceID string) error
	GetSession(ctx context.Context, deviceID string) *responses.Session
	RequestRecoveryCode(ctx context.Context, request *requests.RecoveryRequestCode) (*responses.RecoveryState, error)
	GetRecoveryState(ctx context.Context, recoveryID string) (*responses.RecoveryState, error)
	VerifyRecoveryCode(ctx context.Context, recoveryID string, request *requests.RecoveryVerifyCode) (*responses.RecoveryState, error)
	SetNewPassword(ctx context.Context, recoveryID string, request *requests.RecoverySetPassword) (*responses.RecoveryState, error)
}

type ReferenceUsecase interface {
	ListCountries(ctx context.Context) []responses.Country
	SearchSpecialties(ctx context.Context, query string) *responses.Specialties
	ListGenders(ctx context.Context) []string
}
