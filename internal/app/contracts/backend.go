package contracts

import (
	"context"
	"virem-service/internal/app/models"
)

// VerificationClient never returns an error: every failure is folded into the result.
type VerificationClient interface {
	VerifyPhone(ctx context.Context, countryCode, digits string) models.VerificationResult
	VerifyProfessionalLicense(ctx context.Context, nationalID, givenNames, surnames string) models.VerificationResult
}

type AccountClient interface {
	Login(ctx context.Context, email, password string) models.LoginOutcome
	Register(ctx context.Context, payload models.RegisterPayload) models.RemoteOutcome
	SendRecoveryCode(ctx context.Context, email string) models.RemoteOutcome
	VerifyRecoveryCode(ctx context.Context, email, code string) models.RemoteOutcome
	UpdatePassword(ctx context.Context, email, newPassword string) models.RemoteOutcome
}
