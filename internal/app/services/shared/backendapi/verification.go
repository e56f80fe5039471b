package backendapi

import (
	"context"
	"fmt"
	"virem-service/internal/app/models"
	"virem-service/internal/pkg/constvars"
	"virem-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type phoneValidationRequest struct {
	CountryCode string `json:"countryCode"`
	Phone       string `json:"phone"`
}

type licenseRegistryRequest struct {
	NationalID string `json:"cedula"`
	GivenNames string `json:"nombres"`
	Surnames   string `json:"apellidos"`
}

func (c *Client) VerifyPhone(ctx context.Context, countryCode, digits string) models.VerificationResult {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("backendapi.Client.VerifyPhone called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCountryCodeKey, countryCode),
	)

	response, err := c.postJSON(ctx, c.cfg.PhoneValidationPath, phoneValidationRequest{
		CountryCode: countryCode,
		Phone:       utils.DigitsOnly(digits),
	})
	if err != nil {
		c.Log.Error("backendapi.Client.VerifyPhone backend unreachable",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return models.VerificationResult{
			OK:      false,
			Reason:  constvars.ErrClientNetworkBackend,
			Failure: models.FailureConnectivity,
		}
	}

	if !response.succeeded() {
		reason := response.message()
		if reason == "" {
			reason = fmt.Sprintf(constvars.ErrClientPhoneCheckFailedFormat, response.StatusCode)
		}
		c.Log.Info("backendapi.Client.VerifyPhone request failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, response.StatusCode),
		)
		return models.VerificationResult{
			OK:      false,
			Reason:  reason,
			Failure: models.FailureRequestFailed,
		}
	}

	if response.Body.Valid == nil || !*response.Body.Valid {
		c.Log.Info("backendapi.Client.VerifyPhone number rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return models.VerificationResult{
			OK:      false,
			Reason:  constvars.ErrClientPhoneRejected,
			Failure: models.FailureRejected,
		}
	}

	c.Log.Info("backendapi.Client.VerifyPhone succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return models.VerificationResult{OK: true, Meta: response.Meta}
}

// VerifyProfessionalLicense asks the exequátur registry whether the doctor is licensed.
// A registry miss is reported as not_found so the caller can tell it from a failed request.
func (c *Client) VerifyProfessionalLicense(ctx context.Context, nationalID, givenNames, surnames string) models.VerificationResult {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("backendapi.Client.VerifyProfessionalLicense called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	response, err := c.postJSON(ctx, c.cfg.LicenseRegistryPath, licenseRegistryRequest{
		NationalID: utils.DigitsOnly(nationalID),
		GivenNames: givenNames,
		Surnames:   surnames,
	})
	if err != nil {
		c.Log.Error("backendapi.Client.VerifyProfessionalLicense backend unreachable",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return models.VerificationResult{
			OK:      false,
			Reason:  constvars.ErrClientNetworkBackend,
			Failure: models.FailureConnectivity,
		}
	}

	if !response.succeeded() {
		reason := response.message()
		if reason == "" {
			reason = fmt.Sprintf(constvars.ErrClientLicenseCheckFailedFormat, response.StatusCode)
		}
		c.Log.Info("backendapi.Client.VerifyProfessionalLicense request failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, response.StatusCode),
		)
		return models.VerificationResult{
			OK:      false,
			Reason:  reason,
			Failure: models.FailureRequestFailed,
		}
	}

	if response.Body.Exists == nil || !*response.Body.Exists {
		c.Log.Info("backendapi.Client.VerifyProfessionalLicense not found in registry",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return models.VerificationResult{
			OK:      false,
			Reason:  constvars.ErrClientLicenseNotFound,
			Failure: models.FailureNotFound,
		}
	}

	c.Log.Info("backendapi.Client.VerifyProfessionalLicense succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return models.VerificationResult{OK: true, Meta: response.Meta}
}
