package backendapi

import (
	"context"
	"fmt"
	"strings"
	"virem-service/internal/app/models"
	"virem-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sendCodeRequest struct {
	Email string `json:"email"`
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"codigo"`
}

type updatePasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

func (c *Client) Login(ctx context.Context, email, password string) models.LoginOutcome {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("backendapi.Client.Login called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEndpointKey, c.cfg.LoginPath),
	)

	response, err := c.postJSON(ctx, c.cfg.LoginPath, loginRequest{Email: email, Password: password})
	if err != nil {
		c.Log.Error("backendapi.Client.Login backend unreachable",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return models.LoginOutcome{RemoteOutcome: connectivityOutcome(constvars.ErrClientNoConnection)}
	}

	if !response.succeeded() {
		c.Log.Info("backendapi.Client.Login rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, response.StatusCode),
		)
		return models.LoginOutcome{RemoteOutcome: models.RemoteOutcome{
			StatusCode: response.StatusCode,
			Message:    firstNonEmpty(response.message(), constvars.ErrClientLoginFailed),
			Detail:     response.detail(),
			Failure:    models.FailureRejected,
		}}
	}

	if strings.TrimSpace(response.Body.Token) == "" {
		c.Log.Warn("backendapi.Client.Login succeeded without a token",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return models.LoginOutcome{RemoteOutcome: models.RemoteOutcome{
			StatusCode: response.StatusCode,
			Message:    constvars.ErrClientLoginFailed,
			Failure:    models.FailureRequestFailed,
		}}
	}

	outcome := models.LoginOutcome{
		RemoteOutcome: models.RemoteOutcome{
			OK:         true,
			StatusCode: response.StatusCode,
			Message:    response.message(),
		},
		Token: response.Body.Token,
	}
	if user := response.Body.User; user != nil {
		outcome.User = models.UserProfile{
			ID:         rawID(user.ID),
			GivenNames: user.GivenNames,
			Surnames:   user.Surnames,
			Email:      user.Email,
			Role:       user.Role,
		}
	}

	c.Log.Info("backendapi.Client.Login succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return outcome
}

// Register creates the account. A rejection keeps the backend message and its
// optional error detail so the caller can show both.
func (c *Client) Register(ctx context.Context, payload models.RegisterPayload) models.RemoteOutcome {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("backendapi.Client.Register called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProfileTypeKey, payload.Role),
	)

	response, err := c.postJSON(ctx, c.cfg.RegisterPath, payload)
	if err != nil {
		c.Log.Error("backendapi.Client.Register backend unreachable",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return connectivityOutcome(constvars.ErrClientNetworkBackend)
	}

	if !response.succeeded() {
		c.Log.Info("backendapi.Client.Register rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, response.StatusCode),
		)
		return models.RemoteOutcome{
			StatusCode: response.StatusCode,
			Message:    firstNonEmpty(response.message(), fmt.Sprintf(constvars.ErrClientRegisterFailedFormat, response.StatusCode)),
			Detail:     response.detail(),
			Failure:    models.FailureRejected,
		}
	}

	c.Log.Info("backendapi.Client.Register succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return models.RemoteOutcome{OK: true, StatusCode: response.StatusCode, Message: response.message()}
}

func (c *Client) SendRecoveryCode(ctx context.Context, email string) models.RemoteOutcome {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("backendapi.Client.SendRecoveryCode called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	response, err := c.postJSON(ctx, c.cfg.SendCodePath, sendCodeRequest{Email: email})
	if err != nil {
		c.Log.Error("backendapi.Client.SendRecoveryCode backend unreachable",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return connectivityOutcome(constvars.ErrClientNoConnection)
	}

	if !response.succeeded() {
		return models.RemoteOutcome{
			StatusCode: response.StatusCode,
			Message:    firstNonEmpty(response.message(), constvars.ErrClientEmailNotRegistered),
			Failure:    models.FailureRejected,
		}
	}

	c.Log.Info("backendapi.Client.SendRecoveryCode succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return models.RemoteOutcome{OK: true, StatusCode: response.StatusCode, Message: response.message()}
}

// VerifyRecoveryCode accepts any 2xx answer; the endpoint does not always send a success flag.
func (c *Client) VerifyRecoveryCode(ctx context.Context, email, code string) models.RemoteOutcome {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("backendapi.Client.VerifyRecoveryCode called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	response, err := c.postJSON(ctx, c.cfg.VerifyCodePath, verifyCodeRequest{Email: email, Code: code})
	if err != nil {
		c.Log.Error("backendapi.Client.VerifyRecoveryCode backend unreachable",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return connectivityOutcome(constvars.ErrClientNoConnection)
	}

	if !response.ok() {
		return models.RemoteOutcome{
			StatusCode: response.StatusCode,
			Message:    constvars.ErrClientCodeIncorrectOrExpired,
			Failure:    models.FailureRejected,
		}
	}

	c.Log.Info("backendapi.Client.VerifyRecoveryCode succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return models.RemoteOutcome{OK: true, StatusCode: response.StatusCode, Message: response.message()}
}

func (c *Client) UpdatePassword(ctx context.Context, email, newPassword string) models.RemoteOutcome {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("backendapi.Client.UpdatePassword called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	response, err := c.postJSON(ctx, c.cfg.UpdatePasswordPath, updatePasswordRequest{Email: email, NewPassword: newPassword})
	if err != nil {
		c.Log.Error("backendapi.Client.UpdatePassword backend unreachable",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return connectivityOutcome(constvars.ErrClientNoConnection)
	}

	if !response.succeeded() {
		return models.RemoteOutcome{
			StatusCode: response.StatusCode,
			Message:    firstNonEmpty(response.message(), constvars.ErrClientPasswordUpdateFailed),
			Failure:    models.FailureRejected,
		}
	}

	c.Log.Info("backendapi.Client.UpdatePassword succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return models.RemoteOutcome{OK: true, StatusCode: response.StatusCode, Message: response.message()}
}

func connectivityOutcome(message string) models.RemoteOutcome {
	return models.RemoteOutcome{Message: message, Failure: models.FailureConnectivity}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// rawID accepts both numeric and string ids.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return string(raw)
}
