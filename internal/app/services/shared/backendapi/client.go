package backendapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"virem-service/internal/app/config"
	"virem-service/internal/pkg/constvars"
	"virem-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const maxResponseBodyBytes = 1 << 20

var (
	backendClientInstance *Client
	onceBackendClient     sync.Once
)

// Client talks to the remote VIREM backend. It serves both the verification
// calls of the registration flow and the account calls of the auth flow.
type Client struct {
	cfg        config.AppBackend
	httpClient *http.Client
	Log        *zap.Logger
}

func NewBackendClient(cfg config.AppBackend, logger *zap.Logger) *Client {
	onceBackendClient.Do(func() {
		backendClientInstance = newClient(cfg, &http.Client{Timeout: cfg.RequestTimeout}, logger)
	})
	return backendClientInstance
}

func newClient(cfg config.AppBackend, httpClient *http.Client, logger *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		Log:        logger,
	}
}

// envelope is the loose response shape shared by every backend endpoint.
type envelope struct {
	Success *bool               `json:"success"`
	Message string              `json:"message"`
	Error   json.RawMessage     `json:"error"`
	Valid   *bool               `json:"valid"`
	Exists  *bool               `json:"exists"`
	Token   string              `json:"token"`
	User    *backendUserProfile `json:"user"`
}

type backendUserProfile struct {
	ID         json.RawMessage `json:"id"`
	GivenNames string          `json:"nombres"`
	Surnames   string          `json:"apellidos"`
	Email      string          `json:"email"`
	Role       string          `json:"rol"`
}

type backendResponse struct {
	StatusCode int
	// Body is nil when the response was not a JSON object.
	Body *envelope
	Meta map[string]interface{}
}

func (r *backendResponse) ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *backendResponse) succeeded() bool {
	return r.ok() && r.Body != nil && r.Body.Success != nil && *r.Body.Success
}

func (r *backendResponse) message() string {
	if r.Body == nil {
		return ""
	}
	return strings.TrimSpace(r.Body.Message)
}

// detail renders the optional "error" field whatever its JSON type.
func (r *backendResponse) detail() string {
	if r.Body == nil || len(r.Body.Error) == 0 || string(r.Body.Error) == "null" {
		return ""
	}
	var text string
	if err := json.Unmarshal(r.Body.Error, &text); err == nil {
		return text
	}
	return string(r.Body.Error)
}

// postJSON returns an error only when no HTTP response was obtained.
func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) (*backendResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	requestJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.endpoint(path), bytes.NewBuffer(requestJSON))
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	if requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, exceptions.ErrServerDeadlineExceeded(err)
		}
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err)
	}

	result := &backendResponse{StatusCode: resp.StatusCode}
	body := new(envelope)
	if err := json.Unmarshal(raw, body); err == nil {
		result.Body = body
		json.Unmarshal(raw, &result.Meta)
	} else {
		c.Log.Warn("backendapi.Client.postJSON response is not a JSON object",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEndpointKey, path),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		)
	}
	return result, nil
}

func (c *Client) endpoint(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(c.cfg.BaseUrl, "/") + path
}
