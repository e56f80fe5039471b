package controllers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"virem-service/internal/app/config"
	"virem-service/internal/pkg/constvars"
	"virem-service/internal/pkg/dto/requests"
	"virem-service/internal/pkg/dto/responses"
	"virem-service/internal/pkg/exceptions"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testRegistrationID = "5f0c6a52-4d1e-4b8e-9a57-1f7f2b3c9d10"
	testRecoveryID     = "0b7d8e21-93a4-4c65-b1f2-6e4a2d9c7f33"
	testDeviceID       = "device-android-7"
)

type MockReferenceUsecase struct {
	mock.Mock
}

func (m *MockReferenceUsecase) ListCountries(ctx context.Context) []responses.Country {
	args := m.Called(ctx)
	return args.Get(0).([]responses.Country)
}

func (m *MockReferenceUsecase) SearchSpecialties(ctx context.Context, query string) *responses.Specialties {
	args := m.Called(ctx, query)
	return args.Get(0).(*responses.Specialties)
}

func (m *MockReferenceUsecase) ListGenders(ctx context.Context) []string {
	args := m.Called(ctx)
	return args.Get(0).([]string)
}

type MockRegistrationUsecase struct {
	mock.Mock
}

func registrationResult(args mock.Arguments) (*responses.RegistrationState, error) {
	state, _ := args.Get(0).(*responses.RegistrationState)
	return state, args.Error(1)
}

func (m *MockRegistrationUsecase) Start(ctx context.Context) (*responses.RegistrationState, error) {
	return registrationResult(m.Called(ctx))
}

func (m *MockRegistrationUsecase) GetState(ctx context.Context, registrationID string) (*responses.RegistrationState, error) {
	return registrationResult(m.Called(ctx, registrationID))
}

func (m *MockRegistrationUsecase) SelectProfile(ctx context.Context, registrationID string, request *requests.SelectProfile) (*responses.RegistrationState, error) {
	return registrationResult(m.Called(ctx, registrationID, request))
}

func (m *MockRegistrationUsecase) SubmitPersonalData(ctx context.Context, registrationID string, request *requests.RegistrationPersonalData) (*responses.RegistrationState, error) {
	return registrationResult(m.Called(ctx, registrationID, request))
}

func (m *MockRegistrationUsecase) UploadDoctorPhoto(ctx context.Context, registrationID string, request *requests.DoctorPhoto) (*responses.RegistrationState, error) {
	return registrationResult(m.Called(ctx, registrationID, request))
}

func (m *MockRegistrationUsecase) SubmitCredentials(ctx context.Context, registrationID string, request *requests.RegistrationCredentials) (*responses.RegistrationState, error) {
	return registrationResult(m.Called(ctx, registrationID, request))
}

func (m *MockRegistrationUsecase) Abandon(ctx context.Context, registrationID string) error {
	return m.Called(ctx, registrationID).Error(0)
}

type MockAuthUsecase struct {
	mock.Mock
}

func recoveryResult(args mock.Arguments) (*responses.RecoveryState, error) {
	state, _ := args.Get(0).(*responses.RecoveryState)
	return state, args.Error(1)
}

func (m *MockAuthUsecase) Login(ctx context.Context, deviceID string, request *requests.Login) (*responses.Session, error) {
	args := m.Called(ctx, deviceID, request)
	session, _ := args.Get(0).(*responses.Session)
	return session, args.Error(1)
}

func (m *MockAuthUsecase) Logout(ctx context.Context, deviceID string) error {
	return m.Called(ctx, deviceID).Error(0)
}

func (m *MockAuthUsecase) GetSession(ctx context.Context, deviceID string) *responses.Session {
	return m.Called(ctx, deviceID).Get(0).(*responses.Session)
}

func (m *MockAuthUsecase) RequestRecoveryCode(ctx context.Context, request *requests.RecoveryRequestCode) (*responses.RecoveryState, error) {
	return recoveryResult(m.Called(ctx, request))
}

func (m *MockAuthUsecase) GetRecoveryState(ctx context.Context, recoveryID string) (*responses.RecoveryState, error) {
	return recoveryResult(m.Called(ctx, recoveryID))
}

func (m *MockAuthUsecase) VerifyRecoveryCode(ctx context.Context, recoveryID string, request *requests.RecoveryVerifyCode) (*responses.RecoveryState, error) {
	return recoveryResult(m.Called(ctx, recoveryID, request))
}

func (m *MockAuthUsecase) SetNewPassword(ctx context.Context, recoveryID string, request *requests.RecoverySetPassword) (*responses.RecoveryState, error) {
	return recoveryResult(m.Called(ctx, recoveryID, request))
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Field   string          `json:"field"`
	Data    json.RawMessage `json:"data"`
}

func testInternalConfig() *config.InternalConfig {
	return &config.InternalConfig{
		App:     config.App{Env: "development"},
		Backend: config.AppBackend{RequestTimeout: 15 * time.Second},
		Registration: config.Registration{
			PhotoMaxUploadSizeInBytes: 1024,
		},
	}
}

// newRequest builds a request the way the router would hand it over: request
// and device ids in the context, URL params in the chi route context.
func newRequest(method, target string, body io.Reader, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	ctx = context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, "req-test")
	ctx = context.WithValue(ctx, constvars.CONTEXT_DEVICE_ID_KEY, testDeviceID)
	return req.WithContext(ctx)
}

func registrationParams() map[string]string {
	return map[string]string{constvars.URLParamRegistrationID: testRegistrationID}
}

func recoveryParams() map[string]string {
	return map[string]string{constvars.URLParamRecoveryID: testRecoveryID}
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var payload envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	return payload
}

func TestReferenceController(t *testing.T) {
	t.Run("List Countries", func(t *testing.T) {
		usecase := new(MockReferenceUsecase)
		ctrl := &ReferenceController{Log: zap.NewNop(), ReferenceUsecase: usecase}
		usecase.On("ListCountries", mock.Anything).Return([]responses.Country{
			{Code: "+1", Name: "República Dominicana", Mask: "XXX XXX XXXX", DigitSlots: 10, ChecksumsNationalID: true},
		})
		rr := httptest.NewRecorder()

		ctrl.ListCountries(rr, newRequest(http.MethodGet, "/reference/countries", nil, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		payload := decodeEnvelope(t, rr)
		assert.Equal(t, constvars.CountriesGetSuccess, payload.Message)
		assert.Contains(t, string(payload.Data), "República Dominicana")
	})

	t.Run("Specialty Search Passes Query", func(t *testing.T) {
		usecase := new(MockReferenceUsecase)
		ctrl := &ReferenceController{Log: zap.NewNop(), ReferenceUsecase: usecase}
		usecase.On("SearchSpecialties", mock.Anything, "cardio").Return(&responses.Specialties{
			Query:       "cardio",
			Specialties: []string{"Cardiología"},
		})
		rr := httptest.NewRecorder()

		ctrl.SearchSpecialties(rr, newRequest(http.MethodGet, "/reference/specialties?q=cardio", nil, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		usecase.AssertExpectations(t)
	})

	t.Run("Missing Request ID", func(t *testing.T) {
		ctrl := &ReferenceController{Log: zap.NewNop(), ReferenceUsecase: new(MockReferenceUsecase)}
		rr := httptest.NewRecorder()

		ctrl.ListGenders(rr, httptest.NewRequest(http.MethodGet, "/reference/genders", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestRegistrationController(t *testing.T) {
	newController := func() (*RegistrationController, *MockRegistrationUsecase) {
		usecase := new(MockRegistrationUsecase)
		return &RegistrationController{
			Log:                 zap.NewNop(),
			RegistrationUsecase: usecase,
			InternalConfig:      testInternalConfig(),
		}, usecase
	}

	t.Run("Start Returns Created", func(t *testing.T) {
		ctrl, usecase := newController()
		usecase.On("Start", mock.Anything).Return(&responses.RegistrationState{ID: testRegistrationID, Step: "profile_select"}, nil)
		rr := httptest.NewRecorder()

		ctrl.Start(rr, newRequest(http.MethodPost, "/registrations", nil, nil))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, string(decodeEnvelope(t, rr).Data), testRegistrationID)
	})

	t.Run("Invalid Registration ID", func(t *testing.T) {
		ctrl, usecase := newController()
		rr := httptest.NewRecorder()

		ctrl.GetState(rr, newRequest(http.MethodGet, "/registrations/nope", nil, map[string]string{
			constvars.URLParamRegistrationID: "nope",
		}))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		usecase.AssertNotCalled(t, "GetState", mock.Anything, mock.Anything)
	})

	t.Run("Select Profile Rejects Unknown Type", func(t *testing.T) {
		ctrl, usecase := newController()
		rr := httptest.NewRecorder()

		ctrl.SelectProfile(rr, newRequest(http.MethodPut, "/", strings.NewReader(`{"profile_type":"admin"}`), registrationParams()))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		usecase.AssertNotCalled(t, "SelectProfile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Select Profile Sanitizes Input", func(t *testing.T) {
		ctrl, usecase := newController()
		usecase.On("SelectProfile", mock.Anything, testRegistrationID, &requests.SelectProfile{ProfileType: "doctor"}).
			Return(&responses.RegistrationState{ID: testRegistrationID, Step: "personal_data", Profile: "doctor"}, nil)
		rr := httptest.NewRecorder()

		ctrl.SelectProfile(rr, newRequest(http.MethodPut, "/", strings.NewReader(`{"profile_type":" Doctor "}`), registrationParams()))

		assert.Equal(t, http.StatusOK, rr.Code)
		usecase.AssertExpectations(t)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		ctrl, _ := newController()
		rr := httptest.NewRecorder()

		ctrl.SubmitPersonalData(rr, newRequest(http.MethodPut, "/", strings.NewReader(`{"nombres":`), registrationParams()))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failed Gate Carries State", func(t *testing.T) {
		ctrl, usecase := newController()
		state := &responses.RegistrationState{
			ID:          testRegistrationID,
			Step:        "personal_data",
			Progress:    67,
			FieldErrors: map[string]string{"cedula": constvars.ErrClientInvalidNationalID},
			Draft:       &responses.RegistrationDraft{GivenNames: "Ana", NationalID: "001-1391820-4"},
		}
		usecase.On("SubmitPersonalData", mock.Anything, testRegistrationID, mock.AnythingOfType("*requests.RegistrationPersonalData")).
			Return(state, exceptions.ErrFieldValidation("cedula", constvars.ErrClientInvalidNationalID))
		rr := httptest.NewRecorder()

		body := `{"nombres":"Ana","cedula":"00113918204","country_code":"+1","telefono":"809-555-1234"}`
		ctrl.SubmitPersonalData(rr, newRequest(http.MethodPut, "/", strings.NewReader(body), registrationParams()))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		payload := decodeEnvelope(t, rr)
		assert.False(t, payload.Success)
		assert.Equal(t, "cedula", payload.Field)
		assert.Equal(t, string(exceptions.KindValidation), payload.Kind)
		assert.Contains(t, string(payload.Data), `"progress":67`)
		assert.Contains(t, string(payload.Data), "001-1391820-4")

		request := usecase.Calls[0].Arguments.Get(2).(*requests.RegistrationPersonalData)
		assert.Equal(t, "8095551234", request.Phone)
		assert.Equal(t, "00113918204", request.NationalID)
	})

	t.Run("Usecase Error Without State", func(t *testing.T) {
		ctrl, usecase := newController()
		usecase.On("GetState", mock.Anything, testRegistrationID).Return(nil, exceptions.ErrWorkflowNotFound(nil))
		rr := httptest.NewRecorder()

		ctrl.GetState(rr, newRequest(http.MethodGet, "/", nil, registrationParams()))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Empty(t, decodeEnvelope(t, rr).Data)
	})

	t.Run("Deadline Becomes Gateway Timeout", func(t *testing.T) {
		ctrl, usecase := newController()
		usecase.On("SubmitCredentials", mock.Anything, testRegistrationID, mock.Anything).Return(nil, context.DeadlineExceeded)
		rr := httptest.NewRecorder()

		ctrl.SubmitCredentials(rr, newRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.do"}`), registrationParams()))

		assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
	})

	t.Run("Credentials Success", func(t *testing.T) {
		ctrl, usecase := newController()
		usecase.On("SubmitCredentials", mock.Anything, testRegistrationID, &requests.RegistrationCredentials{
			Email:           "ana@correo.do",
			Password:        " Toribio123!",
			ConfirmPassword: " Toribio123!",
		}).Return(&responses.RegistrationState{ID: testRegistrationID, Step: "success", Progress: 100}, nil)
		rr := httptest.NewRecorder()

		body := `{"email":"  Ana@Correo.DO ","password":" Toribio123!","confirm_password":" Toribio123!"}`
		ctrl.SubmitCredentials(rr, newRequest(http.MethodPost, "/", strings.NewReader(body), registrationParams()))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, constvars.RegistrationCompletedSuccess, decodeEnvelope(t, rr).Message)
		usecase.AssertExpectations(t)
	})

	t.Run("Photo Upload Reads Multipart File", func(t *testing.T) {
		ctrl, usecase := newController()
		photo := []byte("\x89PNG\r\n\x1a\nrest-of-image")
		usecase.On("UploadDoctorPhoto", mock.Anything, testRegistrationID, &requests.DoctorPhoto{Photo: photo, PhotoName: "yo.png"}).
			Return(&responses.RegistrationState{ID: testRegistrationID, Step: "personal_data", PhotoURL: "http://minio/photo"}, nil)

		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile(constvars.FormFieldPhoto, "yo.png")
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := newRequest(http.MethodPut, "/", &body, registrationParams())
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rr := httptest.NewRecorder()

		ctrl.UploadDoctorPhoto(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		usecase.AssertExpectations(t)
	})

	t.Run("Photo Upload Without File", func(t *testing.T) {
		ctrl, usecase := newController()

		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		require.NoError(t, writer.WriteField("other", "value"))
		require.NoError(t, writer.Close())

		req := newRequest(http.MethodPut, "/", &body, registrationParams())
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rr := httptest.NewRecorder()

		ctrl.UploadDoctorPhoto(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		usecase.AssertNotCalled(t, "UploadDoctorPhoto", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Abandon", func(t *testing.T) {
		ctrl, usecase := newController()
		usecase.On("Abandon", mock.Anything, testRegistrationID).Return(nil)
		rr := httptest.NewRecorder()

		ctrl.Abandon(rr, newRequest(http.MethodDelete, "/", nil, registrationParams()))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, constvars.RegistrationAbandonSuccess, decodeEnvelope(t, rr).Message)
	})
}

func TestAuthController(t *testing.T) {
	newController := func() (*AuthController, *MockAuthUsecase) {
		usecase := new(MockAuthUsecase)
		return &AuthController{
			Log:            zap.NewNop(),
			AuthUsecase:    usecase,
			InternalConfig: testInternalConfig(),
		}, usecase
	}

	t.Run("Login Uses Device From Context", func(t *testing.T) {
		ctrl, usecase := newController()
		usecase.On("Login", mock.Anything, testDeviceID, &requests.Login{Email: "ana@correo.do", Password: "Toribio123!"}).
			Return(&responses.Session{Authenticated: true, DisplayName: "Ana Pérez"}, nil)
		rr := httptest.NewRecorder()

		ctrl.Login(rr, newRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ANA@correo.do","password":"Toribio123!"}`), nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		payload := decodeEnvelope(t, rr)
		assert.Equal(t, constvars.LoginSuccess, payload.Message)
		assert.NotContains(t, string(payload.Data), "token")
		usecase.AssertExpectations(t)
	})

	t.Run("Login Rejected Keeps Backend Message", func(t *testing.T) {
		ctrl, usecase := newController()
		usecase.On("Login", mock.Anything, testDeviceID, mock.Anything).
			Return(nil, exceptions.ErrRemoteRejected(http.StatusUnauthorized, "Credenciales inválidas"))
		rr := httptest.NewRecorder()

		ctrl.Login(rr, newRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ana@correo.do","password":"x"}`), nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		payload := decodeEnvelope(t, rr)
		assert.Equal(t, "Credenciales inválidas", payload.Message)
		assert.Equal(t, string(exceptions.KindRemoteRejection), payload.Kind)
	})

	t.Run("Session", func(t *testing.T) {
		ctrl, usecase := newController()
		usecase.On("GetSession", mock.Anything, testDeviceID).
			Return(&responses.Session{Authenticated: false, DisplayName: constvars.DefaultDisplayName})
		rr := httptest.NewRecorder()

		ctrl.GetSession(rr, newRequest(http.MethodGet, "/auth/session", nil, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, string(decodeEnvelope(t, rr).Data), `"authenticated":false`)
	})

	t.Run("Logout", func(t *testing.T) {
		ctrl, usecase := newController()
		usecase.On("Logout", mock.Anything, testDeviceID).Return(nil)
		rr := httptest.NewRecorder()

		ctrl.Logout(rr, newRequest(http.MethodPost, "/auth/logout", nil, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		usecase.AssertExpectations(t)
	})

	t.Run("Request Recovery Code", func(t *testing.T) {
		ctrl, usecase := newController()
		usecase.On("RequestRecoveryCode", mock.Anything, &requests.RecoveryRequestCode{Email: "ana@correo.do"}).
			Return(&responses.RecoveryState{ID: testRecoveryID, Step: "verify_code", Email: "ana@correo.do"}, nil)
		rr := httptest.NewRecorder()

		ctrl.RequestRecoveryCode(rr, newRequest(http.MethodPost, "/auth/recovery", strings.NewReader(`{"email":" ana@correo.do "}`), nil))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, constvars.RecoveryCodeSentSuccess, decodeEnvelope(t, rr).Message)
	})

	t.Run("Verify Code Rejects Wrong Slot Count", func(t *testing.T) {
		ctrl, usecase := newController()
		rr := httptest.NewRecorder()

		ctrl.VerifyRecoveryCode(rr, newRequest(http.MethodPost, "/", strings.NewReader(`{"code":["1","2","3"]}`), recoveryParams()))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		usecase.AssertNotCalled(t, "VerifyRecoveryCode", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Verify Code Accepts Empty Slots", func(t *testing.T) {
		ctrl, usecase := newController()
		state := &responses.RecoveryState{
			ID:          testRecoveryID,
			Step:        "verify_code",
			FieldErrors: map[string]string{"code": constvars.ErrClientIncompleteOTP},
		}
		usecase.On("VerifyRecoveryCode", mock.Anything, testRecoveryID, &requests.RecoveryVerifyCode{Code: []string{"1", "2", "", "4", "5", "6"}}).
			Return(state, exceptions.ErrFieldValidation("code", constvars.ErrClientIncompleteOTP))
		rr := httptest.NewRecorder()

		ctrl.VerifyRecoveryCode(rr, newRequest(http.MethodPost, "/", strings.NewReader(`{"code":["1","2"," ","4","5","6"]}`), recoveryParams()))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		payload := decodeEnvelope(t, rr)
		assert.Equal(t, "code", payload.Field)
		assert.Contains(t, string(payload.Data), testRecoveryID)
	})

	t.Run("Invalid Recovery ID", func(t *testing.T) {
		ctrl, _ := newController()
		rr := httptest.NewRecorder()

		ctrl.GetRecoveryState(rr, newRequest(http.MethodGet, "/", nil, map[string]string{constvars.URLParamRecoveryID: "../etc"}))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Set New Password Weak", func(t *testing.T) {
		ctrl, usecase := newController()
		state := &responses.RecoveryState{
			ID:             testRecoveryID,
			Step:           "set_new_password",
			PasswordChecks: &responses.PasswordChecks{MinLength: false, HasUppercase: true},
		}
		usecase.On("SetNewPassword", mock.Anything, testRecoveryID, &requests.RecoverySetPassword{NewPassword: "Ab1!", ConfirmPassword: "Ab1!"}).
			Return(state, exceptions.ErrWeakPassword("new_password"))
		rr := httptest.NewRecorder()

		ctrl.SetNewPassword(rr, newRequest(http.MethodPost, "/", strings.NewReader(`{"new_password":"Ab1!","confirm_password":"Ab1!"}`), recoveryParams()))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		payload := decodeEnvelope(t, rr)
		assert.Equal(t, string(exceptions.KindPolicy), payload.Kind)
		assert.Contains(t, string(payload.Data), `"has_uppercase":true`)
	})
}
