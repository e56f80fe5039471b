package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_DEVICE_ID_KEY            ContextKey = "device_id"
)

const (
	REQUEST_ID_PREFIX = "VIREM_GW_"
)

const (
	AppEnvProduction  = "production"
	AppEnvDevelopment = "development"
)

// Keys owned by the session store. The device namespace is prepended at runtime.
const (
	SessionKeyAuthToken   = "authToken"
	SessionKeyUserProfile = "userProfile"
)

const (
	SessionDriverRedis = "redis"
	SessionDriverFile  = "file"
)

const (
	RedisKeyPrefixRegistration  = "registration:workflow:"
	RedisKeyPrefixRecovery      = "recovery:workflow:"
	RedisKeyPrefixSession       = "session:device:"
	LockKeyPrefixRegistration   = "registration:submit:"
	LockKeyPrefixRecovery       = "recovery:submit:"
	RateLimitGroupPhoneCheck    = "PHONE_VERIFICATION"
	RateLimitGroupRecoveryEmail = "RECOVERY_SEND_CODE"
)

const (
	OTP_LENGTH             = 6
	MinimumPasswordLength  = 8
	NationalIDLength       = 11
	AdultAgeYears          = 18
	MaxPlausibleAgeYears   = 120
	BirthDateLayout        = "02/01/2006"
	BirthDateInputLength   = 10
	DefaultDisplayName     = "Usuario"
	DefaultCountryCode     = "+1"
	DefaultCountryName     = "República Dominicana"
	DoctorPhotoObjectLayer = "doctors/photos"
	RegistrationFormFields = 6
)
