package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingDeviceIDKey       = "device_id"
	LoggingRegistrationIDKey = "registration_id"
	LoggingRecoveryIDKey     = "recovery_id"
	LoggingWorkflowStepKey   = "workflow_step"
	LoggingProfileTypeKey    = "profile_type"
	LoggingEmailKey          = "email"
	LoggingCountryCodeKey    = "country_code"
	LoggingEndpointKey       = "endpoint"
	LoggingStatusCodeKey     = "status_code"
	LoggingFailureKindKey    = "failure_kind"
	LoggingObjectKey         = "object_key"
	LoggingErrorTypeKey      = "error_type"
	LoggingResponseLengthKey = "response_length"
	LoggingMethodKey         = "method"
	LoggingRemoteAddrKey     = "remote_addr"
	LoggingUserAgentKey      = "user_agent"
	LoggingQueryKey          = "query"
	LoggingDurationKey       = "duration"
	LoggingHasDeviceKey      = "has_device_id"
	LoggingClientRequestKey  = "is_client_request_id"
)
