package config

import "time"

type InternalConfig struct {
	App          App          `mapstructure:"app"`
	Backend      AppBackend   `mapstructure:"backend"`
	Session      AppSession   `mapstructure:"session"`
	Registration Registration `mapstructure:"registration"`
	Recovery     Recovery     `mapstructure:"recovery"`
	Minio        AppMinio     `mapstructure:"minio"`
}

type App struct {
	Env                        string   `mapstructure:"env"`
	Port                       string   `mapstructure:"port"`
	Version                    string   `mapstructure:"version"`
	Timezone                   string   `mapstructure:"timezone"`
	EndpointPrefix             string   `mapstructure:"endpoint_prefix"`
	AllowedOrigins             []string `mapstructure:"allowed_origins"`
	MaxRequests                int      `mapstructure:"max_requests"`
	ShutdownTimeoutInSeconds   int      `mapstructure:"shutdown_timeout_in_seconds"`
	DeviceBlockTimeInSeconds   int      `mapstructure:"device_block_time_in_seconds"`
	DeviceRequestsPerSecond    int      `mapstructure:"device_requests_per_second"`
	DeviceRequestsBurst        int      `mapstructure:"device_requests_burst"`
	RequestBodyLimitInMegabyte int      `mapstructure:"request_body_limit_in_megabyte"`
}

// AppBackend points at the remote VIREM API the screens used to call directly.
type AppBackend struct {
	BaseUrl             string        `mapstructure:"base_url"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	LoginPath           string        `mapstructure:"login_path"`
	RegisterPath        string        `mapstructure:"register_path"`
	SendCodePath        string        `mapstructure:"send_code_path"`
	VerifyCodePath      string        `mapstructure:"verify_code_path"`
	UpdatePasswordPath  string        `mapstructure:"update_password_path"`
	PhoneValidationPath string        `mapstructure:"phone_validation_path"`
	LicenseRegistryPath string        `mapstructure:"license_registry_path"`
}

type AppSession struct {
	Driver           string        `mapstructure:"driver"`
	FileDirectory    string        `mapstructure:"file_directory"`
	EncryptionSecret string        `mapstructure:"encryption_secret"`
	DefaultTTL       time.Duration `mapstructure:"default_ttl"`
}

type Registration struct {
	WorkflowTTL               time.Duration `mapstructure:"workflow_ttl"`
	SubmitLockTTL             time.Duration `mapstructure:"submit_lock_ttl"`
	RequireAdult              bool          `mapstructure:"require_adult"`
	LicenseCheckEnabled       bool          `mapstructure:"license_check_enabled"`
	PhoneVerificationQuota    int           `mapstructure:"phone_verification_quota"`
	PhoneVerificationWindow   time.Duration `mapstructure:"phone_verification_window"`
	PhotoMaxUploadSizeInBytes int64         `mapstructure:"photo_max_upload_size_in_bytes"`
}

type Recovery struct {
	WorkflowTTL    time.Duration `mapstructure:"workflow_ttl"`
	SendCodeQuota  int           `mapstructure:"send_code_quota"`
	SendCodeWindow time.Duration `mapstructure:"send_code_window"`
}

type AppMinio struct {
	BucketName                         string `mapstructure:"bucket_name"`
	PreSignedUrlObjectExpiryTimeInHour int    `mapstructure:"pre_signed_url_object_expiry_time_in_hour"`
}
