package config

import (
	"time"
	"virem-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "minioadmin"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "minioadmin"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", "8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "America/Santo_Domingo"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			AllowedOrigins:             utils.GetEnvStringSlice("APP_ALLOWED_ORIGINS", []string{"http://localhost:8081", "http://localhost:19006"}),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 100),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			DeviceBlockTimeInSeconds:   utils.GetEnvInt("APP_DEVICE_BLOCK_TIME_IN_SECONDS", 60),
			DeviceRequestsPerSecond:    utils.GetEnvInt("APP_DEVICE_REQUESTS_PER_SECOND", 2),
			DeviceRequestsBurst:        utils.GetEnvInt("APP_DEVICE_REQUESTS_BURST", 5),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 6),
		},
		Backend: AppBackend{
			BaseUrl:             utils.GetEnvString("BACKEND_URL", "http://localhost:3000"),
			RequestTimeout:      utils.GetEnvDuration("BACKEND_REQUEST_TIMEOUT", 15*time.Second),
			LoginPath:           utils.GetEnvString("BACKEND_LOGIN_PATH", "/api/auth/login"),
			RegisterPath:        utils.GetEnvString("BACKEND_REGISTER_PATH", "/api/auth/register"),
			SendCodePath:        utils.GetEnvString("BACKEND_SEND_CODE_PATH", "/enviar-codigo"),
			VerifyCodePath:      utils.GetEnvString("BACKEND_VERIFY_CODE_PATH", "/validar-codigo"),
			UpdatePasswordPath:  utils.GetEnvString("BACKEND_UPDATE_PASSWORD_PATH", "/actualizar-password"),
			PhoneValidationPath: utils.GetEnvString("BACKEND_PHONE_VALIDATION_PATH", "/validar-telefono"),
			LicenseRegistryPath: utils.GetEnvString("BACKEND_LICENSE_REGISTRY_PATH", "/validar-exequatur"),
		},
		Session: AppSession{
			Driver:           utils.GetEnvString("SESSION_DRIVER", "redis"),
			FileDirectory:    utils.GetEnvString("SESSION_FILE_DIRECTORY", "./data/sessions"),
			EncryptionSecret: utils.GetEnvString("SESSION_ENCRYPTION_SECRET", ""),
			DefaultTTL:       utils.GetEnvDuration("SESSION_DEFAULT_TTL", 24*time.Hour),
		},
		Registration: Registration{
			WorkflowTTL:               utils.GetEnvDuration("REGISTRATION_WORKFLOW_TTL", 30*time.Minute),
			SubmitLockTTL:             utils.GetEnvDuration("REGISTRATION_SUBMIT_LOCK_TTL", 30*time.Second),
			RequireAdult:              utils.GetEnvBool("REGISTRATION_REQUIRE_ADULT", true),
			LicenseCheckEnabled:       utils.GetEnvBool("REGISTRATION_LICENSE_CHECK_ENABLED", true),
			PhoneVerificationQuota:    utils.GetEnvInt("REGISTRATION_PHONE_VERIFICATION_QUOTA", 5),
			PhoneVerificationWindow:   utils.GetEnvDuration("REGISTRATION_PHONE_VERIFICATION_WINDOW", 10*time.Minute),
			PhotoMaxUploadSizeInBytes: int64(utils.GetEnvInt("REGISTRATION_PHOTO_MAX_UPLOAD_SIZE_IN_MB", 2)) << 20,
		},
		Recovery: Recovery{
			WorkflowTTL:    utils.GetEnvDuration("RECOVERY_WORKFLOW_TTL", 15*time.Minute),
			SendCodeQuota:  utils.GetEnvInt("RECOVERY_SEND_CODE_QUOTA", 3),
			SendCodeWindow: utils.GetEnvDuration("RECOVERY_SEND_CODE_WINDOW", 15*time.Minute),
		},
		Minio: AppMinio{
			BucketName:                         utils.GetEnvString("MINIO_BUCKET_NAME", "virem-doctor-photos"),
			PreSignedUrlObjectExpiryTimeInHour: utils.GetEnvInt("MINIO_PRE_SIGNED_URL_OBJECT_EXPIRY_TIME_IN_HOUR", 1),
		},
	}
}
