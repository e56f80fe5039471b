package constvars

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "No se pudo procesar tu solicitud."
	ErrClientSomethingWrongWithApplication = "Ocurrió un error inesperado en la aplicación."
	ErrClientServerLongRespond             = "El servidor está tardando demasiado en responder."
	ErrClientTooManyRequests               = "Demasiadas solicitudes. Intenta más tarde."
	ErrClientDeviceIDRequired              = "Falta el identificador del dispositivo."
	ErrClientRequestTooLarge               = "La solicitud es demasiado grande."

	// Validation
	ErrClientCompleteAllFields       = "Debe completar todos los campos."
	ErrClientCompletePersonalData    = "Debe completar todos los datos personales."
	ErrClientRequiredField           = "Este campo es obligatorio."
	ErrClientInvalidEmail            = "El correo no tiene un formato válido."
	ErrClientEmailRequired           = "Por favor, ingresa tu correo electrónico."
	ErrClientPasswordRequired        = "Ingresa tu contraseña."
	ErrClientPasswordsDoNotMatch     = "Las contraseñas no coinciden."
	ErrClientInvalidPhoneFormat      = "El número de teléfono está incompleto."
	ErrClientUnknownCountry          = "El código de país no es válido."
	ErrClientUnknownSpecialty        = "Selecciona una especialidad de la lista."
	ErrClientUnknownGender           = "Selecciona un género de la lista."
	ErrClientMalformedPersonalData   = "Los datos personales no corresponden al tipo de perfil."
	ErrClientProfileNotSelected      = "Selecciona primero el tipo de perfil."
	ErrClientIncompleteOTP           = "Ingresa el código completo."
	ErrClientInvalidImageFormat      = "La foto debe ser una imagen JPG o PNG."
	ErrClientImageTooLarge           = "La foto supera el tamaño permitido."
	ErrClientPhotoOnlyForDoctors     = "Solo el perfil de médico admite foto."
	ErrClientWorkflowStepMismatch    = "Este paso no está disponible en el estado actual."
	ErrClientWorkflowNotFound        = "El proceso expiró o no existe. Comienza de nuevo."
	ErrClientSubmissionInFlight      = "Ya hay una solicitud en curso. Espera un momento."
	ErrClientRecoveryEmailNotFound   = "No se encontró el correo para actualizar la contraseña."
	ErrClientPersonalDataUnavailable = "Faltan los datos personales del registro."

	// Policy
	ErrClientWeakPassword      = "La contraseña debe tener al menos 8 caracteres, una mayúscula, un número y un carácter especial."
	ErrClientInvalidNationalID = "El número de cédula no es válido."
	ErrClientInvalidBirthDate  = "La fecha de nacimiento no es real o es incorrecta."
	ErrClientUnderage          = "Debes ser mayor de edad para registrarte."
	ErrClientPhoneRejected     = "El número no es válido según Veriphone."
	ErrClientLicenseNotFound   = "El exequátur no fue encontrado en el registro oficial."

	// Remote
	ErrClientPhoneCheckFailedFormat   = "No se pudo validar (HTTP %d)."
	ErrClientLicenseCheckFailedFormat = "No se pudo verificar el exequátur (HTTP %d)."
	ErrClientRegisterFailedFormat     = "Fallo (HTTP %d)."
	ErrClientRegisterDetailFormat     = "%s\n\nDetalle: %s"
	ErrClientLoginFailed              = "Correo o contraseña incorrectos."
	ErrClientEmailNotRegistered       = "El correo ingresado no está registrado."
	ErrClientCodeIncorrectOrExpired   = "Código incorrecto o expirado."
	ErrClientPasswordUpdateFailed     = "No se pudo actualizar."

	// Connectivity
	ErrClientNetworkBackend = "Error de red: no se pudo conectar con el backend."
	ErrClientNoConnection   = "No hay conexión con el servidor."
)

// Error messages for developers
const (
	ErrDevInvalidInput             = "invalid input"
	ErrDevCannotParseJSON          = "cannot parse JSON"
	ErrDevCannotMarshalJSON        = "cannot marshal JSON"
	ErrDevCreateHTTPRequest        = "failed to create HTTP request"
	ErrDevSendHTTPRequest          = "failed to send HTTP request"
	ErrDevDecodeResponse           = "failed to decode backend response"
	ErrDevServerDeadlineExceeded   = "server deadline exceeded"
	ErrDevTooManyRequests          = "rate limit exceeded"
	ErrDevDeviceIDMissing          = "X-Device-ID header missing"
	ErrDevURLParamIDValidation     = "failed to validate URL param %s"
	ErrDevCannotParseMultipartForm = "cannot parse multipart form"
	ErrDevImageValidationFailed    = "image validation failed"
	ErrDevImageTooLarge            = "image exceeds size limit"
	ErrDevPanicRecovered           = "panic recovered"
	ErrDevRequestBodyTooLarge      = "request body exceeds limit"
	ErrDevMissingRequestID         = "request id missing from context"

	// Validation
	ErrDevValidationFailed      = "validation failed"
	ErrDevFieldGateFailed       = "field gate failed on %s"
	ErrDevPasswordsDoNotMatch   = "passwords do not match"
	ErrDevWeakPassword          = "password does not satisfy strength rules"
	ErrDevMalformedPersonalData = "personal data kind and variant disagree"

	// Workflow
	ErrDevWorkflowNotFound       = "workflow state not found"
	ErrDevWorkflowStepMismatch   = "workflow step %s cannot accept %s"
	ErrDevSubmissionInFlight     = "submission already in flight"
	ErrDevWorkflowStateCorrupted = "workflow state corrupted"

	// Remote
	ErrDevPhoneRejected         = "phone rejected by validation endpoint"
	ErrDevPhoneCheckFailed      = "phone validation request failed"
	ErrDevLicenseNotFound       = "license not found in registry"
	ErrDevLicenseCheckFailed    = "license registry request failed"
	ErrDevBackendRejected       = "backend rejected request"
	ErrDevBackendUnreachable    = "backend unreachable"
	ErrDevUnexpectedBackendBody = "unexpected backend response body"

	// Storage
	ErrDevRedisSet          = "failed to set key on redis"
	ErrDevRedisGet          = "failed to get key from redis"
	ErrDevRedisDelete       = "failed to delete key from redis"
	ErrDevLockAcquire       = "failed to acquire lock"
	ErrDevKVStoreWrite      = "failed to write key/value entry"
	ErrDevKVStoreRead       = "failed to read key/value entry"
	ErrDevKVStoreDelete     = "failed to delete key/value entry"
	ErrDevEncryptEntry      = "failed to encrypt entry"
	ErrDevDecryptEntry      = "failed to decrypt entry"
	ErrDevStorageUploadFile = "failed to upload file to object storage"
	ErrDevStorageGetURL     = "failed to build object URL"
)
