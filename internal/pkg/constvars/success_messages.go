package constvars

const (
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	// Reference data
	CountriesGetSuccess   = "países obtenidos correctamente"
	SpecialtiesGetSuccess = "especialidades obtenidas correctamente"
	GendersGetSuccess     = "géneros obtenidos correctamente"

	// Registration
	RegistrationStartSuccess        = "registro iniciado"
	RegistrationGetSuccess          = "estado del registro obtenido"
	RegistrationProfileSuccess      = "tipo de perfil seleccionado"
	RegistrationPersonalDataSuccess = "datos personales verificados"
	RegistrationPhotoSuccess        = "foto cargada correctamente"
	RegistrationCompletedSuccess    = "Cuenta creada correctamente. Ahora puedes iniciar sesión."
	RegistrationAbandonSuccess      = "registro cancelado"

	// Auth
	LoginSuccess      = "Inicio de sesión exitoso"
	LogoutSuccess     = "Sesión cerrada"
	SessionGetSuccess = "sesión obtenida"

	// Recovery
	RecoveryCodeSentSuccess     = "Código enviado a tu correo"
	RecoveryGetSuccess          = "estado de recuperación obtenido"
	RecoveryCodeVerifiedSuccess = "Código verificado"
	RecoveryPasswordSuccess     = "Contraseña actualizada correctamente"
)
