package requests

type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RecoveryRequestCode struct {
	Email string `json:"email"`
}

// RecoveryVerifyCode carries the six OTP boxes as typed.
type RecoveryVerifyCode struct {
	Code []string `json:"code" validate:"otp_code"`
}

type RecoverySetPassword struct {
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}
