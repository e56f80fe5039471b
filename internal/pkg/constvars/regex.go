package constvars

const (
	RegexContainAtLeastOneSpecialChar = `[!@#$%^&*(),.?":{}|<>]`
	RegexContainAtLeastOneUppercase   = `[A-Z]`
	RegexContainAtLeastOneDigit       = `\d`
	RegexEmail                        = `^[^\s@]+@[^\s@]+\.[^\s@]+$`
	RegexNonDigit                     = `\D`
	RegexNotLetterOrSpace             = `[^a-zA-ZáéíóúÁÉÍÓÚñÑ ]`
	RegexSingleDigit                  = `^[0-9]$`
)
