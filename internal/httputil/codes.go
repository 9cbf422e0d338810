package httputil

// Machine-readable error codes returned alongside HTTP statuses.
// Clients should branch on these, not on the human-readable message.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeInternalError      = "INTERNAL_ERROR"

	// Validation
	CodeEmailRequired      = "EMAIL_REQUIRED"
	CodeNameRequired       = "NAME_REQUIRED"
	CodePasswordRequired   = "PASSWORD_REQUIRED"
	CodePasswordTooShort   = "PASSWORD_TOO_SHORT"
	CodeInvalidEmailFormat = "INVALID_EMAIL_FORMAT"
	CodeTitleRequired      = "TITLE_REQUIRED"

	// Auth / session
	CodeMissingAuth        = "MISSING_AUTH"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"

	// Password reset
	CodeUserNotFound   = "USER_NOT_FOUND"
	CodeNoPendingReset = "NO_PENDING_RESET"
	CodeOTPExpired     = "OTP_EXPIRED"
	CodeOTPMismatch    = "OTP_MISMATCH"

	// Rate limiting
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeCooldownActive  = "COOLDOWN_ACTIVE"

	// Resources
	CodeNotFound = "NOT_FOUND"

	// AI / upstream
	CodeAIUnavailable    = "AI_UNAVAILABLE"
	CodeUnknownTechnique = "UNKNOWN_TECHNIQUE"
)
