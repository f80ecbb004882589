package auth

import "errors"

var (
	// ErrInvalidCredential covers unknown emails and wrong passwords alike
	ErrInvalidCredential = errors.New("invalid credential")
	ErrEmailInUse        = errors.New("email already in use")
	ErrWeakPassword      = errors.New("password must be at least 8 characters")
	ErrInvalidName       = errors.New("name must be 3 to 25 characters")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrNotSignedIn       = errors.New("not signed in")
	ErrUnsupported       = errors.New("operation not supported by this identity provider")
)

// Messages shown to the user for credential failures
const (
	MsgInvalidCredential = "Email or password is incorrect"
	MsgEmailInUse        = "This email is already in use. Please log in."
)

// Message returns the user-facing text for err, or "" when err has none
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredential):
		return MsgInvalidCredential
	case errors.Is(err, ErrEmailInUse):
		return MsgEmailInUse
	default:
		return ""
	}
}

// IsValidation reports whether err rejects registration input
func IsValidation(err error) bool {
	return errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidEmail)
}
