package auth

import "errors"

var (
	ErrMissingCredential   = errors.New("authorization header missing")
	ErrMalformedCredential = errors.New("authorization header malformed")
	ErrMalformedToken      = errors.New("token malformed")
	ErrExpiredToken        = errors.New("token expired")
	ErrRevokedToken        = errors.New("token revoked")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccessDenied        = errors.New("access denied")
)

// IsAuthenticationError reports whether err means the caller's identity could
// not be established. Distinct from authorization failure: there the identity
// is known but the role or ownership does not permit the operation.
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, ErrMalformedCredential) ||
		errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrRevokedToken) ||
		errors.Is(err, ErrInvalidCredentials)
}

func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}
