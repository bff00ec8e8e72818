package shared

import "errors"

// Request guard failures. The middleware answers the CSRF ones with 403.
var (
	ErrSessionMissing    = errors.New("shared: no session in request context")
	ErrCSRFTokenMissing  = errors.New("shared: csrf token missing")
	ErrCSRFTokenMismatch = errors.New("shared: csrf token mismatch")
)
