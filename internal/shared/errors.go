package shared

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. Unknown email and wrong
	// password both collapse into this error so responses never reveal which
	// check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailInUse occurs when a signup reuses an existing email.
	ErrEmailInUse = errors.New("email already in use")
	// ErrMissingField occurs when a required signup field is empty.
	ErrMissingField = errors.New("required field missing")
	// ErrRoleNotAllowed occurs when a caller supplies a role it may not assign.
	ErrRoleNotAllowed = errors.New("role not allowed")
)
