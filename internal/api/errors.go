package api

import "errors"

// Sentinel errors shared by services and repositories. Handlers translate
// them into HTTP statuses in one place.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrBadRequest      = errors.New("invalid request")
)
