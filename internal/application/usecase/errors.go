package usecase

import "errors"

// ErrInvalidRequest marks requests rejected before any assessment work, such
// as a missing applicant ID.
var ErrInvalidRequest = errors.New("invalid request")
