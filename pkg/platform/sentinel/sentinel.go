package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These describe the state of a stored record, not a policy decision:
// - ErrNotFound: no record under the key
// - ErrAlreadyUsed: the key is already taken
// - ErrInvalidState: the record is in the wrong state for the requested change
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
)
