package models

import (
	id "agencyreg/pkg/domain"
	dErrors "agencyreg/pkg/domain-errors"
)

// AgencyStatus is the lifecycle state of a verified agency.
type AgencyStatus string

const (
	AgencyStatusActive   AgencyStatus = "active"
	AgencyStatusInactive AgencyStatus = "inactive"
)

// CanTransitionTo reports whether a status change is permitted.
// Only active -> inactive exists; inactive -> inactive is allowed so that
// deactivation stays idempotent.
func (s AgencyStatus) CanTransitionTo(next AgencyStatus) bool {
	return next == AgencyStatusInactive && (s == AgencyStatusActive || s == AgencyStatusInactive)
}

// Agency is the verification record for one agency.
//
// Invariants:
//   - ID, Name, Type and VerifiedAt are fixed at construction
//   - Status starts active and only ever moves to inactive
//   - A record exists only because a verification succeeded
//
// Agency is a value type. Stores hand out copies; the only mutation path is
// ApplyDeactivation on a copy inside the store's Execute callback.
type Agency struct {
	ID         id.Principal `json:"agency"`
	Name       string       `json:"name"`
	Type       string       `json:"agency_type"`
	VerifiedAt uint64       `json:"verification_date"`
	Status     AgencyStatus `json:"status"`
}

// NewAgency builds an active record verified at height.
// Name and type are stored as given; the registry places no format rules on them.
func NewAgency(agencyID id.Principal, name, agencyType string, height uint64) (*Agency, error) {
	if agencyID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "agency id cannot be empty")
	}
	return &Agency{
		ID:         agencyID,
		Name:       name,
		Type:       agencyType,
		VerifiedAt: height,
		Status:     AgencyStatusActive,
	}, nil
}

func (a *Agency) IsActive() bool {
	return a.Status == AgencyStatusActive
}

// CanDeactivate checks if the agency can transition to inactive status.
// Deactivating an inactive agency is not an error.
func (a *Agency) CanDeactivate() error {
	if !a.Status.CanTransitionTo(AgencyStatusInactive) {
		return dErrors.New(dErrors.CodeInvariantViolation, "agency status is unknown")
	}
	return nil
}

// ApplyDeactivation transitions the agency to inactive status.
// Call CanDeactivate first to validate the transition.
func (a *Agency) ApplyDeactivation() {
	a.Status = AgencyStatusInactive
}
