package agency

import (
	"agencyreg/internal/agency/models"
	"agencyreg/internal/agency/service"
	"agencyreg/internal/agency/store"
	id "agencyreg/pkg/domain"
)

// Registry exposes agency verification.
type Registry = service.Registry

// Agency is a verification record snapshot.
type Agency = models.Agency

// Option configures a Registry.
type Option = service.Option

// NewRegistry constructs a registry backed by an in-memory store.
func NewRegistry(admin id.Principal, clock service.Clock, opts ...Option) (*Registry, error) {
	return service.New(admin, store.NewInMemory(), clock, opts...)
}
