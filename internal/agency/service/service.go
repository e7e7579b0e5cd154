package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	agencymetrics "agencyreg/internal/agency/metrics"
	"agencyreg/internal/agency/models"
	id "agencyreg/pkg/domain"
	dErrors "agencyreg/pkg/domain-errors"
	"agencyreg/pkg/platform/sentinel"
	"agencyreg/pkg/requestcontext"
)

const tracerName = "agencyreg/internal/agency/service"

// Operation names used in logs, spans and metrics.
const (
	opVerify        = "verify_agency"
	opDeactivate    = "deactivate_agency"
	opTransferAdmin = "transfer_admin"
)

// Registry errors. Every rejected call returns one of these unwrapped, so
// callers can match with errors.Is or dErrors.HasCode.
var (
	ErrNotAuthorized   = dErrors.New(dErrors.CodeUnauthorized, "caller is not the registry admin")
	ErrAlreadyVerified = dErrors.New(dErrors.CodeConflict, "agency is already verified")
	ErrNotFound        = dErrors.New(dErrors.CodeNotFound, "agency not found")
)

type AgencyStore interface {
	CreateIfAbsent(ctx context.Context, agency *models.Agency) error
	FindByID(ctx context.Context, agencyID id.Principal) (*models.Agency, error)
	Execute(ctx context.Context, agencyID id.Principal, validate func(*models.Agency) error, mutate func(*models.Agency)) (*models.Agency, error)
}

// Clock supplies the logical time stamped on new records.
type Clock interface {
	Height() uint64
}

// Registry is the authority on which agencies are verified.
//
// A single admin principal may mutate it. Mutating calls hold mu for their
// whole check-then-write sequence, so the admin check and the record change
// are atomic with respect to every other mutating call, TransferAdmin
// included. Reads go straight to the store and receive copies.
type Registry struct {
	mu       sync.RWMutex
	admin    id.Principal
	agencies AgencyStore
	clock    Clock
	logger   *slog.Logger
	metrics  *agencymetrics.Metrics
	tracer   trace.Tracer
}

type Option func(r *Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithMetrics(m *agencymetrics.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(r *Registry) {
		r.tracer = t
	}
}

// New constructs a Registry administered by admin.
func New(admin id.Principal, agencies AgencyStore, clock Clock, opts ...Option) (*Registry, error) {
	if admin.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "initial admin is required")
	}
	if agencies == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "agency store is required")
	}
	if clock == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "clock is required")
	}
	r := &Registry{admin: admin, agencies: agencies, clock: clock}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(tracerName)
	}
	return r, nil
}

// VerifyAgency records agency as verified at the current block height.
//
// Fails with ErrNotAuthorized unless caller is the admin, and with
// ErrAlreadyVerified if agency has any record, active or not. A deactivated
// agency cannot be verified again.
func (r *Registry) VerifyAgency(ctx context.Context, caller, agencyID id.Principal, name, agencyType string) error {
	ctx, span := r.tracer.Start(ctx, "agency.VerifyAgency",
		trace.WithAttributes(attribute.String("agency.id", agencyID.String())))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.admin {
		return r.reject(ctx, span, opVerify, ErrNotAuthorized, agencymetrics.ReasonNotAuthorized,
			"caller", caller.String())
	}

	agency, err := models.NewAgency(agencyID, name, agencyType, r.clock.Height())
	if err != nil {
		err = dErrors.New(dErrors.CodeBadRequest, err.Error())
		return r.fail(span, err)
	}

	if err := r.agencies.CreateIfAbsent(ctx, agency); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return r.reject(ctx, span, opVerify, ErrAlreadyVerified, agencymetrics.ReasonAlreadyVerified,
				"agency_id", agencyID.String())
		}
		r.countRejected(opVerify, agencymetrics.ReasonInternal)
		return r.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save agency"))
	}

	span.SetAttributes(attribute.Int64("agency.verification_date", int64(agency.VerifiedAt)))
	r.logAudit(ctx, "agency_verified",
		"agency_id", agencyID.String(),
		"agency_type", agencyType,
		"verification_date", agency.VerifiedAt,
	)
	if r.metrics != nil {
		r.metrics.IncrementVerified()
	}
	return nil
}

// DeactivateAgency marks a verified agency inactive.
//
// Fails with ErrNotAuthorized unless caller is the admin, and with
// ErrNotFound if the agency was never verified. Deactivating an inactive
// agency succeeds and changes nothing.
func (r *Registry) DeactivateAgency(ctx context.Context, caller, agencyID id.Principal) error {
	ctx, span := r.tracer.Start(ctx, "agency.DeactivateAgency",
		trace.WithAttributes(attribute.String("agency.id", agencyID.String())))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.admin {
		return r.reject(ctx, span, opDeactivate, ErrNotAuthorized, agencymetrics.ReasonNotAuthorized,
			"caller", caller.String())
	}

	wasActive := false
	_, err := r.agencies.Execute(ctx, agencyID,
		func(a *models.Agency) error {
			wasActive = a.IsActive()
			return a.CanDeactivate()
		},
		func(a *models.Agency) {
			a.ApplyDeactivation()
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return r.reject(ctx, span, opDeactivate, ErrNotFound, agencymetrics.ReasonNotFound,
				"agency_id", agencyID.String())
		}
		r.countRejected(opDeactivate, agencymetrics.ReasonInternal)
		return r.fail(span, wrapAgencyErr(err))
	}

	r.logAudit(ctx, "agency_deactivated",
		"agency_id", agencyID.String(),
		"was_active", wasActive,
	)
	if r.metrics != nil {
		r.metrics.IncrementDeactivated(wasActive)
	}
	return nil
}

// IsVerified reports whether agency has a record and that record is active.
// Unknown agencies are simply not verified.
func (r *Registry) IsVerified(ctx context.Context, agencyID id.Principal) bool {
	agency, ok := r.GetAgencyDetails(ctx, agencyID)
	return ok && agency.IsActive()
}

// GetAgencyDetails returns a snapshot of the agency record. ok is false when
// the agency was never verified.
func (r *Registry) GetAgencyDetails(ctx context.Context, agencyID id.Principal) (models.Agency, bool) {
	agency, err := r.agencies.FindByID(ctx, agencyID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) && r.logger != nil {
			r.logger.ErrorContext(ctx, "failed to load agency",
				"agency_id", agencyID.String(),
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return models.Agency{}, false
	}
	return *agency, true
}

// TransferAdmin hands the registry to newAdmin. The caller loses authority
// immediately. newAdmin is not validated: transferring to the current admin
// succeeds.
func (r *Registry) TransferAdmin(ctx context.Context, caller, newAdmin id.Principal) error {
	ctx, span := r.tracer.Start(ctx, "agency.TransferAdmin")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.admin {
		return r.reject(ctx, span, opTransferAdmin, ErrNotAuthorized, agencymetrics.ReasonNotAuthorized,
			"caller", caller.String())
	}

	previous := r.admin
	r.admin = newAdmin

	r.logAudit(ctx, "admin_transferred",
		"previous_admin", previous.String(),
		"new_admin", newAdmin.String(),
	)
	if r.metrics != nil {
		r.metrics.IncrementAdminTransfers()
	}
	return nil
}

// Admin returns the principal currently allowed to mutate the registry.
func (r *Registry) Admin(_ context.Context) id.Principal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.admin
}

func (r *Registry) reject(ctx context.Context, span trace.Span, operation string, err error, reason string, attributes ...any) error {
	if r.logger != nil {
		args := append(attributes,
			"operation", operation,
			"reason", reason,
			"request_id", requestcontext.RequestID(ctx),
		)
		r.logger.WarnContext(ctx, "registry call rejected", args...)
	}
	r.countRejected(operation, reason)
	return r.fail(span, err)
}

func (r *Registry) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (r *Registry) countRejected(operation, reason string) {
	if r.metrics != nil {
		r.metrics.IncrementRejected(operation, reason)
	}
}

func (r *Registry) logAudit(ctx context.Context, event string, attributes ...any) {
	if r.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	r.logger.InfoContext(ctx, event, args...)
}

func wrapAgencyErr(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.Wrap(err, dErrors.CodeConflict, "agency cannot change state")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update agency")
}
