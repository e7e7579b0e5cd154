package scenario

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"agencyreg/internal/agency"
	agencymetrics "agencyreg/internal/agency/metrics"
	"agencyreg/internal/agency/service"
	"agencyreg/internal/platform/clock"
	"agencyreg/internal/platform/config"
	id "agencyreg/pkg/domain"
	dErrors "agencyreg/pkg/domain-errors"
	"agencyreg/pkg/requestcontext"
)

// Authenticator resolves a caller token to a principal.
type Authenticator interface {
	Authenticate(token string) (id.Principal, error)
}

// Runner executes scripts against a fresh registry per run.
type Runner struct {
	logger  *slog.Logger
	metrics *agencymetrics.Metrics
	auth    Authenticator
}

type Option func(r *Runner)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

func WithMetrics(m *agencymetrics.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithAuthenticator enables token callers. Without one, steps that carry a
// token are rejected as unauthorized.
func WithAuthenticator(a Authenticator) Option {
	return func(r *Runner) {
		r.auth = a
	}
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run validates script, builds a registry for it, and executes every step in
// order. Step failures are recorded in the report; Run only returns an error
// when the script itself is unusable.
func (r *Runner) Run(ctx context.Context, script *Script) (*Report, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}
	admin, err := id.ParsePrincipal(script.Admin)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "admin")
	}

	genesis := config.DefaultGenesisHeight
	if script.GenesisHeight != nil {
		genesis = *script.GenesisHeight
	}
	blocks := clock.NewBlockClock(genesis)

	var opts []service.Option
	if r.logger != nil {
		opts = append(opts, service.WithLogger(r.logger))
	}
	if r.metrics != nil {
		opts = append(opts, service.WithMetrics(r.metrics))
	}
	registry, err := agency.NewRegistry(admin, blocks, opts...)
	if err != nil {
		return nil, err
	}

	report := &Report{Steps: make([]StepResult, 0, len(script.Steps))}
	for i, step := range script.Steps {
		stepCtx := requestcontext.WithRequestID(ctx, uuid.NewString())
		res := r.runStep(stepCtx, registry, blocks, step)
		res.Index = i + 1
		res.Op = step.Op
		res.RequestID = requestcontext.RequestID(stepCtx)
		res.Expected = step.Expect
		res.Matched = matches(step, res.Outcome)
		if !res.Matched && r.logger != nil {
			r.logger.WarnContext(stepCtx, "scenario expectation mismatch",
				"step", res.Index,
				"op", res.Op,
				"expected", res.Expected,
				"outcome", res.Outcome,
				"request_id", res.RequestID,
			)
		}
		report.Steps = append(report.Steps, res)
	}
	report.FinalAdmin = registry.Admin(ctx).String()
	report.FinalHeight = blocks.Height()
	return report, nil
}

func (r *Runner) runStep(ctx context.Context, registry *agency.Registry, blocks *clock.BlockClock, step Step) StepResult {
	switch strings.TrimSpace(step.Op) {
	case OpAdvance:
		height, err := blocks.Advance(step.Blocks)
		if err != nil {
			res := errorResult(err)
			res.Height = height
			return res
		}
		return StepResult{Outcome: OutcomeOK, Height: height}
	case OpAdmin:
		return StepResult{Outcome: registry.Admin(ctx).String()}
	case OpIsVerified:
		agencyID, err := id.ParsePrincipal(step.Agency)
		if err != nil {
			return errorResult(err)
		}
		return StepResult{Outcome: strconv.FormatBool(registry.IsVerified(ctx, agencyID))}
	case OpDetails:
		agencyID, err := id.ParsePrincipal(step.Agency)
		if err != nil {
			return errorResult(err)
		}
		details, ok := registry.GetAgencyDetails(ctx, agencyID)
		if !ok {
			return StepResult{Outcome: OutcomeAbsent}
		}
		return StepResult{Outcome: OutcomeFound, Agency: &details}
	}

	caller, err := r.caller(step)
	if err != nil {
		return errorResult(err)
	}

	switch strings.TrimSpace(step.Op) {
	case OpVerify:
		agencyID, err := id.ParsePrincipal(step.Agency)
		if err != nil {
			return errorResult(err)
		}
		err = registry.VerifyAgency(ctx, caller, agencyID, step.Name, step.Type)
		return mutationResult(err, blocks.Height())
	case OpDeactivate:
		agencyID, err := id.ParsePrincipal(step.Agency)
		if err != nil {
			return errorResult(err)
		}
		return mutationResult(registry.DeactivateAgency(ctx, caller, agencyID), 0)
	case OpTransferAdmin:
		newAdmin, err := id.ParsePrincipal(step.NewAdmin)
		if err != nil {
			return errorResult(err)
		}
		return mutationResult(registry.TransferAdmin(ctx, caller, newAdmin), 0)
	}
	return errorResult(dErrors.New(dErrors.CodeValidation, "unknown op "+step.Op))
}

// caller establishes who is making the call: a bare principal, or the
// subject of a verified token.
func (r *Runner) caller(step Step) (id.Principal, error) {
	if step.Token != "" {
		if r.auth == nil {
			return "", dErrors.New(dErrors.CodeUnauthorized, "token callers are not enabled")
		}
		return r.auth.Authenticate(step.Token)
	}
	return id.ParsePrincipal(step.As)
}

// matches compares an expectation with an outcome. Principals compare
// exactly; keywords and error codes ignore case.
func matches(step Step, outcome string) bool {
	switch {
	case step.Expect == "":
		return true
	case strings.TrimSpace(step.Op) == OpAdmin:
		return step.Expect == outcome
	}
	return strings.EqualFold(step.Expect, outcome)
}

func mutationResult(err error, height uint64) StepResult {
	if err != nil {
		return errorResult(err)
	}
	return StepResult{Outcome: OutcomeOK, Height: height}
}

func errorResult(err error) StepResult {
	return StepResult{Outcome: string(dErrors.CodeOf(err)), Error: err.Error()}
}
