package scenario

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	agencymetrics "agencyreg/internal/agency/metrics"
	"agencyreg/internal/agency/models"
	jwttoken "agencyreg/internal/jwt_token"
	"agencyreg/internal/platform/logger"
	id "agencyreg/pkg/domain"
	dErrors "agencyreg/pkg/domain-errors"
)

const (
	adminA  = "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM"
	agencyX = "ST2CY5V39NHDPWSXMW9QDT3HC3GD6Q6XX4CFRK9AG"
	otherC  = "ST3NBRSFKX28FQ2ZJ1MAKX58HKHSDGNV5YC7WPG3M"
)

type ScenarioSuite struct {
	suite.Suite
	ctx     context.Context
	metrics *agencymetrics.Metrics
	tokens  *jwttoken.JWTService
	runner  *Runner
}

func TestScenarioSuite(t *testing.T) {
	suite.Run(t, new(ScenarioSuite))
}

func (s *ScenarioSuite) SetupTest() {
	s.ctx = context.Background()
	s.metrics = agencymetrics.New(nil)
	s.tokens = jwttoken.NewJWTService("scenario-key", "agencyreg")
	s.runner = NewRunner(
		WithLogger(logger.Discard()),
		WithMetrics(s.metrics),
		WithAuthenticator(s.tokens),
	)
}

func (s *ScenarioSuite) parseFile(path string) *Script {
	f, err := os.Open(path)
	s.Require().NoError(err)
	defer f.Close()
	script, err := Parse(f)
	s.Require().NoError(err)
	return script
}

func (s *ScenarioSuite) TestBasicScenario() {
	report, err := s.runner.Run(s.ctx, s.parseFile("testdata/basic.yaml"))
	s.Require().NoError(err)
	s.False(report.Failed(), "mismatches: %+v", report.Mismatches())
	s.Require().Len(report.Steps, 8)

	details := report.Steps[5]
	s.Require().NotNil(details.Agency)
	s.Equal("Fire Department", details.Agency.Name)
	s.Equal(uint64(100), details.Agency.VerifiedAt, "verification date is the height at verify time")
	s.Equal(models.AgencyStatusInactive, details.Agency.Status)

	s.Equal(adminA, report.FinalAdmin)
	s.Equal(uint64(103), report.FinalHeight)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.VerifiedTotal))
}

func (s *ScenarioSuite) TestTransferScenario() {
	report, err := s.runner.Run(s.ctx, s.parseFile("testdata/transfer.yaml"))
	s.Require().NoError(err)
	s.False(report.Failed(), "mismatches: %+v", report.Mismatches())
	s.Equal(otherC, report.FinalAdmin)
	s.Equal(uint64(100), report.FinalHeight, "genesis defaults when omitted")
}

func (s *ScenarioSuite) TestStepsGetDistinctRequestIDs() {
	report, err := s.runner.Run(s.ctx, s.parseFile("testdata/basic.yaml"))
	s.Require().NoError(err)
	seen := map[string]bool{}
	for _, step := range report.Steps {
		s.NotEmpty(step.RequestID)
		s.False(seen[step.RequestID])
		seen[step.RequestID] = true
	}
}

func (s *ScenarioSuite) TestTokenCallers() {
	adminToken, err := s.tokens.GenerateCallerToken(id.MustPrincipal(adminA), time.Hour)
	s.Require().NoError(err)
	forged, err := jwttoken.NewJWTService("wrong-key", "agencyreg").GenerateCallerToken(id.MustPrincipal(adminA), time.Hour)
	s.Require().NoError(err)

	script := &Script{
		Admin: adminA,
		Steps: []Step{
			{Op: OpVerify, Token: adminToken, Agency: agencyX, Name: "Fire Department", Type: "Fire", Expect: OutcomeOK},
			{Op: OpDeactivate, Token: forged, Agency: agencyX, Expect: string(dErrors.CodeUnauthorized)},
			{Op: OpIsVerified, Agency: agencyX, Expect: OutcomeTrue},
		},
	}
	report, err := s.runner.Run(s.ctx, script)
	s.Require().NoError(err)
	s.False(report.Failed(), "mismatches: %+v", report.Mismatches())

	s.Run("tokens rejected without an authenticator", func() {
		report, err := NewRunner().Run(s.ctx, &Script{
			Admin: adminA,
			Steps: []Step{{Op: OpVerify, Token: adminToken, Agency: agencyX}},
		})
		s.Require().NoError(err)
		s.Equal(string(dErrors.CodeUnauthorized), report.Steps[0].Outcome)
	})
}

func (s *ScenarioSuite) TestMismatchesAreReported() {
	script := &Script{
		Admin: adminA,
		Steps: []Step{
			{Op: OpIsVerified, Agency: agencyX, Expect: OutcomeTrue},
			{Op: OpDetails, Agency: agencyX, Expect: OutcomeAbsent},
		},
	}
	report, err := s.runner.Run(s.ctx, script)
	s.Require().NoError(err)
	s.True(report.Failed())
	s.Require().Len(report.Mismatches(), 1)
	s.Equal(1, report.Mismatches()[0].Index)
	s.Equal(OutcomeFalse, report.Mismatches()[0].Outcome)
}

func (s *ScenarioSuite) TestAdvancePastMaxHeightFails() {
	genesis := uint64(100)
	report, err := s.runner.Run(s.ctx, &Script{
		Admin:         adminA,
		GenesisHeight: &genesis,
		Steps: []Step{
			{Op: OpAdvance, Blocks: math.MaxUint64, Expect: string(dErrors.CodeInvariantViolation)},
			{Op: OpVerify, As: adminA, Agency: agencyX, Name: "Fire Department", Type: "Fire", Expect: OutcomeOK},
			{Op: OpDetails, Agency: agencyX, Expect: OutcomeFound},
		},
	})
	s.Require().NoError(err)
	s.False(report.Failed(), "mismatches: %+v", report.Mismatches())
	s.Equal(uint64(100), report.Steps[0].Height)
	s.Equal(uint64(100), report.Steps[2].Agency.VerifiedAt)
	s.Equal(uint64(100), report.FinalHeight)
}

func (s *ScenarioSuite) TestAdminExpectationIsExact() {
	report, err := s.runner.Run(s.ctx, &Script{
		Admin: adminA,
		Steps: []Step{
			{Op: OpAdmin, Expect: strings.ToLower(adminA)},
			{Op: OpAdmin, Expect: adminA},
			{Op: OpIsVerified, Agency: agencyX, Expect: "FALSE"},
		},
	})
	s.Require().NoError(err)
	s.Require().Len(report.Mismatches(), 1)
	s.Equal(1, report.Mismatches()[0].Index)
}

func (s *ScenarioSuite) TestMalformedPrincipalsInSteps() {
	report, err := s.runner.Run(s.ctx, &Script{
		Admin: adminA,
		Steps: []Step{
			{Op: OpVerify, As: adminA, Agency: "has space", Name: "n", Type: "t"},
			{Op: OpVerify, As: "bad caller", Agency: agencyX},
		},
	})
	s.Require().NoError(err)
	s.Equal(string(dErrors.CodeInvalidInput), report.Steps[0].Outcome)
	s.Equal(string(dErrors.CodeInvalidInput), report.Steps[1].Outcome)
}

func (s *ScenarioSuite) TestParse() {
	s.Run("rejects unknown fields", func() {
		_, err := Parse(strings.NewReader("admin: A\nsteps:\n  - op: admin\n    expcet: ok\n"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("rejects empty input", func() {
		_, err := Parse(strings.NewReader(""))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("rejects invalid admin", func() {
		_, err := Parse(strings.NewReader("admin: ''\nsteps: []\n"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	cases := []struct {
		name string
		step Step
		want string
	}{
		{"unknown op", Step{Op: "delete", Agency: agencyX}, "unknown op"},
		{"both callers", Step{Op: OpVerify, As: adminA, Token: "t", Agency: agencyX}, "mutually exclusive"},
		{"missing caller", Step{Op: OpDeactivate, Agency: agencyX}, "caller is required"},
		{"missing agency", Step{Op: OpIsVerified}, "agency is required"},
		{"missing new admin", Step{Op: OpTransferAdmin, As: adminA}, "new_admin is required"},
		{"zero advance", Step{Op: OpAdvance}, "blocks must be positive"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			err := (&Script{Admin: adminA, Steps: []Step{tc.step}}).Validate()
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation))
			s.Contains(err.Error(), tc.want)
		})
	}
}

func (s *ScenarioSuite) TestReportOutput() {
	report, err := s.runner.Run(s.ctx, s.parseFile("testdata/basic.yaml"))
	s.Require().NoError(err)

	var text bytes.Buffer
	s.Require().NoError(report.WriteText(&text))
	s.Contains(text.String(), "is-verified")
	s.Contains(text.String(), `name="Fire Department"`)
	s.Contains(text.String(), "mismatches=0")

	var js bytes.Buffer
	s.Require().NoError(report.WriteJSON(&js))
	var decoded Report
	s.Require().NoError(json.Unmarshal(js.Bytes(), &decoded))
	s.Len(decoded.Steps, len(report.Steps))
	s.Equal(report.FinalAdmin, decoded.FinalAdmin)
}
