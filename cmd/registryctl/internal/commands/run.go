package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	agencymetrics "agencyreg/internal/agency/metrics"
	jwttoken "agencyreg/internal/jwt_token"
	"agencyreg/internal/scenario"
)

// ErrExpectationsFailed is returned when a script ran but some steps did not
// produce their expected outcome.
var ErrExpectationsFailed = fmt.Errorf("scenario expectations failed")

type RunCmd struct {
	Script  string `arg:"" help:"Path to the YAML scenario." type:"existingfile"`
	Format  string `help:"Output format." enum:"text,json" default:"text"`
	Metrics bool   `help:"Print Prometheus metrics after the run."`
	Admin   string `help:"Override the script's initial admin. Defaults to REGISTRY_ADMIN when set."`
}

func (c *RunCmd) Run(ctx context.Context, globals *Globals) error {
	log := globals.logger()

	f, err := os.Open(c.Script)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	script, err := scenario.Parse(f)
	if err != nil {
		return err
	}
	admin := c.Admin
	if admin == "" {
		admin = globals.Config.Admin
	}
	if admin != "" {
		script.Admin = admin
	}
	if script.GenesisHeight == nil {
		genesis := globals.Config.GenesisHeight
		script.GenesisHeight = &genesis
	}

	reg := prometheus.NewRegistry()
	runner := scenario.NewRunner(
		scenario.WithLogger(log),
		scenario.WithMetrics(agencymetrics.New(reg)),
		scenario.WithAuthenticator(jwttoken.NewJWTService(globals.Config.Token.SigningKey, globals.Config.Token.Issuer)),
	)

	log.InfoContext(ctx, "running scenario", "script", c.Script, "steps", len(script.Steps))
	report, err := runner.Run(ctx, script)
	if err != nil {
		return err
	}

	out := globals.stdout()
	if c.Format == "json" {
		err = report.WriteJSON(out)
	} else {
		err = report.WriteText(out)
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if c.Metrics {
		if err := writeMetrics(reg, globals); err != nil {
			return err
		}
	}

	if report.Failed() {
		return ErrExpectationsFailed
	}
	return nil
}

func writeMetrics(reg *prometheus.Registry, globals *Globals) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(globals.stdout(), mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
