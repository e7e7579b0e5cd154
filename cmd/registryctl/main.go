package main

import (
	"context"

	"github.com/alecthomas/kong"

	"agencyreg/cmd/registryctl/internal/commands"
	"agencyreg/internal/platform/config"
)

var (
	version = "dev"
	cli     struct {
		Run       commands.RunCmd   `cmd:"" help:"Run a registry scenario script"`
		Token     commands.TokenCmd `cmd:"" help:"Issue a signed caller token"`
		LogLevel  string            `help:"Log level (debug, info, warn, error). Overrides REGISTRY_LOG_LEVEL."`
		LogFormat string            `help:"Log format (text, json). Overrides REGISTRY_LOG_FORMAT."`
		Version   kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("registryctl"),
		kong.Description("Agency verification registry host."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{
		Config:    config.FromEnv(),
		LogLevel:  cli.LogLevel,
		LogFormat: cli.LogFormat,
		Version:   version,
	})
	cmd.FatalIfErrorf(err)
}
