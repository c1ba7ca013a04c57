package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tokenvault/cmd/app/commands"
	"github.com/allisson/tokenvault/internal/app"
)

func getSystemCommands(version string) []*cli.Command {
	server := &cli.Command{
		Name:  "server",
		Usage: "Start the HTTP server and background workers",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return commands.RunServer(ctx, version)
		},
	}

	migrate := &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations",
		Action: withContainer(func(_ context.Context, _ *cli.Command, c *app.Container) error {
			cfg := c.Config()
			return commands.RunMigrations(c.Logger(), cfg.DBDriver, cfg.DBConnectionString)
		}),
	}

	verify := &cli.Command{
		Name:  "verify-audit-logs",
		Usage: "Check the HMAC signatures of audit events created in a time range",
		Flags: []cli.Flag{
			dateFlag("start-date", "s", "Range start", true),
			dateFlag("end-date", "e", "Range end", true),
			formatFlag(),
		},
		Action: withContainer(func(ctx context.Context, cmd *cli.Command, c *app.Container) error {
			useCase, err := c.AuditUseCase()
			if err != nil {
				return err
			}
			return commands.RunVerifyAuditLogs(ctx, useCase, c.Logger(), commands.DefaultIO().Writer,
				cmd.String("start-date"), cmd.String("end-date"), cmd.String("format"))
		}),
	}

	return []*cli.Command{server, migrate, verify}
}
