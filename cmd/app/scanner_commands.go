package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tokenvault/cmd/app/commands"
	"github.com/allisson/tokenvault/internal/app"
)

func getScannerCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "scan",
			Usage: "Scan the configured buckets once and tokenize detected values",
			Flags: []cli.Flag{formatFlag()},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, c *app.Container) error {
				useCase, err := c.ScannerUseCase()
				if err != nil {
					return err
				}
				return commands.RunScan(ctx, useCase, c.Logger(), commands.DefaultIO().Writer, cmd.String("format"))
			}),
		},
		{
			Name:  "report",
			Usage: "Print a tokenization, compliance or scanner report",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "kind",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Report kind: 'tokenization', 'compliance' or 'scanner'",
				},
				&cli.StringFlag{
					Name:    "client-id",
					Aliases: []string{"c"},
					Usage:   "Owner client ID (UUID); required for tokenization and compliance",
				},
				dateFlag("from", "", "Range start", false),
				dateFlag("to", "", "Range end", false),
				formatFlag(),
			},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, c *app.Container) error {
				useCase, err := c.ReportingUseCase()
				if err != nil {
					return err
				}
				return commands.RunReport(ctx, useCase, c.Logger(), commands.DefaultIO().Writer,
					commands.ReportOptions{
						Kind:     cmd.String("kind"),
						ClientID: cmd.String("client-id"),
						From:     cmd.String("from"),
						To:       cmd.String("to"),
						Format:   cmd.String("format"),
					})
			}),
		},
	}
}
