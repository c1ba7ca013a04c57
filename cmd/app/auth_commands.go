package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tokenvault/cmd/app/commands"
	"github.com/allisson/tokenvault/internal/app"
)

func getAuthCommands() []*cli.Command {
	createClient := &cli.Command{
		Name:  "create-client",
		Usage: "Create an API client and print its credentials",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Client name; prompted for when omitted",
			},
			&cli.BoolFlag{
				Name:    "active",
				Aliases: []string{"a"},
				Value:   true,
				Usage:   "Allow the client to authenticate immediately",
			},
			formatFlag(),
		},
		Action: withContainer(func(ctx context.Context, cmd *cli.Command, c *app.Container) error {
			useCase, err := c.ClientUseCase()
			if err != nil {
				return err
			}
			return commands.RunCreateClient(ctx, useCase, c.Logger(),
				cmd.String("name"), cmd.Bool("active"), cmd.String("format"), commands.DefaultIO())
		}),
	}

	setClientStatus := &cli.Command{
		Name:  "set-client-status",
		Usage: "Enable or disable an API client",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Required: true,
				Usage:    "Client ID (UUID)",
			},
			&cli.BoolFlag{
				Name:     "active",
				Aliases:  []string{"a"},
				Required: true,
				Usage:    "true to enable, false to disable",
			},
			formatFlag(),
		},
		Action: withContainer(func(ctx context.Context, cmd *cli.Command, c *app.Container) error {
			useCase, err := c.ClientUseCase()
			if err != nil {
				return err
			}
			return commands.RunSetClientStatus(ctx, useCase, c.Logger(), commands.DefaultIO().Writer,
				cmd.String("id"), cmd.Bool("active"), cmd.String("format"))
		}),
	}

	purgeTokens := &cli.Command{
		Name:  "purge-auth-tokens",
		Usage: "Delete expired bearer tokens",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "grace",
				Value: 24 * time.Hour,
				Usage: "Keep tokens that expired less than this long ago",
			},
			formatFlag(),
		},
		Action: withContainer(func(ctx context.Context, cmd *cli.Command, c *app.Container) error {
			useCase, err := c.TokenUseCase()
			if err != nil {
				return err
			}
			return commands.RunPurgeAuthTokens(ctx, useCase, c.Logger(), commands.DefaultIO().Writer,
				cmd.Duration("grace"), cmd.String("format"))
		}),
	}

	return []*cli.Command{createClient, setClientStatus, purgeTokens}
}
