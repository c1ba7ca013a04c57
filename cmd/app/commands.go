package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tokenvault/internal/app"
	"github.com/allisson/tokenvault/internal/config"
)

func getCommands(version string) []*cli.Command {
	var cmds []*cli.Command
	for _, group := range [][]*cli.Command{
		getSystemCommands(version),
		getKeyCommands(),
		getAuthCommands(),
		getScannerCommands(),
	} {
		cmds = append(cmds, group...)
	}
	return cmds
}

// withContainer loads configuration, builds a container for the duration of
// the action and shuts it down afterwards.
func withContainer(action func(ctx context.Context, cmd *cli.Command, c *app.Container) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		container := app.NewContainer(config.Load())
		defer func() { _ = container.Shutdown(ctx) }()
		return action(ctx, cmd, container)
	}
}

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func dateFlag(name, alias, usage string, required bool) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:     name,
		Required: required,
		Usage:    usage + " (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)",
	}
	if alias != "" {
		flag.Aliases = []string{alias}
	}
	return flag
}
