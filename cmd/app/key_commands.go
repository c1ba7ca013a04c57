package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tokenvault/cmd/app/commands"
	cryptoService "github.com/allisson/tokenvault/internal/crypto/service"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-master-secret",
			Usage: "Generate a root secret for MASTER_SECRET",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Usage: "gocloud.dev/secrets keeper URI used to wrap the secret (gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunCreateMasterSecret(
					ctx,
					cryptoService.NewKMSService(),
					commands.DefaultIO().Writer,
					cmd.String("kms-key-uri"),
					cmd.String("format"),
				)
			},
		},
	}
}
