package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cardvault/cmd/app/commands"
	"github.com/allisson/cardvault/internal/app"
	"github.com/allisson/cardvault/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-encryption-key",
			Usage: "Generate a new 32-byte encryption key for the card vault",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "keyring",
					Usage: "Store the key in the OS keyring (KEYRING_SERVICE/KEYRING_ACCOUNT) instead of printing it",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Usage: "Print the key wrapped by this KMS key (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.WithContainer(func(cfg *config.Config, container *app.Container) error {
					return commands.RunCreateEncryptionKey(
						ctx,
						container.KMSService(),
						container.Logger(),
						os.Stdout,
						commands.CreateEncryptionKeyOptions{
							Keyring:        cmd.Bool("keyring"),
							KeyringService: cfg.KeyringService,
							KeyringAccount: cfg.KeyringAccount,
							KMSKeyURI:      cmd.String("kms-key-uri"),
						},
					)
				})
			},
		},
	}
}
