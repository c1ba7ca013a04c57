package commands

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/tokenvault/internal/crypto/domain"
	cryptoService "github.com/allisson/tokenvault/internal/crypto/service"
)

// RunCreateMasterSecret generates a random root secret and prints it ready for
// MASTER_SECRET. With kmsKeyURI set the secret is wrapped by the KMS keeper and
// the server must run with the same KMS_KEY_URI.
func RunCreateMasterSecret(
	ctx context.Context,
	kms cryptoService.KMSService,
	writer io.Writer,
	kmsKeyURI string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	secret := make([]byte, cryptoDomain.MinSecretSize)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("failed to generate master secret: %w", err)
	}
	defer cryptoDomain.Zero(secret)

	encoded, err := cryptoService.WrapMasterSecret(ctx, kms, secret, kmsKeyURI)
	if err != nil {
		return err
	}

	if format == "json" {
		return writeJSON(writer, map[string]string{
			"master_secret": encoded,
			"kms_key_uri":   kmsKeyURI,
		})
	}

	if kmsKeyURI == "" {
		_, _ = fmt.Fprintln(writer, "# Plaintext master secret. Prefer --kms-key-uri outside development.")
	} else {
		_, _ = fmt.Fprintln(writer, "# Master secret wrapped with KMS")
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=%q\n", kmsKeyURI)
	}
	_, _ = fmt.Fprintf(writer, "MASTER_SECRET=%q\n", encoded)
	return nil
}
