package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/tokenvault/internal/crypto/domain"

	// KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

type kmsService struct{}

// NewKMSService creates a KMSService backed by gocloud.dev/secrets.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a keeper for keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// LoadMasterSecret returns the raw provisioned secret. When keyURI is empty the value is
// the base64 secret itself; otherwise it is base64 KMS ciphertext unwrapped through
// the keeper. Callers own the returned bytes and should zero them once the key
// manager is built.
func LoadMasterSecret(
	ctx context.Context,
	kms KMSService,
	encoded, keyURI string,
	logger *slog.Logger,
) ([]byte, error) {
	if keyURI == "" {
		return cryptoDomain.ParseMasterSecret(encoded)
	}
	if encoded == "" {
		return nil, cryptoDomain.ErrMasterSecretNotSet
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidMasterSecret, err)
	}

	keeper, err := kms.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	secret, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt master secret: %w", err)
	}
	if len(secret) < cryptoDomain.MinSecretSize {
		cryptoDomain.Zero(secret)
		return nil, fmt.Errorf(
			"%w: must decode to at least %d bytes, got %d",
			cryptoDomain.ErrInvalidMasterSecret,
			cryptoDomain.MinSecretSize,
			len(secret),
		)
	}

	logger.Info("master secret unwrapped with KMS")
	return secret, nil
}

// WrapMasterSecret encrypts a raw secret with the keeper at keyURI and returns it base64
// encoded, ready for MASTER_SECRET. An empty keyURI returns the plain base64 secret.
func WrapMasterSecret(ctx context.Context, kms KMSService, secret []byte, keyURI string) (string, error) {
	if keyURI == "" {
		return base64.StdEncoding.EncodeToString(secret), nil
	}

	keeper, err := kms.OpenKeeper(ctx, keyURI)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = keeper.Close()
	}()

	ciphertext, err := keeper.Encrypt(ctx, secret)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt master secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
