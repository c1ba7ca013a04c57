// Package usecase runs master key rotation on demand and on a schedule.
package usecase

import "context"

// KeyRotator is the key manager surface the rotation use case drives.
type KeyRotator interface {
	Rotate() (uint64, error)
	Current() uint64
	Generations() []uint64
}

// RotationUseCase rotates the master key.
type RotationUseCase interface {
	// RotateNow performs one rotation and returns the new current generation.
	RotateNow(ctx context.Context) (uint64, error)
}
