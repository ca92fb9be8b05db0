// Package domain holds the identification flow contracts
package domain

import "context"

// Port is what the http layer calls
type Port interface {
	Photo(ctx context.Context, in PhotoInput) (Identification, error)
	Sound(ctx context.Context, in SoundInput) (Identification, error)
	Validate(ctx context.Context, in ValidateInput) (Validation, error)
}

// Media normalizes uploads before they are fingerprinted
type Media interface {
	Photo(ctx context.Context, raw []byte) ([]byte, error)
	Trim(ctx context.Context, raw []byte) ([]byte, error)
	Spectrogram(ctx context.Context, wav []byte) ([]byte, error)
}
