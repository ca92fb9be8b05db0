// Package inference defines the provider capability the identify flows depend on
package inference

import "context"

// Request is one multimodal turn: system text, user text and one PNG image
type Request struct {
	System   string
	User     string
	ImagePNG []byte
}

// Provider answers a Request with a single decoded JSON object
type Provider interface {
	Infer(ctx context.Context, req Request) (map[string]any, error)
	// Model names the model used, recorded in usage logs
	Model() string
}

// Transcriber turns a WAV clip into text
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}
