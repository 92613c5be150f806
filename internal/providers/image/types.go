package image

import "context"

// GenerateRequest is one prompt+photo generation call against a backend.
type GenerateRequest struct {
	Prompt    string
	ImageData []byte
	MimeType  string
	// FallbackMimeType is used when the backend does not report one.
	FallbackMimeType string
	Seed             *int64
}

// Asset is the normalized generated image.
type Asset struct {
	Data     []byte
	MimeType string
}

// Generator abstracts the remote generative-image backend so the
// orchestrator can be composed with any provider selected by configuration.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Asset, error)
	Model() string
}
