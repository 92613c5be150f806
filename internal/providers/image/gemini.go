package image

import (
	"context"

	"github.com/Tsubaki01/slimoro/internal/providers/genai"
)

// GeminiGenerator adapts the Gemini client to the Generator contract.
type GeminiGenerator struct {
	client *genai.Client
}

// NewGeminiGenerator wraps an already-configured Gemini client.
func NewGeminiGenerator(client *genai.Client) *GeminiGenerator {
	return &GeminiGenerator{client: client}
}

// Generate fulfils the Generator interface.
func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (*Asset, error) {
	asset, err := g.client.GenerateImage(ctx, genai.ImageRequest{
		Prompt:           req.Prompt,
		ImageData:        req.ImageData,
		MimeType:         req.MimeType,
		FallbackMimeType: req.FallbackMimeType,
		Seed:             req.Seed,
	})
	if err != nil {
		return nil, err
	}
	return &Asset{Data: asset.Data, MimeType: asset.MimeType}, nil
}

// Model returns the configured model identifier.
func (g *GeminiGenerator) Model() string {
	return g.client.Model()
}

var _ Generator = (*GeminiGenerator)(nil)
