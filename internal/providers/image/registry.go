package image

import (
	"sync"

	"github.com/Tsubaki01/slimoro/internal/providers/genai"
)

// Registry hands out one Gemini generator per compute region. Clients are
// constructed lazily, cached forever, and immutable after construction, so
// concurrent requests for the same region share a client.
type Registry struct {
	opts genai.Options

	mu       sync.Mutex
	byRegion map[string]*GeminiGenerator
}

// NewRegistry prepares a registry from the base client options; the region
// field of the options is overridden per lookup.
func NewRegistry(opts genai.Options) *Registry {
	return &Registry{
		opts:     opts,
		byRegion: make(map[string]*GeminiGenerator),
	}
}

// GeneratorFor returns the generator pinned to the given region.
func (r *Registry) GeneratorFor(region string) (Generator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen, ok := r.byRegion[region]; ok {
		return gen, nil
	}

	opts := r.opts
	opts.Region = region
	client, err := genai.NewClient(opts)
	if err != nil {
		return nil, err
	}
	gen := NewGeminiGenerator(client)
	r.byRegion[region] = gen
	return gen, nil
}
