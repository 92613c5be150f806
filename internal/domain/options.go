package domain

// Generation defaults applied when the caller leaves an option unset.
const (
	DefaultStrength = 0.7
	DefaultMimeType = "image/png"
)

// GenerationOptions tunes a single generation request. All fields are
// optional; zero values mean "use the documented default".
type GenerationOptions struct {
	// Strength controls how strongly the transformation wording is phrased,
	// in [0.0, 1.0]. Nil means DefaultStrength.
	Strength *float64
	// PreserveBackground keeps the photo background fully unchanged instead
	// of merely maintaining composition.
	PreserveBackground bool
	// ReturnMimeType is the fallback mime type for generated images when the
	// backend does not report one ("image/png" or "image/jpeg").
	ReturnMimeType string
	// Seed makes the remote generation reproducible when set.
	Seed *int64
}

// EffectiveStrength returns the configured strength or the default.
func (o GenerationOptions) EffectiveStrength() float64 {
	if o.Strength == nil {
		return DefaultStrength
	}
	return *o.Strength
}

// EffectiveMimeType returns the configured fallback mime type or the default.
func (o GenerationOptions) EffectiveMimeType() string {
	if o.ReturnMimeType == "" {
		return DefaultMimeType
	}
	return o.ReturnMimeType
}

// Validate checks option values against their documented ranges.
func (o GenerationOptions) Validate() error {
	if o.Strength != nil && (*o.Strength < 0 || *o.Strength > 1) {
		return &InputError{Field: "options.strength", Reason: "must be between 0.0 and 1.0"}
	}
	switch o.ReturnMimeType {
	case "", "image/png", "image/jpeg":
	default:
		return &InputError{Field: "options.return_mime_type", Reason: "must be image/png or image/jpeg"}
	}
	return nil
}
