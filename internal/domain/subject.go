package domain

// Measurement bounds accepted from callers. Values outside these ranges are
// rejected at the boundary before any generation work starts.
const (
	MinHeightCm = 120.0
	MaxHeightCm = 220.0
	MinWeightKg = 20.0
	MaxWeightKg = 300.0

	// MaxTargets bounds how many weights a single request may fan out to.
	MaxTargets = 2
)

// Subject describes the person in the uploaded photo. It is created once per
// request and never mutated.
type Subject struct {
	HeightCm        float64
	CurrentWeightKg float64
}

// Validate checks the subject's measurements against the accepted ranges.
func (s Subject) Validate() error {
	if s.HeightCm < MinHeightCm || s.HeightCm > MaxHeightCm {
		return &InputError{Field: "height_cm", Reason: fieldRangeReason(s.HeightCm, MinHeightCm, MaxHeightCm)}
	}
	if s.CurrentWeightKg < MinWeightKg || s.CurrentWeightKg > MaxWeightKg {
		return &InputError{Field: "current_weight_kg", Reason: fieldRangeReason(s.CurrentWeightKg, MinWeightKg, MaxWeightKg)}
	}
	return nil
}

// TargetWeight is one desired future weight. Label is optional and only used
// to correlate the generated image back to the caller's request.
type TargetWeight struct {
	WeightKg float64
	Label    string
}

// Validate checks the target weight against the accepted range.
func (t TargetWeight) Validate() error {
	if t.WeightKg < MinWeightKg || t.WeightKg > MaxWeightKg {
		return &InputError{Field: "targets.weight_kg", Reason: fieldRangeReason(t.WeightKg, MinWeightKg, MaxWeightKg)}
	}
	return nil
}

// ValidateTargets checks the target list as a whole.
func ValidateTargets(targets []TargetWeight) error {
	if len(targets) == 0 {
		return &InputError{Field: "targets", Reason: "at least one target weight is required"}
	}
	if len(targets) > MaxTargets {
		return &InputError{Field: "targets", Reason: "at most 2 target weights are supported"}
	}
	for _, t := range targets {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}
