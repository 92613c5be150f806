package promptgen

import (
	"fmt"
	"math"
	"strings"

	"github.com/Tsubaki01/slimoro/internal/bodymetrics"
	"github.com/Tsubaki01/slimoro/internal/domain"
)

// Compose builds the natural-language transformation instruction for one
// target weight. The output is deterministic: identical inputs always yield
// byte-identical prompts, so reproducibility is controlled solely by the
// seed passed to the backend.
//
// A zero weight difference is a caller error here; no-change targets are the
// orchestrator's pass-through case and must never reach the composer.
func Compose(subject domain.Subject, target domain.TargetWeight, opts domain.GenerationOptions) (string, error) {
	weightDiff := math.Abs(target.WeightKg - subject.CurrentWeightKg)
	if weightDiff == 0 {
		return "", domain.ErrNoChangeNeeded
	}

	currentBMI := bodymetrics.BMI(subject.HeightCm, subject.CurrentWeightKg)
	targetBMI := bodymetrics.BMI(subject.HeightCm, target.WeightKg)
	currentCategory := bodymetrics.Classify(currentBMI)
	targetCategory := bodymetrics.Classify(targetBMI)

	direction := "heavier"
	change := "fuller"
	if target.WeightKg < subject.CurrentWeightKg {
		direction = "lighter"
		change = "slimmer"
	}

	intensity := math.Min(math.Abs(targetBMI-currentBMI)/10, 1.0)
	adverb := strengthAdverb(opts.EffectiveStrength())

	parts := []string{
		fmt.Sprintf(
			"Edit this photo so the person appears %s, %.1f kg %s than now (%.1f kg to %.1f kg).",
			change, weightDiff, direction, subject.CurrentWeightKg, target.WeightKg,
		),
		fmt.Sprintf(
			"Their body composition shifts from %s (BMI %.1f) to %s (BMI %.1f).",
			currentCategory, bodymetrics.Round1(currentBMI), targetCategory, bodymetrics.Round1(targetBMI),
		),
	}

	switch {
	case intensity > 0.8:
		parts = append(parts,
			fmt.Sprintf("Apply a dramatic, clearly visible change to the body shape, adjusted %s.", adverb),
			"Keep the result anatomically plausible and healthy-looking; avoid exaggerated or unrealistic proportions.",
		)
	case intensity > 0.5:
		parts = append(parts,
			fmt.Sprintf("Apply a moderate, noticeable change to the body shape, adjusted %s.", adverb))
	default:
		parts = append(parts,
			fmt.Sprintf("Apply a subtle, natural change to the body shape, adjusted %s.", adverb))
	}

	if opts.PreserveBackground {
		parts = append(parts, "Keep the background fully unchanged.")
	} else {
		parts = append(parts, "Maintain the overall composition and focus the edit on the body.")
	}

	parts = append(parts, "Do not change anything except the physique: the face, clothing, pose, and lighting must be preserved exactly.")

	return strings.Join(parts, " "), nil
}

func strengthAdverb(strength float64) string {
	switch {
	case strength > 0.8:
		return "dramatically"
	case strength > 0.5:
		return "significantly"
	default:
		return "moderately"
	}
}
