package bodymetrics

import "math"

// Category is one of the eight standard BMI bands. Derived on demand from
// height and weight, never stored.
type Category string

const (
	CategorySevereThinness   Category = "severe-thinness"
	CategoryModerateThinness Category = "moderate-thinness"
	CategoryMildThinness     Category = "mild-thinness"
	CategoryNormal           Category = "normal"
	CategoryOverweight       Category = "overweight"
	CategoryObesity1         Category = "obesity-1"
	CategoryObesity2         Category = "obesity-2"
	CategoryObesity3         Category = "obesity-3"
)

// BMI computes the body mass index from height in centimeters and weight in
// kilograms.
func BMI(heightCm, weightKg float64) float64 {
	heightM := heightCm / 100
	return weightKg / (heightM * heightM)
}

// Round1 rounds a BMI value to one decimal for user-facing output.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Classify maps a BMI value onto its category. Band boundaries are inclusive
// at the lower bound and exclusive at the upper bound; the top band is open.
func Classify(bmi float64) Category {
	switch {
	case bmi < 16.0:
		return CategorySevereThinness
	case bmi < 17.0:
		return CategoryModerateThinness
	case bmi < 18.5:
		return CategoryMildThinness
	case bmi < 25.0:
		return CategoryNormal
	case bmi < 30.0:
		return CategoryOverweight
	case bmi < 35.0:
		return CategoryObesity1
	case bmi < 40.0:
		return CategoryObesity2
	default:
		return CategoryObesity3
	}
}
