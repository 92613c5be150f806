package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "remote retryable", err: &RemoteError{Message: "x", Retryable: true}, want: true},
		{name: "remote terminal", err: &RemoteError{Message: "gemini status 400: bad"}, want: false},
		{name: "wrapped remote", err: fmt.Errorf("call: %w", &RemoteError{Message: "x", Retryable: true}), want: true},
		{name: "input error never retried", err: &InputError{Field: "prompt", Reason: "rate limit"}, want: false},
		{name: "configuration error never retried", err: &ConfigurationError{Reason: "timeout misconfigured"}, want: false},
		{name: "rate limit signature", err: errors.New("429 rate limit exceeded"), want: true},
		{name: "quota signature", err: errors.New("daily quota exhausted"), want: true},
		{name: "timeout signature", err: errors.New("request timeout"), want: true},
		{name: "unavailable signature", err: errors.New("service unavailable"), want: true},
		{name: "plain error", err: errors.New("invalid image"), want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryable(tc.err); got != tc.want {
				t.Fatalf("IsRetryable(%v) = %t, want %t", tc.err, got, tc.want)
			}
		})
	}
}

func TestSubjectValidate(t *testing.T) {
	tests := []struct {
		name    string
		subject Subject
		wantErr bool
	}{
		{name: "valid", subject: Subject{HeightCm: 170, CurrentWeightKg: 70}},
		{name: "height too low", subject: Subject{HeightCm: 110, CurrentWeightKg: 70}, wantErr: true},
		{name: "height too high", subject: Subject{HeightCm: 230, CurrentWeightKg: 70}, wantErr: true},
		{name: "weight too low", subject: Subject{HeightCm: 170, CurrentWeightKg: 15}, wantErr: true},
		{name: "weight too high", subject: Subject{HeightCm: 170, CurrentWeightKg: 320}, wantErr: true},
		{name: "boundaries are inclusive", subject: Subject{HeightCm: 120, CurrentWeightKg: 300}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.subject.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("Validate accepted invalid subject")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("Validate rejected valid subject: %v", err)
			}
			if tc.wantErr {
				var inputErr *InputError
				if !errors.As(err, &inputErr) {
					t.Fatalf("Validate returned %T, want *InputError", err)
				}
			}
		})
	}
}

func TestValidateTargets(t *testing.T) {
	if err := ValidateTargets(nil); err == nil {
		t.Fatal("ValidateTargets accepted an empty list")
	}
	three := []TargetWeight{{WeightKg: 50}, {WeightKg: 60}, {WeightKg: 70}}
	if err := ValidateTargets(three); err == nil {
		t.Fatal("ValidateTargets accepted three targets")
	}
	if err := ValidateTargets([]TargetWeight{{WeightKg: 50}, {WeightKg: 400}}); err == nil {
		t.Fatal("ValidateTargets accepted an out-of-range weight")
	}
	if err := ValidateTargets([]TargetWeight{{WeightKg: 50, Label: "goal"}}); err != nil {
		t.Fatalf("ValidateTargets rejected a valid list: %v", err)
	}
}

func TestGenerationOptionsDefaults(t *testing.T) {
	var opts GenerationOptions
	if got := opts.EffectiveStrength(); got != DefaultStrength {
		t.Fatalf("EffectiveStrength() = %g, want %g", got, DefaultStrength)
	}
	if got := opts.EffectiveMimeType(); got != DefaultMimeType {
		t.Fatalf("EffectiveMimeType() = %q, want %q", got, DefaultMimeType)
	}

	strength := 1.2
	bad := GenerationOptions{Strength: &strength}
	if err := bad.Validate(); err == nil {
		t.Fatal("Validate accepted strength above 1.0")
	}
	if err := (GenerationOptions{ReturnMimeType: "image/gif"}).Validate(); err == nil {
		t.Fatal("Validate accepted an unsupported mime type")
	}
}
