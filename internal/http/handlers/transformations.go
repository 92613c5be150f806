package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Tsubaki01/slimoro/internal/domain"
	"github.com/Tsubaki01/slimoro/internal/generation"
	"github.com/Tsubaki01/slimoro/internal/middleware"
	"github.com/Tsubaki01/slimoro/internal/region"
)

type targetPayload struct {
	WeightKg float64 `json:"weight_kg"`
	Label    string  `json:"label,omitempty"`
}

type optionsPayload struct {
	Strength           *float64 `json:"strength,omitempty"`
	PreserveBackground bool     `json:"preserve_background,omitempty"`
	ReturnMimeType     string   `json:"return_mime_type,omitempty"`
	Seed               *int64   `json:"seed,omitempty"`
}

// invalidPayloadMessage is the generic parse-failure message per locale.
var invalidPayloadMessage = map[string]string{
	"en": "invalid request payload",
	"ja": "リクエストの形式が正しくありません",
}

// GenerateTransformations accepts a photo plus measurements and returns the
// generated target-weight images as a single GenerationResult.
func (a *App) GenerateTransformations(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, a.Config.MaxUploadBytes)
	if err := r.ParseMultipartForm(a.Config.MaxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", invalidPayloadMessage[locale])
		return
	}

	imageData, mimeType, err := a.readImage(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	subject, targets, options, err := parseGenerationFields(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	geo := middleware.GeoFromContext(r.Context())
	resolution, err := region.Resolve(a.Config.Region, &geo)
	if err != nil {
		// The explicit region is validated at startup, so this only fires
		// when the deployment was reconfigured underneath a live process.
		a.Logger.Error().Err(err).Msg("transformations: region resolution failed")
		a.error(w, http.StatusInternalServerError, "internal", "region resolution failed")
		return
	}

	generator, err := a.Generators.GeneratorFor(resolution.Region)
	if err != nil {
		a.Logger.Error().Err(err).Str("region", resolution.Region).Msg("transformations: generator construction failed")
		a.error(w, http.StatusInternalServerError, "internal", "generation backend unavailable")
		return
	}

	a.Logger.Info().
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("region", resolution.Region).
		Str("resolution_method", string(resolution.Method)).
		Int("targets", len(targets)).
		Msg("transformations: dispatching generation")

	result := generation.New(generator, a.Logger).GenerateForTargets(r.Context(), generation.Request{
		Subject:   subject,
		Targets:   targets,
		Options:   options,
		ImageData: imageData,
		MimeType:  mimeType,
	})

	w.Header().Set("X-Compute-Region", resolution.Region)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	a.json(w, status, result)
}

func (a *App) readImage(r *http.Request) ([]byte, string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, "", &domain.InputError{Field: "image", Reason: "image file is required"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", &domain.ConversionError{Reason: "unreadable image payload", Cause: err}
	}
	if len(data) == 0 {
		return nil, "", &domain.ConversionError{Reason: "empty image payload"}
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	switch mimeType {
	case "image/png", "image/jpeg", "image/webp":
	default:
		return nil, "", &domain.InputError{Field: "image", Reason: "unsupported image type " + mimeType}
	}
	return data, mimeType, nil
}

func parseGenerationFields(r *http.Request) (domain.Subject, []domain.TargetWeight, domain.GenerationOptions, error) {
	var subject domain.Subject
	var options domain.GenerationOptions

	height, err := parseFloatField(r, "height_cm")
	if err != nil {
		return subject, nil, options, err
	}
	weight, err := parseFloatField(r, "current_weight_kg")
	if err != nil {
		return subject, nil, options, err
	}
	subject = domain.Subject{HeightCm: height, CurrentWeightKg: weight}
	if err := subject.Validate(); err != nil {
		return subject, nil, options, err
	}

	raw := strings.TrimSpace(r.FormValue("targets"))
	if raw == "" {
		return subject, nil, options, &domain.InputError{Field: "targets", Reason: "targets JSON is required"}
	}
	var payload []targetPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return subject, nil, options, &domain.InputError{Field: "targets", Reason: "must be a JSON array of {weight_kg, label}"}
	}
	targets := make([]domain.TargetWeight, len(payload))
	for i, t := range payload {
		targets[i] = domain.TargetWeight{WeightKg: t.WeightKg, Label: t.Label}
	}
	if err := domain.ValidateTargets(targets); err != nil {
		return subject, nil, options, err
	}

	if raw := strings.TrimSpace(r.FormValue("options")); raw != "" {
		var opts optionsPayload
		if err := json.Unmarshal([]byte(raw), &opts); err != nil {
			return subject, nil, options, &domain.InputError{Field: "options", Reason: "must be a JSON object"}
		}
		options = domain.GenerationOptions{
			Strength:           opts.Strength,
			PreserveBackground: opts.PreserveBackground,
			ReturnMimeType:     opts.ReturnMimeType,
			Seed:               opts.Seed,
		}
		if err := options.Validate(); err != nil {
			return subject, nil, options, err
		}
	}

	return subject, targets, options, nil
}

func parseFloatField(r *http.Request, field string) (float64, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return 0, &domain.InputError{Field: field, Reason: "is required"}
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			return 0, &domain.InputError{Field: field, Reason: "must be a number, got " + strconv.Quote(numErr.Num)}
		}
		return 0, &domain.InputError{Field: field, Reason: "must be a number"}
	}
	return value, nil
}
