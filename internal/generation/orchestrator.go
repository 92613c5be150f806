package generation

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Tsubaki01/slimoro/internal/domain"
	"github.com/Tsubaki01/slimoro/internal/promptgen"
	"github.com/Tsubaki01/slimoro/internal/providers/image"
)

// PassThroughModel tags results for targets that needed no generation
// because the target weight equals the current weight.
const PassThroughModel = "original-image"

// Orchestrator fans out one backend call per target weight and aggregates
// the outcomes into a single GenerationResult.
type Orchestrator struct {
	generator image.Generator
	logger    zerolog.Logger
}

// New builds an orchestrator around an injected backend generator.
func New(generator image.Generator, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{generator: generator, logger: logger}
}

// Request bundles the validated inputs for one generation run.
type Request struct {
	Subject   domain.Subject
	Targets   []domain.TargetWeight
	Options   domain.GenerationOptions
	ImageData []byte
	MimeType  string
}

// outcome is the per-target slot written by exactly one goroutine.
type outcome struct {
	img         *domain.GeneratedImage
	err         error
	passThrough bool
}

// GenerateForTargets runs the fan-out. Targets whose weight equals the
// subject's current weight pass the original image through untouched, tagged
// with the PassThroughModel marker; the policy is applied uniformly, so an
// all-no-change request short-circuits without any backend call. Change
// targets run concurrently and one target's failure never aborts its
// siblings. The caller always receives a result object, never an error.
func (o *Orchestrator) GenerateForTargets(ctx context.Context, req Request) domain.GenerationResult {
	start := time.Now()

	if len(req.ImageData) == 0 {
		return failureResult(&domain.ConversionError{Reason: "empty image payload"}, start, o.modelName())
	}
	if err := domain.ValidateTargets(req.Targets); err != nil {
		return failureResult(err, start, o.modelName())
	}

	outcomes := make([]outcome, len(req.Targets))
	changeCount := 0

	var wg sync.WaitGroup
	for i, target := range req.Targets {
		if target.WeightKg == req.Subject.CurrentWeightKg {
			outcomes[i] = outcome{img: o.passThroughImage(req, target), passThrough: true}
			continue
		}
		changeCount++
		wg.Add(1)
		go func(i int, target domain.TargetWeight) {
			defer wg.Done()
			outcomes[i] = o.generateOne(ctx, req, target)
		}(i, target)
	}
	wg.Wait()

	return o.aggregate(req, outcomes, changeCount, start)
}

func (o *Orchestrator) generateOne(ctx context.Context, req Request, target domain.TargetWeight) outcome {
	prompt, err := promptgen.Compose(req.Subject, target, req.Options)
	if err != nil {
		return outcome{err: err}
	}

	asset, err := o.generator.Generate(ctx, image.GenerateRequest{
		Prompt:           prompt,
		ImageData:        req.ImageData,
		MimeType:         req.MimeType,
		FallbackMimeType: req.Options.EffectiveMimeType(),
		Seed:             req.Options.Seed,
	})
	if err != nil {
		o.logger.Warn().
			Err(err).
			Str("label", target.Label).
			Float64("target_weight_kg", target.WeightKg).
			Msg("generation: target failed")
		return outcome{err: err}
	}

	mimeType := asset.MimeType
	if mimeType == "" {
		mimeType = req.Options.EffectiveMimeType()
	}
	return outcome{img: &domain.GeneratedImage{
		Label:    target.Label,
		Base64:   base64.StdEncoding.EncodeToString(asset.Data),
		MimeType: mimeType,
		Width:    domain.DefaultImageWidth,
		Height:   domain.DefaultImageHeight,
	}}
}

func (o *Orchestrator) passThroughImage(req Request, target domain.TargetWeight) *domain.GeneratedImage {
	o.logger.Debug().
		Str("label", target.Label).
		Float64("target_weight_kg", target.WeightKg).
		Msg("generation: target matches current weight, echoing original image")
	return &domain.GeneratedImage{
		Label:    target.Label,
		Base64:   base64.StdEncoding.EncodeToString(req.ImageData),
		MimeType: req.MimeType,
		Width:    domain.DefaultImageWidth,
		Height:   domain.DefaultImageHeight,
	}
}

func (o *Orchestrator) aggregate(req Request, outcomes []outcome, changeCount int, start time.Time) domain.GenerationResult {
	images := make([]domain.GeneratedImage, 0, len(outcomes))
	passThroughOnly := true
	failed := 0
	var failures []string

	// Outcomes are walked in target order so output order matches the
	// caller's request regardless of completion order.
	for i, out := range outcomes {
		if out.err != nil {
			failed++
			failures = append(failures, fmt.Sprintf("target %d: %v", i+1, out.err))
			continue
		}
		if !out.passThrough {
			passThroughOnly = false
		}
		images = append(images, *out.img)
	}

	if changeCount > 0 && failed == changeCount {
		err := fmt.Errorf("%w: %s", domain.ErrAllGenerationsFailed, strings.Join(failures, "; "))
		return failureResult(err, start, o.modelName())
	}

	model := o.modelName()
	if passThroughOnly {
		model = PassThroughModel
	}

	total := len(req.Targets)
	confidence := 1.0 - float64(failed)/float64(total)*0.2
	if confidence < 0.8 {
		confidence = 0.8
	}

	result := domain.GenerationResult{
		Success: true,
		Images:  images,
		Metadata: &domain.ResultMetadata{
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			Confidence:       confidence,
			Model:            model,
			PartialFailures:  failed,
		},
	}

	o.logger.Info().
		Int("targets", total).
		Int("failed", failed).
		Float64("confidence", confidence).
		Str("model", model).
		Int64("processing_time_ms", result.Metadata.ProcessingTimeMs).
		Msg("generation: fan-out complete")

	return result
}

func (o *Orchestrator) modelName() string {
	if o.generator == nil {
		return ""
	}
	return o.generator.Model()
}

func failureResult(err error, start time.Time, model string) domain.GenerationResult {
	return domain.GenerationResult{
		Success: false,
		Error:   err.Error(),
		Metadata: &domain.ResultMetadata{
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			Model:            model,
		},
	}
}
