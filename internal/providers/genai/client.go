package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Tsubaki01/slimoro/internal/domain"
	"github.com/Tsubaki01/slimoro/internal/retry"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultModel is the image-editing model targeted by the service.
const DefaultModel = "gemini-2.5-flash-image"

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey string
	// BaseURL may contain a "{region}" placeholder which is substituted with
	// the resolved compute region. Defaults to the global endpoint.
	BaseURL    string
	Model      string
	Region     string
	MaxRetries int
	BaseDelay  time.Duration
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client issues image-editing calls against the Gemini generateContent API.
// Each call sends the transformation prompt plus the original photo inline
// and returns the first inline image from the response. Transient failures
// are retried with exponential backoff inside the client.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     zerolog.Logger
	policy     retry.Policy
}

// ImageRequest carries one prompt+photo pair to the backend.
type ImageRequest struct {
	Prompt    string
	ImageData []byte
	MimeType  string
	// FallbackMimeType is used for the result when the backend does not
	// report one.
	FallbackMimeType string
	Seed             *int64
}

// ImageAsset is the normalized result of a generation call.
type ImageAsset struct {
	Data     []byte
	MimeType string
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiGenerationConfig struct {
	Seed *int64 `json:"seed,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Status  string `json:"status,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client. Missing credentials are a
// configuration error: the service cannot degrade to a local fallback for
// body transformations.
func NewClient(opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, &domain.ConfigurationError{Reason: "gemini api key is required"}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if opts.Region != "" {
		baseURL = strings.ReplaceAll(baseURL, "{region}", opts.Region)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	policy := retry.NewPolicy(opts.MaxRetries, opts.BaseDelay)
	policy.Logger = &logger

	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     logger,
		policy:     policy,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// GenerateImage validates the request, invokes the backend with bounded
// retry, and returns the first inline image of the response.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*ImageAsset, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, &domain.InputError{Field: "prompt", Reason: "must not be empty"}
	}
	if len(req.ImageData) == 0 {
		return nil, &domain.InputError{Field: "image", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.MimeType) == "" {
		return nil, &domain.InputError{Field: "mime_type", Reason: "must not be empty"}
	}

	return retry.Do(ctx, c.policy, func(ctx context.Context) (*ImageAsset, error) {
		return c.generateOnce(ctx, req)
	})
}

func (c *Client) generateOnce(ctx context.Context, req ImageRequest) (*ImageAsset, error) {
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: req.Prompt},
				{InlineData: &geminiInlineData{
					MimeType: req.MimeType,
					Data:     base64.StdEncoding.EncodeToString(req.ImageData),
				}},
			},
		}},
	}
	if req.Seed != nil {
		payload.GenerationConfig = &geminiGenerationConfig{Seed: req.Seed}
	}

	var response geminiGenerateContentResponse
	path := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.model))
	if err := c.invoke(ctx, path, payload, &response); err != nil {
		return nil, err
	}

	asset := firstInlineImage(response)
	if asset == nil {
		return nil, &domain.RemoteError{Message: domain.ErrNoImageInResponse.Error(), Cause: domain.ErrNoImageInResponse}
	}
	if asset.MimeType == "" {
		asset.MimeType = req.FallbackMimeType
	}

	c.logger.Debug().
		Str("model", c.model).
		Str("mime_type", asset.MimeType).
		Int("bytes", len(asset.Data)).
		Msg("genai: generated image")

	return asset, nil
}

func (c *Client) invoke(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Network-level failures (dial, reset, client timeout) are transient.
		return &domain.RemoteError{Message: "invoke gemini", Retryable: true, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.RemoteError{Message: "decode gemini response", Cause: err}
	}
	return nil
}

func (c *Client) statusError(resp *http.Response) error {
	retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError

	var apiErr geminiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
		return &domain.RemoteError{
			Message:   fmt.Sprintf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message),
			Retryable: retryable,
		}
	}
	data, _ := io.ReadAll(resp.Body)
	if len(data) > 0 {
		return &domain.RemoteError{
			Message:   fmt.Sprintf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(data))),
			Retryable: retryable,
		}
	}
	return &domain.RemoteError{Message: fmt.Sprintf("gemini status %d", resp.StatusCode), Retryable: retryable}
}

func firstInlineImage(response geminiGenerateContentResponse) *ImageAsset {
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil || len(data) == 0 {
				continue
			}
			return &ImageAsset{Data: data, MimeType: part.InlineData.MimeType}
		}
	}
	return nil
}
