package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Tsubaki01/slimoro/internal/domain"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Options{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		Model:      "gemini-test",
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	// No jitter in tests so backoff is deterministic and fast.
	client.policy.Jitter = 0
	return client
}

func inlineImageResponse(mimeType string, data []byte) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]any{
					{"text": "here is your image"},
					{"inlineData": map[string]any{
						"mimeType": mimeType,
						"data":     base64.StdEncoding.EncodeToString(data),
					}},
				},
			},
		}},
	}
}

func validRequest() ImageRequest {
	return ImageRequest{
		Prompt:           "make the person lighter",
		ImageData:        []byte("fake-photo-bytes"),
		MimeType:         "image/jpeg",
		FallbackMimeType: "image/png",
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Options{})
	var cfgErr *domain.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("NewClient returned %v, want *domain.ConfigurationError", err)
	}
}

func TestNewClientSubstitutesRegionPlaceholder(t *testing.T) {
	client, err := NewClient(Options{
		APIKey:  "test-key",
		BaseURL: "https://{region}.example.com/v1beta",
		Region:  "europe-west1",
	})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if client.baseURL != "https://europe-west1.example.com/v1beta" {
		t.Fatalf("baseURL = %q, placeholder not substituted", client.baseURL)
	}
}

func TestGenerateImageValidatesArguments(t *testing.T) {
	client := testClient(t, "http://unused.invalid")

	tests := []struct {
		name string
		req  ImageRequest
	}{
		{name: "empty prompt", req: ImageRequest{ImageData: []byte("x"), MimeType: "image/png"}},
		{name: "empty image", req: ImageRequest{Prompt: "p", MimeType: "image/png"}},
		{name: "empty mime type", req: ImageRequest{Prompt: "p", ImageData: []byte("x")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.GenerateImage(context.Background(), tc.req)
			var inputErr *domain.InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("GenerateImage returned %v, want *domain.InputError", err)
			}
		})
	}
}

func TestGenerateImageReturnsFirstInlineImage(t *testing.T) {
	imageBytes := []byte("generated-image")
	var gotPath string
	var gotBody struct {
		Contents []struct {
			Parts []struct {
				Text       string `json:"text"`
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"contents"`
		GenerationConfig *struct {
			Seed *int64 `json:"seed"`
		} `json:"generationConfig"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(inlineImageResponse("image/webp", imageBytes))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	req := validRequest()
	seed := int64(42)
	req.Seed = &seed

	asset, err := client.GenerateImage(context.Background(), req)
	if err != nil {
		t.Fatalf("GenerateImage returned error: %v", err)
	}
	if string(asset.Data) != string(imageBytes) {
		t.Fatalf("asset data mismatch: %q", asset.Data)
	}
	if asset.MimeType != "image/webp" {
		t.Fatalf("backend mime type not honored: %q", asset.MimeType)
	}
	if gotPath != "/models/gemini-test:generateContent" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotBody.GenerationConfig == nil || gotBody.GenerationConfig.Seed == nil || *gotBody.GenerationConfig.Seed != 42 {
		t.Fatalf("seed not forwarded: %+v", gotBody.GenerationConfig)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 2 {
		t.Fatalf("unexpected request shape: %+v", gotBody.Contents)
	}
	if gotBody.Contents[0].Parts[1].InlineData.MimeType != "image/jpeg" {
		t.Fatalf("original photo mime type not forwarded: %+v", gotBody.Contents[0].Parts[1].InlineData)
	}
}

func TestGenerateImageUsesFallbackMimeType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(inlineImageResponse("", []byte("img")))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	asset, err := client.GenerateImage(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("GenerateImage returned error: %v", err)
	}
	if asset.MimeType != "image/png" {
		t.Fatalf("fallback mime type not applied: %q", asset.MimeType)
	}
}

func TestGenerateImageNoInlineImageIsTerminal(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": "sorry, text only"}},
				},
			}},
		})
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	_, err := client.GenerateImage(context.Background(), validRequest())
	if !errors.Is(err, domain.ErrNoImageInResponse) {
		t.Fatalf("GenerateImage returned %v, want ErrNoImageInResponse", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("terminal no-image response was retried %d times", calls.Load())
	}
}

func TestGenerateImageRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": 429, "status": "RESOURCE_EXHAUSTED", "message": "rate limit exceeded"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(inlineImageResponse("image/png", []byte("img")))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	asset, err := client.GenerateImage(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("GenerateImage returned error after retries: %v", err)
	}
	if len(asset.Data) == 0 {
		t.Fatal("asset data empty")
	}
	if calls.Load() != 3 {
		t.Fatalf("backend called %d times, want 3", calls.Load())
	}
}

func TestGenerateImageBadRequestIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 400, "status": "INVALID_ARGUMENT", "message": "unsupported image"},
		})
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	_, err := client.GenerateImage(context.Background(), validRequest())
	if err == nil {
		t.Fatal("GenerateImage returned nil error")
	}
	if !strings.Contains(err.Error(), "unsupported image") {
		t.Fatalf("backend message not surfaced: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("terminal 400 was retried %d times", calls.Load())
	}
}

func TestGenerateImageExhaustionSurfacesLastError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 503, "status": "UNAVAILABLE", "message": "model overloaded"},
		})
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	_, err := client.GenerateImage(context.Background(), validRequest())
	if err == nil {
		t.Fatal("GenerateImage returned nil error")
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("exhaustion hid the last error: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("backend called %d times, want 3 (1 + 2 retries)", calls.Load())
	}
}
