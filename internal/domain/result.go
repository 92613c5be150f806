package domain

// Fallback dimensions reported when the backend does not include real ones.
const (
	DefaultImageWidth  = 1024
	DefaultImageHeight = 1024
)

// GeneratedImage is one output image correlated to a target weight by label.
type GeneratedImage struct {
	Label    string `json:"label,omitempty"`
	Base64   string `json:"base64"`
	MimeType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// ResultMetadata carries diagnostics about a generation run.
type ResultMetadata struct {
	ProcessingTimeMs int64   `json:"processing_time_ms"`
	Confidence       float64 `json:"confidence"`
	Model            string  `json:"model"`
	PartialFailures  int     `json:"partial_failures,omitempty"`
}

// GenerationResult is the unified outcome of a generation request. Exactly
// one of Images/Error is populated, matching Success.
type GenerationResult struct {
	Success  bool             `json:"success"`
	Images   []GeneratedImage `json:"images,omitempty"`
	Metadata *ResultMetadata  `json:"metadata,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// GeographicInfo is a snapshot of the request geography used for region
// resolution. Every field may be empty when the source could not supply it.
type GeographicInfo struct {
	Colo      string `json:"colo,omitempty"`
	Country   string `json:"country,omitempty"`
	Continent string `json:"continent,omitempty"`
}
