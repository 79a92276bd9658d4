package models

// ContentKind identifies the markup dialect of an extraction result body.
type ContentKind string

const (
	KindStructuredDocument ContentKind = "structured-document"
	KindPlainText          ContentKind = "plain-text"
	KindRawMarkup          ContentKind = "raw-markup"
)

// SourceQuality is a coarse grade of how article-like the extracted body is.
// It is always derived from the final body, never supplied by callers.
type SourceQuality string

const (
	QualityHigh   SourceQuality = "high"
	QualityMedium SourceQuality = "medium"
	QualityLow    SourceQuality = "low"
)

// ExtractionMethod identifies which strategy produced a result.
type ExtractionMethod string

const (
	MethodRemoteReader    ExtractionMethod = "remote-reader"
	MethodLocalStructural ExtractionMethod = "local-structural"
	MethodLiveDocument    ExtractionMethod = "live-document"
)

// ExtractedContent is the canonical extraction result. It is immutable once
// produced and safe to share read-only between callers.
type ExtractedContent struct {
	Title    string          `json:"title"`
	Body     string          `json:"body"`
	Kind     ContentKind     `json:"kind"`
	Metadata ContentMetadata `json:"metadata"`
}

// ContentMetadata carries quality signals computed from the final body.
type ContentMetadata struct {
	WordCount          int              `json:"word_count"`
	ReadingTimeMinutes int              `json:"reading_time_minutes"`
	ImageCount         int              `json:"image_count"`
	LinkCount          int              `json:"link_count"`
	CodeBlockCount     int              `json:"code_block_count"`
	SourceQuality      SourceQuality    `json:"source_quality"`
	ExtractedAt        int64            `json:"extracted_at_epoch_millis"`
	ExtractionMethod   ExtractionMethod `json:"extraction_method"`

	// Enrichment, present when the source exposes it.
	Author        string `json:"author,omitempty"`
	Language      string `json:"language,omitempty"` // ISO-639-1 if detectable
	PublishedDate string `json:"published_date,omitempty"`
}
