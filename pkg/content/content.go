// Package content defines the normalized representation of analyzed text and
// the deterministic extractive analyzer used when the Bedrock collaborator is
// unavailable.
package content

import (
	"strings"
	"unicode/utf8"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
)

// Type categorizes content to guide design decisions.
type Type string

// The closed set of content types.
const (
	TypeBusiness    Type = "business"
	TypeTechnical   Type = "technical"
	TypeEducational Type = "educational"
	TypeGeneral     Type = "general"
)

// Input length bounds in characters. Callers outside this range are rejected
// before any stage runs.
const (
	MinInputLen = 1
	MaxInputLen = 5000
)

// Model is the read-only output of content analysis. Key points are in
// display order; the first point is the most important.
type Model struct {
	MainTopic      string   `json:"main_topic"`
	KeyPoints      []string `json:"key_points"`
	Summary        string   `json:"summary"`
	SuggestedTitle string   `json:"suggested_title"`
	ContentType    Type     `json:"content_type"`
}

// ValidateInput checks raw request text against the accepted length range.
func ValidateInput(text string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	if n < MinInputLen {
		return apperrors.New(apperrors.Validation, apperrors.CodeInvalidInput,
			"input text is empty")
	}
	if n > MaxInputLen {
		return apperrors.New(apperrors.Validation, apperrors.CodeInvalidInput,
			"input text too long: %d chars (max %d)", n, MaxInputLen)
	}
	return nil
}

// ParseType normalizes a content type string, defaulting to general.
func ParseType(s string) Type {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeBusiness:
		return TypeBusiness
	case TypeTechnical:
		return TypeTechnical
	case TypeEducational:
		return TypeEducational
	default:
		return TypeGeneral
	}
}
