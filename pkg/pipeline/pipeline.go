// Package pipeline implements the orchestrator for infographic generation:
// a stage state machine that sequences content analysis, image sourcing,
// layout, text formatting, composition, and upload, with per-stage
// retry/fallback policy.
//
// # Stages
//
// A run advances through a fixed sequence:
//
//	Pending → Analyzing → Sourcing → LayingOut → Formatting → Composing → Uploading → Completed
//
// with Failed reachable from every non-terminal stage. The stage set is
// closed and the transition table is validated when a Runner is constructed,
// so an impossible transition is a construction-time defect rather than a
// runtime surprise.
//
// # Recovery policy
//
// Failure handling is fixed per stage: analysis falls back to a naive
// extractive summary, sourcing falls back to placeholder assets, and the
// deterministic stages (layout, formatting, composition) are never
// substituted — a failure there is a logic defect and aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
	"github.com/ddrutch/AWSInfoGraphic/pkg/assets"
	"github.com/ddrutch/AWSInfoGraphic/pkg/compose"
	"github.com/ddrutch/AWSInfoGraphic/pkg/content"
	"github.com/ddrutch/AWSInfoGraphic/pkg/platform"
)

// Stage identifies one step of the orchestration pipeline.
type Stage string

// The closed set of stages.
const (
	StagePending    Stage = "pending"
	StageAnalyzing  Stage = "analyzing"
	StageSourcing   Stage = "sourcing"
	StageLayingOut  Stage = "laying_out"
	StageFormatting Stage = "formatting"
	StageComposing  Stage = "composing"
	StageUploading  Stage = "uploading"
	StageCompleted  Stage = "completed"
	StageFailed     Stage = "failed"
)

// transitions is the typed transition table. Every non-terminal stage may
// also transition to StageFailed.
var transitions = map[Stage]Stage{
	StagePending:    StageAnalyzing,
	StageAnalyzing:  StageSourcing,
	StageSourcing:   StageLayingOut,
	StageLayingOut:  StageFormatting,
	StageFormatting: StageComposing,
	StageComposing:  StageUploading,
	StageUploading:  StageCompleted,
}

// Terminal reports whether a stage has no successor.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageFailed
}

// Next returns the successor stage, or StageFailed for terminal stages.
func (s Stage) Next() Stage {
	if n, ok := transitions[s]; ok {
		return n
	}
	return StageFailed
}

// validateTransitions checks the table forms a single chain from Pending to
// Completed. Called from NewRunner so a broken table cannot produce a
// Runner.
func validateTransitions() error {
	seen := map[Stage]bool{}
	for s := StagePending; !s.Terminal(); s = s.Next() {
		if seen[s] {
			return fmt.Errorf("transition table contains a cycle at %q", s)
		}
		seen[s] = true
	}
	if len(seen) != len(transitions) {
		return fmt.Errorf("transition table has unreachable stages")
	}
	return nil
}

// Request is one infographic generation request. It is never mutated; each
// stage produces a new downstream model instead.
type Request struct {
	Text      string `json:"text"`
	Platform  string `json:"platform,omitempty"`
	Format    string `json:"format,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ValidateAndSetDefaults checks the request and fills defaults: platform
// "general", the platform's default output format, and a generated request
// id. The resolved platform spec is returned to avoid a second lookup.
func (r *Request) ValidateAndSetDefaults() (platform.Spec, error) {
	if err := content.ValidateInput(r.Text); err != nil {
		return platform.Spec{}, err
	}
	if r.Platform == "" {
		r.Platform = "general"
	}
	spec, err := platform.Lookup(r.Platform)
	if err != nil {
		return platform.Spec{}, err
	}
	if r.Format == "" {
		r.Format = spec.DefaultFormat
	}
	r.Format = strings.ToUpper(r.Format)
	if err := compose.ValidateFormat(r.Format); err != nil {
		return platform.Spec{}, err
	}
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
	return spec, nil
}

// ElementCounts summarizes the composed layout.
type ElementCounts struct {
	Text  int `json:"text"`
	Image int `json:"image"`
}

// Result is the terminal artifact of one successful run.
type Result struct {
	RequestID    string                  `json:"request_id"`
	Platform     string                  `json:"platform"`
	Format       string                  `json:"format"`
	CanvasWidth  int                     `json:"canvas_width"`
	CanvasHeight int                     `json:"canvas_height"`
	URL          string                  `json:"url"`
	Counts       ElementCounts           `json:"element_counts"`
	Timings      map[Stage]time.Duration `json:"stage_timings"`
	Degraded     DegradedFlags           `json:"degraded"`
	Truncated    bool                    `json:"truncated"`
}

// DegradedFlags records which fallbacks were applied during the run.
type DegradedFlags struct {
	Analysis bool `json:"analysis"` // extractive summary substituted for the model call
	Images   bool `json:"images"`   // placeholders substituted for generated images
}

// StageError is the structured failure returned when a run aborts. It
// carries the failing stage, the error category, and a retry-after hint when
// one is known.
type StageError struct {
	Stage      Stage
	Category   apperrors.Category
	RetryAfter time.Duration
	Timings    map[Stage]time.Duration // partial diagnostics accumulated before the failure
	Err        error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed (%s): %v", e.Stage, e.Category, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error { return e.Err }

// Analyzer is the content-understanding collaborator.
type Analyzer interface {
	// Analyze turns raw text into a content model or a declared failure.
	Analyze(ctx context.Context, text string) (*content.Model, error)
}

// Sourcer is the image-generation collaborator.
type Sourcer interface {
	// Generate produces one image for the prompt at the target pixel size.
	Generate(ctx context.Context, prompt string, width, height int) (*assets.Asset, error)
}

// Store is the object-storage collaborator.
type Store interface {
	// Put stores bytes under key and returns a retrievable URL. Either the
	// upload completes and the URL is reachable, or nothing is visible.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}
