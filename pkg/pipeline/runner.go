package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
	"github.com/ddrutch/AWSInfoGraphic/pkg/assets"
	"github.com/ddrutch/AWSInfoGraphic/pkg/cache"
	"github.com/ddrutch/AWSInfoGraphic/pkg/compose"
	"github.com/ddrutch/AWSInfoGraphic/pkg/content"
	"github.com/ddrutch/AWSInfoGraphic/pkg/layout"
	"github.com/ddrutch/AWSInfoGraphic/pkg/novacanvas"
	"github.com/ddrutch/AWSInfoGraphic/pkg/observability"
	"github.com/ddrutch/AWSInfoGraphic/pkg/platform"
	"github.com/ddrutch/AWSInfoGraphic/pkg/textfmt"
)

// Runner owns one run of the pipeline per call. It is stateless between
// runs; multiple goroutines can share a Runner for independent requests.
// The only cross-request state is the read-only platform registry and the
// injected image cache.
type Runner struct {
	Analyzer Analyzer // nil means the extractive fallback is used directly
	Sourcer  Sourcer  // nil means placeholder assets are used directly
	Store    Store

	Images *cache.Group
	Logger *log.Logger
	Policy Policy

	Layout layout.Options
	Text   textfmt.Options
}

// NewRunner constructs a Runner and validates the stage transition table.
// A nil store is rejected: without storage there is no result artifact.
func NewRunner(analyzer Analyzer, sourcer Sourcer, store Store, images *cache.Group, logger *log.Logger) (*Runner, error) {
	if err := validateTransitions(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("pipeline: store is required")
	}
	if images == nil {
		images = cache.NewGroup(nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Analyzer: analyzer,
		Sourcer:  sourcer,
		Store:    store,
		Images:   images,
		Logger:   logger,
		Policy:   DefaultPolicy(),
		Layout:   layout.DefaultOptions(),
		Text:     textfmt.DefaultOptions(),
	}, nil
}

// Run executes the full pipeline for one request.
//
// It returns either a completed Result or a *StageError naming the failing
// stage and error category. Repeated calls with the same request id produce
// equivalent results up to the nondeterminism of the generative
// collaborators; the deterministic stages are referentially transparent.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	spec, err := req.ValidateAndSetDefaults()
	if err != nil {
		return nil, &StageError{
			Stage:    StagePending,
			Category: apperrors.CategoryOf(err),
			Err:      err,
		}
	}

	res := &Result{
		RequestID:    req.RequestID,
		Platform:     spec.ID,
		Format:       req.Format,
		CanvasWidth:  spec.Width,
		CanvasHeight: spec.Height,
		Timings:      make(map[Stage]time.Duration),
	}
	logger := r.Logger.With("request_id", req.RequestID, "platform", spec.ID)
	logger.Info("starting infographic generation", "format", req.Format, "chars", len(req.Text))

	// Per-stage outputs, threaded through the state machine loop.
	var (
		model     *content.Model
		imageSet  assets.Set
		lspec     *layout.Specification
		formatted []textfmt.Element
		rendered  []byte
	)

	for state := StagePending.Next(); !state.Terminal(); state = state.Next() {
		if err := ctx.Err(); err != nil {
			return nil, r.fail(logger, res, state, err)
		}

		err := r.timed(ctx, res, state, func() error {
			var err error
			switch state {
			case StageAnalyzing:
				model, res.Degraded.Analysis, err = r.analyze(ctx, req.Text, spec, logger)
			case StageSourcing:
				imageSet, res.Degraded.Images, err = r.source(ctx, model, spec, logger)
			case StageLayingOut:
				lspec, err = layout.Compute(model, imageSet, spec, r.Layout)
			case StageFormatting:
				formatted = textfmt.Format(lspec, r.Text)
			case StageComposing:
				rendered, err = compose.Render(lspec, formatted, imageSet, req.Format)
			case StageUploading:
				res.URL, err = r.upload(ctx, req, rendered)
			}
			return err
		})
		if err != nil {
			return nil, r.fail(logger, res, state, err)
		}

		if state == StageLayingOut {
			res.Truncated = lspec.Truncated
			res.Counts.Text, res.Counts.Image = lspec.Counts()
		}
	}

	logger.Info("infographic generated",
		"url", res.URL,
		"elements", res.Counts.Text+res.Counts.Image,
		"degraded_analysis", res.Degraded.Analysis,
		"degraded_images", res.Degraded.Images)
	return res, nil
}

// timed runs one stage body, recording its wall-clock duration and emitting
// observability events.
func (r *Runner) timed(ctx context.Context, res *Result, s Stage, fn func() error) error {
	observability.Stage().OnStageStart(ctx, res.RequestID, string(s))
	start := time.Now()
	err := fn()
	d := time.Since(start)
	res.Timings[s] = d
	observability.Stage().OnStageComplete(ctx, res.RequestID, string(s), d, err)
	return err
}

// fail wraps a stage failure with its category and the partial diagnostics
// accumulated so far.
func (r *Runner) fail(logger *log.Logger, res *Result, s Stage, err error) error {
	logger.Error("pipeline run failed", "stage", s, "err", err)
	return &StageError{
		Stage:      s,
		Category:   apperrors.CategoryOf(err),
		RetryAfter: apperrors.RetryAfterOf(err),
		Timings:    res.Timings,
		Err:        err,
	}
}

// analyze obtains the content model, retrying per policy and substituting
// the extractive fallback on failure or empty output. Validation and logic
// failures are not substitutable and abort the run.
func (r *Runner) analyze(ctx context.Context, text string, p platform.Spec, logger *log.Logger) (*content.Model, bool, error) {
	if r.Analyzer == nil {
		return content.Extract(text, p.MaxElements), true, nil
	}

	var model *content.Model
	err := r.Policy.Do(ctx, func(ctx context.Context) error {
		var err error
		model, err = r.Analyzer.Analyze(ctx, text)
		return err
	})

	switch {
	case err == nil && model != nil && (len(model.KeyPoints) > 0 || model.Summary != ""):
		return model, false, nil
	case err != nil && ctx.Err() != nil:
		return nil, false, ctx.Err()
	case err != nil && (apperrors.IsValidation(err) || apperrors.IsLogic(err)):
		return nil, false, err
	case err != nil:
		logger.Warn("content analysis failed, using extractive fallback", "err", err)
	default:
		logger.Warn("content analysis returned empty output, using extractive fallback")
	}
	return content.Extract(text, p.MaxElements), true, nil
}

// source obtains the image asset set through the single-flight cache,
// substituting placeholders sized to the hero target on any failure short of
// cancellation.
func (r *Runner) source(ctx context.Context, model *content.Model, p platform.Spec, logger *log.Logger) (assets.Set, bool, error) {
	w, h := layout.HeroTarget(p, r.Layout)

	placeholder := func() assets.Set {
		return assets.Set{assets.Placeholder("hero-placeholder", w, h, p.Scheme())}
	}

	if r.Sourcer == nil {
		return placeholder(), true, nil
	}

	prompt := novacanvas.BuildPrompt(model)
	key := cache.ImageKey(prompt, p.ID, w, h)

	data, hit, err := r.Images.GetOrCompute(ctx, key, cache.TTLImage, func(ctx context.Context) ([]byte, error) {
		var a assets.Asset
		err := r.Policy.Do(ctx, func(ctx context.Context) error {
			generated, err := r.Sourcer.Generate(ctx, prompt, w, h)
			if err != nil {
				return err
			}
			a = *generated
			return nil
		})
		if err != nil {
			return nil, err
		}
		return a.Encode()
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		logger.Warn("image sourcing failed, substituting placeholder", "err", err)
		return placeholder(), true, nil
	}

	hero, err := assets.Decode("hero", data)
	if err != nil {
		logger.Warn("cached image is unreadable, substituting placeholder", "err", err)
		return placeholder(), true, nil
	}
	if hit {
		logger.Debug("image cache hit", "key", key)
	}
	return assets.Set{hero}, false, nil
}

// upload stores the rendered bytes, retrying transient storage failures.
func (r *Runner) upload(ctx context.Context, req Request, data []byte) (string, error) {
	key := fmt.Sprintf("infographics/%s.%s", req.RequestID, extensionFor(req.Format))

	var url string
	err := r.Policy.Do(ctx, func(ctx context.Context) error {
		var err error
		url, err = r.Store.Put(ctx, key, contentTypeFor(req.Format), data)
		return err
	})
	if err != nil {
		return "", err
	}
	return url, nil
}

func extensionFor(format string) string {
	if format == compose.FormatJPEG {
		return "jpg"
	}
	return "png"
}

func contentTypeFor(format string) string {
	if format == compose.FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}
