// Package novacanvas generates infographic hero images through the Amazon
// Nova Canvas model on Bedrock. It owns prompt construction, dimension
// clamping to the model's accepted grid, and classification of service
// errors into the pipeline's categories.
package novacanvas

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
	"github.com/ddrutch/AWSInfoGraphic/pkg/assets"
	"github.com/ddrutch/AWSInfoGraphic/pkg/content"
)

// DefaultModelID is the Nova Canvas model identifier on Bedrock.
const DefaultModelID = "amazon.nova-canvas-v1:0"

// Nova Canvas accepts dimensions in this range, in multiples of 64.
const (
	minDimension  = 320
	maxDimension  = 4096
	dimensionStep = 64
)

// invokeAPI is the slice of the Bedrock runtime client we call. Satisfied by
// *bedrockruntime.Client; tests substitute a fake.
type invokeAPI interface {
	InvokeModel(ctx context.Context, in *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client calls Nova Canvas for text-to-image generation. It satisfies
// pipeline.Sourcer.
type Client struct {
	api      invokeAPI
	modelID  string
	cfgScale float64
	negative string
}

// Option configures a Client.
type Option func(*Client)

// WithModelID overrides the model identifier.
func WithModelID(id string) Option {
	return func(c *Client) { c.modelID = id }
}

// WithCfgScale overrides the guidance scale.
func WithCfgScale(scale float64) Option {
	return func(c *Client) { c.cfgScale = scale }
}

// New constructs a Client over a Bedrock runtime client.
func New(api invokeAPI, opts ...Option) *Client {
	c := &Client{
		api:      api,
		modelID:  DefaultModelID,
		cfgScale: 8.0,
		negative: "text, words, letters, numbers, watermarks, low quality",
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// request mirrors the Nova Canvas TEXT_IMAGE invocation body.
type request struct {
	TaskType          string        `json:"taskType"`
	TextToImageParams textToImage   `json:"textToImageParams"`
	Config            requestConfig `json:"imageGenerationConfig"`
}

type textToImage struct {
	Text         string `json:"text"`
	NegativeText string `json:"negativeText,omitempty"`
}

type requestConfig struct {
	NumberOfImages int     `json:"numberOfImages"`
	Height         int     `json:"height"`
	Width          int     `json:"width"`
	CfgScale       float64 `json:"cfgScale"`
	Seed           int     `json:"seed"`
}

type response struct {
	Images []string `json:"images"`
	Error  string   `json:"error,omitempty"`
}

// Generate produces one image for the prompt at (approximately) the target
// pixel size. Dimensions are clamped to the model's accepted grid, so the
// returned asset's size may differ from the request; callers resize at
// composition time.
func (c *Client) Generate(ctx context.Context, prompt string, width, height int) (*assets.Asset, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apperrors.New(apperrors.Validation, apperrors.CodeInvalidInput, "image prompt is empty")
	}
	w, h := ClampDimensions(width, height)

	body, err := json.Marshal(request{
		TaskType: "TEXT_IMAGE",
		TextToImageParams: textToImage{
			Text:         prompt,
			NegativeText: c.negative,
		},
		Config: requestConfig{
			NumberOfImages: 1,
			Height:         h,
			Width:          w,
			CfgScale:       c.cfgScale,
		},
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Logic, apperrors.CodeInternal, err, "encode generation request")
	}

	out, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		ContentType: ptr("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, classify(err)
	}

	var resp response
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, apperrors.Wrap(apperrors.Degraded, apperrors.CodeImageGeneration, err, "decode generation response")
	}
	if resp.Error != "" {
		return nil, apperrors.New(apperrors.Degraded, apperrors.CodeImageGeneration, "%s", resp.Error)
	}
	if len(resp.Images) == 0 {
		return nil, apperrors.New(apperrors.Degraded, apperrors.CodeImageGeneration, "generation returned no images")
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Images[0])
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Degraded, apperrors.CodeImageGeneration, err, "decode image payload")
	}
	a, err := assets.Decode("hero", raw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Degraded, apperrors.CodeImageGeneration, err, "decode generated image")
	}
	return &a, nil
}

// ClampDimensions snaps a requested size onto the model's accepted grid:
// multiples of 64 between 320 and 4096 on each axis. Snapping rounds down,
// then clamps to the minimum, so the result never exceeds the request by
// more than the clamp floor requires.
func ClampDimensions(width, height int) (w, h int) {
	clamp := func(v int) int {
		v -= v % dimensionStep
		if v < minDimension {
			return minDimension
		}
		if v > maxDimension {
			return maxDimension
		}
		return v
	}
	return clamp(width), clamp(height)
}

// BuildPrompt derives the image generation prompt from the analyzed content.
// The prompt asks for a decorative backdrop: element text is rendered by the
// composition stage, so text in the image itself is explicitly unwanted.
func BuildPrompt(m *content.Model) string {
	topic := strings.TrimSpace(m.MainTopic)
	if topic == "" {
		topic = strings.TrimSpace(m.SuggestedTitle)
	}
	if topic == "" {
		topic = "abstract information graphic"
	}

	style := styleFor(m.ContentType)
	return fmt.Sprintf("Professional infographic backdrop illustrating %s. %s. Clean modern flat design, high quality, no text or lettering.", topic, style)
}

func styleFor(t content.Type) string {
	switch t {
	case content.TypeBusiness:
		return "Charts, growth imagery, corporate aesthetics"
	case content.TypeTechnical:
		return "Circuit motifs, network diagrams, precise geometry"
	case content.TypeEducational:
		return "Friendly icons, step-by-step visual metaphors"
	default:
		return "Versatile, widely appealing composition"
	}
}

// classify maps SDK failures onto the pipeline's error categories. Throttling
// and server faults are transient; everything else from the service degrades
// to placeholders upstream.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "TooManyRequestsException":
			return apperrors.Wrap(apperrors.Transient, apperrors.CodeThrottled, err,
				"image generation throttled").WithRetryAfter(2 * time.Second)
		case "ServiceUnavailableException", "InternalServerException", "ModelTimeoutException":
			return apperrors.Wrap(apperrors.Transient, apperrors.CodeImageGeneration, err,
				"image generation unavailable")
		case "ValidationException":
			return apperrors.Wrap(apperrors.Validation, apperrors.CodeImageGeneration, err,
				"image generation rejected request")
		}
	}
	return apperrors.Wrap(apperrors.Degraded, apperrors.CodeImageGeneration, err, "image generation failed")
}

func ptr[T any](v T) *T { return &v }
