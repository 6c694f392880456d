// Package bedrock implements content analysis over the Bedrock Converse API.
// The model is asked for a strict JSON document; extraction is tolerant of
// surrounding prose, and anything unusable surfaces as a degraded error so
// the pipeline can fall back to the extractive analyzer.
package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
	"github.com/ddrutch/AWSInfoGraphic/pkg/content"
)

// DefaultModelID is the analysis model used when none is configured.
const DefaultModelID = "anthropic.claude-3-5-sonnet-20241022-v2:0"

const systemPrompt = `You analyze text for infographic generation. Respond with a single JSON object and nothing else, using exactly these keys:
{"main_topic": string, "key_points": [string], "summary": string, "suggested_title": string, "content_type": "business"|"technical"|"educational"|"general"}
Key points must be short standalone statements in order of importance, at most 8 of them. The summary is one or two sentences.`

// converseAPI is the slice of the Bedrock runtime client we call. Satisfied
// by *bedrockruntime.Client; tests substitute a fake.
type converseAPI interface {
	Converse(ctx context.Context, in *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// Analyzer calls a Bedrock text model to produce a content model. It
// satisfies pipeline.Analyzer.
type Analyzer struct {
	api     converseAPI
	modelID string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithModelID overrides the model identifier.
func WithModelID(id string) Option {
	return func(a *Analyzer) { a.modelID = id }
}

// New constructs an Analyzer over a Bedrock runtime client.
func New(api converseAPI, opts ...Option) *Analyzer {
	a := &Analyzer{api: api, modelID: DefaultModelID}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze sends the text to the model and parses its JSON reply into a
// content model.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*content.Model, error) {
	if err := content.ValidateInput(text); err != nil {
		return nil, err
	}

	out, err := a.api.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: &a.modelID,
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: systemPrompt},
		},
		Messages: []types.Message{{
			Role: types.ConversationRoleUser,
			Content: []types.ContentBlock{
				&types.ContentBlockMemberText{Value: text},
			},
		}},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(1024),
			Temperature: aws.Float32(0.2),
		},
	})
	if err != nil {
		return nil, classify(err)
	}

	reply, err := replyText(out)
	if err != nil {
		return nil, err
	}
	return ParseModel(reply)
}

// replyText pulls the assistant's text out of the Converse union types.
func replyText(out *bedrockruntime.ConverseOutput) (string, error) {
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", apperrors.New(apperrors.Degraded, apperrors.CodeAnalysisFailed,
			"analysis response has no message output")
	}
	var b strings.Builder
	for _, block := range msg.Value.Content {
		if t, ok := block.(*types.ContentBlockMemberText); ok {
			b.WriteString(t.Value)
		}
	}
	if b.Len() == 0 {
		return "", apperrors.New(apperrors.Degraded, apperrors.CodeEmptyAnalysis,
			"analysis response contains no text")
	}
	return b.String(), nil
}

// ParseModel extracts and validates the JSON content model from a model
// reply. The reply may wrap the JSON in prose or a code fence; everything
// outside the outermost braces is ignored.
func ParseModel(reply string) (*content.Model, error) {
	raw, ok := extractJSON(reply)
	if !ok {
		return nil, apperrors.New(apperrors.Degraded, apperrors.CodeAnalysisFailed,
			"analysis reply contains no JSON object")
	}

	var m content.Model
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, apperrors.Wrap(apperrors.Degraded, apperrors.CodeAnalysisFailed, err,
			"decode analysis reply")
	}

	m.MainTopic = strings.TrimSpace(m.MainTopic)
	m.Summary = strings.TrimSpace(m.Summary)
	m.SuggestedTitle = strings.TrimSpace(m.SuggestedTitle)
	m.ContentType = content.ParseType(string(m.ContentType))

	points := m.KeyPoints[:0]
	for _, p := range m.KeyPoints {
		if p = strings.TrimSpace(p); p != "" {
			points = append(points, p)
		}
	}
	m.KeyPoints = points

	if len(m.KeyPoints) == 0 && m.Summary == "" {
		return nil, apperrors.New(apperrors.Degraded, apperrors.CodeEmptyAnalysis,
			"analysis produced no key points or summary")
	}
	return &m, nil
}

// extractJSON returns the substring between the first '{' and the last '}'.
func extractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// classify maps SDK failures onto the pipeline's error categories.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "TooManyRequestsException":
			return apperrors.Wrap(apperrors.Transient, apperrors.CodeThrottled, err,
				"content analysis throttled").WithRetryAfter(2 * time.Second)
		case "ServiceUnavailableException", "InternalServerException", "ModelTimeoutException":
			return apperrors.Wrap(apperrors.Transient, apperrors.CodeAnalysisFailed, err,
				"content analysis unavailable")
		case "ValidationException":
			return apperrors.Wrap(apperrors.Validation, apperrors.CodeAnalysisFailed, err,
				"content analysis rejected request")
		}
	}
	return apperrors.Wrap(apperrors.Degraded, apperrors.CodeAnalysisFailed, err,
		"content analysis failed")
}
