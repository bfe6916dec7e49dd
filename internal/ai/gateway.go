// Package ai is the gateway to the external generative model. It exposes the
// three capabilities the workflow needs (document analysis, assistant
// answers and court judgments) behind a single interface, and contains the
// tolerant parser for the judge's JSON-ish replies.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/extract"
)

var (
	// ErrGateway wraps transport failures, timeouts and empty replies.
	ErrGateway = errors.New("ai gateway error")
	// ErrMalformedResponse is returned when a reply has the wrong shape.
	ErrMalformedResponse = errors.New("ai gateway malformed response")
)

// FallbackDefense is the defense text of a fallback judgment.
const FallbackDefense = "<processing unavailable>"

// Judgment is the outcome of one court turn. Fallback marks the fixed
// Mistrial value returned when the model failed; its Score is meaningless and
// callers substitute the session's current score.
type Judgment struct {
	DefenseArgument string         `json:"defense_argument"`
	Verdict         domain.Verdict `json:"verdict"`
	Score           int            `json:"score"`
	Reasoning       string         `json:"judicial_reasoning"`
	Fallback        bool           `json:"fallback"`
}

// FallbackJudgment is the Mistrial value used whenever judging fails.
func FallbackJudgment(score int) Judgment {
	return Judgment{
		DefenseArgument: FallbackDefense,
		Verdict:         domain.VerdictMistrial,
		Score:           score,
		Reasoning:       "Technical error.",
		Fallback:        true,
	}
}

// Attachment is document content handed to the model: Text for documents we
// could extract, Data+MIME for images.
type Attachment struct {
	Name string
	MIME string
	Text string
	Data []byte
}

// NewAttachment prepares an upload for the model. Text-bearing documents are
// extracted (at most maxPages pages), images pass through as bytes, other
// types yield extract.ErrUnsupported.
func NewAttachment(name, mime string, data []byte, maxPages int) (*Attachment, error) {
	switch {
	case extract.IsImage(mime):
		return &Attachment{Name: name, MIME: mime, Data: data}, nil
	case extract.IsText(mime):
		text, err := extract.Text(mime, data, maxPages)
		if err != nil {
			return nil, err
		}
		return &Attachment{Name: name, MIME: mime, Text: text}, nil
	}
	return nil, fmt.Errorf("%w: %s", extract.ErrUnsupported, mime)
}

// Gateway is what the services depend on.
type Gateway interface {
	AnalyzeDocument(ctx context.Context, notes string, att *Attachment) (string, error)
	Ask(ctx context.Context, question string, att *Attachment) (string, error)
	// JudgeArgument never fails; see Judgment.Fallback.
	JudgeArgument(ctx context.Context, argument, caseContext, evidence string) Judgment
}

// Part is one piece of model input.
type Part struct {
	Text string
	Data []byte
	MIME string
}

// Request is a single generation call.
type Request struct {
	System string
	Parts  []Part
	JSON   bool
}

// Model is the raw text-generation backend.
type Model interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Client implements Gateway over a Model with a per-call timeout.
type Client struct {
	model   Model
	timeout time.Duration
}

var _ Gateway = (*Client)(nil)

// NewClient wraps model. A non-positive timeout defaults to 30s.
func NewClient(model Model, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{model: model, timeout: timeout}
}

func (c *Client) generate(ctx context.Context, op string, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	ctx, span := otel.Tracer("ai").Start(ctx, "ai."+op)
	defer span.End()

	start := time.Now()
	text, err := c.model.Generate(ctx, req)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty response")
	}
	if err != nil {
		observe(op, outcomeError, start)
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate failed")
		return "", fmt.Errorf("%w: %s: %v", ErrGateway, op, err)
	}
	span.SetAttributes(attribute.Int("ai.response_len", len(text)))
	observe(op, outcomeOK, start)
	return text, nil
}

func attachmentParts(att *Attachment) []Part {
	if att == nil {
		return nil
	}
	if len(att.Data) > 0 {
		return []Part{{Data: att.Data, MIME: att.MIME}}
	}
	if strings.TrimSpace(att.Text) != "" {
		return []Part{{Text: "[Document Content]:\n" + att.Text}}
	}
	return nil
}

// AnalyzeDocument asks for a legal analysis of a case file and its notes.
func (c *Client) AnalyzeDocument(ctx context.Context, notes string, att *Attachment) (string, error) {
	parts := attachmentParts(att)
	if n := strings.TrimSpace(notes); n != "" {
		parts = append(parts, Part{Text: "Additional user notes: " + n})
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: nothing to analyze", ErrGateway)
	}
	return c.generate(ctx, "analyze", Request{System: analysisInstruction, Parts: parts})
}

// Ask answers an assistant-chat question.
func (c *Client) Ask(ctx context.Context, question string, att *Attachment) (string, error) {
	parts := append(attachmentParts(att), Part{Text: "User query: " + question})
	return c.generate(ctx, "ask", Request{System: assistantInstruction, Parts: parts})
}

// JudgeArgument returns the model's judgment or a fallback.
func (c *Client) JudgeArgument(ctx context.Context, argument, caseContext, evidence string) Judgment {
	text, err := c.generate(ctx, "judge", Request{
		System: judgeInstruction,
		Parts:  []Part{{Text: judgePrompt(argument, caseContext, evidence)}},
		JSON:   true,
	})
	if err != nil {
		log.Warn().Err(err).Msg("judge call failed; returning mistrial")
		return FallbackJudgment(0)
	}
	j, err := ParseJudgment(text)
	if err != nil {
		judgeMalformed.Inc()
		log.Warn().Err(err).Int("response_len", len(text)).Msg("judge response unparseable; returning mistrial")
		return FallbackJudgment(0)
	}
	return j
}

// Disabled is the Model used when no API key is configured. Every call fails,
// so the services take their placeholder paths.
type Disabled struct{}

func (Disabled) Generate(context.Context, Request) (string, error) {
	return "", errors.New("model not configured")
}
