package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini is a Model backed by the Gemini API.
type Gemini struct {
	models contentGenerator
	model  string
}

// NewGemini creates a Gemini API client for model (e.g. "gemini-2.5-flash").
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("ai: empty Gemini API key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{models: c.Models, model: model}, nil
}

// Generate sends req as a single user turn.
func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if len(p.Data) > 0 {
			parts = append(parts, genai.NewPartFromBytes(p.Data, p.MIME))
			continue
		}
		parts = append(parts, genai.NewPartFromText(p.Text))
	}
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, cfg)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errors.New("nil response")
	}
	return resp.Text(), nil
}
