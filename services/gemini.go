package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/rpupo63/portfolio-site-backend/errs"
)

const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiGenerator answers prompts with Google's Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errs.NewServiceConfigError("gemini", "GOOGLE_GEMINI_API_KEY")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", errs.NewServiceError("gemini", err)
	}
	return responseText(result)
}

// responseText joins the text parts of the first candidate. A candidate with
// no text yields "", a response with no candidates is an error.
func responseText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 {
		return "", errs.NewServiceError("gemini", errs.ErrEmptyReply)
	}

	candidate := result.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
