package repo

import (
	"RegistrationBot/model"
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClient answers free-text questions with a single model call and no
// reasoning budget.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient returns a client that always fails when apiKey is empty.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	c := &GeminiClient{model: modelName}
	if strings.TrimSpace(apiKey) == "" {
		return c, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating gemini client: %w", err)
	}
	c.client = client
	return c, nil
}

func (c *GeminiClient) Configured() bool {
	return c != nil && c.client != nil
}

// Answer relays the first text part of the first candidate.
func (c *GeminiClient) Answer(ctx context.Context, query string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("%w: api key not configured", model.ErrInference)
	}
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: empty query", model.ErrInference)
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(query), &genai.GenerateContentConfig{
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr[int32](0),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInference, err)
	}
	text, err := firstText(resp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInference, err)
	}
	return text, nil
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("no candidates")
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return "", errors.New("first candidate has no parts")
	}
	if content.Parts[0].Text == "" {
		return "", errors.New("first part has no text")
	}
	return content.Parts[0].Text, nil
}
