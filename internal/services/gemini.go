package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/wntjdus12/jobverse/internal/apperr"
)

// Embedder is the external embedding collaborator: text in, fixed-length
// vector out.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// FeedbackResult is the structured shape every feedback generation must
// produce. Key-set validation against the doc type happens in the
// orchestrator; transport and JSON-shape failures are the generator's.
type FeedbackResult struct {
	Summary             string            `json:"summary"`
	OverallFeedback     string            `json:"overall_feedback"`
	IndividualFeedbacks map[string]string `json:"individual_feedbacks"`
}

// FeedbackGenerator is the external LLM collaborator: prompt context in,
// structured feedback out.
type FeedbackGenerator interface {
	Generate(ctx context.Context, systemContext, userContext string) (*FeedbackResult, error)
}

type GeminiService interface {
	Embedder
	FeedbackGenerator
	GenerateJSON(ctx context.Context, system, prompt string, target any) error
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
	maxRetries int
}

func NewGeminiService(apiKey, modelName, embedModel string, maxRetries int) (GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if maxRetries < 1 {
		maxRetries = 1
	}

	return &geminiService{
		client:     client,
		modelName:  modelName,
		embedModel: embedModel,
		maxRetries: maxRetries,
	}, nil
}

// Embed implements Embedder.
func (g *geminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	if len(text) > 40000 {
		text = text[:40000]
	}
	text = strings.ReplaceAll(text, "\n", " ")

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// Generate implements FeedbackGenerator.
func (g *geminiService) Generate(ctx context.Context, systemContext, userContext string) (*FeedbackResult, error) {
	var result FeedbackResult
	if err := g.GenerateJSON(ctx, systemContext, userContext, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateJSON runs a prompt expecting a JSON document and unmarshals it into
// target, retrying transport failures up to maxRetries.
func (g *geminiService) GenerateJSON(ctx context.Context, system, prompt string, target any) error {
	response, err := g.generateTextWithRetry(ctx, system, prompt)
	if err != nil {
		return apperr.Generation(err, "feedback generation failed")
	}

	jsonStr := extractJSON(response)
	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return apperr.Generation(err, "generator response is not valid JSON")
	}
	return nil
}

func (g *geminiService) generateText(ctx context.Context, system, prompt string) (string, error) {
	temperature := float32(0.3)
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  4096,
		ResponseMIMEType: "application/json",
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}
	return text, nil
}

func (g *geminiService) generateTextWithRetry(ctx context.Context, system, prompt string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		result, err := g.generateText(ctx, system, prompt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < g.maxRetries {
			fmt.Printf("⚠️ Attempt %d failed: %v. Retrying...\n", attempt, err)
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", g.maxRetries, lastErr)
}

// extractJSON tries to extract JSON from text that might contain markdown or
// other formatting around the object.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	endObj := strings.LastIndex(text, "}")
	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}
	return text
}
