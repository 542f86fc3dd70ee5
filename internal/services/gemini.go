package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/genai"
)

// EmbedTask tells the embedding model which side of a retrieval the text is on.
type EmbedTask string

const (
	EmbedResume         EmbedTask = "RETRIEVAL_DOCUMENT"
	EmbedJobDescription EmbedTask = "RETRIEVAL_QUERY"
)

// maxEmbedRunes keeps input under the embedding model's ~10k token limit.
const maxEmbedRunes = 40000

type GeminiService interface {
	Embed(ctx context.Context, text string, task EmbedTask) ([]float32, error)
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
	GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
}

type geminiService struct {
	client       *genai.Client
	modelName    string
	embedModel   string
	retryBackoff time.Duration
}

func NewGeminiService(ctx context.Context, apiKey, modelName, embedModel string, retryBackoff time.Duration) (GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:       client,
		modelName:    modelName,
		embedModel:   embedModel,
		retryBackoff: retryBackoff,
	}, nil
}

// Embed returns the embedding of text. Résumé chunks and job descriptions
// use different task types so their vectors compare as document and query.
func (g *geminiService) Embed(ctx context.Context, text string, task EmbedTask) ([]float32, error) {
	text = truncateRunes(text, maxEmbedRunes)

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), &genai.EmbedContentConfig{
		TaskType: string(task),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s embedding: %w", task, err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// GenerateText implements GeminiService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		log.Printf("❌ Gemini API error: %v\n", err)
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
			return "", fmt.Errorf("no text content in response (finish reason %s)", resp.Candidates[0].FinishReason)
		}
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}

// GenerateTextWithRetry implements GeminiService.
func (g *geminiService) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	var lastErr error
	delay := g.retryBackoff

	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := g.GenerateText(ctx, prompt, temperature)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if attempt == maxRetries {
			break
		}

		log.Printf("⚠️ Attempt %d failed: %v. Retrying in %s...\n", attempt, err, delay)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}
