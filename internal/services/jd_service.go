package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

var (
	ErrMissingJDFields = errors.New("missing title or description")
	ErrGeneratorOff    = errors.New("job description generator is not configured")
)

type JDService interface {
	List() ([]string, error)
	Content(filename string) (string, error)
	Save(title, experience, description string) (string, error)
	Generate(ctx context.Context, title, experience string) (string, error)
}

type jdService struct {
	storage       StorageService
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
	now           func() time.Time
}

// NewJDService wires JD storage and, when gemini is non-nil, generation.
func NewJDService(storage StorageService, gemini GeminiService, maxRetries int) JDService {
	return &jdService{
		storage:       storage,
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
		now:           time.Now,
	}
}

func (s *jdService) List() ([]string, error) {
	return s.storage.ListJDs()
}

func (s *jdService) Content(filename string) (string, error) {
	content, _, err := s.storage.ReadJD(filename)
	return content, err
}

func (s *jdService) Save(title, experience, description string) (string, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	experience = strings.TrimSpace(experience)
	if title == "" || description == "" {
		return "", ErrMissingJDFields
	}
	if experience == "" {
		experience = "Not specified"
	}

	filename, err := s.storage.SaveJD(title, experience, description, s.now())
	if err != nil {
		return "", err
	}

	log.Printf("✅ Saved job description %s\n", filename)
	return filename, nil
}

func (s *jdService) Generate(ctx context.Context, title, experience string) (string, error) {
	if s.gemini == nil {
		return "", ErrGeneratorOff
	}
	title = strings.TrimSpace(title)
	experience = strings.TrimSpace(experience)
	if title == "" || experience == "" {
		return "", fmt.Errorf("title and experience are required")
	}

	prompt := s.promptBuilder.BuildJobDescriptionPrompt(title, experience)
	text, err := s.gemini.GenerateTextWithRetry(ctx, prompt, 0.7, s.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to generate job description: %w", err)
	}

	text = SanitizeGeneratedText(text)
	if text == "" {
		return "", fmt.Errorf("generated job description was empty")
	}
	return text, nil
}
