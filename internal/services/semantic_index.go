package services

import (
	"context"
	"fmt"
	"log"
)

// SemanticIndex keeps résumé embeddings in Qdrant and scores them against a JD.
type SemanticIndex interface {
	IndexResume(ctx context.Context, filename, text string) error
	RemoveResume(ctx context.Context, filename string) error
	Scores(ctx context.Context, jdText string, limit int) (map[string]float32, error)
}

type semanticIndex struct {
	gemini  GeminiService
	qdrant  QdrantService
	chunker TextChunker
}

func NewSemanticIndex(gemini GeminiService, qdrant QdrantService, chunker TextChunker) SemanticIndex {
	return &semanticIndex{
		gemini:  gemini,
		qdrant:  qdrant,
		chunker: chunker,
	}
}

func (s *semanticIndex) IndexResume(ctx context.Context, filename, text string) error {
	chunks := s.chunker.ChunkText(text, 1000, 200)

	embeddings := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := s.gemini.Embed(ctx, chunk, EmbedResume)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d of %s: %w", i, filename, err)
		}
		embeddings = append(embeddings, embedding)
	}

	if err := s.qdrant.DeleteDocument(ctx, filename); err != nil {
		log.Printf("⚠️  Failed to clear previous vectors for %s: %v\n", filename, err)
	}

	if err := s.qdrant.UpsertChunks(ctx, filename, chunks, embeddings); err != nil {
		return fmt.Errorf("failed to index %s: %w", filename, err)
	}

	log.Printf("✅ Indexed %s (%d chunks)\n", filename, len(chunks))
	return nil
}

func (s *semanticIndex) RemoveResume(ctx context.Context, filename string) error {
	return s.qdrant.DeleteDocument(ctx, filename)
}

func (s *semanticIndex) Scores(ctx context.Context, jdText string, limit int) (map[string]float32, error) {
	embedding, err := s.gemini.Embed(ctx, jdText, EmbedJobDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to embed job description: %w", err)
	}
	return s.qdrant.BestScores(ctx, embedding, limit)
}
