package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/ats-scanner/internal/config"
	"alfredoptarigan/ats-scanner/internal/repositories"
	"alfredoptarigan/ats-scanner/internal/services"
)

func main() {
	dir := flag.String("dir", "./resumes", "directory of résumés to import")
	flag.Parse()

	log.Println("🚀 Starting résumé ingestion...")

	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	storageService := services.NewStorageService(cfg.Storage.JDPath, cfg.Storage.ResumePath)
	if err := storageService.EnsureDirs(); err != nil {
		log.Fatalf("❌ Failed to create storage directories: %v", err)
	}

	ctx := context.Background()

	var semanticIndex services.SemanticIndex
	if cfg.Qdrant.Enabled && cfg.Gemini.APIKey != "" {
		geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel, cfg.Worker.RetryInitialDelay)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini: %v", err)
		}

		qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := qdrantService.InitCollection(ctx); err != nil {
			log.Fatalf("❌ Failed to initialize collection: %v", err)
		}
		semanticIndex = services.NewSemanticIndex(geminiService, qdrantService, services.NewTextChunker())
	}

	ingestor := services.NewResumeIngestor(
		storageService,
		services.NewDocumentParser(),
		services.NewResumeParser(),
		repositories.NewResumeRepository(db),
		semanticIndex,
		cfg.Storage.MaxFileSize,
		cfg.Storage.AllowedExtensions,
	)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("❌ Failed to read %s: %v", *dir, err)
	}

	var files []services.IngestFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			log.Printf("   ⚠️  Could not stat %s, skipping...", entry.Name())
			continue
		}
		path := filepath.Join(*dir, entry.Name())
		files = append(files, services.IngestFile{
			Filename: entry.Name(),
			Size:     info.Size(),
			Open:     func() (io.ReadCloser, error) { return os.Open(path) },
		})
	}
	log.Printf("📄 Found %d file(s) in %s", len(files), *dir)

	result := ingestor.Ingest(ctx, files)

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d résumés", len(result.Uploaded))
	log.Printf("   ❌ Failed: %d résumés", len(result.Errors))
	for _, e := range result.Errors {
		log.Printf("      %s: %s", e.Filename, e.Error)
	}
	log.Println(strings.Repeat("=", 60))

	if len(result.Errors) > 0 {
		log.Println("⚠️  Some résumés failed to ingest. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All résumés ingested successfully!")
}
