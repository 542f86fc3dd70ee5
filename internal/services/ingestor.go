package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"slices"
	"strings"

	"alfredoptarigan/ats-scanner/internal/models"
	"alfredoptarigan/ats-scanner/internal/repositories"
)

const invalidFileTypeMessage = "Invalid file type. Only PDF and DOCX are allowed."

var (
	ErrFileType     = errors.New("invalid file type")
	ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")
)

// rawTextPreview bounds the raw text echoed back in upload responses.
const rawTextPreview = 2000

// IngestFile is one résumé handed to the ingestor.
type IngestFile struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

type IngestResult struct {
	Uploaded []models.UploadedFile
	Errors   []models.FileError
	// Skipped counts entries without a usable filename.
	Skipped int
}

type ResumeIngestor interface {
	Ingest(ctx context.Context, files []IngestFile) IngestResult
}

type resumeIngestor struct {
	storage           StorageService
	parser            DocumentParser
	resumeParser      ResumeParser
	resumeRepo        repositories.ResumeRepository
	semantic          SemanticIndex
	maxFileSize       int64
	allowedExtensions []string
}

// NewResumeIngestor builds the upload pipeline. semantic may be nil.
func NewResumeIngestor(
	storage StorageService,
	parser DocumentParser,
	resumeParser ResumeParser,
	resumeRepo repositories.ResumeRepository,
	semantic SemanticIndex,
	maxFileSize int64,
	allowedExtensions []string,
) ResumeIngestor {
	return &resumeIngestor{
		storage:           storage,
		parser:            parser,
		resumeParser:      resumeParser,
		resumeRepo:        resumeRepo,
		semantic:          semantic,
		maxFileSize:       maxFileSize,
		allowedExtensions: allowedExtensions,
	}
}

func (r *resumeIngestor) Ingest(ctx context.Context, files []IngestFile) IngestResult {
	var result IngestResult

	for _, file := range files {
		if file.Filename == "" {
			result.Skipped++
			continue
		}

		uploaded, err := r.ingestOne(ctx, file)
		if err != nil {
			log.Printf("❌ Failed to ingest %s: %v\n", file.Filename, err)
			result.Errors = append(result.Errors, models.FileError{
				Filename: file.Filename,
				Error:    uploadErrorText(err),
			})
			continue
		}

		log.Printf("📥 Ingested %s\n", uploaded.Filename)
		result.Uploaded = append(result.Uploaded, *uploaded)
	}

	return result
}

func (r *resumeIngestor) ingestOne(ctx context.Context, file IngestFile) (*models.UploadedFile, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	if !slices.Contains(r.allowedExtensions, ext) {
		return nil, ErrFileType
	}
	if r.maxFileSize > 0 && file.Size > r.maxFileSize {
		return nil, fmt.Errorf("%w (%d MB)", ErrFileTooLarge, r.maxFileSize/(1024*1024))
	}

	secure := SecureFilename(file.Filename)
	if secure == "" {
		return nil, ErrInvalidFilename
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	path, err := r.storage.SaveResume(secure, src)
	src.Close()
	if err != nil {
		return nil, err
	}

	text, err := r.parser.ExtractText(path)
	if err != nil {
		r.discard(secure)
		return nil, fmt.Errorf("text extraction failed: %w", err)
	}

	parsed, err := r.resumeParser.Parse(text, secure)
	if err != nil {
		r.discard(secure)
		return nil, fmt.Errorf("parsing failed: %w", err)
	}

	if err := r.resumeRepo.DeleteByOriginalFilename(secure); err != nil {
		return nil, err
	}
	record := &models.Resume{
		StoredFilename: secure,
		FileType:       ext,
		FilePath:       path,
		Parsed:         *parsed,
	}
	if err := r.resumeRepo.Create(record); err != nil {
		return nil, err
	}

	if r.semantic != nil {
		if err := r.semantic.IndexResume(ctx, secure, parsed.RawText); err != nil {
			log.Printf("⚠️  Semantic indexing skipped for %s: %v\n", secure, err)
		}
	}

	view := *parsed
	view.RawText = truncateRunes(view.RawText, rawTextPreview)
	return &models.UploadedFile{Filename: secure, ParsedData: view}, nil
}

func (r *resumeIngestor) discard(filename string) {
	if err := r.storage.DeleteResume(filename); err != nil {
		log.Printf("⚠️  Failed to remove %s after a failed ingest: %v\n", filename, err)
	}
}

func uploadErrorText(err error) string {
	if errors.Is(err, ErrFileType) {
		return invalidFileTypeMessage
	}
	return "Processing failed: " + err.Error()
}
