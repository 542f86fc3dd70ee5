package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"alfredoptarigan/ats-scanner/internal/models"
	"alfredoptarigan/ats-scanner/internal/repositories"
)

var (
	ErrJDNotFound = errors.New("job description not found")
	ErrJDEmpty    = errors.New("job description is empty")
)

const noResumesMessage = "No parsed resumes found."

// ScanOutcome is a finished batch scan together with the HTTP status it maps to.
type ScanOutcome struct {
	Response   models.ScanResponse
	StatusCode int
}

type ScannerService interface {
	BatchScan(ctx context.Context, jdFilename string) (*ScanOutcome, error)
	RecentRuns(limit int) ([]models.ScanRun, error)
}

type scannerService struct {
	storage     StorageService
	resumeRepo  repositories.ResumeRepository
	runRepo     repositories.ScanRunRepository
	matcher     Matcher
	semantic    SemanticIndex
	concurrency int
}

// NewScannerService builds the batch scanner. semantic may be nil.
func NewScannerService(
	storage StorageService,
	resumeRepo repositories.ResumeRepository,
	runRepo repositories.ScanRunRepository,
	matcher Matcher,
	semantic SemanticIndex,
	concurrency int,
) ScannerService {
	return &scannerService{
		storage:     storage,
		resumeRepo:  resumeRepo,
		runRepo:     runRepo,
		matcher:     matcher,
		semantic:    semantic,
		concurrency: concurrency,
	}
}

type scanItem struct {
	result *models.CandidateResult
	err    *models.FileError
}

func (s *scannerService) BatchScan(ctx context.Context, jdFilename string) (*ScanOutcome, error) {
	start := time.Now()

	jdText, modTime, err := s.storage.ReadJD(jdFilename)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return nil, fmt.Errorf("%s: %w", jdFilename, ErrJDNotFound)
		}
		return nil, err
	}
	if strings.TrimSpace(jdText) == "" {
		return nil, fmt.Errorf("%s: %w", jdFilename, ErrJDEmpty)
	}

	run := &models.ScanRun{JDFilename: jdFilename, Status: models.ScanRunProcessing}
	if err := s.runRepo.Create(run); err != nil {
		log.Printf("⚠️  Failed to record scan run: %v\n", err)
		run = nil
	}

	resumes, err := s.resumeRepo.FindAllNewestFirst()
	if err != nil {
		s.failRun(run, err)
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}

	if len(resumes) == 0 {
		s.finishRun(run, models.ScanRunCompleted, models.ScanSummary{})
		return &ScanOutcome{
			StatusCode: http.StatusOK,
			Response: models.ScanResponse{
				JDUsed:     jdFilename,
				Results:    []models.CandidateResult{},
				ScanErrors: []models.FileError{},
				Message:    noResumesMessage,
			},
		}, nil
	}

	log.Printf("🔄 Scanning %d resume(s) against %s\n", len(resumes), jdFilename)

	jdKeywords := s.matcher.JDKeywords(jdFilename, modTime, jdText)
	semanticScores := s.semanticScores(ctx, jdText, len(resumes))

	items := make([]scanItem, len(resumes))
	pool := newScanPool(s.concurrency, len(resumes))
	pool.run(ctx, len(resumes), func(ctx context.Context, workerID, job int) {
		items[job] = s.scanOne(&resumes[job], jdKeywords, semanticScores)
	})

	if err := ctx.Err(); err != nil {
		s.failRun(run, err)
		return nil, fmt.Errorf("batch scan interrupted: %w", err)
	}

	results := make([]models.CandidateResult, 0, len(items))
	scanErrors := make([]models.FileError, 0)
	for _, item := range items {
		switch {
		case item.result != nil:
			results = append(results, *item.result)
		case item.err != nil:
			scanErrors = append(scanErrors, *item.err)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	summary := models.ScanSummary{
		TotalResumesFound:   len(resumes),
		SuccessfullyScanned: len(results),
		Errors:              len(scanErrors),
		DurationSeconds:     roundTo(time.Since(start).Seconds(), 2),
	}

	statusCode := http.StatusOK
	runStatus := models.ScanRunCompleted
	switch {
	case len(scanErrors) > 0 && len(results) == 0:
		statusCode = http.StatusMultiStatus
		runStatus = models.ScanRunFailed
	case len(scanErrors) > 0:
		statusCode = http.StatusMultiStatus
		runStatus = models.ScanRunPartial
	case len(results) == 0:
		statusCode = http.StatusInternalServerError
		runStatus = models.ScanRunFailed
	}
	s.finishRun(run, runStatus, summary)

	log.Printf("✅ Scan of %s finished: %d scanned, %d error(s) in %.2fs\n",
		jdFilename, summary.SuccessfullyScanned, summary.Errors, summary.DurationSeconds)

	return &ScanOutcome{
		StatusCode: statusCode,
		Response: models.ScanResponse{
			JDUsed:     jdFilename,
			Results:    results,
			ScanErrors: scanErrors,
			Summary:    &summary,
		},
	}, nil
}

func (s *scannerService) scanOne(resume *models.Resume, jdKeywords map[string]struct{}, semanticScores map[string]float32) scanItem {
	filename := resume.Parsed.OriginalFilename
	if filename == "" {
		filename = resume.StoredFilename
	}

	if strings.TrimSpace(resume.Parsed.RawText) == "" {
		return scanItem{err: &models.FileError{Filename: filename, Error: "raw text missing or empty"}}
	}

	match := s.matcher.Match(resume.Parsed.RawText, jdKeywords)

	result := &models.CandidateResult{
		Name:             models.OptionalField(resume.Parsed.Name),
		Email:            models.OptionalField(resume.Parsed.Email),
		Phone:            models.OptionalField(resume.Parsed.Phone),
		Score:            match.Score,
		MatchingKeywords: match.Matching,
		MissingKeywords:  match.Missing,
		OriginalFilename: filename,
		MatchCount:       match.MatchCount,
		JDKeywordCount:   match.JDKeywordCount,
	}
	if score, ok := semanticScores[filename]; ok {
		v := roundTo(float64(score)*100, 2)
		result.SemanticScore = &v
	}

	return scanItem{result: result}
}

func (s *scannerService) semanticScores(ctx context.Context, jdText string, limit int) map[string]float32 {
	if s.semantic == nil {
		return nil
	}
	// Several chunks per résumé compete for the limit.
	scores, err := s.semantic.Scores(ctx, jdText, limit*4)
	if err != nil {
		log.Printf("⚠️  Semantic scoring unavailable: %v\n", err)
		return nil
	}
	return scores
}

func (s *scannerService) finishRun(run *models.ScanRun, status models.ScanRunStatus, summary models.ScanSummary) {
	if run == nil {
		return
	}
	if err := s.runRepo.UpdateResult(run.ID, status, summary); err != nil {
		log.Printf("⚠️  Failed to update scan run %s: %v\n", run.ID, err)
	}
}

func (s *scannerService) failRun(run *models.ScanRun, cause error) {
	if run == nil {
		return
	}
	if err := s.runRepo.UpdateError(run.ID, cause.Error()); err != nil {
		log.Printf("⚠️  Failed to update scan run %s: %v\n", run.ID, err)
	}
}

func (s *scannerService) RecentRuns(limit int) ([]models.ScanRun, error) {
	return s.runRepo.FindRecent(limit)
}
