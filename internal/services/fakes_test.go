package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/ats-scanner/internal/models"
	"alfredoptarigan/ats-scanner/internal/repositories"
)

type fakeResumeRepo struct {
	mu      sync.Mutex
	resumes []models.Resume
	listErr error
}

func (f *fakeResumeRepo) Create(resume *models.Resume) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	resume.ID = uuid.New()
	f.resumes = append([]models.Resume{*resume}, f.resumes...)
	return nil
}

func (f *fakeResumeRepo) FindAllNewestFirst() ([]models.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Resume(nil), f.resumes...), nil
}

func (f *fakeResumeRepo) FindByOriginalFilename(filename string) (*models.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.resumes {
		if f.resumes[i].Parsed.OriginalFilename == filename {
			r := f.resumes[i]
			return &r, nil
		}
	}
	return nil, fmt.Errorf("resume %s: %w", filename, repositories.ErrNotFound)
}

func (f *fakeResumeRepo) DeleteByOriginalFilename(filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.resumes[:0]
	for _, r := range f.resumes {
		if r.Parsed.OriginalFilename != filename {
			kept = append(kept, r)
		}
	}
	f.resumes = kept
	return nil
}

type fakeScanRunRepo struct {
	mu   sync.Mutex
	runs map[uuid.UUID]*models.ScanRun
}

func newFakeScanRunRepo() *fakeScanRunRepo {
	return &fakeScanRunRepo{runs: make(map[uuid.UUID]*models.ScanRun)}
}

func (f *fakeScanRunRepo) Create(run *models.ScanRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	run.ID = uuid.New()
	run.CreatedAt = time.Now()
	cp := *run
	f.runs[run.ID] = &cp
	return nil
}

func (f *fakeScanRunRepo) UpdateResult(id uuid.UUID, status models.ScanRunStatus, summary models.ScanSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return repositories.ErrNotFound
	}
	run.Status = status
	run.TotalResumesFound = summary.TotalResumesFound
	run.SuccessfullyScanned = summary.SuccessfullyScanned
	run.ErrorCount = summary.Errors
	run.DurationSeconds = summary.DurationSeconds
	return nil
}

func (f *fakeScanRunRepo) UpdateError(id uuid.UUID, errorMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return repositories.ErrNotFound
	}
	run.Status = models.ScanRunFailed
	run.ErrorMessage = &errorMsg
	return nil
}

func (f *fakeScanRunRepo) FailStale(olderThan time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, run := range f.runs {
		if run.Status == models.ScanRunProcessing && time.Since(run.CreatedAt) > olderThan {
			run.Status = models.ScanRunFailed
			n++
		}
	}
	return n, nil
}

func (f *fakeScanRunRepo) FindRecent(limit int) ([]models.ScanRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ScanRun
	for _, run := range f.runs {
		out = append(out, *run)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeScanRunRepo) only() models.ScanRun {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, run := range f.runs {
		return *run
	}
	return models.ScanRun{}
}

type fakeSemanticIndex struct {
	scores  map[string]float32
	err     error
	indexed []string
}

func (f *fakeSemanticIndex) IndexResume(ctx context.Context, filename, text string) error {
	f.indexed = append(f.indexed, filename)
	return f.err
}

func (f *fakeSemanticIndex) RemoveResume(ctx context.Context, filename string) error {
	return nil
}

func (f *fakeSemanticIndex) Scores(ctx context.Context, jdText string, limit int) (map[string]float32, error) {
	return f.scores, f.err
}

type fakeGemini struct {
	text    string
	err     error
	prompts []string
	tasks   []EmbedTask
}

func (f *fakeGemini) Embed(ctx context.Context, text string, task EmbedTask) ([]float32, error) {
	f.tasks = append(f.tasks, task)
	return []float32{0.1, 0.2}, f.err
}

func (f *fakeGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func (f *fakeGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return f.GenerateText(ctx, prompt, temperature)
}
