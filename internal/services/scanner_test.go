package services

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/ats-scanner/internal/models"
)

type scannerFixture struct {
	scanner  ScannerService
	resumes  *fakeResumeRepo
	runs     *fakeScanRunRepo
	semantic *fakeSemanticIndex
	jdDir    string
}

func newScannerFixture(t *testing.T, withSemantic bool) *scannerFixture {
	t.Helper()
	storage, jdDir, _ := newTestStorage(t)
	f := &scannerFixture{
		resumes: &fakeResumeRepo{},
		runs:    newFakeScanRunRepo(),
		jdDir:   jdDir,
	}
	var semantic SemanticIndex
	if withSemantic {
		f.semantic = &fakeSemanticIndex{}
		semantic = f.semantic
	}
	f.scanner = NewScannerService(storage, f.resumes, f.runs, newTestMatcher(t), semantic, 3)
	return f
}

func (f *scannerFixture) writeJD(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.jdDir, name), []byte(content), 0644))
}

func (f *scannerFixture) addResume(name, email, filename, text string) {
	f.resumes.resumes = append(f.resumes.resumes, models.Resume{
		StoredFilename: filename,
		Parsed: models.ParsedResume{
			OriginalFilename: filename,
			Name:             name,
			Email:            email,
			Phone:            models.NotFound,
			RawText:          text,
		},
	})
}

func TestBatchScanRanksByScore(t *testing.T) {
	t.Parallel()
	f := newScannerFixture(t, false)
	f.writeJD(t, "JD_backend_20240101_120000.txt", "python docker postgres aws")
	f.addResume("Low Match", models.NotFound, "low.pdf", "python")
	f.addResume("Jane Doe", "jane@example.com", "jane.pdf", "python docker postgres aws")

	outcome, err := f.scanner.BatchScan(context.Background(), "JD_backend_20240101_120000.txt")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, outcome.StatusCode)
	resp := outcome.Response
	assert.Equal(t, "JD_backend_20240101_120000.txt", resp.JDUsed)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "jane.pdf", resp.Results[0].OriginalFilename)
	assert.Equal(t, 100.0, resp.Results[0].Score)
	assert.Equal(t, 25.0, resp.Results[1].Score)
	assert.Nil(t, resp.Results[1].Email)
	assert.Nil(t, resp.Results[0].Phone)
	require.NotNil(t, resp.Results[0].Name)
	assert.Equal(t, "Jane Doe", *resp.Results[0].Name)
	assert.Empty(t, resp.ScanErrors)
	require.NotNil(t, resp.Summary)
	assert.Equal(t, 2, resp.Summary.TotalResumesFound)
	assert.Equal(t, 2, resp.Summary.SuccessfullyScanned)

	run := f.runs.only()
	assert.Equal(t, models.ScanRunCompleted, run.Status)
	assert.Equal(t, 2, run.SuccessfullyScanned)
}

func TestBatchScanPartialFailure(t *testing.T) {
	t.Parallel()
	f := newScannerFixture(t, false)
	f.writeJD(t, "JD_a.txt", "python")
	f.addResume("Jane Doe", "", "jane.pdf", "python")
	f.addResume("", "", "corrupt.docx", "")

	outcome, err := f.scanner.BatchScan(context.Background(), "JD_a.txt")
	require.NoError(t, err)

	assert.Equal(t, http.StatusMultiStatus, outcome.StatusCode)
	assert.Len(t, outcome.Response.Results, 1)
	require.Len(t, outcome.Response.ScanErrors, 1)
	assert.Equal(t, "corrupt.docx", outcome.Response.ScanErrors[0].Filename)
	assert.Equal(t, 1, outcome.Response.Summary.Errors)
	assert.Equal(t, models.ScanRunPartial, f.runs.only().Status)
}

func TestBatchScanNoResumes(t *testing.T) {
	t.Parallel()
	f := newScannerFixture(t, false)
	f.writeJD(t, "JD_a.txt", "python")

	outcome, err := f.scanner.BatchScan(context.Background(), "JD_a.txt")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, outcome.StatusCode)
	assert.NotNil(t, outcome.Response.Results)
	assert.Empty(t, outcome.Response.Results)
	assert.NotNil(t, outcome.Response.ScanErrors)
	assert.Nil(t, outcome.Response.Summary)
	assert.Equal(t, "No parsed resumes found.", outcome.Response.Message)
}

func TestBatchScanJDErrors(t *testing.T) {
	t.Parallel()
	f := newScannerFixture(t, false)
	f.writeJD(t, "JD_blank.txt", "  \n")

	_, err := f.scanner.BatchScan(context.Background(), "JD_missing.txt")
	assert.ErrorIs(t, err, ErrJDNotFound)

	_, err = f.scanner.BatchScan(context.Background(), "JD_blank.txt")
	assert.ErrorIs(t, err, ErrJDEmpty)

	_, err = f.scanner.BatchScan(context.Background(), "../JD_a.txt")
	assert.ErrorIs(t, err, ErrInvalidFilename)
}

func TestBatchScanListFailureMarksRunFailed(t *testing.T) {
	t.Parallel()
	f := newScannerFixture(t, false)
	f.writeJD(t, "JD_a.txt", "python")
	f.resumes.listErr = errors.New("db down")

	_, err := f.scanner.BatchScan(context.Background(), "JD_a.txt")
	require.Error(t, err)

	run := f.runs.only()
	assert.Equal(t, models.ScanRunFailed, run.Status)
	require.NotNil(t, run.ErrorMessage)
	assert.Equal(t, "db down", *run.ErrorMessage)
}

func TestBatchScanAddsSemanticScore(t *testing.T) {
	t.Parallel()
	f := newScannerFixture(t, true)
	f.semantic.scores = map[string]float32{"jane.pdf": 0.8123}
	f.writeJD(t, "JD_a.txt", "python")
	f.addResume("Jane Doe", "", "jane.pdf", "python")
	f.addResume("John Roe", "", "john.pdf", "python")

	outcome, err := f.scanner.BatchScan(context.Background(), "JD_a.txt")
	require.NoError(t, err)

	byFile := map[string]models.CandidateResult{}
	for _, r := range outcome.Response.Results {
		byFile[r.OriginalFilename] = r
	}
	require.NotNil(t, byFile["jane.pdf"].SemanticScore)
	assert.InDelta(t, 81.23, *byFile["jane.pdf"].SemanticScore, 0.001)
	assert.Nil(t, byFile["john.pdf"].SemanticScore)
}

func TestBatchScanIgnoresSemanticFailure(t *testing.T) {
	t.Parallel()
	f := newScannerFixture(t, true)
	f.semantic.err = errors.New("qdrant unavailable")
	f.writeJD(t, "JD_a.txt", "python")
	f.addResume("Jane Doe", "", "jane.pdf", "python")

	outcome, err := f.scanner.BatchScan(context.Background(), "JD_a.txt")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, outcome.StatusCode)
	assert.Nil(t, outcome.Response.Results[0].SemanticScore)
}

func TestBatchScanCancelled(t *testing.T) {
	t.Parallel()
	f := newScannerFixture(t, false)
	f.writeJD(t, "JD_a.txt", "python")
	f.addResume("Jane Doe", "", "jane.pdf", "python")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.scanner.BatchScan(ctx, "JD_a.txt")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, models.ScanRunFailed, f.runs.only().Status)
}

func TestStaleRunSweeper(t *testing.T) {
	t.Parallel()
	runs := newFakeScanRunRepo()
	require.NoError(t, runs.Create(&models.ScanRun{JDFilename: "JD_a.txt", Status: models.ScanRunProcessing}))

	sweeper := NewStaleRunSweeper(runs, 0, time.Hour)
	sweeper.Start(context.Background())
	sweeper.Stop()

	assert.Equal(t, models.ScanRunFailed, runs.only().Status)
}
