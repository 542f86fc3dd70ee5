package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/ats-scanner/internal/models"
	"alfredoptarigan/ats-scanner/internal/services"
)

type fakeScanner struct {
	outcome *services.ScanOutcome
	err     error
	runs    []models.ScanRun
	got     string
}

func (f *fakeScanner) BatchScan(ctx context.Context, jdFilename string) (*services.ScanOutcome, error) {
	f.got = jdFilename
	return f.outcome, f.err
}

func (f *fakeScanner) RecentRuns(limit int) ([]models.ScanRun, error) {
	return f.runs, nil
}

type fakeIngestor struct {
	result services.IngestResult
	names  []string
}

func (f *fakeIngestor) Ingest(ctx context.Context, files []services.IngestFile) services.IngestResult {
	for _, file := range files {
		f.names = append(f.names, file.Filename)
	}
	return f.result
}

type fakeGenerator struct {
	text string
}

func (f *fakeGenerator) Embed(ctx context.Context, text string, task services.EmbedTask) ([]float32, error) {
	return nil, errors.New("not supported")
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	return f.text, nil
}

func (f *fakeGenerator) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return f.text, nil
}

type testServer struct {
	app       *fiber.App
	scanner   *fakeScanner
	ingestor  *fakeIngestor
	jdDir     string
	resumeDir string
}

func newTestServer(t *testing.T, generator services.GeminiService) *testServer {
	t.Helper()
	root := t.TempDir()
	ts := &testServer{
		scanner:   &fakeScanner{},
		ingestor:  &fakeIngestor{},
		jdDir:     filepath.Join(root, "jd"),
		resumeDir: filepath.Join(root, "resumes"),
	}
	storage := services.NewStorageService(ts.jdDir, ts.resumeDir)
	require.NoError(t, storage.EnsureDirs())

	ts.app = fiber.New()
	Register(ts.app,
		NewJDHandler(services.NewJDService(storage, generator, 1)),
		NewScanHandler(ts.scanner),
		NewUploadHandler(ts.ingestor, storage),
	)
	return ts
}

func (ts *testServer) do(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp.StatusCode, body
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealth(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)

	status, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ATS Backend is running", body["message"])
}

func TestJDSaveListAndContent(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)

	status, body := ts.do(t, jsonRequest(http.MethodPost, "/jd/save", `{"title":"Go Developer","description":"Build APIs"}`))
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Job Description saved successfully!", body["message"])
	filename := body["filename"].(string)
	assert.True(t, strings.HasPrefix(filename, "JD_Go_Developer_"))

	status, body = ts.do(t, httptest.NewRequest(http.MethodGet, "/jd/list", nil))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{filename}, body["jd_files"])

	status, body = ts.do(t, httptest.NewRequest(http.MethodGet, "/jd/content/"+filename, nil))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, filename, body["filename"])
	assert.Contains(t, body["content"], "Job Title: Go Developer")
	assert.Contains(t, body["content"], "Build APIs")
}

func TestJDSaveValidation(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)

	status, body := ts.do(t, jsonRequest(http.MethodPost, "/jd/save", `{"title":"Go Developer"}`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing 'title' or 'description'", body["error"])

	req := httptest.NewRequest(http.MethodPost, "/jd/save", strings.NewReader("title=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	status, body = ts.do(t, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Request must be JSON", body["error"])
}

func TestJDContentErrors(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)

	status, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/jd/content/JD_missing.txt", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Job description 'JD_missing.txt' not found.", body["description"])

	status, body = ts.do(t, httptest.NewRequest(http.MethodGet, "/jd/content/..%2Fsecret.txt", nil))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid filename provided.", body["description"])
	assert.Equal(t, "Invalid filename provided.", body["message"])
}

func TestJDGenerate(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, &fakeGenerator{text: "**Great** role.\n\nShip Go services."})

	status, body := ts.do(t, jsonRequest(http.MethodPost, "/jd/generate", `{"title":"Go Developer","experience":"Senior"}`))

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Go Developer", body["title"])
	assert.Equal(t, "Great role.\n\nShip Go services.", body["description"])
}

func TestJDGenerateWithoutGemini(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)

	status, _ := ts.do(t, jsonRequest(http.MethodPost, "/jd/generate", `{"title":"Go Developer","experience":"Senior"}`))
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, _ = ts.do(t, jsonRequest(http.MethodPost, "/jd/generate", `{"title":"Go Developer"}`))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBatchScanPassesOutcomeStatus(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)
	name := "Jane"
	ts.scanner.outcome = &services.ScanOutcome{
		StatusCode: http.StatusMultiStatus,
		Response: models.ScanResponse{
			JDUsed:     "JD_a.txt",
			Results:    []models.CandidateResult{{Name: &name, Score: 50, OriginalFilename: "jane.pdf"}},
			ScanErrors: []models.FileError{{Filename: "bad.pdf", Error: "raw text missing or empty"}},
			Summary:    &models.ScanSummary{TotalResumesFound: 2, SuccessfullyScanned: 1, Errors: 1},
		},
	}

	status, body := ts.do(t, jsonRequest(http.MethodPost, "/scan/batch", `{"jd_filename":"JD_a.txt"}`))

	assert.Equal(t, http.StatusMultiStatus, status)
	assert.Equal(t, "JD_a.txt", ts.scanner.got)
	assert.Len(t, body["results"], 1)
	assert.Len(t, body["scan_errors"], 1)
	assert.Equal(t, float64(1), body["summary"].(map[string]any)["errors"])
}

func TestBatchScanErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		body    string
		err     error
		status  int
		errText string
	}{
		{name: "missing filename", body: `{}`, status: http.StatusBadRequest, errText: "Missing 'jd_filename'"},
		{name: "bad filename", body: `{"jd_filename":"../x.txt"}`, err: services.ErrInvalidFilename, status: http.StatusBadRequest, errText: "Invalid JD filename format."},
		{name: "not found", body: `{"jd_filename":"JD_x.txt"}`, err: services.ErrJDNotFound, status: http.StatusNotFound, errText: "jd_not_found"},
		{name: "empty", body: `{"jd_filename":"JD_x.txt"}`, err: services.ErrJDEmpty, status: http.StatusBadRequest, errText: "jd_empty"},
		{name: "listing", body: `{"jd_filename":"JD_x.txt"}`, err: errors.New("db down"), status: http.StatusInternalServerError, errText: "resume_list_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			ts.scanner.err = tc.err

			status, body := ts.do(t, jsonRequest(http.MethodPost, "/scan/batch", tc.body))

			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.errText, body["error"])
		})
	}
}

func TestRecentRuns(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)
	ts.scanner.runs = []models.ScanRun{{JDFilename: "JD_a.txt", Status: models.ScanRunCompleted}}

	status, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/scan/runs?limit=5", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["runs"], 1)

	status, _ = ts.do(t, httptest.NewRequest(http.MethodGet, "/scan/runs?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, status)
}

func multipartRequest(t *testing.T, field string, names ...string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range names {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/resumes/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadStatuses(t *testing.T) {
	t.Parallel()

	uploaded := []models.UploadedFile{{Filename: "jane.pdf"}}
	failed := []models.FileError{{Filename: "notes.txt", Error: "Invalid file type. Only PDF and DOCX are allowed."}}

	cases := []struct {
		name   string
		result services.IngestResult
		status int
		keys   []string
	}{
		{name: "success", result: services.IngestResult{Uploaded: uploaded}, status: http.StatusOK, keys: []string{"success"}},
		{name: "partial", result: services.IngestResult{Uploaded: uploaded, Errors: failed}, status: http.StatusMultiStatus, keys: []string{"success", "errors"}},
		{name: "errors only", result: services.IngestResult{Errors: failed}, status: http.StatusBadRequest, keys: []string{"errors"}},
		{name: "nothing usable", result: services.IngestResult{Skipped: 1}, status: http.StatusBadRequest, keys: []string{"info"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			ts.ingestor.result = tc.result

			status, body := ts.do(t, multipartRequest(t, "files", "jane.pdf", "notes.txt"))

			assert.Equal(t, tc.status, status)
			for _, key := range tc.keys {
				assert.Contains(t, body, key)
			}
			assert.Len(t, body, len(tc.keys))
			assert.Equal(t, []string{"jane.pdf", "notes.txt"}, ts.ingestor.names)
		})
	}
}

func TestUploadSuccessMessage(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)
	ts.ingestor.result = services.IngestResult{Uploaded: []models.UploadedFile{{Filename: "a.pdf"}, {Filename: "b.pdf"}}}

	_, body := ts.do(t, multipartRequest(t, "files", "a.pdf", "b.pdf"))

	success := body["success"].(map[string]any)
	assert.Equal(t, "2 file(s) processed and ready for AI validation.", success["message"])
}

func TestUploadRequestErrors(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)

	status, body := ts.do(t, multipartRequest(t, "resume", "jane.pdf"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing 'files' part in the multipart request", body["error"])

	status, body = ts.do(t, multipartRequest(t, "files", ""))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No selected files to upload", body["error"])
}

func TestDownload(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(ts.resumeDir, "jane_doe.pdf"), []byte("%PDF-1.4"), 0644))

	resp, err := ts.app.Test(httptest.NewRequest(http.MethodGet, "/resumes/download/jane_doe.pdf", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "jane_doe.pdf")

	status, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/resumes/download/missing.pdf", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "File 'missing.pdf' not found.", body["description"])

	status, _ = ts.do(t, httptest.NewRequest(http.MethodGet, "/resumes/download/..%2F..%2Fetc%2Fpasswd", nil))
	assert.Equal(t, http.StatusBadRequest, status)
}
