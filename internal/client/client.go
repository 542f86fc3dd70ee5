package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"alfredoptarigan/ats-scanner/internal/models"
)

var (
	// ErrNetwork matches every TransportError: the request never got a response.
	ErrNetwork = errors.New("network error: cannot reach the server")
	// ErrNotFound matches APIErrors with status 404.
	ErrNotFound = errors.New("resource not found")
)

// maxErrorBody bounds how much of a failed response is kept on an APIError.
const maxErrorBody = 64 * 1024

// TransportError means no response reached the client.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrNetwork }

// APIError is a non-2xx response. Scan is set when the body of a failed
// batch scan still carries results or scan errors.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
	Scan       *models.ScanResponse
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// ScanResult is a 2xx batch scan response together with its status (200 or 207).
type ScanResult struct {
	StatusCode int
	Response   models.ScanResponse
}

// UploadFile is one résumé sent to the upload endpoint.
type UploadFile struct {
	Filename string
	Content  []byte
}

// UploadResult is the decoded upload response. Non-2xx responses that still
// describe per-file outcomes (400 with errors) are returned here, not as errors.
type UploadResult struct {
	StatusCode int
	Response   models.UploadResponse
}

type Client interface {
	ListJDs(ctx context.Context) ([]models.JDDescriptor, error)
	GetJDContent(ctx context.Context, jdID models.JDDescriptor) (string, error)
	BatchScan(ctx context.Context, jdID models.JDDescriptor) (*ScanResult, error)
	Upload(ctx context.Context, files []UploadFile) (*UploadResult, error)
	DownloadURL(filename string) string
}

type apiClient struct {
	http    *http.Client
	baseURL string
}

// NewClient creates an API client rooted at baseURL. A zero timeout leaves
// request lifetimes to the caller's context.
func NewClient(baseURL string, timeout time.Duration) Client {
	return &apiClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *apiClient) ListJDs(ctx context.Context) ([]models.JDDescriptor, error) {
	var out models.JDListResponse
	if err := c.getJSON(ctx, "list job descriptions", "/jd/list", &out, "message", "error"); err != nil {
		return nil, err
	}
	if out.JDFiles == nil {
		return []models.JDDescriptor{}, nil
	}
	return out.JDFiles, nil
}

func (c *apiClient) GetJDContent(ctx context.Context, jdID models.JDDescriptor) (string, error) {
	var out models.JDContentResponse
	path := "/jd/content/" + url.PathEscape(string(jdID))
	if err := c.getJSON(ctx, "fetch job description", path, &out, "description", "message", "error"); err != nil {
		return "", err
	}
	return out.Content, nil
}

func (c *apiClient) BatchScan(ctx context.Context, jdID models.JDDescriptor) (*ScanResult, error) {
	body, err := json.Marshal(models.ScanRequest{JDFilename: string(jdID)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode scan request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scan/batch", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build scan request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, raw, err := c.do(req, "batch scan")
	if err != nil {
		return nil, err
	}

	if !isSuccess(resp.StatusCode) {
		apiErr := newAPIError(resp, raw, "error", "message")
		var scan models.ScanResponse
		if json.Unmarshal(raw, &scan) == nil && scan.HasScanShape() {
			apiErr.Scan = &scan
		}
		return nil, apiErr
	}

	var scan models.ScanResponse
	if err := json.Unmarshal(raw, &scan); err != nil {
		return nil, fmt.Errorf("failed to decode scan response: %w", err)
	}
	return &ScanResult{StatusCode: resp.StatusCode, Response: scan}, nil
}

func (c *apiClient) Upload(ctx context.Context, files []UploadFile) (*UploadResult, error) {
	body, contentType, err := encodeUpload(files)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/resumes/upload", body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, raw, err := c.do(req, "upload resumes")
	if err != nil {
		return nil, err
	}

	var out models.UploadResponse
	decodeErr := json.Unmarshal(raw, &out)
	if isSuccess(resp.StatusCode) {
		if decodeErr != nil {
			return nil, fmt.Errorf("failed to decode upload response: %w", decodeErr)
		}
		return &UploadResult{StatusCode: resp.StatusCode, Response: out}, nil
	}
	if decodeErr == nil && (len(out.Errors) > 0 || out.Info != nil) {
		return &UploadResult{StatusCode: resp.StatusCode, Response: out}, nil
	}
	return nil, newAPIError(resp, raw, "error", "message")
}

// DownloadURL returns the attachment link for an uploaded résumé, or "" when
// there is no filename to link to.
func (c *apiClient) DownloadURL(filename string) string {
	return DownloadURL(c.baseURL, filename)
}

// DownloadURL joins baseURL with the download path of filename.
func DownloadURL(baseURL, filename string) string {
	if strings.TrimSpace(filename) == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/resumes/download/" + url.PathEscape(filename)
}

func (c *apiClient) getJSON(ctx context.Context, op, path string, out any, messageKeys ...string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}

	resp, raw, err := c.do(req, op)
	if err != nil {
		return err
	}
	if !isSuccess(resp.StatusCode) {
		return newAPIError(resp, raw, messageKeys...)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

func (c *apiClient) do(req *http.Request, op string) (*http.Response, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, nil, &TransportError{Op: op, Err: err}
	}
	return resp, raw, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// newAPIError picks the first non-empty string among messageKeys in the body,
// falling back to "Server error: <status>".
func newAPIError(resp *http.Response, raw []byte, messageKeys ...string) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("Server error: %d", resp.StatusCode),
	}

	body := raw
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	apiErr.Body = body

	var fields map[string]any
	if json.Unmarshal(raw, &fields) == nil {
		for _, key := range messageKeys {
			if s, ok := fields[key].(string); ok && strings.TrimSpace(s) != "" {
				apiErr.Message = s
				break
			}
		}
	}
	return apiErr
}
