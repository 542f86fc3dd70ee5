package models

import "regexp"

// JDDescriptor is the filename of a stored job description. It doubles as its id.
type JDDescriptor string

var (
	jdPrefix = regexp.MustCompile(`^JD_`)
	jdSuffix = regexp.MustCompile(`_\d{8}_\d{6,}\.txt$`)
)

// DisplayName strips the storage prefix and timestamp suffix for listing.
func (d JDDescriptor) DisplayName() string {
	name := jdSuffix.ReplaceAllString(jdPrefix.ReplaceAllString(string(d), ""), "")
	if name == "" {
		return string(d)
	}
	return name
}

type JDListResponse struct {
	JDFiles []JDDescriptor `json:"jd_files"`
}

type JDContentResponse struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type SaveJDRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Experience  string `json:"experience"`
}

type SaveJDResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

type GenerateJDRequest struct {
	Title      string `json:"title"`
	Experience string `json:"experience"`
}

type GenerateJDResponse struct {
	Title       string `json:"title"`
	Experience  string `json:"experience"`
	Description string `json:"description"`
}

type ScanRequest struct {
	JDFilename string `json:"jd_filename"`
}

// CandidateResult is one scored résumé. Contact fields are nil when unknown.
type CandidateResult struct {
	Name             *string  `json:"name"`
	Email            *string  `json:"email"`
	Phone            *string  `json:"phone"`
	Score            float64  `json:"score"`
	MatchingKeywords []string `json:"matching_keywords"`
	MissingKeywords  []string `json:"missing_keywords"`
	OriginalFilename string   `json:"original_filename"`
	MatchCount       int      `json:"match_count"`
	JDKeywordCount   int      `json:"jd_keyword_count"`
	SemanticScore    *float64 `json:"semantic_score,omitempty"`
}

type FileError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

type ScanSummary struct {
	TotalResumesFound   int     `json:"total_resumes_found"`
	SuccessfullyScanned int     `json:"successfully_scanned"`
	Errors              int     `json:"errors"`
	DurationSeconds     float64 `json:"duration_seconds"`
}

// ScanResponse is the body of POST /scan/batch. Every field may be absent.
type ScanResponse struct {
	JDUsed     string            `json:"jd_used,omitempty"`
	Results    []CandidateResult `json:"results"`
	ScanErrors []FileError       `json:"scan_errors"`
	Summary    *ScanSummary      `json:"summary,omitempty"`
	Message    string            `json:"message,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// HasScanShape reports whether the body carries any scan payload at all,
// as opposed to a bare error object.
func (r *ScanResponse) HasScanShape() bool {
	if r == nil {
		return false
	}
	return r.Results != nil || r.ScanErrors != nil || r.Summary != nil
}

type UploadedFile struct {
	Filename   string       `json:"filename"`
	ParsedData ParsedResume `json:"parsedData"`
}

type UploadSuccess struct {
	Message string         `json:"message"`
	Files   []UploadedFile `json:"files"`
}

type UploadInfo struct {
	Message string `json:"message"`
}

type UploadResponse struct {
	Success *UploadSuccess `json:"success,omitempty"`
	Errors  []FileError    `json:"errors,omitempty"`
	Info    *UploadInfo    `json:"info,omitempty"`
	Error   string         `json:"error,omitempty"`
	Message string         `json:"message,omitempty"`
}

// ErrorResponse covers the error bodies the API emits on its various endpoints.
type ErrorResponse struct {
	Error       string `json:"error,omitempty"`
	Message     string `json:"message,omitempty"`
	Description string `json:"description,omitempty"`
}
