package models

import (
	"time"

	"github.com/google/uuid"
)

type ScanRunStatus string

const (
	ScanRunProcessing ScanRunStatus = "processing"
	ScanRunCompleted  ScanRunStatus = "completed"
	ScanRunPartial    ScanRunStatus = "partial"
	ScanRunFailed     ScanRunStatus = "failed"
)

// ScanRun records one batch scan of the stored résumés against a JD.
type ScanRun struct {
	ID                  uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JDFilename          string        `gorm:"type:text;not null" json:"jd_filename"`
	Status              ScanRunStatus `gorm:"not null;default:'processing'" json:"status"`
	TotalResumesFound   int           `json:"total_resumes_found"`
	SuccessfullyScanned int           `json:"successfully_scanned"`
	ErrorCount          int           `json:"errors"`
	DurationSeconds     float64       `gorm:"type:decimal(10,2)" json:"duration_seconds"`
	ErrorMessage        *string       `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt           time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ScanRun) TableName() string {
	return "scan_runs"
}
