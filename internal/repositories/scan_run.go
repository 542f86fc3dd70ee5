package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/ats-scanner/internal/models"
)

type ScanRunRepository interface {
	Create(run *models.ScanRun) error
	UpdateResult(id uuid.UUID, status models.ScanRunStatus, summary models.ScanSummary) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FailStale(olderThan time.Duration) (int64, error)
	FindRecent(limit int) ([]models.ScanRun, error)
}

type scanRunRepository struct {
	db *gorm.DB
}

func NewScanRunRepository(db *gorm.DB) ScanRunRepository {
	return &scanRunRepository{db: db}
}

func (r *scanRunRepository) Create(run *models.ScanRun) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create scan run: %w", err)
	}
	return nil
}

func (r *scanRunRepository) UpdateResult(id uuid.UUID, status models.ScanRunStatus, summary models.ScanSummary) error {
	result := r.db.Model(&models.ScanRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":               status,
			"total_resumes_found":  summary.TotalResumesFound,
			"successfully_scanned": summary.SuccessfullyScanned,
			"error_count":          summary.Errors,
			"duration_seconds":     summary.DurationSeconds,
			"updated_at":           time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update scan run: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("scan run %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *scanRunRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.ScanRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.ScanRunFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update scan run error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("scan run %s: %w", id, ErrNotFound)
	}

	return nil
}

// FailStale marks runs left in processing by a previous process as failed.
func (r *scanRunRepository) FailStale(olderThan time.Duration) (int64, error) {
	result := r.db.Model(&models.ScanRun{}).
		Where("status = ? AND created_at < ?", models.ScanRunProcessing, time.Now().Add(-olderThan)).
		Updates(map[string]interface{}{
			"status":        models.ScanRunFailed,
			"error_message": "interrupted before completion",
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to fail stale scan runs: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *scanRunRepository) FindRecent(limit int) ([]models.ScanRun, error) {
	var runs []models.ScanRun
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find scan runs: %w", err)
	}

	return runs, nil
}
