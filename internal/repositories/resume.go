package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"alfredoptarigan/ats-scanner/internal/models"
)

var ErrNotFound = errors.New("record not found")

type ResumeRepository interface {
	Create(resume *models.Resume) error
	FindAllNewestFirst() ([]models.Resume, error)
	FindByOriginalFilename(filename string) (*models.Resume, error)
	DeleteByOriginalFilename(filename string) error
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Create(resume *models.Resume) error {
	if err := r.db.Create(resume).Error; err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

// FindAllNewestFirst orders by the last time a résumé was (re)uploaded.
func (r *resumeRepository) FindAllNewestFirst() ([]models.Resume, error) {
	var resumes []models.Resume
	if err := r.db.Order("updated_at DESC").Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("failed to find resumes: %w", err)
	}
	return resumes, nil
}

func (r *resumeRepository) FindByOriginalFilename(filename string) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.Where("original_filename = ?", filename).First(&resume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("resume %s: %w", filename, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}

func (r *resumeRepository) DeleteByOriginalFilename(filename string) error {
	if err := r.db.Where("original_filename = ?", filename).Delete(&models.Resume{}).Error; err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	return nil
}
