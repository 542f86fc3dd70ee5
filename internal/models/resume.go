package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NotFound is the placeholder the résumé parser stores for fields it could not extract.
const NotFound = "Not Found"

// ParsedResume is the structured data extracted from a résumé's text.
type ParsedResume struct {
	OriginalFilename string `gorm:"type:text;index" json:"_original_filename"`
	Name             string `gorm:"type:text" json:"name"`
	Phone            string `gorm:"type:text" json:"phone"`
	Email            string `gorm:"type:text" json:"email"`
	LinkedIn         string `gorm:"type:text" json:"linkedin"`
	GitHub           string `gorm:"type:text" json:"github"`
	Summary          string `gorm:"type:text" json:"summary"`
	Education        string `gorm:"type:text" json:"education"`
	Experience       string `gorm:"type:text" json:"experience"`
	Skills           string `gorm:"type:text" json:"skills"`
	Projects         string `gorm:"type:text" json:"projects"`
	Certifications   string `gorm:"type:text" json:"certifications"`
	CodingProfiles   string `gorm:"type:text" json:"coding_profiles"`
	RawText          string `gorm:"type:text" json:"_raw_text"`
}

type Resume struct {
	ID             uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StoredFilename string       `gorm:"type:text" json:"stored_filename"`
	FileType       string       `gorm:"type:text" json:"file_type"`
	FilePath       string       `gorm:"type:text" json:"file_path"`
	Parsed         ParsedResume `gorm:"embedded" json:"parsed"`
	CreatedAt      time.Time    `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (r *Resume) TableName() string {
	return "resumes"
}

// OptionalField turns parser placeholders into an absent value.
func OptionalField(value string) *string {
	v := strings.TrimSpace(value)
	if v == "" || v == NotFound || v == "N/A" {
		return nil
	}
	return &v
}
