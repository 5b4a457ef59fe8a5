package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Assignment struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProjectID          uuid.UUID      `gorm:"type:uuid;not null" json:"project_id"`
	Title              string         `gorm:"type:varchar(255);not null;index" json:"title"`
	Description        string         `gorm:"type:text" json:"description"`
	Skillsets          pq.StringArray `gorm:"type:text[];not null" json:"skillsets"`
	DifficultyLevel    string         `gorm:"type:varchar(50);not null" json:"difficulty_level"`
	DurationDays       int            `gorm:"not null" json:"duration_days"`
	Instructions       string         `gorm:"type:text" json:"instructions"`
	StarterCodeURL     string         `gorm:"type:varchar(500)" json:"starter_code_url"`
	ReferenceMaterials datatypes.JSON `gorm:"type:jsonb" json:"reference_materials"`
	SubmissionCriteria datatypes.JSON `gorm:"type:jsonb" json:"submission_criteria"`
	IsActive           bool           `gorm:"default:true" json:"is_active"`
	CreatedBy          uuid.UUID      `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt          time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
	Creator User    `gorm:"foreignKey:CreatedBy" json:"-"`
}

func (Assignment) TableName() string {
	return "assignments"
}
