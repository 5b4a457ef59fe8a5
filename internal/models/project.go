package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Project struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name            string         `gorm:"type:varchar(255);not null;index" json:"name"`
	Description     string         `gorm:"type:text" json:"description"`
	Domain          string         `gorm:"type:varchar(100)" json:"domain"`
	TechStack       pq.StringArray `gorm:"type:text[]" json:"tech_stack"`
	DifficultyLevel string         `gorm:"type:varchar(50);not null" json:"difficulty_level"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}
