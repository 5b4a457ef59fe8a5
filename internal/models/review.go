package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ReviewStatus string

const (
	ReviewStatusPending    ReviewStatus = "pending"
	ReviewStatusInProgress ReviewStatus = "in_progress"
	ReviewStatusCompleted  ReviewStatus = "completed"
)

type Review struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SubmissionID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_submission_reviewer" json:"submission_id"`
	ReviewerID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_submission_reviewer" json:"reviewer_id"`
	Score          *int           `json:"score,omitempty"`
	Feedback       string         `gorm:"type:text" json:"feedback"`
	CriteriaScores datatypes.JSON `gorm:"type:jsonb" json:"criteria_scores"`
	ReviewedAt     time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"reviewed_at"`
	Status         ReviewStatus   `gorm:"type:varchar(50);not null;default:'pending'" json:"status"`

	// Relations
	Submission Submission `gorm:"foreignKey:SubmissionID" json:"-"`
	Reviewer   User       `gorm:"foreignKey:ReviewerID" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) IsCompleted() bool {
	return r.Status == ReviewStatusCompleted
}
