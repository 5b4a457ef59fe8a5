package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubmissionType string

const (
	SubmissionTypeRepositoryLink SubmissionType = "repository_link"
	SubmissionTypeFileUpload     SubmissionType = "file_upload"
)

type SubmissionStatus string

const (
	SubmissionStatusSubmitted            SubmissionStatus = "submitted"
	SubmissionStatusUnderReview          SubmissionStatus = "under_review"
	SubmissionStatusReviewed             SubmissionStatus = "reviewed"
	SubmissionStatusApproved             SubmissionStatus = "approved"
	SubmissionStatusRejected             SubmissionStatus = "rejected"
	SubmissionStatusResubmissionRequired SubmissionStatus = "resubmission_required"
)

type Submission struct {
	ID                    uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateAssignmentID uuid.UUID        `gorm:"type:uuid;not null" json:"candidate_assignment_id"`
	SubmissionType        SubmissionType   `gorm:"type:varchar(50);not null" json:"submission_type"`
	SubmissionURL         string           `gorm:"type:varchar(500)" json:"submission_url"`
	Files                 datatypes.JSON   `gorm:"type:jsonb" json:"files"`
	SubmittedAt           time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"submitted_at"`
	Status                SubmissionStatus `gorm:"type:varchar(50);not null;default:'submitted'" json:"status"`
	Notes                 string           `gorm:"type:text" json:"notes"`

	// Relations
	CandidateAssignment CandidateAssignment `gorm:"foreignKey:CandidateAssignmentID" json:"-"`
	Reviews             []Review            `gorm:"foreignKey:SubmissionID" json:"-"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (s *Submission) IsRepositorySubmission() bool {
	return s.SubmissionType == SubmissionTypeRepositoryLink
}

func (s *Submission) IsFileSubmission() bool {
	return s.SubmissionType == SubmissionTypeFileUpload
}
