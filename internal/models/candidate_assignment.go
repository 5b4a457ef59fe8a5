package models

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentStatus string

const (
	StatusAssigned   AssignmentStatus = "assigned"
	StatusInProgress AssignmentStatus = "in_progress"
	StatusSubmitted  AssignmentStatus = "submitted"
	StatusReviewed   AssignmentStatus = "reviewed"
	StatusCompleted  AssignmentStatus = "completed"
	StatusFailed     AssignmentStatus = "failed"
)

// legalTransitions is the closed transition table for user-driven status
// updates. The review workflow completes assignments through its own path and
// is not constrained by this table.
var legalTransitions = map[AssignmentStatus][]AssignmentStatus{
	StatusAssigned:   {StatusInProgress, StatusFailed},
	StatusInProgress: {StatusSubmitted, StatusFailed},
	StatusSubmitted:  {StatusReviewed, StatusCompleted, StatusFailed},
	StatusReviewed:   {StatusCompleted, StatusFailed},
	StatusCompleted:  {},
	StatusFailed:     {},
}

func (s AssignmentStatus) IsValid() bool {
	_, ok := legalTransitions[s]
	return ok
}

func (s AssignmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether a user-driven update from s to target is a
// legal lifecycle step.
func (s AssignmentStatus) CanTransitionTo(target AssignmentStatus) bool {
	for _, next := range legalTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

type CandidateAssignment struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateID        uuid.UUID        `gorm:"type:uuid;not null" json:"candidate_id"`
	AssignmentID       uuid.UUID        `gorm:"type:uuid;not null" json:"assignment_id"`
	AssignedBy         uuid.UUID        `gorm:"type:uuid;not null" json:"assigned_by"`
	AssignedAt         time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"assigned_at"`
	Deadline           *time.Time       `json:"deadline,omitempty"`
	Status             AssignmentStatus `gorm:"type:varchar(50);not null;default:'assigned'" json:"status"`
	ProgressPercentage int              `gorm:"default:0" json:"progress_percentage"`
	Notes              string           `gorm:"type:varchar(1000)" json:"notes"`

	// Relations
	Candidate   User         `gorm:"foreignKey:CandidateID" json:"-"`
	Assignment  Assignment   `gorm:"foreignKey:AssignmentID" json:"-"`
	Assigner    User         `gorm:"foreignKey:AssignedBy" json:"-"`
	Submissions []Submission `gorm:"foreignKey:CandidateAssignmentID" json:"-"`
}

func (CandidateAssignment) TableName() string {
	return "candidate_assignments"
}

// IsOverdue is computed lazily from wall-clock time; there is no background
// sweep marking records overdue.
func (ca *CandidateAssignment) IsOverdue(now time.Time) bool {
	if ca.Deadline == nil {
		return false
	}
	return now.After(*ca.Deadline) && !ca.Status.IsTerminal()
}

func (ca *CandidateAssignment) DaysRemaining(now time.Time) int {
	if ca.Deadline == nil {
		return 0
	}
	days := int(ca.Deadline.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
