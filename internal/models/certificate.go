package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PassingScore is the fixed policy threshold shared by the review workflow
// (assignment completion) and certificates (passing credential).
const PassingScore = 70

type Certificate struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateID        uuid.UUID      `gorm:"type:uuid;not null" json:"candidate_id"`
	AssignmentID       uuid.UUID      `gorm:"type:uuid;not null" json:"assignment_id"`
	CertificateNumber  string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"certificate_number"`
	Score              int            `json:"score"`
	SkillsDemonstrated pq.StringArray `gorm:"type:text[]" json:"skills_demonstrated"`
	IssuedAt           time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"issued_at"`
	PDFURL             string         `gorm:"type:varchar(500)" json:"pdf_url"`
	IsActive           bool           `gorm:"default:true" json:"is_active"`

	// Relations
	Candidate  User       `gorm:"foreignKey:CandidateID" json:"-"`
	Assignment Assignment `gorm:"foreignKey:AssignmentID" json:"-"`
}

func (Certificate) TableName() string {
	return "certificates"
}

func (c *Certificate) IsPassing() bool {
	return c.Score >= PassingScore
}
