package models

import (
	"time"

	"github.com/google/uuid"
)

// Auth

type RegisterRequest struct {
	Email     string   `json:"email" validate:"required,email"`
	FullName  string   `json:"full_name" validate:"required"`
	Password  string   `json:"password" validate:"required,min=8"`
	Role      UserRole `json:"role" validate:"required,oneof=admin reviewer candidate"`
	Skillsets []string `json:"skillsets"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Projects

type ProjectCreateRequest struct {
	Name            string   `json:"name" validate:"required"`
	Description     string   `json:"description"`
	Domain          string   `json:"domain"`
	TechStack       []string `json:"tech_stack"`
	DifficultyLevel string   `json:"difficulty_level" validate:"required,oneof=beginner intermediate advanced"`
}

type ProjectUpdateRequest struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	Domain          *string  `json:"domain"`
	TechStack       []string `json:"tech_stack"`
	DifficultyLevel *string  `json:"difficulty_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	IsActive        *bool    `json:"is_active"`
}

// Assignments

type AssignmentCreateRequest struct {
	ProjectID          string                 `json:"project_id" validate:"required,uuid"`
	Title              string                 `json:"title" validate:"required"`
	Description        string                 `json:"description"`
	Skillsets          []string               `json:"skillsets" validate:"required,min=1"`
	DifficultyLevel    string                 `json:"difficulty_level" validate:"required,oneof=beginner intermediate advanced"`
	DurationDays       int                    `json:"duration_days" validate:"required,min=1"`
	Instructions       string                 `json:"instructions"`
	StarterCodeURL     string                 `json:"starter_code_url" validate:"omitempty,url"`
	ReferenceMaterials map[string]interface{} `json:"reference_materials"`
	SubmissionCriteria map[string]interface{} `json:"submission_criteria"`
}

type AssignmentUpdateRequest struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	Skillsets       []string `json:"skillsets"`
	DifficultyLevel *string  `json:"difficulty_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	DurationDays    *int     `json:"duration_days" validate:"omitempty,min=1"`
	Instructions    *string  `json:"instructions"`
	IsActive        *bool    `json:"is_active"`
}

type AssignmentStats struct {
	TotalCandidates int `json:"total_candidates"`
	CompletedCount  int `json:"completed_count"`
	InProgressCount int `json:"in_progress_count"`
	OverdueCount    int `json:"overdue_count"`
}

// Candidate assignments

type AssignRequest struct {
	DeadlineDays int    `json:"deadline_days" validate:"required,min=1,max=30"`
	Notes        string `json:"notes" validate:"max=1000"`
}

type UpdateAssignmentStatusRequest struct {
	Status             AssignmentStatus `json:"status" validate:"required"`
	ProgressPercentage *int             `json:"progress_percentage" validate:"omitempty,min=0,max=100"`
	Notes              *string          `json:"notes" validate:"omitempty,max=1000"`
}

type CandidateAssignmentResponse struct {
	ID                 uuid.UUID        `json:"id"`
	AssignmentTitle    string           `json:"assignment_title"`
	ProjectName        string           `json:"project_name"`
	CandidateName      string           `json:"candidate_name"`
	CandidateEmail     string           `json:"candidate_email"`
	Status             AssignmentStatus `json:"status"`
	ProgressPercentage int              `json:"progress_percentage"`
	AssignedAt         time.Time        `json:"assigned_at"`
	Deadline           *time.Time       `json:"deadline,omitempty"`
	IsOverdue          bool             `json:"is_overdue"`
	DaysRemaining      int              `json:"days_remaining"`
	Notes              string           `json:"notes"`
}

// Submissions

type SubmitRequest struct {
	SubmissionType SubmissionType `json:"submission_type" validate:"required,oneof=repository_link file_upload"`
	SubmissionURL  string         `json:"submission_url" validate:"omitempty,url"`
	Notes          string         `json:"notes"`
}

type SubmissionFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Reviews

type ReviewCreateRequest struct {
	Score          int            `json:"score" validate:"min=0,max=100"`
	Feedback       string         `json:"feedback" validate:"required"`
	CriteriaScores map[string]int `json:"criteria_scores"`
}

type ReviewUpdateRequest struct {
	Score          *int           `json:"score" validate:"omitempty,min=0,max=100"`
	Feedback       *string        `json:"feedback"`
	CriteriaScores map[string]int `json:"criteria_scores"`
}

type ReviewResponse struct {
	ID             uuid.UUID      `json:"id"`
	ReviewerName   string         `json:"reviewer_name"`
	Score          *int           `json:"score"`
	Feedback       string         `json:"feedback"`
	CriteriaScores map[string]int `json:"criteria_scores"`
	ReviewedAt     time.Time      `json:"reviewed_at"`
	Status         ReviewStatus   `json:"status"`
}

type PendingReviewResponse struct {
	SubmissionID    uuid.UUID      `json:"submission_id"`
	CandidateName   string         `json:"candidate_name"`
	CandidateEmail  string         `json:"candidate_email"`
	AssignmentTitle string         `json:"assignment_title"`
	ProjectName     string         `json:"project_name"`
	SubmissionType  SubmissionType `json:"submission_type"`
	SubmittedAt     time.Time      `json:"submitted_at"`
	Notes           string         `json:"notes"`
}

type ReviewerStats struct {
	TotalReviews     int64   `json:"total_reviews"`
	CompletedReviews int64   `json:"completed_reviews"`
	PendingReviews   int64   `json:"pending_reviews"`
	AverageScore     float64 `json:"average_score"`
}

// Certificates

type CertificateResponse struct {
	ID                 uuid.UUID `json:"id"`
	CertificateNumber  string    `json:"certificate_number"`
	CandidateName      string    `json:"candidate_name"`
	CandidateEmail     string    `json:"candidate_email"`
	AssignmentTitle    string    `json:"assignment_title"`
	ProjectName        string    `json:"project_name"`
	Score              int       `json:"score"`
	SkillsDemonstrated []string  `json:"skills_demonstrated"`
	IssuedAt           time.Time `json:"issued_at"`
	PDFURL             string    `json:"pdf_url"`
	IsPassing          bool      `json:"is_passing"`
}

type VerifyCertificateResponse struct {
	Valid             bool      `json:"valid"`
	CertificateNumber string    `json:"certificate_number"`
	CandidateName     string    `json:"candidate_name"`
	AssignmentTitle   string    `json:"assignment_title"`
	ProjectName       string    `json:"project_name"`
	Score             int       `json:"score"`
	IssuedAt          time.Time `json:"issued_at"`
	IsPassing         bool      `json:"is_passing"`
}

// Reports

type DashboardStats struct {
	Overview struct {
		TotalProjects    int64 `json:"total_projects"`
		TotalAssignments int64 `json:"total_assignments"`
		TotalCandidates  int64 `json:"total_candidates"`
		TotalReviewers   int64 `json:"total_reviewers"`
	} `json:"overview"`
	Assignments struct {
		TotalAssigned  int64   `json:"total_assigned"`
		Completed      int64   `json:"completed"`
		InProgress     int64   `json:"in_progress"`
		Overdue        int64   `json:"overdue"`
		CompletionRate float64 `json:"completion_rate"`
	} `json:"assignments"`
	Certificates struct {
		TotalIssued int64   `json:"total_issued"`
		Passing     int64   `json:"passing"`
		PassRate    float64 `json:"pass_rate"`
	} `json:"certificates"`
	RecentActivity struct {
		NewAssignments30d int64 `json:"new_assignments_30d"`
		Completions30d    int64 `json:"completions_30d"`
	} `json:"recent_activity"`
}

// Matching

type CandidateMatch struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Skills      []string  `json:"skills"`
	Score       float32   `json:"score"`
}
