package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"logbiz/recruitment-api/internal/models"
)

type SubmissionRepository interface {
	Create(submission *models.Submission) error
	FindByID(id uuid.UUID) (*models.Submission, error)
	FindByCandidateAssignment(caID uuid.UUID) ([]models.Submission, error)
	FindPendingForReviewer(reviewerID uuid.UUID, offset, limit int) ([]models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// Create implements SubmissionRepository.
func (r *submissionRepository) Create(submission *models.Submission) error {
	if err := r.db.Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	return nil
}

// FindByID implements SubmissionRepository.
func (r *submissionRepository) FindByID(id uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.Preload("CandidateAssignment").
		Preload("CandidateAssignment.Candidate").
		Preload("CandidateAssignment.Assignment").
		Preload("CandidateAssignment.Assignment.Project").
		Where("id = ?", id).
		First(&submission).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}

	return &submission, nil
}

// FindByCandidateAssignment implements SubmissionRepository.
func (r *submissionRepository) FindByCandidateAssignment(caID uuid.UUID) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.Where("candidate_assignment_id = ?", caID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find submissions: %w", err)
	}

	return submissions, nil
}

// FindPendingForReviewer implements SubmissionRepository.
//
// Pending is an output filter, not a queue: submissions still in status
// submitted that this reviewer has not completed a review for. No locking or
// exclusivity; two reviewers may pick up the same submission.
func (r *submissionRepository) FindPendingForReviewer(reviewerID uuid.UUID, offset, limit int) ([]models.Submission, error) {
	if limit <= 0 {
		limit = 100
	}

	var submissions []models.Submission
	err := r.db.Preload("CandidateAssignment").
		Preload("CandidateAssignment.Candidate").
		Preload("CandidateAssignment.Assignment").
		Preload("CandidateAssignment.Assignment.Project").
		Where("status = ?", models.SubmissionStatusSubmitted).
		Where(`NOT EXISTS (
			SELECT 1 FROM reviews
			WHERE reviews.submission_id = submissions.id
			AND reviews.reviewer_id = ?
			AND reviews.status = ?
		)`, reviewerID, models.ReviewStatusCompleted).
		Order("submitted_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending submissions: %w", err)
	}

	return submissions, nil
}
