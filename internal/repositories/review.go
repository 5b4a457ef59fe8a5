package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"logbiz/recruitment-api/internal/models"
)

type ReviewRepository interface {
	// CreateAndAdvance persists the review, marks its submission reviewed
	// and, when parentStatus is non-nil, moves the governing candidate
	// assignment to that status. Everything runs in a single transaction so
	// the lifecycle invariants hold under concurrent reviews. A duplicate
	// (submission, reviewer) pair surfaces as gorm.ErrDuplicatedKey.
	CreateAndAdvance(review *models.Review, parentStatus *models.AssignmentStatus) error
	FindByID(id uuid.UUID) (*models.Review, error)
	FindBySubmission(submissionID uuid.UUID) ([]models.Review, error)
	FindCompletedByCandidateAssignment(caID uuid.UUID) ([]models.Review, error)
	Save(review *models.Review) error
	StatsForReviewer(reviewerID uuid.UUID) (*models.ReviewerStats, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// CreateAndAdvance implements ReviewRepository.
func (r *reviewRepository) CreateAndAdvance(review *models.Review, parentStatus *models.AssignmentStatus) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}

		err := tx.Model(&models.Submission{}).
			Where("id = ?", review.SubmissionID).
			Update("status", models.SubmissionStatusReviewed).Error
		if err != nil {
			return fmt.Errorf("failed to update submission status: %w", err)
		}

		if parentStatus != nil {
			err := tx.Model(&models.CandidateAssignment{}).
				Where("id = (SELECT candidate_assignment_id FROM submissions WHERE id = ?)", review.SubmissionID).
				Update("status", *parentStatus).Error
			if err != nil {
				return fmt.Errorf("failed to update candidate assignment status: %w", err)
			}
		}

		return nil
	})
}

// FindByID implements ReviewRepository.
func (r *reviewRepository) FindByID(id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.Preload("Reviewer").Where("id = ?", id).First(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to find review: %w", err)
	}

	return &review, nil
}

// FindBySubmission implements ReviewRepository.
func (r *reviewRepository) FindBySubmission(submissionID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Preload("Reviewer").
		Where("submission_id = ?", submissionID).
		Order("reviewed_at ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}

	return reviews, nil
}

// FindCompletedByCandidateAssignment implements ReviewRepository.
func (r *reviewRepository) FindCompletedByCandidateAssignment(caID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Joins("JOIN submissions ON submissions.id = reviews.submission_id").
		Where("submissions.candidate_assignment_id = ?", caID).
		Where("reviews.status = ?", models.ReviewStatusCompleted).
		Where("reviews.score IS NOT NULL").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find completed reviews: %w", err)
	}

	return reviews, nil
}

// Save implements ReviewRepository.
func (r *reviewRepository) Save(review *models.Review) error {
	if err := r.db.Save(review).Error; err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}

	return nil
}

// StatsForReviewer implements ReviewRepository.
func (r *reviewRepository) StatsForReviewer(reviewerID uuid.UUID) (*models.ReviewerStats, error) {
	stats := &models.ReviewerStats{}

	err := r.db.Model(&models.Review{}).
		Where("reviewer_id = ?", reviewerID).
		Count(&stats.TotalReviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	err = r.db.Model(&models.Review{}).
		Where("reviewer_id = ? AND status = ?", reviewerID, models.ReviewStatusCompleted).
		Count(&stats.CompletedReviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count completed reviews: %w", err)
	}

	stats.PendingReviews = stats.TotalReviews - stats.CompletedReviews

	if stats.CompletedReviews > 0 {
		var avg *float64
		err = r.db.Model(&models.Review{}).
			Select("AVG(score)").
			Where("reviewer_id = ? AND status = ?", reviewerID, models.ReviewStatusCompleted).
			Scan(&avg).Error
		if err != nil {
			return nil, fmt.Errorf("failed to compute average score: %w", err)
		}
		if avg != nil {
			stats.AverageScore = *avg
		}
	}

	return stats, nil
}
