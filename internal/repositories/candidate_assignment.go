package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"logbiz/recruitment-api/internal/models"
)

type CandidateAssignmentFilter struct {
	CandidateID *uuid.UUID
	Status      models.AssignmentStatus
	Offset      int
	Limit       int
}

type CandidateAssignmentRepository interface {
	// Create inserts the record. A concurrent active record for the same
	// (candidate, assignment) pair surfaces as gorm.ErrDuplicatedKey via the
	// partial unique index; callers translate it to the domain error.
	Create(ca *models.CandidateAssignment) error
	FindByID(id uuid.UUID) (*models.CandidateAssignment, error)
	FindAll(filter CandidateAssignmentFilter) ([]models.CandidateAssignment, error)
	FindByCandidate(candidateID uuid.UUID) ([]models.CandidateAssignment, error)
	Save(ca *models.CandidateAssignment) error
	StatsForAssignment(assignmentID uuid.UUID, now time.Time) (*models.AssignmentStats, error)
}

type candidateAssignmentRepository struct {
	db *gorm.DB
}

func NewCandidateAssignmentRepository(db *gorm.DB) CandidateAssignmentRepository {
	return &candidateAssignmentRepository{db: db}
}

// Create implements CandidateAssignmentRepository.
func (r *candidateAssignmentRepository) Create(ca *models.CandidateAssignment) error {
	if err := r.db.Create(ca).Error; err != nil {
		return fmt.Errorf("failed to create candidate assignment: %w", err)
	}

	return nil
}

// FindByID implements CandidateAssignmentRepository.
func (r *candidateAssignmentRepository) FindByID(id uuid.UUID) (*models.CandidateAssignment, error) {
	var ca models.CandidateAssignment
	err := r.db.Preload("Candidate").
		Preload("Assignment").
		Preload("Assignment.Project").
		Where("id = ?", id).
		First(&ca).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find candidate assignment: %w", err)
	}

	return &ca, nil
}

// FindAll implements CandidateAssignmentRepository.
func (r *candidateAssignmentRepository) FindAll(filter CandidateAssignmentFilter) ([]models.CandidateAssignment, error) {
	query := r.db.Preload("Candidate").
		Preload("Assignment").
		Preload("Assignment.Project")

	if filter.CandidateID != nil {
		query = query.Where("candidate_id = ?", *filter.CandidateID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	var assignments []models.CandidateAssignment
	if err := query.Offset(filter.Offset).Limit(filter.Limit).Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to find candidate assignments: %w", err)
	}

	return assignments, nil
}

// FindByCandidate implements CandidateAssignmentRepository.
func (r *candidateAssignmentRepository) FindByCandidate(candidateID uuid.UUID) ([]models.CandidateAssignment, error) {
	var assignments []models.CandidateAssignment
	err := r.db.Preload("Assignment").
		Preload("Assignment.Project").
		Preload("Submissions").
		Where("candidate_id = ?", candidateID).
		Order("assigned_at DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find candidate assignment history: %w", err)
	}

	return assignments, nil
}

// Save implements CandidateAssignmentRepository.
func (r *candidateAssignmentRepository) Save(ca *models.CandidateAssignment) error {
	if err := r.db.Save(ca).Error; err != nil {
		return fmt.Errorf("failed to save candidate assignment: %w", err)
	}

	return nil
}

// StatsForAssignment implements CandidateAssignmentRepository.
func (r *candidateAssignmentRepository) StatsForAssignment(assignmentID uuid.UUID, now time.Time) (*models.AssignmentStats, error) {
	var assignments []models.CandidateAssignment
	err := r.db.Where("assignment_id = ?", assignmentID).Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment stats: %w", err)
	}

	stats := &models.AssignmentStats{TotalCandidates: len(assignments)}
	for i := range assignments {
		switch assignments[i].Status {
		case models.StatusCompleted:
			stats.CompletedCount++
		case models.StatusInProgress:
			stats.InProgressCount++
		}
		if assignments[i].IsOverdue(now) {
			stats.OverdueCount++
		}
	}

	return stats, nil
}
