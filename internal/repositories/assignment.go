package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"logbiz/recruitment-api/internal/models"
)

type AssignmentFilter struct {
	ProjectID       *uuid.UUID
	Skillsets       []string
	DifficultyLevel string
	IsActive        *bool
	Offset          int
	Limit           int
}

type AssignmentRepository interface {
	Create(assignment *models.Assignment) error
	FindByID(id uuid.UUID) (*models.Assignment, error)
	FindActiveByID(id uuid.UUID) (*models.Assignment, error)
	FindAll(filter AssignmentFilter) ([]models.Assignment, error)
	Save(assignment *models.Assignment) error
	ListSkillsets() ([]string, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

// Create implements AssignmentRepository.
func (r *assignmentRepository) Create(assignment *models.Assignment) error {
	if err := r.db.Create(assignment).Error; err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	return nil
}

// FindByID implements AssignmentRepository.
func (r *assignmentRepository) FindByID(id uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.Preload("Project").Where("id = ?", id).First(&assignment).Error; err != nil {
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}

	return &assignment, nil
}

// FindActiveByID implements AssignmentRepository.
func (r *assignmentRepository) FindActiveByID(id uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.Preload("Project").
		Where("id = ? AND is_active = ?", id, true).
		First(&assignment).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find active assignment: %w", err)
	}

	return &assignment, nil
}

// FindAll implements AssignmentRepository.
func (r *assignmentRepository) FindAll(filter AssignmentFilter) ([]models.Assignment, error) {
	query := r.db.Preload("Project")

	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	for _, skillset := range filter.Skillsets {
		query = query.Where("? = ANY(skillsets)", skillset)
	}
	if filter.DifficultyLevel != "" {
		query = query.Where("difficulty_level = ?", filter.DifficultyLevel)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	var assignments []models.Assignment
	if err := query.Offset(filter.Offset).Limit(filter.Limit).Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to find assignments: %w", err)
	}

	return assignments, nil
}

// Save implements AssignmentRepository.
func (r *assignmentRepository) Save(assignment *models.Assignment) error {
	if err := r.db.Save(assignment).Error; err != nil {
		return fmt.Errorf("failed to save assignment: %w", err)
	}

	return nil
}

// ListSkillsets implements AssignmentRepository.
func (r *assignmentRepository) ListSkillsets() ([]string, error) {
	var skillsets []string
	err := r.db.Model(&models.Assignment{}).
		Select("DISTINCT unnest(skillsets)").
		Where("is_active = ?", true).
		Pluck("unnest", &skillsets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list skillsets: %w", err)
	}

	return skillsets, nil
}
