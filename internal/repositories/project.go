package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"logbiz/recruitment-api/internal/models"
)

type ProjectFilter struct {
	Domain          string
	DifficultyLevel string
	IsActive        *bool
	Offset          int
	Limit           int
}

type ProjectRepository interface {
	Create(project *models.Project) error
	FindByID(id uuid.UUID) (*models.Project, error)
	FindAll(filter ProjectFilter) ([]models.Project, error)
	Save(project *models.Project) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create implements ProjectRepository.
func (r *projectRepository) Create(project *models.Project) error {
	if err := r.db.Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// FindByID implements ProjectRepository.
func (r *projectRepository) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("id = ?", id).First(&project).Error; err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	return &project, nil
}

// FindAll implements ProjectRepository.
func (r *projectRepository) FindAll(filter ProjectFilter) ([]models.Project, error) {
	query := r.db.Model(&models.Project{})

	if filter.Domain != "" {
		query = query.Where("domain = ?", filter.Domain)
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

	var projects []models.Project
	if err := query.Offset(filter.Offset).Limit(filter.Limit).Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to find projects: %w", err)
	}

	return projects, nil
}

// Save implements ProjectRepository.
func (r *projectRepository) Save(project *models.Project) error {
	if err := r.db.Save(project).Error; err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}

	return nil
}
