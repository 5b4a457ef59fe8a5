package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"logbiz/recruitment-api/internal/models"
)

type CertificateFilter struct {
	CandidateID  *uuid.UUID
	AssignmentID *uuid.UUID
	Offset       int
	Limit        int
}

type CertificateRepository interface {
	// Create inserts the record. Both the certificate-number unique index and
	// the active-pair partial index can reject it with gorm.ErrDuplicatedKey.
	Create(certificate *models.Certificate) error
	FindByID(id uuid.UUID) (*models.Certificate, error)
	FindActiveByPair(candidateID, assignmentID uuid.UUID) (*models.Certificate, error)
	FindActiveByNumber(number string) (*models.Certificate, error)
	FindAll(filter CertificateFilter) ([]models.Certificate, error)
	Save(certificate *models.Certificate) error
}

type certificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

// Create implements CertificateRepository.
func (r *certificateRepository) Create(certificate *models.Certificate) error {
	if err := r.db.Create(certificate).Error; err != nil {
		return fmt.Errorf("failed to create certificate: %w", err)
	}

	return nil
}

// FindByID implements CertificateRepository.
func (r *certificateRepository) FindByID(id uuid.UUID) (*models.Certificate, error) {
	var certificate models.Certificate
	err := r.db.Preload("Candidate").
		Preload("Assignment").
		Preload("Assignment.Project").
		Where("id = ?", id).
		First(&certificate).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find certificate: %w", err)
	}

	return &certificate, nil
}

// FindActiveByPair implements CertificateRepository.
func (r *certificateRepository) FindActiveByPair(candidateID, assignmentID uuid.UUID) (*models.Certificate, error) {
	var certificate models.Certificate
	err := r.db.Where("candidate_id = ? AND assignment_id = ? AND is_active = ?",
		candidateID, assignmentID, true).
		First(&certificate).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find certificate for pair: %w", err)
	}

	return &certificate, nil
}

// FindActiveByNumber implements CertificateRepository.
//
// Soft-deleted certificates are invisible here: verification of a revoked
// number reports not-found rather than the stale record.
func (r *certificateRepository) FindActiveByNumber(number string) (*models.Certificate, error) {
	var certificate models.Certificate
	err := r.db.Preload("Candidate").
		Preload("Assignment").
		Preload("Assignment.Project").
		Where("certificate_number = ? AND is_active = ?", number, true).
		First(&certificate).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find certificate by number: %w", err)
	}

	return &certificate, nil
}

// FindAll implements CertificateRepository.
func (r *certificateRepository) FindAll(filter CertificateFilter) ([]models.Certificate, error) {
	query := r.db.Preload("Candidate").
		Preload("Assignment").
		Preload("Assignment.Project")

	if filter.CandidateID != nil {
		query = query.Where("candidate_id = ?", *filter.CandidateID)
	}
	if filter.AssignmentID != nil {
		query = query.Where("assignment_id = ?", *filter.AssignmentID)
	}
	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	var certificates []models.Certificate
	if err := query.Offset(filter.Offset).Limit(filter.Limit).Find(&certificates).Error; err != nil {
		return nil, fmt.Errorf("failed to find certificates: %w", err)
	}

	return certificates, nil
}

// Save implements CertificateRepository.
func (r *certificateRepository) Save(certificate *models.Certificate) error {
	if err := r.db.Save(certificate).Error; err != nil {
		return fmt.Errorf("failed to save certificate: %w", err)
	}

	return nil
}
