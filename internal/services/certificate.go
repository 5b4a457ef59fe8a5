package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"logbiz/recruitment-api/internal/models"
	"logbiz/recruitment-api/internal/repositories"
)

const certificateNumberPrefix = "CERT-"

// CertificateService issues, revokes and verifies certificates. Issuance is
// all-or-nothing: the PDF is rendered and stored before the record is
// persisted, so a rendering failure never leaves a half-written row.
type CertificateService interface {
	Issue(ctx context.Context, caID uuid.UUID) (*models.Certificate, error)
	Verify(ctx context.Context, number string) (*models.VerifyCertificateResponse, error)
}

type certificateService struct {
	caRepo     repositories.CandidateAssignmentRepository
	reviewRepo repositories.ReviewRepository
	certRepo   repositories.CertificateRepository
	renderer   CertificateRenderer
	storage    StorageService
	events     EventPublisher
}

func NewCertificateService(
	caRepo repositories.CandidateAssignmentRepository,
	reviewRepo repositories.ReviewRepository,
	certRepo repositories.CertificateRepository,
	renderer CertificateRenderer,
	storage StorageService,
	events EventPublisher,
) CertificateService {
	return &certificateService{
		caRepo:     caRepo,
		reviewRepo: reviewRepo,
		certRepo:   certRepo,
		renderer:   renderer,
		storage:    storage,
		events:     events,
	}
}

// Issue implements CertificateService.
func (s *certificateService) Issue(ctx context.Context, caID uuid.UUID) (*models.Certificate, error) {
	ca, err := s.caRepo.FindByID(caID)
	if err != nil {
		return nil, ErrNotFound
	}

	if ca.Status != models.StatusCompleted {
		return nil, ErrNotEligible
	}

	if _, err := s.certRepo.FindActiveByPair(ca.CandidateID, ca.AssignmentID); err == nil {
		return nil, ErrAlreadyIssued
	}

	reviews, err := s.reviewRepo.FindCompletedByCandidateAssignment(caID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect reviews: %w", err)
	}
	if len(reviews) == 0 {
		return nil, ErrNoReviews
	}

	score := bestScore(reviews)
	number := generateCertificateNumber()

	pdfURL, err := s.renderAndStore(ctx, ca, score, number)
	if err != nil {
		return nil, err
	}

	certificate := &models.Certificate{
		ID:                 uuid.New(),
		CandidateID:        ca.CandidateID,
		AssignmentID:       ca.AssignmentID,
		CertificateNumber:  number,
		Score:              score,
		SkillsDemonstrated: ca.Assignment.Skillsets,
		IssuedAt:           time.Now(),
		PDFURL:             pdfURL,
		IsActive:           true,
	}

	if err := s.certRepo.Create(certificate); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Two unique indexes can fire here. Re-check the pair to tell a
			// lost issuance race apart from a number collision.
			if _, pairErr := s.certRepo.FindActiveByPair(ca.CandidateID, ca.AssignmentID); pairErr == nil {
				return nil, ErrAlreadyIssued
			}
			return nil, ErrDuplicateCertificateNumber
		}
		return nil, fmt.Errorf("failed to persist certificate: %w", err)
	}

	log.Printf("🎓 Certificate %s issued for candidate assignment %s (score %d)\n", number, caID, score)

	s.events.Publish(ctx, EventCertificateIssued, map[string]interface{}{
		"certificate_id":     certificate.ID.String(),
		"certificate_number": number,
		"candidate_email":    ca.Candidate.Email,
		"candidate_name":     ca.Candidate.FullName,
		"assignment_title":   ca.Assignment.Title,
		"score":              score,
		"pdf_url":            pdfURL,
	})

	return certificate, nil
}

// Verify implements CertificateService.
//
// Public, unauthenticated lookup restricted to active certificates. The
// summary carries no PII beyond the candidate name.
func (s *certificateService) Verify(ctx context.Context, number string) (*models.VerifyCertificateResponse, error) {
	certificate, err := s.certRepo.FindActiveByNumber(number)
	if err != nil {
		return nil, ErrNotFound
	}

	return &models.VerifyCertificateResponse{
		Valid:             true,
		CertificateNumber: certificate.CertificateNumber,
		CandidateName:     certificate.Candidate.FullName,
		AssignmentTitle:   certificate.Assignment.Title,
		ProjectName:       certificate.Assignment.Project.Name,
		Score:             certificate.Score,
		IssuedAt:          certificate.IssuedAt,
		IsPassing:         certificate.IsPassing(),
	}, nil
}

func (s *certificateService) renderAndStore(ctx context.Context, ca *models.CandidateAssignment, score int, number string) (string, error) {
	data := CertificateData{
		CandidateName:     ca.Candidate.FullName,
		AssignmentTitle:   ca.Assignment.Title,
		ProjectName:       ca.Assignment.Project.Name,
		ProjectDomain:     ca.Assignment.Project.Domain,
		DifficultyLevel:   ca.Assignment.DifficultyLevel,
		Skills:            ca.Assignment.Skillsets,
		Score:             score,
		CertificateNumber: number,
		IssueDate:         time.Now(),
	}

	pdf, err := s.renderer.Render(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderingFailed, err)
	}

	filename := fmt.Sprintf("certificates/certificate_%s_%s.pdf", number, time.Now().Format("20060102_150405"))
	url, err := s.storage.UploadPDF(ctx, filename, pdf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderingFailed, err)
	}

	return url, nil
}

// bestScore returns the highest completed review score. Ties need no
// breaking: max is well-defined regardless.
func bestScore(reviews []models.Review) int {
	best := 0
	for i := range reviews {
		if reviews[i].Score != nil && *reviews[i].Score > best {
			best = *reviews[i].Score
		}
	}
	return best
}

// generateCertificateNumber builds CERT- plus 8 uppercase hex characters from
// a random UUID. Uniqueness is probabilistic; the unique index on the column
// rejects the rare collision and the caller retries with a fresh number.
func generateCertificateNumber() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return certificateNumberPrefix + strings.ToUpper(hex[:8])
}
