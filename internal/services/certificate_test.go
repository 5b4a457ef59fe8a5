package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"logbiz/recruitment-api/internal/models"
	"logbiz/recruitment-api/internal/repositories"
)

type fakeCertRepo struct {
	certificates map[uuid.UUID]*models.Certificate
}

func newFakeCertRepo() *fakeCertRepo {
	return &fakeCertRepo{certificates: make(map[uuid.UUID]*models.Certificate)}
}

func (f *fakeCertRepo) Create(certificate *models.Certificate) error {
	// Mirrors the unique number index and the partial active-pair index.
	for _, existing := range f.certificates {
		if existing.CertificateNumber == certificate.CertificateNumber {
			return fmt.Errorf("insert rejected: %w", gorm.ErrDuplicatedKey)
		}
		if existing.IsActive &&
			existing.CandidateID == certificate.CandidateID &&
			existing.AssignmentID == certificate.AssignmentID {
			return fmt.Errorf("insert rejected: %w", gorm.ErrDuplicatedKey)
		}
	}

	f.certificates[certificate.ID] = certificate
	return nil
}

func (f *fakeCertRepo) FindByID(id uuid.UUID) (*models.Certificate, error) {
	certificate, ok := f.certificates[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return certificate, nil
}

func (f *fakeCertRepo) FindActiveByPair(candidateID, assignmentID uuid.UUID) (*models.Certificate, error) {
	for _, certificate := range f.certificates {
		if certificate.IsActive &&
			certificate.CandidateID == candidateID &&
			certificate.AssignmentID == assignmentID {
			return certificate, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCertRepo) FindActiveByNumber(number string) (*models.Certificate, error) {
	for _, certificate := range f.certificates {
		if certificate.IsActive && certificate.CertificateNumber == number {
			return certificate, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCertRepo) FindAll(filter repositories.CertificateFilter) ([]models.Certificate, error) {
	var out []models.Certificate
	for _, certificate := range f.certificates {
		out = append(out, *certificate)
	}
	return out, nil
}

func (f *fakeCertRepo) Save(certificate *models.Certificate) error {
	f.certificates[certificate.ID] = certificate
	return nil
}

type fakeRenderer struct {
	calls int
	fail  bool
}

func (f *fakeRenderer) Render(data CertificateData) ([]byte, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("font missing")
	}
	return []byte("%PDF-1.4 fake"), nil
}

type fakeStorage struct {
	uploads []string
}

func (f *fakeStorage) UploadPDF(ctx context.Context, key string, data []byte) (string, error) {
	f.uploads = append(f.uploads, key)
	return "https://storage.local/" + key, nil
}

func (f *fakeStorage) UploadSubmissionFile(ctx context.Context, file *multipart.FileHeader) (string, string, error) {
	return "", "", errors.New("not implemented")
}

type certFixture struct {
	cas      *fakeCARepo
	reviews  *fakeReviewRepo
	certs    *fakeCertRepo
	renderer *fakeRenderer
	storage  *fakeStorage
	service  CertificateService

	ca *models.CandidateAssignment
}

// newCertFixture seeds one completed candidate assignment with full relations
// so issuance can render a certificate without touching the other fakes.
func newCertFixture() *certFixture {
	cas := newFakeCARepo()
	submissions := newFakeSubmissionRepo()
	reviews := newFakeReviewRepo(submissions, cas)
	certs := newFakeCertRepo()
	renderer := &fakeRenderer{}
	storage := &fakeStorage{}

	f := &certFixture{
		cas:      cas,
		reviews:  reviews,
		certs:    certs,
		renderer: renderer,
		storage:  storage,
		service:  NewCertificateService(cas, reviews, certs, renderer, storage, NewNoopPublisher()),
	}

	f.ca = &models.CandidateAssignment{
		ID:           uuid.New(),
		CandidateID:  uuid.New(),
		AssignmentID: uuid.New(),
		Status:       models.StatusCompleted,
		Candidate: models.User{
			FullName: "Priya Sharma",
			Email:    "priya@test.local",
		},
		Assignment: models.Assignment{
			Title:           "Build a URL shortener",
			DifficultyLevel: "intermediate",
			Skillsets:       pq.StringArray{"Go", "PostgreSQL"},
			Project: models.Project{
				Name:   "Platform Services",
				Domain: "backend",
			},
		},
	}
	cas.records[f.ca.ID] = f.ca

	return f
}

func (f *certFixture) addReview(score int) {
	submission := &models.Submission{
		ID:                    uuid.New(),
		CandidateAssignmentID: f.ca.ID,
		Status:                models.SubmissionStatusReviewed,
	}
	f.reviews.submissions.submissions[submission.ID] = submission

	s := score
	review := &models.Review{
		ID:           uuid.New(),
		SubmissionID: submission.ID,
		ReviewerID:   uuid.New(),
		Score:        &s,
		Status:       models.ReviewStatusCompleted,
	}
	f.reviews.reviews[review.ID] = review
}

var certNumberPattern = regexp.MustCompile(`^CERT-[0-9A-F]{8}$`)

func TestIssueCreatesCertificate(t *testing.T) {
	f := newCertFixture()
	f.addReview(85)

	certificate, err := f.service.Issue(context.Background(), f.ca.ID)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	if certificate.Score != 85 {
		t.Errorf("score = %d, want 85", certificate.Score)
	}
	if !certificate.IsActive {
		t.Error("certificate not active")
	}
	if !certNumberPattern.MatchString(certificate.CertificateNumber) {
		t.Errorf("number %q does not match CERT-XXXXXXXX", certificate.CertificateNumber)
	}
	if len(certificate.SkillsDemonstrated) != 2 {
		t.Errorf("skills = %v, want the assignment skillsets", certificate.SkillsDemonstrated)
	}
	if certificate.PDFURL == "" {
		t.Error("PDF URL not set")
	}
	if f.renderer.calls != 1 {
		t.Errorf("renderer called %d times, want 1", f.renderer.calls)
	}
	if len(f.storage.uploads) != 1 {
		t.Errorf("storage uploads = %d, want 1", len(f.storage.uploads))
	}
}

func TestIssueUsesBestReviewScore(t *testing.T) {
	f := newCertFixture()
	f.addReview(60)
	f.addReview(95)
	f.addReview(80)

	certificate, err := f.service.Issue(context.Background(), f.ca.ID)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	if certificate.Score != 95 {
		t.Errorf("score = %d, want 95", certificate.Score)
	}
}

func TestIssueRejectsIncompleteAssignment(t *testing.T) {
	f := newCertFixture()
	f.addReview(85)
	f.ca.Status = models.StatusAssigned

	_, err := f.service.Issue(context.Background(), f.ca.ID)
	if !errors.Is(err, ErrNotEligible) {
		t.Fatalf("err = %v, want ErrNotEligible", err)
	}
	if len(f.certs.certificates) != 0 {
		t.Error("certificate persisted despite ineligible assignment")
	}
	if f.renderer.calls != 0 {
		t.Error("renderer called for ineligible assignment")
	}
}

func TestIssueRejectsSecondActiveCertificate(t *testing.T) {
	f := newCertFixture()
	f.addReview(85)

	if _, err := f.service.Issue(context.Background(), f.ca.ID); err != nil {
		t.Fatalf("first Issue() failed: %v", err)
	}

	_, err := f.service.Issue(context.Background(), f.ca.ID)
	if !errors.Is(err, ErrAlreadyIssued) {
		t.Errorf("err = %v, want ErrAlreadyIssued", err)
	}
}

func TestIssueAllowsReissueAfterRevocation(t *testing.T) {
	f := newCertFixture()
	f.addReview(85)

	first, err := f.service.Issue(context.Background(), f.ca.ID)
	if err != nil {
		t.Fatalf("first Issue() failed: %v", err)
	}

	first.IsActive = false
	f.certs.Save(first)

	second, err := f.service.Issue(context.Background(), f.ca.ID)
	if err != nil {
		t.Fatalf("reissue failed: %v", err)
	}
	if second.CertificateNumber == first.CertificateNumber {
		t.Error("reissue reused the revoked certificate number")
	}
}

func TestIssueRequiresCompletedReviews(t *testing.T) {
	f := newCertFixture()

	_, err := f.service.Issue(context.Background(), f.ca.ID)
	if !errors.Is(err, ErrNoReviews) {
		t.Errorf("err = %v, want ErrNoReviews", err)
	}
}

func TestIssueRendersNothingOnFailure(t *testing.T) {
	f := newCertFixture()
	f.addReview(85)
	f.renderer.fail = true

	_, err := f.service.Issue(context.Background(), f.ca.ID)
	if !errors.Is(err, ErrRenderingFailed) {
		t.Fatalf("err = %v, want ErrRenderingFailed", err)
	}
	if len(f.certs.certificates) != 0 {
		t.Error("certificate persisted despite rendering failure")
	}
	if len(f.storage.uploads) != 0 {
		t.Error("PDF uploaded despite rendering failure")
	}
}

func TestVerifyActiveCertificate(t *testing.T) {
	f := newCertFixture()
	f.addReview(85)

	issued, err := f.service.Issue(context.Background(), f.ca.ID)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}
	issued.Candidate = f.ca.Candidate
	issued.Assignment = f.ca.Assignment
	issued.IssuedAt = time.Now()

	result, err := f.service.Verify(context.Background(), issued.CertificateNumber)
	if err != nil {
		t.Fatalf("Verify() failed: %v", err)
	}

	if !result.Valid {
		t.Error("result not valid")
	}
	if result.CandidateName != "Priya Sharma" {
		t.Errorf("candidate name = %q", result.CandidateName)
	}
	if result.ProjectName != "Platform Services" {
		t.Errorf("project name = %q", result.ProjectName)
	}
	if !result.IsPassing {
		t.Error("score 85 should be passing")
	}
}

func TestVerifyRevokedCertificate(t *testing.T) {
	f := newCertFixture()
	f.addReview(85)

	issued, err := f.service.Issue(context.Background(), f.ca.ID)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	issued.IsActive = false
	f.certs.Save(issued)

	if _, err := f.service.Verify(context.Background(), issued.CertificateNumber); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestVerifyUnknownNumber(t *testing.T) {
	f := newCertFixture()

	if _, err := f.service.Verify(context.Background(), "CERT-DEADBEEF"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
