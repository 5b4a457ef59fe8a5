package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"logbiz/recruitment-api/internal/models"
	"logbiz/recruitment-api/internal/repositories"
)

// In-memory repository fakes. The create paths reproduce the unique indexes
// the real schema enforces, so the duplicate-key handling in the services is
// exercised the same way it is against Postgres.

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserRepo) Create(user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindCandidates(skillsets []string, offset, limit int) ([]models.User, error) {
	var out []models.User
	for _, user := range f.users {
		if user.IsCandidate() {
			out = append(out, *user)
		}
	}
	return out, nil
}

type fakeAssignmentRepo struct {
	assignments map[uuid.UUID]*models.Assignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[uuid.UUID]*models.Assignment)}
}

func (f *fakeAssignmentRepo) Create(assignment *models.Assignment) error {
	f.assignments[assignment.ID] = assignment
	return nil
}

func (f *fakeAssignmentRepo) FindByID(id uuid.UUID) (*models.Assignment, error) {
	assignment, ok := f.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

func (f *fakeAssignmentRepo) FindActiveByID(id uuid.UUID) (*models.Assignment, error) {
	assignment, ok := f.assignments[id]
	if !ok || !assignment.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

func (f *fakeAssignmentRepo) FindAll(filter repositories.AssignmentFilter) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, assignment := range f.assignments {
		out = append(out, *assignment)
	}
	return out, nil
}

func (f *fakeAssignmentRepo) Save(assignment *models.Assignment) error {
	f.assignments[assignment.ID] = assignment
	return nil
}

func (f *fakeAssignmentRepo) ListSkillsets() ([]string, error) {
	return nil, nil
}

type fakeCARepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*models.CandidateAssignment
}

func newFakeCARepo() *fakeCARepo {
	return &fakeCARepo{records: make(map[uuid.UUID]*models.CandidateAssignment)}
}

func (f *fakeCARepo) Create(ca *models.CandidateAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Mirrors the partial unique index on (candidate_id, assignment_id)
	// WHERE status IN ('assigned', 'in_progress').
	for _, existing := range f.records {
		if existing.CandidateID == ca.CandidateID &&
			existing.AssignmentID == ca.AssignmentID &&
			(existing.Status == models.StatusAssigned || existing.Status == models.StatusInProgress) {
			return fmt.Errorf("insert rejected: %w", gorm.ErrDuplicatedKey)
		}
	}

	f.records[ca.ID] = ca
	return nil
}

func (f *fakeCARepo) FindByID(id uuid.UUID) (*models.CandidateAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ca, ok := f.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ca, nil
}

func (f *fakeCARepo) FindAll(filter repositories.CandidateAssignmentFilter) ([]models.CandidateAssignment, error) {
	var out []models.CandidateAssignment
	for _, ca := range f.records {
		out = append(out, *ca)
	}
	return out, nil
}

func (f *fakeCARepo) FindByCandidate(candidateID uuid.UUID) ([]models.CandidateAssignment, error) {
	var out []models.CandidateAssignment
	for _, ca := range f.records {
		if ca.CandidateID == candidateID {
			out = append(out, *ca)
		}
	}
	return out, nil
}

func (f *fakeCARepo) Save(ca *models.CandidateAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[ca.ID] = ca
	return nil
}

func (f *fakeCARepo) StatsForAssignment(assignmentID uuid.UUID, now time.Time) (*models.AssignmentStats, error) {
	return &models.AssignmentStats{}, nil
}

type fakeSubmissionRepo struct {
	submissions map[uuid.UUID]*models.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[uuid.UUID]*models.Submission)}
}

func (f *fakeSubmissionRepo) Create(submission *models.Submission) error {
	f.submissions[submission.ID] = submission
	return nil
}

func (f *fakeSubmissionRepo) FindByID(id uuid.UUID) (*models.Submission, error) {
	submission, ok := f.submissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (f *fakeSubmissionRepo) FindByCandidateAssignment(caID uuid.UUID) ([]models.Submission, error) {
	var out []models.Submission
	for _, submission := range f.submissions {
		if submission.CandidateAssignmentID == caID {
			out = append(out, *submission)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) FindPendingForReviewer(reviewerID uuid.UUID, offset, limit int) ([]models.Submission, error) {
	return nil, nil
}

type fakeReviewRepo struct {
	mu          sync.Mutex
	reviews     map[uuid.UUID]*models.Review
	submissions *fakeSubmissionRepo
	cas         *fakeCARepo
}

func newFakeReviewRepo(submissions *fakeSubmissionRepo, cas *fakeCARepo) *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews:     make(map[uuid.UUID]*models.Review),
		submissions: submissions,
		cas:         cas,
	}
}

func (f *fakeReviewRepo) CreateAndAdvance(review *models.Review, parentStatus *models.AssignmentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Mirrors the unique index on (submission_id, reviewer_id).
	for _, existing := range f.reviews {
		if existing.SubmissionID == review.SubmissionID && existing.ReviewerID == review.ReviewerID {
			return fmt.Errorf("insert rejected: %w", gorm.ErrDuplicatedKey)
		}
	}

	f.reviews[review.ID] = review

	submission, ok := f.submissions.submissions[review.SubmissionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	submission.Status = models.SubmissionStatusReviewed

	if parentStatus != nil {
		if ca, ok := f.cas.records[submission.CandidateAssignmentID]; ok {
			ca.Status = *parentStatus
		}
	}

	return nil
}

func (f *fakeReviewRepo) FindByID(id uuid.UUID) (*models.Review, error) {
	review, ok := f.reviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return review, nil
}

func (f *fakeReviewRepo) FindBySubmission(submissionID uuid.UUID) ([]models.Review, error) {
	var out []models.Review
	for _, review := range f.reviews {
		if review.SubmissionID == submissionID {
			out = append(out, *review)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) FindCompletedByCandidateAssignment(caID uuid.UUID) ([]models.Review, error) {
	var out []models.Review
	for _, review := range f.reviews {
		submission, ok := f.submissions.submissions[review.SubmissionID]
		if !ok || submission.CandidateAssignmentID != caID {
			continue
		}
		if review.Status == models.ReviewStatusCompleted && review.Score != nil {
			out = append(out, *review)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) Save(review *models.Review) error {
	f.reviews[review.ID] = review
	return nil
}

func (f *fakeReviewRepo) StatsForReviewer(reviewerID uuid.UUID) (*models.ReviewerStats, error) {
	return &models.ReviewerStats{}, nil
}

// lifecycleFixture wires the lifecycle service against the fakes with one
// candidate, one admin, one reviewer and one active assignment seeded.
type lifecycleFixture struct {
	users       *fakeUserRepo
	assignments *fakeAssignmentRepo
	cas         *fakeCARepo
	submissions *fakeSubmissionRepo
	reviews     *fakeReviewRepo
	service     LifecycleService

	admin      *models.User
	reviewer   *models.User
	candidate  *models.User
	assignment *models.Assignment
}

func newLifecycleFixture() *lifecycleFixture {
	users := newFakeUserRepo()
	assignments := newFakeAssignmentRepo()
	cas := newFakeCARepo()
	submissions := newFakeSubmissionRepo()
	reviews := newFakeReviewRepo(submissions, cas)

	f := &lifecycleFixture{
		users:       users,
		assignments: assignments,
		cas:         cas,
		submissions: submissions,
		reviews:     reviews,
		service:     NewLifecycleService(users, assignments, cas, submissions, reviews, NewNoopPublisher()),
	}

	f.admin = &models.User{ID: uuid.New(), Email: "admin@test.local", FullName: "Admin", Role: models.RoleAdmin, IsActive: true}
	f.reviewer = &models.User{ID: uuid.New(), Email: "reviewer@test.local", FullName: "Reviewer", Role: models.RoleReviewer, IsActive: true}
	f.candidate = &models.User{ID: uuid.New(), Email: "candidate@test.local", FullName: "Candidate", Role: models.RoleCandidate, IsActive: true}
	users.Create(f.admin)
	users.Create(f.reviewer)
	users.Create(f.candidate)

	f.assignment = &models.Assignment{
		ID:       uuid.New(),
		Title:    "Build a URL shortener",
		IsActive: true,
	}
	assignments.Create(f.assignment)

	return f
}

func (f *lifecycleFixture) assign(t *testing.T) *models.CandidateAssignment {
	t.Helper()
	ca, err := f.service.Assign(context.Background(), f.candidate.ID, f.assignment.ID, f.admin.ID, 7, "")
	if err != nil {
		t.Fatalf("Assign() failed: %v", err)
	}
	return ca
}

func (f *lifecycleFixture) submit(t *testing.T, ca *models.CandidateAssignment) *models.Submission {
	t.Helper()
	submission, err := f.service.Submit(context.Background(), f.candidate, ca.ID, &models.SubmitRequest{
		SubmissionType: models.SubmissionTypeRepositoryLink,
		SubmissionURL:  "https://github.com/candidate/solution",
	}, nil)
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	return submission
}

func TestAssignCreatesActiveRecord(t *testing.T) {
	f := newLifecycleFixture()

	ca := f.assign(t)

	if ca.Status != models.StatusAssigned {
		t.Errorf("status = %q, want %q", ca.Status, models.StatusAssigned)
	}
	if ca.Deadline == nil {
		t.Fatal("deadline not set")
	}
	wantDeadline := time.Now().AddDate(0, 0, 7)
	if diff := ca.Deadline.Sub(wantDeadline); diff < -time.Minute || diff > time.Minute {
		t.Errorf("deadline = %v, want about %v", ca.Deadline, wantDeadline)
	}
	if _, err := f.cas.FindByID(ca.ID); err != nil {
		t.Errorf("record not persisted: %v", err)
	}
}

func TestAssignRejectsNonCandidates(t *testing.T) {
	f := newLifecycleFixture()

	if _, err := f.service.Assign(context.Background(), f.reviewer.ID, f.assignment.ID, f.admin.ID, 7, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("assigning to a reviewer: err = %v, want ErrNotFound", err)
	}
	if _, err := f.service.Assign(context.Background(), uuid.New(), f.assignment.ID, f.admin.ID, 7, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("assigning to unknown user: err = %v, want ErrNotFound", err)
	}
}

func TestAssignRejectsInactiveAssignment(t *testing.T) {
	f := newLifecycleFixture()
	f.assignment.IsActive = false

	if _, err := f.service.Assign(context.Background(), f.candidate.ID, f.assignment.ID, f.admin.ID, 7, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAssignRejectsDuplicateActivePair(t *testing.T) {
	f := newLifecycleFixture()
	f.assign(t)

	_, err := f.service.Assign(context.Background(), f.candidate.ID, f.assignment.ID, f.admin.ID, 7, "")
	if !errors.Is(err, ErrDuplicateActiveAssignment) {
		t.Errorf("err = %v, want ErrDuplicateActiveAssignment", err)
	}
}

func TestAssignAllowsReassignAfterTerminalState(t *testing.T) {
	f := newLifecycleFixture()
	ca := f.assign(t)

	ca.Status = models.StatusFailed
	f.cas.Save(ca)

	if _, err := f.service.Assign(context.Background(), f.candidate.ID, f.assignment.ID, f.admin.ID, 7, ""); err != nil {
		t.Errorf("reassign after failure: err = %v, want nil", err)
	}
}

func TestAssignConcurrentDuplicatesYieldOneSuccess(t *testing.T) {
	f := newLifecycleFixture()

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := f.service.Assign(context.Background(), f.candidate.ID, f.assignment.ID, f.admin.ID, 7, "")
			results <- err
		}()
	}

	var successes, duplicates int
	for i := 0; i < 2; i++ {
		switch err := <-results; {
		case err == nil:
			successes++
		case errors.Is(err, ErrDuplicateActiveAssignment):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 || duplicates != 1 {
		t.Errorf("got %d successes and %d duplicates, want exactly 1 of each", successes, duplicates)
	}
}

func TestUpdateStatusCandidateOwnRecord(t *testing.T) {
	f := newLifecycleFixture()
	ca := f.assign(t)

	progress := 40
	updated, err := f.service.UpdateStatus(context.Background(), f.candidate, ca.ID, &models.UpdateAssignmentStatusRequest{
		Status:             models.StatusInProgress,
		ProgressPercentage: &progress,
	})
	if err != nil {
		t.Fatalf("UpdateStatus() failed: %v", err)
	}

	if updated.Status != models.StatusInProgress {
		t.Errorf("status = %q, want %q", updated.Status, models.StatusInProgress)
	}
	if updated.ProgressPercentage != 40 {
		t.Errorf("progress = %d, want 40", updated.ProgressPercentage)
	}
}

func TestUpdateStatusCandidateForeignRecord(t *testing.T) {
	f := newLifecycleFixture()
	ca := f.assign(t)

	other := &models.User{ID: uuid.New(), Role: models.RoleCandidate, IsActive: true}
	f.users.Create(other)

	_, err := f.service.UpdateStatus(context.Background(), other, ca.ID, &models.UpdateAssignmentStatusRequest{
		Status: models.StatusInProgress,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestUpdateStatusRejectsIllegalTransitions(t *testing.T) {
	f := newLifecycleFixture()
	ca := f.assign(t)

	tests := []struct {
		name   string
		status models.AssignmentStatus
	}{
		{"skip to completed", models.StatusCompleted},
		{"skip to submitted", models.StatusSubmitted},
		{"unknown status", "archived"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.UpdateStatus(context.Background(), f.admin, ca.ID, &models.UpdateAssignmentStatusRequest{
				Status: tt.status,
			})
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("err = %v, want ErrInvalidTransition", err)
			}
		})
	}
}

func TestUpdateStatusAdminSetsNotes(t *testing.T) {
	f := newLifecycleFixture()
	ca := f.assign(t)

	notes := "paused while on vacation"
	updated, err := f.service.UpdateStatus(context.Background(), f.admin, ca.ID, &models.UpdateAssignmentStatusRequest{
		Status: models.StatusFailed,
		Notes:  &notes,
	})
	if err != nil {
		t.Fatalf("UpdateStatus() failed: %v", err)
	}
	if updated.Status != models.StatusFailed {
		t.Errorf("status = %q, want %q", updated.Status, models.StatusFailed)
	}
	if updated.Notes != notes {
		t.Errorf("notes = %q, want %q", updated.Notes, notes)
	}
}

func TestSubmitLeavesParentStatusUntouched(t *testing.T) {
	f := newLifecycleFixture()
	ca := f.assign(t)
	ca.Status = models.StatusInProgress
	f.cas.Save(ca)

	submission := f.submit(t, ca)

	if submission.Status != models.SubmissionStatusSubmitted {
		t.Errorf("submission status = %q, want %q", submission.Status, models.SubmissionStatusSubmitted)
	}

	parent, _ := f.cas.FindByID(ca.ID)
	if parent.Status != models.StatusInProgress {
		t.Errorf("parent status = %q, want %q", parent.Status, models.StatusInProgress)
	}
}

func TestSubmitStoresFilePayload(t *testing.T) {
	f := newLifecycleFixture()
	ca := f.assign(t)

	submission, err := f.service.Submit(context.Background(), f.candidate, ca.ID, &models.SubmitRequest{
		SubmissionType: models.SubmissionTypeFileUpload,
	}, []models.SubmissionFile{
		{Name: "solution.zip", URL: "https://storage.local/submissions/solution.zip"},
	})
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	if !strings.Contains(string(submission.Files), "solution.zip") {
		t.Errorf("files payload missing upload: %s", submission.Files)
	}
}

func TestSubmitForbiddenForForeignRecord(t *testing.T) {
	f := newLifecycleFixture()
	ca := f.assign(t)

	other := &models.User{ID: uuid.New(), Role: models.RoleCandidate, IsActive: true}
	_, err := f.service.Submit(context.Background(), other, ca.ID, &models.SubmitRequest{
		SubmissionType: models.SubmissionTypeRepositoryLink,
		SubmissionURL:  "https://github.com/other/solution",
	}, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestReviewPassingScoreCompletesParent(t *testing.T) {
	f := newLifecycleFixture()
	ca := f.assign(t)
	submission := f.submit(t, ca)

	review, err := f.service.Review(context.Background(), f.reviewer, submission.ID, &models.ReviewCreateRequest{
		Score:    models.PassingScore,
		Feedback: "Solid work",
	})
	if err != nil {
		t.Fatalf("Review() failed: %v", err)
	}

	if review.Status != models.ReviewStatusCompleted {
		t.Errorf("review status = %q, want %q", review.Status, models.ReviewStatusCompleted)
	}

	parent, _ := f.cas.FindByID(ca.ID)
	if parent.Status != models.StatusCompleted {
		t.Errorf("parent status = %q, want %q", parent.Status, models.StatusCompleted)
	}

	stored, _ := f.submissions.FindByID(submission.ID)
	if stored.Status != models.SubmissionStatusReviewed {
		t.Errorf("submission status = %q, want %q", stored.Status, models.SubmissionStatusReviewed)
	}
}

func TestReviewFailingScoreLeavesParent(t *testing.T) {
	f := newLifecycleFixture()
	ca := f.assign(t)
	submission := f.submit(t, ca)

	_, err := f.service.Review(context.Background(), f.reviewer, submission.ID, &models.ReviewCreateRequest{
		Score:    models.PassingScore - 1,
		Feedback: "Not quite there",
	})
	if err != nil {
		t.Fatalf("Review() failed: %v", err)
	}

	parent, _ := f.cas.FindByID(ca.ID)
	if parent.Status != models.StatusAssigned {
		t.Errorf("parent status = %q, want %q", parent.Status, models.StatusAssigned)
	}
}

func TestReviewRejectsSecondReviewBySameReviewer(t *testing.T) {
	f := newLifecycleFixture()
	ca := f.assign(t)
	submission := f.submit(t, ca)

	if _, err := f.service.Review(context.Background(), f.reviewer, submission.ID, &models.ReviewCreateRequest{
		Score:    80,
		Feedback: "First pass",
	}); err != nil {
		t.Fatalf("first Review() failed: %v", err)
	}

	_, err := f.service.Review(context.Background(), f.reviewer, submission.ID, &models.ReviewCreateRequest{
		Score:    90,
		Feedback: "Second pass",
	})
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Errorf("err = %v, want ErrAlreadyReviewed", err)
	}
}

func TestReviewRejectsOutOfRangeScores(t *testing.T) {
	f := newLifecycleFixture()
	ca := f.assign(t)
	submission := f.submit(t, ca)

	for _, score := range []int{-1, 101} {
		_, err := f.service.Review(context.Background(), f.reviewer, submission.ID, &models.ReviewCreateRequest{
			Score:    score,
			Feedback: "Out of range",
		})
		if !errors.Is(err, ErrInvalidScore) {
			t.Errorf("score %d: err = %v, want ErrInvalidScore", score, err)
		}
	}
}
