package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"logbiz/recruitment-api/internal/models"
	"logbiz/recruitment-api/internal/repositories"
)

// LifecycleService is the assignment lifecycle engine. It owns every state
// transition from assignment through submission and review, and is the only
// place that enforces the cross-entity invariants between candidate
// assignments, submissions and reviews.
type LifecycleService interface {
	Assign(ctx context.Context, candidateID, assignmentID, assignedBy uuid.UUID, deadlineDays int, notes string) (*models.CandidateAssignment, error)
	UpdateStatus(ctx context.Context, actor *models.User, caID uuid.UUID, req *models.UpdateAssignmentStatusRequest) (*models.CandidateAssignment, error)
	Submit(ctx context.Context, actor *models.User, caID uuid.UUID, req *models.SubmitRequest, files []models.SubmissionFile) (*models.Submission, error)
	Review(ctx context.Context, reviewer *models.User, submissionID uuid.UUID, req *models.ReviewCreateRequest) (*models.Review, error)
}

type lifecycleService struct {
	userRepo       repositories.UserRepository
	assignmentRepo repositories.AssignmentRepository
	caRepo         repositories.CandidateAssignmentRepository
	submissionRepo repositories.SubmissionRepository
	reviewRepo     repositories.ReviewRepository
	events         EventPublisher
}

func NewLifecycleService(
	userRepo repositories.UserRepository,
	assignmentRepo repositories.AssignmentRepository,
	caRepo repositories.CandidateAssignmentRepository,
	submissionRepo repositories.SubmissionRepository,
	reviewRepo repositories.ReviewRepository,
	events EventPublisher,
) LifecycleService {
	return &lifecycleService{
		userRepo:       userRepo,
		assignmentRepo: assignmentRepo,
		caRepo:         caRepo,
		submissionRepo: submissionRepo,
		reviewRepo:     reviewRepo,
		events:         events,
	}
}

// Assign implements LifecycleService.
//
// The "at most one active record per (candidate, assignment) pair" invariant
// is enforced by a partial unique index, not by a check-then-insert: two
// concurrent assigns for the same pair yield exactly one success.
func (s *lifecycleService) Assign(ctx context.Context, candidateID, assignmentID, assignedBy uuid.UUID, deadlineDays int, notes string) (*models.CandidateAssignment, error) {
	candidate, err := s.userRepo.FindByID(candidateID)
	if err != nil || !candidate.IsCandidate() {
		return nil, ErrNotFound
	}

	assignment, err := s.assignmentRepo.FindActiveByID(assignmentID)
	if err != nil {
		return nil, ErrNotFound
	}

	deadline := time.Now().AddDate(0, 0, deadlineDays)
	ca := &models.CandidateAssignment{
		ID:           uuid.New(),
		CandidateID:  candidateID,
		AssignmentID: assignmentID,
		AssignedBy:   assignedBy,
		AssignedAt:   time.Now(),
		Deadline:     &deadline,
		Status:       models.StatusAssigned,
		Notes:        notes,
	}

	if err := s.caRepo.Create(ca); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateActiveAssignment
		}
		return nil, fmt.Errorf("failed to assign: %w", err)
	}

	s.events.Publish(ctx, EventAssignmentAssigned, map[string]interface{}{
		"candidate_assignment_id": ca.ID.String(),
		"candidate_id":            candidateID.String(),
		"candidate_email":         candidate.Email,
		"candidate_name":          candidate.FullName,
		"assignment_title":        assignment.Title,
		"deadline":                deadline,
	})

	return ca, nil
}

// UpdateStatus implements LifecycleService.
//
// Candidates may move status/progress on their own record only;
// admins and reviewers may move status and notes on any record. All
// user-driven updates are validated against the lifecycle transition table.
func (s *lifecycleService) UpdateStatus(ctx context.Context, actor *models.User, caID uuid.UUID, req *models.UpdateAssignmentStatusRequest) (*models.CandidateAssignment, error) {
	ca, err := s.caRepo.FindByID(caID)
	if err != nil {
		return nil, ErrNotFound
	}

	if !req.Status.IsValid() {
		return nil, ErrInvalidTransition
	}

	if actor.IsCandidate() {
		if ca.CandidateID != actor.ID {
			return nil, ErrForbidden
		}
		if req.Status != ca.Status && !ca.Status.CanTransitionTo(req.Status) {
			return nil, ErrInvalidTransition
		}
		ca.Status = req.Status
		if req.ProgressPercentage != nil {
			ca.ProgressPercentage = *req.ProgressPercentage
		}
	} else {
		if req.Status != ca.Status && !ca.Status.CanTransitionTo(req.Status) {
			return nil, ErrInvalidTransition
		}
		ca.Status = req.Status
		if req.Notes != nil {
			ca.Notes = *req.Notes
		}
	}

	if err := s.caRepo.Save(ca); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return ca, nil
}

// Submit implements LifecycleService.
//
// Creating a submission does not move the parent assignment's status; the
// review workflow owns that.
func (s *lifecycleService) Submit(ctx context.Context, actor *models.User, caID uuid.UUID, req *models.SubmitRequest, files []models.SubmissionFile) (*models.Submission, error) {
	ca, err := s.caRepo.FindByID(caID)
	if err != nil {
		return nil, ErrNotFound
	}

	if actor.IsCandidate() && ca.CandidateID != actor.ID {
		return nil, ErrForbidden
	}

	submission := &models.Submission{
		ID:                    uuid.New(),
		CandidateAssignmentID: caID,
		SubmissionType:        req.SubmissionType,
		SubmissionURL:         req.SubmissionURL,
		SubmittedAt:           time.Now(),
		Status:                models.SubmissionStatusSubmitted,
		Notes:                 req.Notes,
	}

	if len(files) > 0 {
		payload, err := marshalFiles(files)
		if err != nil {
			return nil, err
		}
		submission.Files = payload
	}

	if err := s.submissionRepo.Create(submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	s.events.Publish(ctx, EventSubmissionCreated, map[string]interface{}{
		"submission_id":           submission.ID.String(),
		"candidate_assignment_id": caID.String(),
		"submission_type":         string(req.SubmissionType),
	})

	return submission, nil
}

// Review implements LifecycleService.
//
// A passing score completes the governing candidate assignment in the same
// transaction that persists the review; a non-passing score leaves it
// untouched. The per-(submission, reviewer) unique index rejects a second
// review by the same reviewer atomically.
func (s *lifecycleService) Review(ctx context.Context, reviewer *models.User, submissionID uuid.UUID, req *models.ReviewCreateRequest) (*models.Review, error) {
	if req.Score < 0 || req.Score > 100 {
		return nil, ErrInvalidScore
	}

	submission, err := s.submissionRepo.FindByID(submissionID)
	if err != nil {
		return nil, ErrNotFound
	}

	score := req.Score
	review := &models.Review{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		ReviewerID:   reviewer.ID,
		Score:        &score,
		Feedback:     req.Feedback,
		ReviewedAt:   time.Now(),
		Status:       models.ReviewStatusCompleted,
	}
	if req.CriteriaScores != nil {
		payload, err := marshalCriteria(req.CriteriaScores)
		if err != nil {
			return nil, err
		}
		review.CriteriaScores = payload
	}

	var parentStatus *models.AssignmentStatus
	if score >= models.PassingScore {
		completed := models.StatusCompleted
		parentStatus = &completed
	}

	if err := s.reviewRepo.CreateAndAdvance(review, parentStatus); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	log.Printf("✅ Review %s recorded for submission %s (score %d)\n", review.ID, submissionID, score)

	s.events.Publish(ctx, EventReviewCompleted, map[string]interface{}{
		"review_id":        review.ID.String(),
		"submission_id":    submissionID.String(),
		"candidate_email":  submission.CandidateAssignment.Candidate.Email,
		"candidate_name":   submission.CandidateAssignment.Candidate.FullName,
		"assignment_title": submission.CandidateAssignment.Assignment.Title,
		"score":            score,
		"passing":          score >= models.PassingScore,
	})

	return review, nil
}

func marshalFiles(files []models.SubmissionFile) (datatypes.JSON, error) {
	payload, err := json.Marshal(files)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission files: %w", err)
	}
	return datatypes.JSON(payload), nil
}

func marshalCriteria(criteria map[string]int) (datatypes.JSON, error) {
	payload, err := json.Marshal(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to encode criteria scores: %w", err)
	}
	return datatypes.JSON(payload), nil
}
