package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"logbiz/recruitment-api/internal/middlewares"
	"logbiz/recruitment-api/internal/models"
	"logbiz/recruitment-api/internal/repositories"
	"logbiz/recruitment-api/internal/services"
)

type ReviewHandler struct {
	submissionRepo repositories.SubmissionRepository
	reviewRepo     repositories.ReviewRepository
	lifecycle      services.LifecycleService
}

func NewReviewHandler(
	submissionRepo repositories.SubmissionRepository,
	reviewRepo repositories.ReviewRepository,
	lifecycle services.LifecycleService,
) *ReviewHandler {
	return &ReviewHandler{
		submissionRepo: submissionRepo,
		reviewRepo:     reviewRepo,
		lifecycle:      lifecycle,
	}
}

// HandleCreate handles POST /submissions/:id/reviews
func (h *ReviewHandler) HandleCreate(c *fiber.Ctx) error {
	submissionID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.ReviewCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	reviewer := middlewares.CurrentUser(c)
	review, err := h.lifecycle.Review(c.Context(), reviewer, submissionID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	review.Reviewer = *reviewer
	return c.Status(fiber.StatusCreated).JSON(reviewResponse(review))
}

// HandleListBySubmission handles GET /submissions/:id/reviews
func (h *ReviewHandler) HandleListBySubmission(c *fiber.Ctx) error {
	submissionID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	submission, err := h.submissionRepo.FindByID(submissionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Submission not found",
		})
	}

	actor := middlewares.CurrentUser(c)
	if actor.IsCandidate() && submission.CandidateAssignment.CandidateID != actor.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	reviews, err := h.reviewRepo.FindBySubmission(submissionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list reviews",
		})
	}

	responses := make([]models.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, reviewResponse(&reviews[i]))
	}

	return c.JSON(responses)
}

// HandlePending handles GET /reviews/pending
func (h *ReviewHandler) HandlePending(c *fiber.Ctx) error {
	reviewer := middlewares.CurrentUser(c)

	submissions, err := h.submissionRepo.FindPendingForReviewer(reviewer.ID, c.QueryInt("offset", 0), c.QueryInt("limit", 50))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list pending reviews",
		})
	}

	responses := make([]models.PendingReviewResponse, 0, len(submissions))
	for i := range submissions {
		s := &submissions[i]
		responses = append(responses, models.PendingReviewResponse{
			SubmissionID:    s.ID,
			CandidateName:   s.CandidateAssignment.Candidate.FullName,
			CandidateEmail:  s.CandidateAssignment.Candidate.Email,
			AssignmentTitle: s.CandidateAssignment.Assignment.Title,
			ProjectName:     s.CandidateAssignment.Assignment.Project.Name,
			SubmissionType:  s.SubmissionType,
			SubmittedAt:     s.SubmittedAt,
			Notes:           s.Notes,
		})
	}

	return c.JSON(responses)
}

// HandleUpdate handles PATCH /reviews/:id. Reviewers may amend their own
// review; the assignment status set when it was created is not revisited.
func (h *ReviewHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.ReviewUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	review, err := h.reviewRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Review not found",
		})
	}

	actor := middlewares.CurrentUser(c)
	if review.ReviewerID != actor.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the author can update a review",
		})
	}

	if req.Score != nil {
		review.Score = req.Score
	}
	if req.Feedback != nil {
		review.Feedback = *req.Feedback
	}
	if req.CriteriaScores != nil {
		raw, err := json.Marshal(req.CriteriaScores)
		if err == nil {
			review.CriteriaScores = datatypes.JSON(raw)
		}
	}

	if err := h.reviewRepo.Save(review); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update review",
		})
	}

	return c.JSON(reviewResponse(review))
}

// HandleStats handles GET /reviews/stats
func (h *ReviewHandler) HandleStats(c *fiber.Ctx) error {
	reviewer := middlewares.CurrentUser(c)

	stats, err := h.reviewRepo.StatsForReviewer(reviewer.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute reviewer stats",
		})
	}

	return c.JSON(stats)
}

func reviewResponse(review *models.Review) models.ReviewResponse {
	var criteria map[string]int
	if len(review.CriteriaScores) > 0 {
		_ = json.Unmarshal(review.CriteriaScores, &criteria)
	}

	return models.ReviewResponse{
		ID:             review.ID,
		ReviewerName:   review.Reviewer.FullName,
		Score:          review.Score,
		Feedback:       review.Feedback,
		CriteriaScores: criteria,
		ReviewedAt:     review.ReviewedAt,
		Status:         review.Status,
	}
}
