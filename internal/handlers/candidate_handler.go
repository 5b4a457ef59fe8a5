package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"logbiz/recruitment-api/internal/middlewares"
	"logbiz/recruitment-api/internal/models"
	"logbiz/recruitment-api/internal/repositories"
	"logbiz/recruitment-api/internal/services"
)

type CandidateHandler struct {
	userRepo       repositories.UserRepository
	caRepo         repositories.CandidateAssignmentRepository
	submissionRepo repositories.SubmissionRepository
	lifecycle      services.LifecycleService
	storage        services.StorageService
}

func NewCandidateHandler(
	userRepo repositories.UserRepository,
	caRepo repositories.CandidateAssignmentRepository,
	submissionRepo repositories.SubmissionRepository,
	lifecycle services.LifecycleService,
	storage services.StorageService,
) *CandidateHandler {
	return &CandidateHandler{
		userRepo:       userRepo,
		caRepo:         caRepo,
		submissionRepo: submissionRepo,
		lifecycle:      lifecycle,
		storage:        storage,
	}
}

// HandleListCandidates handles GET /candidates
func (h *CandidateHandler) HandleListCandidates(c *fiber.Ctx) error {
	var skillsets []string
	if skill := c.Query("skillset"); skill != "" {
		skillsets = append(skillsets, skill)
	}

	candidates, err := h.userRepo.FindCandidates(skillsets, c.QueryInt("offset", 0), c.QueryInt("limit", 50))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list candidates",
		})
	}

	return c.JSON(candidates)
}

// HandleAssign handles POST /candidates/:candidateId/assignments/:assignmentId
func (h *CandidateHandler) HandleAssign(c *fiber.Ctx) error {
	candidateID, err := parseUUIDParam(c, "candidateId")
	if err != nil {
		return err
	}

	assignmentID, err := parseUUIDParam(c, "assignmentId")
	if err != nil {
		return err
	}

	var req models.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	actor := middlewares.CurrentUser(c)
	ca, err := h.lifecycle.Assign(c.Context(), candidateID, assignmentID, actor.ID, req.DeadlineDays, req.Notes)
	if err != nil {
		return serviceError(c, err)
	}

	// Reload with relations for the response
	loaded, err := h.caRepo.FindByID(ca.ID)
	if err != nil {
		return c.Status(fiber.StatusCreated).JSON(ca)
	}

	return c.Status(fiber.StatusCreated).JSON(candidateAssignmentResponse(loaded, time.Now()))
}

// HandleListAssignments handles GET /candidate-assignments. Candidates see
// only their own records, staff see everything.
func (h *CandidateHandler) HandleListAssignments(c *fiber.Ctx) error {
	actor := middlewares.CurrentUser(c)
	now := time.Now()

	if actor.IsCandidate() {
		assignments, err := h.caRepo.FindByCandidate(actor.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to list assignments",
			})
		}
		return c.JSON(h.toResponses(assignments, now))
	}

	filter := repositories.CandidateAssignmentFilter{
		Status: models.AssignmentStatus(c.Query("status")),
		Offset: c.QueryInt("offset", 0),
		Limit:  c.QueryInt("limit", 50),
	}

	if raw := c.Query("candidate_id"); raw != "" {
		candidateID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid candidate_id format",
			})
		}
		filter.CandidateID = &candidateID
	}

	assignments, err := h.caRepo.FindAll(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list assignments",
		})
	}

	return c.JSON(h.toResponses(assignments, now))
}

// HandleGetAssignment handles GET /candidate-assignments/:id
func (h *CandidateHandler) HandleGetAssignment(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	ca, err := h.caRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate assignment not found",
		})
	}

	actor := middlewares.CurrentUser(c)
	if actor.IsCandidate() && ca.CandidateID != actor.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	return c.JSON(candidateAssignmentResponse(ca, time.Now()))
}

// HandleUpdateStatus handles PATCH /candidate-assignments/:id/status
func (h *CandidateHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateAssignmentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	actor := middlewares.CurrentUser(c)
	ca, err := h.lifecycle.UpdateStatus(c.Context(), actor, id, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(candidateAssignmentResponse(ca, time.Now()))
}

// HandleListSubmissions handles GET /candidate-assignments/:id/submissions
func (h *CandidateHandler) HandleListSubmissions(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	ca, err := h.caRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate assignment not found",
		})
	}

	actor := middlewares.CurrentUser(c)
	if actor.IsCandidate() && ca.CandidateID != actor.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	submissions, err := h.submissionRepo.FindByCandidateAssignment(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list submissions",
		})
	}

	return c.JSON(submissions)
}

// HandleSubmit handles POST /candidate-assignments/:id/submissions. Accepts a
// JSON body for repository links or a multipart form for file uploads.
func (h *CandidateHandler) HandleSubmit(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	actor := middlewares.CurrentUser(c)

	var req models.SubmitRequest
	var files []models.SubmissionFile

	form, formErr := c.MultipartForm()
	if formErr == nil && form != nil {
		req.SubmissionType = models.SubmissionType(firstFormValue(form.Value, "submission_type"))
		req.SubmissionURL = firstFormValue(form.Value, "submission_url")
		req.Notes = firstFormValue(form.Value, "notes")

		for _, header := range form.File["files"] {
			name, url, err := h.storage.UploadSubmissionFile(c.Context(), header)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Failed to store file: " + err.Error(),
				})
			}
			files = append(files, models.SubmissionFile{Name: name, URL: url})
		}
	} else {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request payload",
			})
		}
	}

	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	if req.SubmissionType == models.SubmissionTypeRepositoryLink && req.SubmissionURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "submission_url is required for repository submissions",
		})
	}

	if req.SubmissionType == models.SubmissionTypeFileUpload && len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "at least one file is required for file submissions",
		})
	}

	submission, err := h.lifecycle.Submit(c.Context(), actor, id, &req, files)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(submission)
}

func (h *CandidateHandler) toResponses(assignments []models.CandidateAssignment, now time.Time) []models.CandidateAssignmentResponse {
	responses := make([]models.CandidateAssignmentResponse, 0, len(assignments))
	for i := range assignments {
		responses = append(responses, candidateAssignmentResponse(&assignments[i], now))
	}
	return responses
}

func candidateAssignmentResponse(ca *models.CandidateAssignment, now time.Time) models.CandidateAssignmentResponse {
	return models.CandidateAssignmentResponse{
		ID:                 ca.ID,
		AssignmentTitle:    ca.Assignment.Title,
		ProjectName:        ca.Assignment.Project.Name,
		CandidateName:      ca.Candidate.FullName,
		CandidateEmail:     ca.Candidate.Email,
		Status:             ca.Status,
		ProgressPercentage: ca.ProgressPercentage,
		AssignedAt:         ca.AssignedAt,
		Deadline:           ca.Deadline,
		IsOverdue:          ca.IsOverdue(now),
		DaysRemaining:      ca.DaysRemaining(now),
		Notes:              ca.Notes,
	}
}

func firstFormValue(values map[string][]string, key string) string {
	if v, ok := values[key]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}
