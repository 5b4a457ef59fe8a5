package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	"logbiz/recruitment-api/internal/middlewares"
	"logbiz/recruitment-api/internal/models"
	"logbiz/recruitment-api/internal/repositories"
	"logbiz/recruitment-api/internal/services"
)

type AssignmentHandler struct {
	assignmentRepo repositories.AssignmentRepository
	projectRepo    repositories.ProjectRepository
	caRepo         repositories.CandidateAssignmentRepository
	matcher        services.CandidateMatcherService
}

func NewAssignmentHandler(
	assignmentRepo repositories.AssignmentRepository,
	projectRepo repositories.ProjectRepository,
	caRepo repositories.CandidateAssignmentRepository,
	matcher services.CandidateMatcherService,
) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentRepo: assignmentRepo,
		projectRepo:    projectRepo,
		caRepo:         caRepo,
		matcher:        matcher,
	}
}

// HandleCreate handles POST /assignments
func (h *AssignmentHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.AssignmentCreateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid project_id format",
		})
	}

	project, err := h.projectRepo.FindByID(projectID)
	if err != nil || !project.IsActive {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found or inactive",
		})
	}

	assignment := &models.Assignment{
		ProjectID:          projectID,
		Title:              req.Title,
		Description:        req.Description,
		Skillsets:          pq.StringArray(req.Skillsets),
		DifficultyLevel:    req.DifficultyLevel,
		DurationDays:       req.DurationDays,
		Instructions:       req.Instructions,
		StarterCodeURL:     req.StarterCodeURL,
		ReferenceMaterials: marshalJSONMap(req.ReferenceMaterials),
		SubmissionCriteria: marshalJSONMap(req.SubmissionCriteria),
		IsActive:           true,
		CreatedBy:          middlewares.CurrentUser(c).ID,
	}

	if err := h.assignmentRepo.Create(assignment); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create assignment",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(assignment)
}

// HandleList handles GET /assignments
func (h *AssignmentHandler) HandleList(c *fiber.Ctx) error {
	filter := repositories.AssignmentFilter{
		DifficultyLevel: c.Query("difficulty_level"),
		Offset:          c.QueryInt("offset", 0),
		Limit:           c.QueryInt("limit", 50),
	}

	if raw := c.Query("project_id"); raw != "" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid project_id format",
			})
		}
		filter.ProjectID = &projectID
	}

	if skill := c.Query("skillset"); skill != "" {
		filter.Skillsets = []string{skill}
	}

	if c.Query("is_active") != "" {
		isActive := c.QueryBool("is_active")
		filter.IsActive = &isActive
	}

	assignments, err := h.assignmentRepo.FindAll(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list assignments",
		})
	}

	return c.JSON(assignments)
}

// HandleGet handles GET /assignments/:id
func (h *AssignmentHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	assignment, err := h.assignmentRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assignment not found",
		})
	}

	return c.JSON(assignment)
}

// HandleUpdate handles PATCH /assignments/:id
func (h *AssignmentHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.AssignmentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	assignment, err := h.assignmentRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assignment not found",
		})
	}

	if req.Title != nil {
		assignment.Title = *req.Title
	}
	if req.Description != nil {
		assignment.Description = *req.Description
	}
	if req.Skillsets != nil {
		assignment.Skillsets = pq.StringArray(req.Skillsets)
	}
	if req.DifficultyLevel != nil {
		assignment.DifficultyLevel = *req.DifficultyLevel
	}
	if req.DurationDays != nil {
		assignment.DurationDays = *req.DurationDays
	}
	if req.Instructions != nil {
		assignment.Instructions = *req.Instructions
	}
	if req.IsActive != nil {
		assignment.IsActive = *req.IsActive
	}

	if err := h.assignmentRepo.Save(assignment); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update assignment",
		})
	}

	return c.JSON(assignment)
}

// HandleDelete handles DELETE /assignments/:id. Deactivation only; active
// candidate work on the assignment is untouched.
func (h *AssignmentHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	assignment, err := h.assignmentRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assignment not found",
		})
	}

	assignment.IsActive = false
	if err := h.assignmentRepo.Save(assignment); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to deactivate assignment",
		})
	}

	return c.JSON(fiber.Map{"message": "Assignment deactivated"})
}

// HandleStats handles GET /assignments/:id/stats
func (h *AssignmentHandler) HandleStats(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.assignmentRepo.FindByID(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assignment not found",
		})
	}

	stats, err := h.caRepo.StatsForAssignment(id, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute stats",
		})
	}

	return c.JSON(stats)
}

// HandleSkillsets handles GET /assignments/skillsets
func (h *AssignmentHandler) HandleSkillsets(c *fiber.Ctx) error {
	skillsets, err := h.assignmentRepo.ListSkillsets()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list skillsets",
		})
	}

	return c.JSON(fiber.Map{"skillsets": skillsets})
}

// HandleMatches handles GET /assignments/:id/matches
func (h *AssignmentHandler) HandleMatches(c *fiber.Ctx) error {
	if h.matcher == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Candidate matching is not configured",
		})
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	assignment, err := h.assignmentRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assignment not found",
		})
	}

	matches, err := h.matcher.MatchCandidates(c.Context(), assignment, c.QueryInt("limit", 10))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to match candidates",
		})
	}

	return c.JSON(matches)
}

func marshalJSONMap(m map[string]interface{}) datatypes.JSON {
	if len(m) == 0 {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
