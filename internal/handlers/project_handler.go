package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"

	"logbiz/recruitment-api/internal/models"
	"logbiz/recruitment-api/internal/repositories"
)

type ProjectHandler struct {
	projectRepo repositories.ProjectRepository
}

func NewProjectHandler(projectRepo repositories.ProjectRepository) *ProjectHandler {
	return &ProjectHandler{projectRepo: projectRepo}
}

// HandleCreate handles POST /projects
func (h *ProjectHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.ProjectCreateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	project := &models.Project{
		Name:            req.Name,
		Description:     req.Description,
		Domain:          req.Domain,
		TechStack:       pq.StringArray(req.TechStack),
		DifficultyLevel: req.DifficultyLevel,
		IsActive:        true,
	}

	if err := h.projectRepo.Create(project); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create project",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

// HandleList handles GET /projects
func (h *ProjectHandler) HandleList(c *fiber.Ctx) error {
	filter := repositories.ProjectFilter{
		Domain:          c.Query("domain"),
		DifficultyLevel: c.Query("difficulty_level"),
		Offset:          c.QueryInt("offset", 0),
		Limit:           c.QueryInt("limit", 50),
	}

	if c.Query("is_active") != "" {
		isActive := c.QueryBool("is_active")
		filter.IsActive = &isActive
	}

	projects, err := h.projectRepo.FindAll(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list projects",
		})
	}

	return c.JSON(projects)
}

// HandleGet handles GET /projects/:id
func (h *ProjectHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	project, err := h.projectRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	return c.JSON(project)
}

// HandleUpdate handles PATCH /projects/:id
func (h *ProjectHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.ProjectUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	project, err := h.projectRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Domain != nil {
		project.Domain = *req.Domain
	}
	if req.TechStack != nil {
		project.TechStack = pq.StringArray(req.TechStack)
	}
	if req.DifficultyLevel != nil {
		project.DifficultyLevel = *req.DifficultyLevel
	}
	if req.IsActive != nil {
		project.IsActive = *req.IsActive
	}

	if err := h.projectRepo.Save(project); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update project",
		})
	}

	return c.JSON(project)
}

// HandleDelete handles DELETE /projects/:id. Projects are deactivated, not
// removed, so historical assignments keep their references.
func (h *ProjectHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	project, err := h.projectRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	project.IsActive = false
	if err := h.projectRepo.Save(project); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to deactivate project",
		})
	}

	return c.JSON(fiber.Map{"message": "Project deactivated"})
}
