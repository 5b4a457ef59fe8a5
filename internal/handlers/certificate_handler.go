package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"logbiz/recruitment-api/internal/middlewares"
	"logbiz/recruitment-api/internal/models"
	"logbiz/recruitment-api/internal/repositories"
	"logbiz/recruitment-api/internal/services"
)

type CertificateHandler struct {
	certRepo    repositories.CertificateRepository
	certService services.CertificateService
}

func NewCertificateHandler(certRepo repositories.CertificateRepository, certService services.CertificateService) *CertificateHandler {
	return &CertificateHandler{
		certRepo:    certRepo,
		certService: certService,
	}
}

// HandleIssue handles POST /candidate-assignments/:id/certificate
func (h *CertificateHandler) HandleIssue(c *fiber.Ctx) error {
	caID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	certificate, err := h.certService.Issue(c.Context(), caID)
	if err != nil {
		return serviceError(c, err)
	}

	loaded, err := h.certRepo.FindByID(certificate.ID)
	if err != nil {
		return c.Status(fiber.StatusCreated).JSON(certificate)
	}

	return c.Status(fiber.StatusCreated).JSON(certificateResponse(loaded))
}

// HandleList handles GET /certificates. Candidates see only their own.
func (h *CertificateHandler) HandleList(c *fiber.Ctx) error {
	actor := middlewares.CurrentUser(c)

	filter := repositories.CertificateFilter{
		Offset: c.QueryInt("offset", 0),
		Limit:  c.QueryInt("limit", 50),
	}

	if actor.IsCandidate() {
		filter.CandidateID = &actor.ID
	} else if raw := c.Query("candidate_id"); raw != "" {
		candidateID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid candidate_id format",
			})
		}
		filter.CandidateID = &candidateID
	}

	certificates, err := h.certRepo.FindAll(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list certificates",
		})
	}

	responses := make([]models.CertificateResponse, 0, len(certificates))
	for i := range certificates {
		responses = append(responses, certificateResponse(&certificates[i]))
	}

	return c.JSON(responses)
}

// HandleGet handles GET /certificates/:id
func (h *CertificateHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	certificate, err := h.certRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Certificate not found",
		})
	}

	actor := middlewares.CurrentUser(c)
	if actor.IsCandidate() && certificate.CandidateID != actor.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}

	return c.JSON(certificateResponse(certificate))
}

// HandleRevoke handles DELETE /certificates/:id. Revocation is a soft delete
// so the pair becomes eligible for reissue while the number stays burned.
func (h *CertificateHandler) HandleRevoke(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	certificate, err := h.certRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Certificate not found",
		})
	}

	certificate.IsActive = false
	if err := h.certRepo.Save(certificate); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to revoke certificate",
		})
	}

	return c.JSON(fiber.Map{"message": "Certificate revoked"})
}

// HandleVerify handles GET /certificates/verify/:number. Public endpoint for
// third parties checking a credential.
func (h *CertificateHandler) HandleVerify(c *fiber.Ctx) error {
	number := c.Params("number")
	if number == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Certificate number is required",
		})
	}

	result, err := h.certService.Verify(c.Context(), number)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(result)
}

func certificateResponse(certificate *models.Certificate) models.CertificateResponse {
	return models.CertificateResponse{
		ID:                 certificate.ID,
		CertificateNumber:  certificate.CertificateNumber,
		CandidateName:      certificate.Candidate.FullName,
		CandidateEmail:     certificate.Candidate.Email,
		AssignmentTitle:    certificate.Assignment.Title,
		ProjectName:        certificate.Assignment.Project.Name,
		Score:              certificate.Score,
		SkillsDemonstrated: certificate.SkillsDemonstrated,
		IssuedAt:           certificate.IssuedAt,
		PDFURL:             certificate.PDFURL,
		IsPassing:          certificate.IsPassing(),
	}
}
