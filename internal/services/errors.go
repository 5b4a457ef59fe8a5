package services

import "errors"

// Domain errors surfaced by the lifecycle engine and certificate issuer.
// Handlers map these to HTTP statuses with errors.Is; none are swallowed.
var (
	ErrNotFound                   = errors.New("referenced entity missing or inactive")
	ErrForbidden                  = errors.New("actor lacks permission for the target record")
	ErrDuplicateActiveAssignment  = errors.New("assignment already assigned to this candidate")
	ErrInvalidTransition          = errors.New("illegal assignment status transition")
	ErrAlreadyReviewed            = errors.New("already reviewed this submission")
	ErrInvalidScore               = errors.New("score must be between 0 and 100")
	ErrNotEligible                = errors.New("assignment is not completed")
	ErrAlreadyIssued              = errors.New("certificate already exists for this assignment")
	ErrNoReviews                  = errors.New("no completed reviews found for this assignment")
	ErrDuplicateCertificateNumber = errors.New("certificate number collision, retry issuance")
	ErrRenderingFailed            = errors.New("certificate rendering failed")
)
