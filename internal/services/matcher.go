package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"logbiz/recruitment-api/internal/models"
	"logbiz/recruitment-api/internal/repositories"
)

// CandidateMatcherService ranks candidates against an assignment by comparing
// CV embeddings with an embedding of the assignment description.
type CandidateMatcherService interface {
	IndexCandidate(ctx context.Context, candidateID uuid.UUID, profile *CandidateProfile) error
	MatchCandidates(ctx context.Context, assignment *models.Assignment, limit int) ([]models.CandidateMatch, error)
}

type candidateMatcherService struct {
	gemini   GeminiService
	qdrant   QdrantService
	userRepo repositories.UserRepository
}

func NewCandidateMatcherService(gemini GeminiService, qdrant QdrantService, userRepo repositories.UserRepository) CandidateMatcherService {
	return &candidateMatcherService{
		gemini:   gemini,
		qdrant:   qdrant,
		userRepo: userRepo,
	}
}

// IndexCandidate implements CandidateMatcherService.
func (s *candidateMatcherService) IndexCandidate(ctx context.Context, candidateID uuid.UUID, profile *CandidateProfile) error {
	doc := buildProfileDocument(profile)

	embedding, err := s.gemini.GenerateEmbedding(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to embed candidate profile: %w", err)
	}

	err = s.qdrant.UpsertCandidate(ctx, candidateID.String(), profile.Skills, doc, embedding)
	if err != nil {
		return fmt.Errorf("failed to index candidate: %w", err)
	}

	return nil
}

// MatchCandidates implements CandidateMatcherService.
func (s *candidateMatcherService) MatchCandidates(ctx context.Context, assignment *models.Assignment, limit int) ([]models.CandidateMatch, error) {
	if limit <= 0 {
		limit = 10
	}

	query := fmt.Sprintf("%s\n%s\nRequired skills: %s",
		assignment.Title,
		assignment.Description,
		strings.Join(assignment.Skillsets, ", "),
	)

	embedding, err := s.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed assignment: %w", err)
	}

	hits, err := s.qdrant.SearchCandidates(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search candidates: %w", err)
	}

	matches := make([]models.CandidateMatch, 0, len(hits))
	for _, hit := range hits {
		candidateID, err := uuid.Parse(hit.CandidateID)
		if err != nil {
			continue
		}

		match := models.CandidateMatch{
			CandidateID: candidateID,
			Skills:      hit.Skills,
			Score:       hit.Score,
		}

		// Enrich with the account when one exists; indexed CVs may belong
		// to candidates who have not registered yet.
		if user, err := s.userRepo.FindByID(candidateID); err == nil {
			match.FullName = user.FullName
			match.Email = user.Email
		}

		matches = append(matches, match)
	}

	return matches, nil
}

func buildProfileDocument(profile *CandidateProfile) string {
	var b strings.Builder

	b.WriteString(profile.Name)
	b.WriteString("\nSkills: ")
	b.WriteString(strings.Join(profile.Skills, ", "))

	if len(profile.Projects) > 0 {
		b.WriteString("\nProjects:\n")
		b.WriteString(strings.Join(profile.Projects, "\n"))
	}

	if profile.RawTextSnippet != "" {
		b.WriteString("\n\n")
		b.WriteString(profile.RawTextSnippet)
	}

	return b.String()
}
