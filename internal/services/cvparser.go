package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"regexp"
	"strings"
)

// CandidateProfile is the structured result of parsing a CV document.
type CandidateProfile struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Skills         []string `json:"skills"`
	Projects       []string `json:"projects"`
	RawTextSnippet string   `json:"raw_text_snippet"`
}

type CVParserService interface {
	ParseFile(ctx context.Context, filePath string) (*CandidateProfile, error)
}

type cvParserService struct {
	pdfParser PDFParserService
	gemini    GeminiService
}

// NewCVParserService builds a parser. gemini may be nil, in which case only
// the keyword heuristics run.
func NewCVParserService(pdfParser PDFParserService, gemini GeminiService) CVParserService {
	return &cvParserService{
		pdfParser: pdfParser,
		gemini:    gemini,
	}
}

var (
	emailPattern = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`)
	phonePattern = regexp.MustCompile(`(\+91[-\s]?|0)?[6-9]\d{9}`)
)

var knownSkills = []string{
	"React", "Node.js", "JavaScript", "Python", "MongoDB",
	"Express", "TypeScript", "Git", "Docker", "Go", "PostgreSQL",
}

var projectKeywords = []string{"project", "built", "developed", "created"}

// ParseFile implements CVParserService.
func (s *cvParserService) ParseFile(ctx context.Context, filePath string) (*CandidateProfile, error) {
	text, err := s.pdfParser.ExtractText(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to extract CV text: %w", err)
	}

	base := filepath.Base(filePath)
	profile := &CandidateProfile{
		Name:           strings.TrimSuffix(base, filepath.Ext(base)),
		Email:          emailPattern.FindString(text),
		Phone:          phonePattern.FindString(text),
		Skills:         extractSkills(text),
		Projects:       extractProjects(text),
		RawTextSnippet: snippet(text, 1000),
	}

	if s.gemini != nil {
		if skills, err := s.extractSkillsWithLLM(ctx, text); err != nil {
			log.Printf("⚠️  LLM skill extraction failed, keeping heuristics: %v\n", err)
		} else if len(skills) > 0 {
			profile.Skills = skills
		}
	}

	return profile, nil
}

func (s *cvParserService) extractSkillsWithLLM(ctx context.Context, text string) ([]string, error) {
	prompt := fmt.Sprintf(`You are an HR assistant extracting skills from a candidate CV.

CANDIDATE CV:
%s

Return ONLY a JSON array of the technical skills mentioned in the CV, for example:
["Python", "Docker", "PostgreSQL"]`, snippet(text, 20000))

	response, err := s.gemini.GenerateText(ctx, prompt, 0.2)
	if err != nil {
		return nil, err
	}

	var skills []string
	if err := json.Unmarshal([]byte(extractJSON(response)), &skills); err != nil {
		return nil, fmt.Errorf("failed to parse skill list: %w", err)
	}

	return skills, nil
}

func extractSkills(text string) []string {
	var found []string
	for _, skill := range knownSkills {
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(skill) + `\b`)
		if pattern.MatchString(text) {
			found = append(found, skill)
		}
	}
	return found
}

func extractProjects(text string) []string {
	var projects []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, keyword := range projectKeywords {
			if strings.Contains(lower, keyword) {
				projects = append(projects, line)
				break
			}
		}
		if len(projects) == 5 {
			break
		}
	}
	return projects
}

func snippet(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max]
}

// extractJSON pulls a JSON object or array out of text that may wrap it in
// markdown fences.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj > startObj && (startArr == -1 || startObj < startArr) {
		return text[startObj : endObj+1]
	}
	if startArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
