package services

import (
	"context"
	"testing"
)

type fakePDFParser struct {
	text string
	err  error
}

func (f *fakePDFParser) ExtractText(filepath string) (string, error) {
	return f.text, f.err
}

const sampleCV = `Asha Patel
asha.patel@example.com | +91 9876543210

SKILLS
Go, PostgreSQL, Docker, React and TypeScript

EXPERIENCE
Developed a payment reconciliation service handling 1M events/day
Built an internal dashboard with React
Maintained CI pipelines
`

func TestParseFileExtractsContactDetails(t *testing.T) {
	parser := NewCVParserService(&fakePDFParser{text: sampleCV}, nil)

	profile, err := parser.ParseFile(context.Background(), "/tmp/asha_patel.pdf")
	if err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}

	if profile.Name != "asha_patel" {
		t.Errorf("name = %q, want %q", profile.Name, "asha_patel")
	}
	if profile.Email != "asha.patel@example.com" {
		t.Errorf("email = %q", profile.Email)
	}
	if profile.Phone == "" {
		t.Error("phone not extracted")
	}
}

func TestParseFileExtractsSkills(t *testing.T) {
	parser := NewCVParserService(&fakePDFParser{text: sampleCV}, nil)

	profile, err := parser.ParseFile(context.Background(), "/tmp/asha_patel.pdf")
	if err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}

	want := map[string]bool{"Go": true, "PostgreSQL": true, "Docker": true, "React": true, "TypeScript": true}
	for _, skill := range profile.Skills {
		delete(want, skill)
	}
	if len(want) > 0 {
		t.Errorf("skills %v missing from %v", keys(want), profile.Skills)
	}

	for _, skill := range profile.Skills {
		if skill == "MongoDB" {
			t.Error("extracted a skill the CV never mentions")
		}
	}
}

func TestParseFileExtractsProjectLines(t *testing.T) {
	parser := NewCVParserService(&fakePDFParser{text: sampleCV}, nil)

	profile, err := parser.ParseFile(context.Background(), "/tmp/asha_patel.pdf")
	if err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}

	if len(profile.Projects) != 2 {
		t.Fatalf("projects = %v, want the two developed/built lines", profile.Projects)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare array", `["Go", "Docker"]`, `["Go", "Docker"]`},
		{"fenced array", "```json\n[\"Go\"]\n```", `["Go"]`},
		{"object with prose", `Here you go: {"a": 1} thanks`, `{"a": 1}`},
		{"no json", "nothing here", "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSnippetTruncates(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'a'
	}

	if got := snippet(string(long), 1000); len(got) != 1000 {
		t.Errorf("snippet length = %d, want 1000", len(got))
	}
	if got := snippet("short", 1000); got != "short" {
		t.Errorf("snippet(%q) = %q", "short", got)
	}
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
