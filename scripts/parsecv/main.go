package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"logbiz/recruitment-api/internal/config"
	"logbiz/recruitment-api/internal/repositories"
	"logbiz/recruitment-api/internal/services"
)

// Parses a candidate CV into a structured profile JSON. With a candidate ID
// the profile is also embedded and indexed for assignment matching.
//
// Usage: parsecv <cv.pdf> [candidate-id]
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: parsecv <cv.pdf> [candidate-id]")
		os.Exit(1)
	}

	cvPath := os.Args[1]
	cfg := config.Load()
	ctx := context.Background()

	var gemini services.GeminiService
	if cfg.Gemini.APIKey != "" {
		var err error
		gemini, err = services.NewGeminiService(cfg.Gemini.APIKey)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini: %v", err)
		}
	} else {
		log.Println("⚠️  GEMINI_API_KEY not set, using keyword heuristics only")
	}

	parser := services.NewCVParserService(services.NewPDFParserService(), gemini)

	log.Printf("📄 Parsing %s...\n", cvPath)
	profile, err := parser.ParseFile(ctx, cvPath)
	if err != nil {
		log.Fatalf("❌ Failed to parse CV: %v", err)
	}

	log.Printf("   Name: %s", profile.Name)
	log.Printf("   Email: %s", profile.Email)
	log.Printf("   Phone: %s", profile.Phone)
	log.Printf("   Skills: %s", strings.Join(profile.Skills, ", "))
	log.Printf("   Projects found: %d", len(profile.Projects))

	base := filepath.Base(cvPath)
	outPath := strings.TrimSuffix(base, filepath.Ext(base)) + "_profile.json"

	raw, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		log.Fatalf("❌ Failed to encode profile: %v", err)
	}

	if err := os.WriteFile(outPath, raw, 0o644); err != nil {
		log.Fatalf("❌ Failed to write profile: %v", err)
	}
	log.Printf("✅ Profile written to %s\n", outPath)

	if len(os.Args) < 3 {
		return
	}

	candidateID, err := uuid.Parse(os.Args[2])
	if err != nil {
		log.Fatalf("❌ Invalid candidate-id: %v", err)
	}

	if gemini == nil {
		log.Fatal("❌ Indexing requires GEMINI_API_KEY")
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	matcher := services.NewCandidateMatcherService(gemini, qdrantService, repositories.NewUserRepository(db))

	log.Printf("🔄 Indexing candidate %s...\n", candidateID)
	if err := matcher.IndexCandidate(ctx, candidateID, profile); err != nil {
		log.Fatalf("❌ Failed to index candidate: %v", err)
	}

	log.Println("✅ Candidate indexed for assignment matching")
}
