package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"logbiz/recruitment-api/internal/config"
	"logbiz/recruitment-api/internal/handlers"
	"logbiz/recruitment-api/internal/middlewares"
	"logbiz/recruitment-api/internal/models"
	"logbiz/recruitment-api/internal/repositories"
	"logbiz/recruitment-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	assignmentRepo := repositories.NewAssignmentRepository(db)
	caRepo := repositories.NewCandidateAssignmentRepository(db)
	submissionRepo := repositories.NewSubmissionRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	certRepo := repositories.NewCertificateRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize object storage
	storageService, err := services.NewStorageService(cfg.Storage)
	if err != nil {
		log.Fatalf("❌ Failed to initialize object storage: %v", err)
	}
	log.Println("✅ Object storage initialized successfully")

	// Initialize event publisher. Without a broker URL events are dropped and
	// the API still works.
	var events services.EventPublisher
	if cfg.AMQP.URL != "" {
		events, err = services.NewEventPublisher(cfg.AMQP)
		if err != nil {
			log.Fatalf("❌ Failed to initialize event publisher: %v", err)
		}
		log.Println("✅ Event publisher initialized successfully")
	} else {
		events = services.NewNoopPublisher()
		log.Println("⚠️  AMQP_URL not set, lifecycle events disabled")
	}
	defer events.Close()

	// Candidate matching is optional; it needs both Gemini and Qdrant.
	var matcher services.CandidateMatcherService
	if cfg.Gemini.APIKey != "" {
		geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
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
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}

		matcher = services.NewCandidateMatcherService(geminiService, qdrantService, userRepo)
		log.Println("✅ Candidate matching initialized successfully")
	} else {
		log.Println("⚠️  GEMINI_API_KEY not set, candidate matching disabled")
	}

	// Initialize domain services
	lifecycleService := services.NewLifecycleService(
		userRepo,
		assignmentRepo,
		caRepo,
		submissionRepo,
		reviewRepo,
		events,
	)
	certificateService := services.NewCertificateService(
		caRepo,
		reviewRepo,
		certRepo,
		services.NewCertificateRenderer(),
		storageService,
		events,
	)
	log.Println("✅ Services initialized successfully")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWT)
	projectHandler := handlers.NewProjectHandler(projectRepo)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentRepo, projectRepo, caRepo, matcher)
	candidateHandler := handlers.NewCandidateHandler(userRepo, caRepo, submissionRepo, lifecycleService, storageService)
	reviewHandler := handlers.NewReviewHandler(submissionRepo, reviewRepo, lifecycleService)
	certificateHandler := handlers.NewCertificateHandler(certRepo, certificateService)
	reportHandler := handlers.NewReportHandler(reportRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Recruitment Administration API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Public endpoints
	api.Post("/auth/register", authHandler.HandleRegister)
	api.Post("/auth/login", authHandler.HandleLogin)
	api.Get("/certificates/verify/:number", certificateHandler.HandleVerify)

	// Everything below requires a valid token
	authed := api.Group("", middlewares.AuthMiddleware(cfg.JWT.Secret, userRepo))
	adminOnly := middlewares.RequireRoles(models.RoleAdmin)
	staffOnly := middlewares.RequireRoles(models.RoleAdmin, models.RoleReviewer)

	authed.Get("/auth/me", authHandler.HandleMe)

	// Projects
	authed.Post("/projects", adminOnly, projectHandler.HandleCreate)
	authed.Get("/projects", projectHandler.HandleList)
	authed.Get("/projects/:id", projectHandler.HandleGet)
	authed.Patch("/projects/:id", adminOnly, projectHandler.HandleUpdate)
	authed.Delete("/projects/:id", adminOnly, projectHandler.HandleDelete)

	// Assignments
	authed.Post("/assignments", adminOnly, assignmentHandler.HandleCreate)
	authed.Get("/assignments", assignmentHandler.HandleList)
	authed.Get("/assignments/skillsets", assignmentHandler.HandleSkillsets)
	authed.Get("/assignments/:id", assignmentHandler.HandleGet)
	authed.Patch("/assignments/:id", adminOnly, assignmentHandler.HandleUpdate)
	authed.Delete("/assignments/:id", adminOnly, assignmentHandler.HandleDelete)
	authed.Get("/assignments/:id/stats", staffOnly, assignmentHandler.HandleStats)
	authed.Get("/assignments/:id/matches", staffOnly, assignmentHandler.HandleMatches)

	// Candidates and their assignments
	authed.Get("/candidates", staffOnly, candidateHandler.HandleListCandidates)
	authed.Post("/candidates/:candidateId/assignments/:assignmentId", adminOnly, candidateHandler.HandleAssign)
	authed.Get("/candidate-assignments", candidateHandler.HandleListAssignments)
	authed.Get("/candidate-assignments/:id", candidateHandler.HandleGetAssignment)
	authed.Patch("/candidate-assignments/:id/status", candidateHandler.HandleUpdateStatus)
	authed.Get("/candidate-assignments/:id/submissions", candidateHandler.HandleListSubmissions)
	authed.Post("/candidate-assignments/:id/submissions", candidateHandler.HandleSubmit)

	// Reviews
	authed.Post("/submissions/:id/reviews", staffOnly, reviewHandler.HandleCreate)
	authed.Get("/submissions/:id/reviews", reviewHandler.HandleListBySubmission)
	authed.Get("/reviews/pending", staffOnly, reviewHandler.HandlePending)
	authed.Get("/reviews/stats", staffOnly, reviewHandler.HandleStats)
	authed.Patch("/reviews/:id", staffOnly, reviewHandler.HandleUpdate)

	// Certificates
	authed.Post("/candidate-assignments/:id/certificate", adminOnly, certificateHandler.HandleIssue)
	authed.Get("/certificates", certificateHandler.HandleList)
	authed.Get("/certificates/:id", certificateHandler.HandleGet)
	authed.Delete("/certificates/:id", adminOnly, certificateHandler.HandleRevoke)

	// Reports
	authed.Get("/reports/dashboard", staffOnly, reportHandler.HandleDashboard)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Recruitment Administration API",
			"version": "1.0.0",
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
