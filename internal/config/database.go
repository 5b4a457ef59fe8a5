package config

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"logbiz/recruitment-api/internal/models"
)

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := cfg.GetDatabaseDSN()

	logLevel := logger.Silent
	if cfg.Server.Env == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("✅ Database connected successfully")

	// Auto migrate
	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Assignment{},
		&models.CandidateAssignment{},
		&models.Submission{},
		&models.Review{},
		&models.Certificate{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Partial unique indexes that AutoMigrate cannot express. These back the
	// lifecycle invariants: concurrent inserts for the same pair must collapse
	// to exactly one success.
	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_candidate_assignments_active_pair
			ON candidate_assignments (candidate_id, assignment_id)
			WHERE status IN ('assigned', 'in_progress')`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_certificates_active_pair
			ON certificates (candidate_id, assignment_id)
			WHERE is_active`,
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database migration completed")

	return db, nil
}
