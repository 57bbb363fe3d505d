package main

import (
	"context"
	"log"
	"time"

	"github.com/noah-isme/univ-registry-api/internal/models"
	"github.com/noah-isme/univ-registry-api/internal/repository"
	"github.com/noah-isme/univ-registry-api/pkg/config"
	"github.com/noah-isme/univ-registry-api/pkg/database"
	"github.com/noah-isme/univ-registry-api/pkg/logger"
)

// Inserts a known test student so a fresh database has something to
// show. Safe to re-run: the email check makes it a no-op when the
// record already exists.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	repo := repository.NewStudentRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const email = "test.student@example.edu"

	exists, err := repo.ExistsByEmail(ctx, email, "")
	if err != nil {
		logr.Sugar().Fatalw("failed to check test student", "error", err)
	}
	if exists {
		logr.Sugar().Infow("test student already present", "email", email)
		return
	}

	student := &models.Student{
		FirstName:    "Test",
		LastName:     "Student",
		Email:        email,
		Gender:       "F",
		Birthdate:    "2002-05-15",
		Phone:        "0917-000-0000",
		Department:   "Engineering",
		Program:      "Computer Science",
		AcademicYear: "SY 2024-2025",
		Status:       models.StudentStatusActive,
	}
	if err := repo.Create(ctx, student); err != nil {
		logr.Sugar().Fatalw("failed to seed test student", "error", err)
	}

	logr.Sugar().Infow("test student created", "id", student.ID, "email", email)
}
