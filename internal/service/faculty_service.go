package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-registry-api/internal/models"
	appErrors "github.com/noah-isme/univ-registry-api/pkg/errors"
)

type facultyRepository interface {
	List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error)
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	Create(ctx context.Context, faculty *models.Faculty) error
	Update(ctx context.Context, faculty *models.Faculty) error
	Delete(ctx context.Context, id string) error
}

// FacultyRequest holds payload for creating or updating faculty records.
type FacultyRequest struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"omitempty,email"`
	Gender          string `json:"gender"`
	Birthdate       string `json:"birthdate"`
	Phone           string `json:"phone"`
	Department      string `json:"department" validate:"required"`
	Program         string `json:"program"`
	AssignedProgram string `json:"assigned_program"`
	DeanDepartment  string `json:"dean_department"`
	AcademicYear    string `json:"academic_year"`
	Status          string `json:"status"`
}

// FacultyService handles faculty use-cases.
type FacultyService struct {
	repo      facultyRepository
	activity  *ActivityService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFacultyService constructs the faculty service.
func NewFacultyService(repo facultyRepository, activity *ActivityService, validate *validator.Validate, logger *zap.Logger) *FacultyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyService{repo: repo, activity: activity, validator: validate, logger: logger}
}

// List returns faculty and pagination metadata, sorted by last name.
func (s *FacultyService) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, *models.Pagination, error) {
	faculty, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return faculty, pagination, nil
}

// Get returns a single faculty record.
func (s *FacultyService) Get(ctx context.Context, id string) (*models.Faculty, error) {
	faculty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	return faculty, nil
}

// Create adds a new faculty record. Email uniqueness is enforced only
// when an email is present.
func (s *FacultyService) Create(ctx context.Context, req FacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}
	if req.Email != "" {
		exists, err := s.repo.ExistsByEmail(ctx, req.Email, "")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already used")
		}
	}
	faculty := s.fromRequest(req)
	if err := s.repo.Create(ctx, faculty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create faculty")
	}
	s.publish(ctx, models.EventFacultyCreated, faculty)
	return faculty, nil
}

// Update modifies an existing faculty record.
func (s *FacultyService) Update(ctx context.Context, id string, req FacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}
	faculty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	if req.Email != "" {
		exists, err := s.repo.ExistsByEmail(ctx, req.Email, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already used")
		}
	}
	updated := s.fromRequest(req)
	updated.ID = faculty.ID
	updated.CreatedAt = faculty.CreatedAt
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update faculty")
	}
	s.publish(ctx, models.EventFacultyUpdated, updated)
	return updated, nil
}

// Delete removes a faculty record permanently.
func (s *FacultyService) Delete(ctx context.Context, id string) error {
	faculty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete faculty")
	}
	s.publish(ctx, models.EventFacultyDeleted, faculty)
	return nil
}

// fromRequest maps the payload keeping the dean redundancy: a Deans
// record stores its assigned program in dean_department as well.
func (s *FacultyService) fromRequest(req FacultyRequest) *models.Faculty {
	status := req.Status
	if status == "" {
		status = "Active"
	}
	deanDept := req.DeanDepartment
	if strings.EqualFold(strings.TrimSpace(req.Program), models.FacultyRoleDeans) && deanDept == "" {
		deanDept = req.AssignedProgram
	}
	return &models.Faculty{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Gender:          req.Gender,
		Birthdate:       req.Birthdate,
		Phone:           req.Phone,
		Department:      req.Department,
		Program:         req.Program,
		AssignedProgram: req.AssignedProgram,
		DeanDepartment:  deanDept,
		AcademicYear:    req.AcademicYear,
		Status:          status,
	}
}

func (s *FacultyService) publish(ctx context.Context, event models.ActivityEvent, faculty *models.Faculty) {
	if s.activity == nil {
		return
	}
	payload := models.ActivityPayload{Entity: "faculty", Name: faculty.FirstName + " " + faculty.LastName}
	if err := s.activity.Publish(ctx, event, payload); err != nil {
		s.logger.Warn("failed to publish faculty event", zap.String("event", string(event)), zap.Error(err))
	}
}
