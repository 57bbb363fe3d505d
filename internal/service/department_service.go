package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-registry-api/internal/models"
	appErrors "github.com/noah-isme/univ-registry-api/pkg/errors"
)

type departmentRepository interface {
	List(ctx context.Context, filter models.DepartmentFilter) ([]models.Department, int, error)
	FindByID(ctx context.Context, id string) (*models.Department, error)
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id string) error
}

type departmentStudentLister interface {
	ListByDepartment(ctx context.Context, name string) ([]models.Student, error)
}

type departmentFacultyLister interface {
	ListByProgram(ctx context.Context, name string) ([]models.Faculty, error)
}

type departmentCourseLister interface {
	ListByProgram(ctx context.Context, name string) ([]models.Course, error)
}

// DepartmentRequest holds payload for creating or updating departments.
type DepartmentRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget" validate:"gte=0"`
	Status      string  `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

// DepartmentService handles department use-cases. Relations to
// students, faculty and courses are resolved at read time by
// case-insensitive name match, never by foreign key.
type DepartmentService struct {
	repo      departmentRepository
	students  departmentStudentLister
	faculty   departmentFacultyLister
	courses   departmentCourseLister
	activity  *ActivityService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService constructs the department service.
func NewDepartmentService(
	repo departmentRepository,
	students departmentStudentLister,
	faculty departmentFacultyLister,
	courses departmentCourseLister,
	activity *ActivityService,
	validate *validator.Validate,
	logger *zap.Logger,
) *DepartmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{
		repo:      repo,
		students:  students,
		faculty:   faculty,
		courses:   courses,
		activity:  activity,
		validator: validate,
		logger:    logger,
	}
}

// List returns departments and pagination metadata.
func (s *DepartmentService) List(ctx context.Context, filter models.DepartmentFilter) ([]models.Department, *models.Pagination, error) {
	departments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
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
	return departments, pagination, nil
}

// Get returns a department with its name-matched students, faculty and
// courses attached.
func (s *DepartmentService) Get(ctx context.Context, id string) (*models.DepartmentDetail, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}

	students, err := s.students.ListByDepartment(ctx, department.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department students")
	}
	faculty, err := s.faculty.ListByProgram(ctx, department.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department faculty")
	}
	courses, err := s.courses.ListByProgram(ctx, department.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department courses")
	}

	if students == nil {
		students = []models.Student{}
	}
	if faculty == nil {
		faculty = []models.Faculty{}
	}
	if courses == nil {
		courses = []models.Course{}
	}

	return &models.DepartmentDetail{
		Department: *department,
		Students:   students,
		Faculty:    faculty,
		Courses:    courses,
	}, nil
}

// Create adds a new department with a unique name.
func (s *DepartmentService) Create(ctx context.Context, req DepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}
	exists, err := s.repo.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "department name already used")
	}
	status := req.Status
	if status == "" {
		status = models.DepartmentStatusActive
	}
	department := &models.Department{
		Name:        req.Name,
		Description: req.Description,
		Budget:      req.Budget,
		Status:      status,
	}
	if err := s.repo.Create(ctx, department); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create department")
	}
	s.publish(ctx, models.EventDepartmentCreated, department)
	return department, nil
}

// Update modifies an existing department. Renaming changes which
// records the name-matched relations pick up.
func (s *DepartmentService) Update(ctx context.Context, id string, req DepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}
	exists, err := s.repo.ExistsByName(ctx, req.Name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "department name already used")
	}
	department.Name = req.Name
	department.Description = req.Description
	department.Budget = req.Budget
	if req.Status != "" {
		department.Status = req.Status
	}
	if err := s.repo.Update(ctx, department); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update department")
	}
	s.publish(ctx, models.EventDepartmentUpdated, department)
	return department, nil
}

// Delete removes a department permanently. Name-matched records keep
// their department string and simply stop resolving.
func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete department")
	}
	s.publish(ctx, models.EventDepartmentDeleted, department)
	return nil
}

func (s *DepartmentService) publish(ctx context.Context, event models.ActivityEvent, department *models.Department) {
	if s.activity == nil {
		return
	}
	payload := models.ActivityPayload{Entity: "department", Name: department.Name}
	if err := s.activity.Publish(ctx, event, payload); err != nil {
		s.logger.Warn("failed to publish department event", zap.String("event", string(event)), zap.Error(err))
	}
}
