package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/univ-registry-api/internal/models"
)

// CourseRepository manages persistence for course records.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = "id, name, code, program, instructor, credits, semester, status, deleted, created_at, updated_at"

// List returns non-deleted courses matching the filters.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	conditions := []string{"deleted = false"}
	args := []interface{}{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(code) LIKE $%d OR LOWER(instructor) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(status) = LOWER($%d)", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Program != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(TRIM(program)) = LOWER(TRIM($%d))", len(args)+1))
		args = append(args, filter.Program)
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(semester) = LOWER($%d)", len(args)+1))
		args = append(args, filter.Semester)
	}

	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM courses WHERE %s ORDER BY name ASC LIMIT %d OFFSET %d", courseColumns, where, size, offset)

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM courses WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// ListByProgram returns non-deleted courses owned by the named department.
func (r *CourseRepository) ListByProgram(ctx context.Context, name string) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE deleted = false AND LOWER(TRIM(program)) = LOWER(TRIM($1)) ORDER BY name ASC", courseColumns)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, name); err != nil {
		return nil, fmt.Errorf("list courses by program: %w", err)
	}
	return courses, nil
}

// FindByID fetches a non-deleted course by ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE id = $1 AND deleted = false", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// ExistsByCode checks if a course with given code exists optionally excluding an ID.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM courses WHERE LOWER(code) = LOWER($1) AND deleted = false"
	args := []interface{}{code}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course code: %w", err)
	}
	return true, nil
}

// Create inserts a new course record.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, name, code, program, instructor, credits, semester, status, deleted, created_at, updated_at)
        VALUES (:id, :name, :code, :program, :instructor, :credits, :semester, :status, :deleted, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update modifies an existing course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET name = :name, code = :code, program = :program, instructor = :instructor, credits = :credits, semester = :semester, status = :status, updated_at = :updated_at WHERE id = :id AND deleted = false`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// SoftDelete flags a course as deleted without removing the row.
func (r *CourseRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE courses SET deleted = true, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("soft delete course: %w", err)
	}
	return nil
}
