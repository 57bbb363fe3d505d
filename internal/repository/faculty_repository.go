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

// FacultyRepository manages persistence for faculty records.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository constructs a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

const facultyColumns = "id, first_name, last_name, email, gender, birthdate, phone, department, program, assigned_program, dean_department, academic_year, status, created_at, updated_at"

// List returns faculty matching the filters, sorted by last name.
func (r *FacultyRepository) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(status) = LOWER($%d)", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(TRIM(department)) = LOWER(TRIM($%d))", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.AcademicYear != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(TRIM(academic_year)) = LOWER(TRIM($%d))", len(args)+1))
		args = append(args, filter.AcademicYear)
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

	query := fmt.Sprintf("SELECT %s FROM faculty WHERE %s ORDER BY last_name ASC LIMIT %d OFFSET %d", facultyColumns, where, size, offset)

	var faculty []models.Faculty
	if err := r.db.SelectContext(ctx, &faculty, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list faculty: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM faculty WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count faculty: %w", err)
	}
	return faculty, total, nil
}

// ListAll returns every faculty record, used by classification reports.
func (r *FacultyRepository) ListAll(ctx context.Context) ([]models.Faculty, error) {
	query := fmt.Sprintf("SELECT %s FROM faculty ORDER BY last_name ASC", facultyColumns)
	var faculty []models.Faculty
	if err := r.db.SelectContext(ctx, &faculty, query); err != nil {
		return nil, fmt.Errorf("list all faculty: %w", err)
	}
	return faculty, nil
}

// ListByProgram returns faculty serving the named academic program,
// either through assigned_program or the dean assignment chain.
func (r *FacultyRepository) ListByProgram(ctx context.Context, name string) ([]models.Faculty, error) {
	query := fmt.Sprintf(`SELECT %s FROM faculty
        WHERE LOWER(TRIM(assigned_program)) = LOWER(TRIM($1)) OR LOWER(TRIM(dean_department)) = LOWER(TRIM($1))
        ORDER BY last_name ASC`, facultyColumns)
	var faculty []models.Faculty
	if err := r.db.SelectContext(ctx, &faculty, query, name); err != nil {
		return nil, fmt.Errorf("list faculty by program: %w", err)
	}
	return faculty, nil
}

// FindByID fetches a faculty record by ID.
func (r *FacultyRepository) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	query := fmt.Sprintf("SELECT %s FROM faculty WHERE id = $1", facultyColumns)
	var faculty models.Faculty
	if err := r.db.GetContext(ctx, &faculty, query, id); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// ExistsByEmail checks if a faculty with given email exists optionally excluding an ID.
func (r *FacultyRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM faculty WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check faculty email: %w", err)
	}
	return true, nil
}

// Create inserts a new faculty record.
func (r *FacultyRepository) Create(ctx context.Context, faculty *models.Faculty) error {
	if faculty.ID == "" {
		faculty.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if faculty.CreatedAt.IsZero() {
		faculty.CreatedAt = now
	}
	faculty.UpdatedAt = now
	const query = `INSERT INTO faculty (id, first_name, last_name, email, gender, birthdate, phone, department, program, assigned_program, dean_department, academic_year, status, created_at, updated_at)
        VALUES (:id, :first_name, :last_name, :email, :gender, :birthdate, :phone, :department, :program, :assigned_program, :dean_department, :academic_year, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, faculty); err != nil {
		return fmt.Errorf("create faculty: %w", err)
	}
	return nil
}

// Update modifies an existing faculty record.
func (r *FacultyRepository) Update(ctx context.Context, faculty *models.Faculty) error {
	faculty.UpdatedAt = time.Now().UTC()
	const query = `UPDATE faculty SET first_name = :first_name, last_name = :last_name, email = :email, gender = :gender, birthdate = :birthdate, phone = :phone, department = :department, program = :program, assigned_program = :assigned_program, dean_department = :dean_department, academic_year = :academic_year, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, faculty); err != nil {
		return fmt.Errorf("update faculty: %w", err)
	}
	return nil
}

// Delete removes a faculty record permanently.
func (r *FacultyRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM faculty WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete faculty: %w", err)
	}
	return nil
}
