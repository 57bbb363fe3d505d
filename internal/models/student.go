package models

import "time"

// Student statuses as entered through the admin forms.
const (
	StudentStatusActive    = "Active"
	StudentStatusInactive  = "Inactive"
	StudentStatusGraduated = "Graduated"
	StudentStatusSuspended = "Suspended"
)

// Student represents a learner registered at the university.
// Department and Program are name strings loosely coupled to the
// Department and Course tables; matching happens case-insensitively in
// the classify package, never in storage.
type Student struct {
	ID           string    `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Email        string    `db:"email" json:"email"`
	Gender       string    `db:"gender" json:"gender"`
	Birthdate    string    `db:"birthdate" json:"birthdate"`
	Phone        string    `db:"phone" json:"phone"`
	Department   string    `db:"department" json:"department"`
	Program      string    `db:"program" json:"program"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	Status       string    `db:"status" json:"status"`
	Deleted      bool      `db:"deleted" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search       string
	Status       string
	AcademicYear string
	Department   string
	Program      string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
