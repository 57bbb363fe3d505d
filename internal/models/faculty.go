package models

import "time"

// Fixed faculty classification buckets. Every faculty record belongs to
// exactly one of these departments.
const (
	FacultyDeptLeadership      = "Major Leadership / Administrative Positions"
	FacultyDeptTeaching        = "Teaching / Instructional Positions"
	FacultyDeptAcademicSupport = "Academic Support Positions"
	FacultyDeptNonTeaching     = "Administrative Support / Non-Teaching Staff"
)

// FacultyRoleDeans marks the dean role within the leadership bucket. A
// dean's effective program for counting is DeanDepartment, not Program.
const FacultyRoleDeans = "Deans"

// Faculty represents an employee of the university. Program holds the
// position/title within the department bucket; AssignedProgram holds the
// academic program a teaching-position faculty is assigned to;
// DeanDepartment duplicates the assigned program when the role is Deans.
type Faculty struct {
	ID              string    `db:"id" json:"id"`
	FirstName       string    `db:"first_name" json:"first_name"`
	LastName        string    `db:"last_name" json:"last_name"`
	Email           string    `db:"email" json:"email"`
	Gender          string    `db:"gender" json:"gender"`
	Birthdate       string    `db:"birthdate" json:"birthdate"`
	Phone           string    `db:"phone" json:"phone"`
	Department      string    `db:"department" json:"department"`
	Program         string    `db:"program" json:"program"`
	AssignedProgram string    `db:"assigned_program" json:"assigned_program"`
	DeanDepartment  string    `db:"dean_department" json:"dean_department"`
	AcademicYear    string    `db:"academic_year" json:"academic_year"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// FacultyFilter encapsulates search parameters for listing faculty.
type FacultyFilter struct {
	Search       string
	Status       string
	Department   string
	AcademicYear string
	Page         int
	PageSize     int
}
