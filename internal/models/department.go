package models

import "time"

// Department statuses.
const (
	DepartmentStatusActive   = "Active"
	DepartmentStatusInactive = "Inactive"
)

// Department represents an academic department. Relations to students,
// faculty and courses are by name-string match.
type Department struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Budget      float64   `db:"budget" json:"budget"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DepartmentDetail bundles a department with its name-matched relations.
type DepartmentDetail struct {
	Department
	Students []Student `json:"students"`
	Faculty  []Faculty `json:"faculty"`
	Courses  []Course  `json:"courses"`
}

// DepartmentFilter encapsulates search parameters for listing departments.
type DepartmentFilter struct {
	Search   string
	Status   string
	Page     int
	PageSize int
}
