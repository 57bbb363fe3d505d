package models

import "time"

// Course represents a program offering. Program holds the owning
// department name (string match, no foreign key).
type Course struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Code       string    `db:"code" json:"code"`
	Program    string    `db:"program" json:"program"`
	Instructor string    `db:"instructor" json:"instructor"`
	Credits    int       `db:"credits" json:"credits"`
	Semester   string    `db:"semester" json:"semester"`
	Status     string    `db:"status" json:"status"`
	Deleted    bool      `db:"deleted" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter encapsulates search parameters for listing courses.
type CourseFilter struct {
	Search   string
	Status   string
	Program  string
	Semester string
	Page     int
	PageSize int
}
