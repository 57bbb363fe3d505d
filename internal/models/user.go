package models

import "time"

// UserPosition represents the login roles available at registration.
type UserPosition string

const (
	PositionAdmin   UserPosition = "System Administrator"
	PositionStudent UserPosition = "Student"
	PositionFaculty UserPosition = "Faculty"
)

// User represents an application login stored in the users table.
// EmployeeID is auto-generated for System Administrators in the form
// EMP-<year>-<3-digit-seq>. ProfileCompleted is recomputed from
// required-field presence on every profile write.
type User struct {
	ID               string       `db:"id" json:"id"`
	Name             string       `db:"name" json:"name"`
	Email            string       `db:"email" json:"email"`
	Username         string       `db:"username" json:"username"`
	PasswordHash     string       `db:"password_hash" json:"-"`
	Position         UserPosition `db:"position" json:"position"`
	Phone            string       `db:"phone" json:"phone"`
	Address          string       `db:"address" json:"address"`
	Birthdate        string       `db:"birthdate" json:"birthdate"`
	Gender           string       `db:"gender" json:"gender"`
	ProfileImage     string       `db:"profile_image" json:"profile_image,omitempty"`
	ProfileImageURL  string       `db:"-" json:"profile_image_url,omitempty"`
	EmployeeID       string       `db:"employee_id" json:"employee_id,omitempty"`
	ProfileCompleted bool         `db:"profile_completed" json:"profile_completed"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
