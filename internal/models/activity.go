package models

import "time"

// ActivityEvent identifies a domain change fanned out through the
// activity dispatcher. Exactly one handler is registered per event.
type ActivityEvent string

const (
	EventStudentCreated    ActivityEvent = "student.created"
	EventStudentUpdated    ActivityEvent = "student.updated"
	EventStudentDeleted    ActivityEvent = "student.deleted"
	EventFacultyCreated    ActivityEvent = "faculty.created"
	EventFacultyUpdated    ActivityEvent = "faculty.updated"
	EventFacultyDeleted    ActivityEvent = "faculty.deleted"
	EventCourseCreated     ActivityEvent = "course.created"
	EventCourseUpdated     ActivityEvent = "course.updated"
	EventCourseDeleted     ActivityEvent = "course.deleted"
	EventDepartmentCreated ActivityEvent = "department.created"
	EventDepartmentUpdated ActivityEvent = "department.updated"
	EventDepartmentDeleted ActivityEvent = "department.deleted"
	EventYearArchived      ActivityEvent = "year.archived"
	EventYearRestored      ActivityEvent = "year.restored"
)

// ActivityPayload carries the subject of an event for description building.
type ActivityPayload struct {
	Entity string `json:"entity"`
	Name   string `json:"name"`
	Detail string `json:"detail,omitempty"`
}

// ActivityEntry is one record in the capped activity feed, newest first.
type ActivityEntry struct {
	ID          string        `json:"id"`
	Type        ActivityEvent `json:"type"`
	Description string        `json:"description"`
	Entity      string        `json:"entity"`
	Timestamp   time.Time     `json:"timestamp"`
}

// NotificationKind classifies a transient toast notification.
type NotificationKind string

const (
	NotifyAdd    NotificationKind = "add"
	NotifyEdit   NotificationKind = "edit"
	NotifyDelete NotificationKind = "delete"
	NotifyInfo   NotificationKind = "info"
)
