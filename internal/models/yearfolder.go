package models

// YearFolders describes the folder sets derived from baseline, custom
// and archived year labels.
type YearFolders struct {
	Visible  []string `json:"visible"`
	Archived []string `json:"archived"`
	All      []string `json:"all"`
}

// AddYearRequest carries a bare year range, e.g. "2025-2026".
type AddYearRequest struct {
	Year string `json:"year" validate:"required"`
}

// YearActionRequest archives or restores a folder label. Confirm must
// match the action's confirmation phrase exactly.
type YearActionRequest struct {
	Label   string `json:"label" validate:"required"`
	Confirm string `json:"confirm" validate:"required"`
}
