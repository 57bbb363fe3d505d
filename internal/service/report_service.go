package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/univ-registry-api/internal/classify"
	"github.com/noah-isme/univ-registry-api/internal/models"
	appErrors "github.com/noah-isme/univ-registry-api/pkg/errors"
	"github.com/noah-isme/univ-registry-api/pkg/export"
)

// Roster export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type reportStudentSource interface {
	ListAll(ctx context.Context) ([]models.Student, error)
}

type reportFacultySource interface {
	ListAll(ctx context.Context) ([]models.Faculty, error)
}

type reportCourseSource interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type knownYearSource interface {
	KnownYears(ctx context.Context, includeArchived bool) ([]string, error)
}

// RosterExport is a rendered export ready for download.
type RosterExport struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ReportService computes year-bucketed views and aggregate counts over
// the full record sets, and renders downloadable rosters.
type ReportService struct {
	students reportStudentSource
	faculty  reportFacultySource
	courses  reportCourseSource
	years    knownYearSource
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(
	students reportStudentSource,
	faculty reportFacultySource,
	courses reportCourseSource,
	years knownYearSource,
	csvExporter *export.CSVExporter,
	pdfExporter *export.PDFExporter,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		students: students,
		faculty:  faculty,
		courses:  courses,
		years:    years,
		csv:      csvExporter,
		pdf:      pdfExporter,
		logger:   logger,
	}
}

// StudentsByYear groups students as year -> department -> records.
// Records with unrecognized year labels are excluded, not errored.
func (s *ReportService) StudentsByYear(ctx context.Context, includeArchived bool) (map[string]map[string][]models.Student, error) {
	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	known, err := s.knownSet(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	grouped := classify.GroupByYearAndKey(students, known,
		func(st models.Student) string { return st.AcademicYear },
		func(st models.Student) string { return st.Department },
	)
	return grouped, nil
}

// FacultyByYear groups faculty as year -> effective group key -> records.
// The group key is program when set, department otherwise.
func (s *ReportService) FacultyByYear(ctx context.Context, includeArchived bool) (map[string]map[string][]models.Faculty, error) {
	faculty, err := s.faculty.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	known, err := s.knownSet(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	grouped := classify.GroupByYearAndKey(faculty, known,
		func(f models.Faculty) string { return f.AcademicYear },
		classify.EffectiveGroupKey,
	)
	return grouped, nil
}

// FacultyPositionCount counts faculty holding a position in a program
// for the given year. The year input accepts any label that normalizes.
func (s *ReportService) FacultyPositionCount(ctx context.Context, year, position, program string) (int, error) {
	normalized := classify.NormalizeYearLabel(year)
	if normalized == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "unrecognized academic year")
	}
	faculty, err := s.faculty.ListAll(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	return classify.CountFacultyByPositionAndProgram(faculty, normalized, position, program), nil
}

// DeanCount counts leadership faculty assigned to a program in the
// given year, with the dean assignment chain applied.
func (s *ReportService) DeanCount(ctx context.Context, year, program string) (int, error) {
	normalized := classify.NormalizeYearLabel(year)
	if normalized == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "unrecognized academic year")
	}
	faculty, err := s.faculty.ListAll(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	return classify.CountDeansByProgram(faculty, normalized, program), nil
}

// CourseStudentCount counts students matched to the course by program
// name, scoped to the course's owning program when one is set.
func (s *ReportService) CourseStudentCount(ctx context.Context, courseID string) (int, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	students, err := s.students.ListAll(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	return classify.CountStudentsForCourse(students, *course), nil
}

// ProgramFacultyCount counts active teaching faculty, deans included,
// effectively serving the program.
func (s *ReportService) ProgramFacultyCount(ctx context.Context, programName string) (int, error) {
	faculty, err := s.faculty.ListAll(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	return classify.CountFacultyForProgram(faculty, programName), nil
}

// ExportStudentRoster renders the students of one academic year as a
// downloadable CSV or PDF roster.
func (s *ReportService) ExportStudentRoster(ctx context.Context, year, format string) (*RosterExport, error) {
	normalized := classify.NormalizeYearLabel(year)
	if normalized == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unrecognized academic year")
	}

	grouped, err := s.StudentsByYear(ctx, true)
	if err != nil {
		return nil, err
	}

	roster := export.Roster{
		Headers: []string{"Name", "Email", "Department", "Program", "Status"},
	}
	for _, records := range grouped[normalized] {
		for _, st := range records {
			roster.Rows = append(roster.Rows, map[string]string{
				"Name":       st.FirstName + " " + st.LastName,
				"Email":      st.Email,
				"Department": st.Department,
				"Program":    st.Program,
				"Status":     st.Status,
			})
		}
	}

	return s.render(roster, "Student Roster "+normalized, "students", normalized, format)
}

// ExportFacultyRoster renders the faculty of one academic year as a
// downloadable CSV or PDF roster.
func (s *ReportService) ExportFacultyRoster(ctx context.Context, year, format string) (*RosterExport, error) {
	normalized := classify.NormalizeYearLabel(year)
	if normalized == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unrecognized academic year")
	}

	grouped, err := s.FacultyByYear(ctx, true)
	if err != nil {
		return nil, err
	}

	roster := export.Roster{
		Headers: []string{"Name", "Department", "Position", "Assigned Program", "Status"},
	}
	for _, records := range grouped[normalized] {
		for _, f := range records {
			roster.Rows = append(roster.Rows, map[string]string{
				"Name":             f.FirstName + " " + f.LastName,
				"Department":       f.Department,
				"Position":         f.Program,
				"Assigned Program": classify.ResolvedAssignedProgram(f),
				"Status":           f.Status,
			})
		}
	}

	return s.render(roster, "Faculty Roster "+normalized, "faculty", normalized, format)
}

// YearSummary reports per-year record totals for visible folders.
func (s *ReportService) YearSummary(ctx context.Context, includeArchived bool) (map[string]map[string]int, error) {
	studentsByYear, err := s.StudentsByYear(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	facultyByYear, err := s.FacultyByYear(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	years, err := s.years.KnownYears(ctx, includeArchived)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load year folders")
	}

	summary := make(map[string]map[string]int, len(years))
	for _, year := range years {
		studentTotal := 0
		for _, records := range studentsByYear[year] {
			studentTotal += len(records)
		}
		facultyTotal := 0
		for _, records := range facultyByYear[year] {
			facultyTotal += len(records)
		}
		summary[year] = map[string]int{
			"students": studentTotal,
			"faculty":  facultyTotal,
		}
	}
	return summary, nil
}

func (s *ReportService) render(roster export.Roster, title, entity, year, format string) (*RosterExport, error) {
	slug := strings.ReplaceAll(strings.ToLower(year), " ", "-")
	switch strings.ToLower(format) {
	case ExportFormatCSV, "":
		content, err := s.csv.Render(roster)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv roster")
		}
		return &RosterExport{
			Filename:    fmt.Sprintf("%s-%s.csv", entity, slug),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case ExportFormatPDF:
		content, err := s.pdf.Render(roster, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf roster")
		}
		return &RosterExport{
			Filename:    fmt.Sprintf("%s-%s.pdf", entity, slug),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf, got "+strconv.Quote(format))
	}
}

// knownSet builds the lookup from the folder service alone; archived
// years drop out when includeArchived is false.
func (s *ReportService) knownSet(ctx context.Context, includeArchived bool) (map[string]struct{}, error) {
	years, err := s.years.KnownYears(ctx, includeArchived)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load year folders")
	}
	set := make(map[string]struct{}, len(years))
	for _, y := range years {
		set[strings.ToLower(strings.TrimSpace(y))] = struct{}{}
	}
	return set, nil
}
