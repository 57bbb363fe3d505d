package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-registry-api/internal/models"
	"github.com/noah-isme/univ-registry-api/pkg/export"
)

type mockReportStudents struct {
	students []models.Student
}

func (m *mockReportStudents) ListAll(ctx context.Context) ([]models.Student, error) {
	return m.students, nil
}

type mockReportFaculty struct {
	faculty []models.Faculty
}

func (m *mockReportFaculty) ListAll(ctx context.Context) ([]models.Faculty, error) {
	return m.faculty, nil
}

type mockReportCourses struct {
	courses map[string]models.Course
}

func (m *mockReportCourses) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func newTestReportService(students []models.Student, faculty []models.Faculty, courses map[string]models.Course) (*ReportService, *YearFolderService) {
	years := NewYearFolderService(newMemStateStore(), nil, zap.NewNop())
	svc := NewReportService(
		&mockReportStudents{students: students},
		&mockReportFaculty{faculty: faculty},
		&mockReportCourses{courses: courses},
		years,
		export.NewCSVExporter(),
		export.NewPDFExporter(),
		zap.NewNop(),
	)
	return svc, years
}

func TestStudentsByYearNormalizesAndGroups(t *testing.T) {
	students := []models.Student{
		{ID: "s1", FirstName: "Alice", Department: "Engineering", AcademicYear: "2024"},
		{ID: "s2", FirstName: "Bob", Department: "Engineering", AcademicYear: "sy 2024-2025"},
		{ID: "s3", FirstName: "Cara", Department: "Nursing", AcademicYear: "SY 2023-2024"},
		{ID: "s4", FirstName: "Dan", Department: "Nursing", AcademicYear: "graduated"},
	}
	svc, _ := newTestReportService(students, nil, nil)

	grouped, err := svc.StudentsByYear(context.Background(), true)
	require.NoError(t, err)

	require.Len(t, grouped["SY 2024-2025"]["Engineering"], 2)
	require.Len(t, grouped["SY 2023-2024"]["Nursing"], 1)
	// Unrecognized labels are skipped, not surfaced as errors.
	total := 0
	for _, byKey := range grouped {
		for _, records := range byKey {
			total += len(records)
		}
	}
	assert.Equal(t, 3, total)
}

func TestStudentsByYearExcludesArchivedFolders(t *testing.T) {
	students := []models.Student{
		{ID: "s1", Department: "Engineering", AcademicYear: "SY 2020-2021"},
		{ID: "s2", Department: "Engineering", AcademicYear: "SY 2024-2025"},
	}
	svc, years := newTestReportService(students, nil, nil)
	require.NoError(t, years.Archive(context.Background(), "SY 2020-2021", ConfirmArchive))

	visibleOnly, err := svc.StudentsByYear(context.Background(), false)
	require.NoError(t, err)
	assert.NotContains(t, visibleOnly, "SY 2020-2021")
	assert.Contains(t, visibleOnly, "SY 2024-2025")

	withArchived, err := svc.StudentsByYear(context.Background(), true)
	require.NoError(t, err)
	assert.Contains(t, withArchived, "SY 2020-2021")
}

func TestFacultyByYearUsesEffectiveGroupKey(t *testing.T) {
	faculty := []models.Faculty{
		{ID: "f1", Department: models.FacultyDeptTeaching, Program: "Professor", AcademicYear: "2024"},
		{ID: "f2", Department: models.FacultyDeptNonTeaching, Program: "", AcademicYear: "2024"},
	}
	svc, _ := newTestReportService(nil, faculty, nil)

	grouped, err := svc.FacultyByYear(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, grouped["SY 2024-2025"]["Professor"], 1)
	require.Len(t, grouped["SY 2024-2025"][models.FacultyDeptNonTeaching], 1)
}

func TestFacultyPositionCount(t *testing.T) {
	faculty := []models.Faculty{
		{ID: "f1", Program: "Professor", AssignedProgram: "Computer Science", AcademicYear: "2024"},
		{ID: "f2", Program: "professor", AssignedProgram: " computer science ", AcademicYear: "SY 2024-2025"},
		{ID: "f3", Program: "Professor", AssignedProgram: "Nursing", AcademicYear: "2024"},
		{ID: "f4", Program: "Professor", AssignedProgram: "Computer Science", AcademicYear: "2023"},
	}
	svc, _ := newTestReportService(nil, faculty, nil)

	count, err := svc.FacultyPositionCount(context.Background(), "2024", "Professor", "Computer Science")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = svc.FacultyPositionCount(context.Background(), "whenever", "Professor", "Computer Science")
	require.Error(t, err)
}

func TestDeanCountFollowsAssignmentChain(t *testing.T) {
	faculty := []models.Faculty{
		{ID: "f1", Department: models.FacultyDeptLeadership, Program: "Deans", DeanDepartment: "Computer Science", AcademicYear: "2024"},
		{ID: "f2", Department: models.FacultyDeptLeadership, Program: "Registrar", AcademicYear: "2024"},
		{ID: "f3", Department: models.FacultyDeptTeaching, Program: "Deans", DeanDepartment: "Computer Science", AcademicYear: "2024"},
	}
	svc, _ := newTestReportService(nil, faculty, nil)

	count, err := svc.DeanCount(context.Background(), "2024", "Computer Science")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCourseStudentCount(t *testing.T) {
	students := []models.Student{
		{ID: "s1", Program: "Computer Science", Department: "Engineering"},
		{ID: "s2", Program: "computer science", Department: "engineering"},
		{ID: "s3", Program: "Computer Science", Department: "Business"},
	}
	courses := map[string]models.Course{
		"c1": {ID: "c1", Name: "Computer Science", Program: "Engineering"},
		"c2": {ID: "c2", Name: "Computer Science"},
	}
	svc, _ := newTestReportService(students, nil, courses)

	// Owning program set: department must match too.
	count, err := svc.CourseStudentCount(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// No owning program: any department counts.
	count, err = svc.CourseStudentCount(context.Background(), "c2")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = svc.CourseStudentCount(context.Background(), "missing")
	require.Error(t, err)
}

func TestProgramFacultyCount(t *testing.T) {
	faculty := []models.Faculty{
		{ID: "f1", Department: models.FacultyDeptTeaching, AssignedProgram: "Computer Science", Status: "Active"},
		{ID: "f2", Department: models.FacultyDeptLeadership, Program: "Deans", DeanDepartment: "Computer Science", Status: "Active"},
		{ID: "f3", Department: models.FacultyDeptTeaching, AssignedProgram: "Computer Science", Status: "Inactive"},
		{ID: "f4", Department: models.FacultyDeptNonTeaching, AssignedProgram: "Computer Science", Status: "Active"},
	}
	svc, _ := newTestReportService(nil, faculty, nil)

	count, err := svc.ProgramFacultyCount(context.Background(), "Computer Science")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestExportStudentRosterCSV(t *testing.T) {
	students := []models.Student{
		{ID: "s1", FirstName: "Alice", LastName: "Reyes", Email: "alice@example.edu", Department: "Engineering", Program: "Computer Science", Status: "Active", AcademicYear: "2024"},
	}
	svc, _ := newTestReportService(students, nil, nil)

	result, err := svc.ExportStudentRoster(context.Background(), "2024", "csv")
	require.NoError(t, err)
	assert.Equal(t, "students-sy-2024-2025.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)
	content := string(result.Content)
	assert.Contains(t, content, "Alice Reyes")
	assert.Contains(t, content, "Engineering")
	assert.True(t, strings.HasPrefix(content, "Name,Email,Department,Program,Status"))
}

func TestExportFacultyRosterPDF(t *testing.T) {
	faculty := []models.Faculty{
		{ID: "f1", FirstName: "Bob", LastName: "Cruz", Department: models.FacultyDeptTeaching, Program: "Professor", AssignedProgram: "Nursing", Status: "Active", AcademicYear: "SY 2024-2025"},
	}
	svc, _ := newTestReportService(nil, faculty, nil)

	result, err := svc.ExportFacultyRoster(context.Background(), "SY 2024-2025", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "faculty-sy-2024-2025.pdf", result.Filename)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.NotEmpty(t, result.Content)
}

func TestExportRosterUnknownFormat(t *testing.T) {
	svc, _ := newTestReportService(nil, nil, nil)

	_, err := svc.ExportStudentRoster(context.Background(), "2024", "xlsx")
	require.Error(t, err)
}

func TestYearSummaryCountsPerFolder(t *testing.T) {
	students := []models.Student{
		{ID: "s1", Department: "Engineering", AcademicYear: "2024"},
		{ID: "s2", Department: "Nursing", AcademicYear: "2024"},
	}
	faculty := []models.Faculty{
		{ID: "f1", Department: models.FacultyDeptTeaching, Program: "Professor", AcademicYear: "2024"},
	}
	svc, _ := newTestReportService(students, faculty, nil)

	summary, err := svc.YearSummary(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, summary["SY 2024-2025"]["students"])
	assert.Equal(t, 1, summary["SY 2024-2025"]["faculty"])
	assert.Equal(t, 0, summary["SY 2020-2021"]["students"])
}
