package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univ-registry-api/internal/models"
)

func facultyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "gender", "birthdate", "phone", "department", "program", "assigned_program", "dean_department", "academic_year", "status", "created_at", "updated_at"}).
		AddRow("1", "John", "Smith", "smith@univ.edu", "M", "1980-03-02", "555", models.FacultyDeptTeaching, "Instructor I", "BSCS", "", "SY 2024-2025", "Active", time.Now(), time.Now())
}

func TestFacultyRepositoryListSortsByLastName(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + facultyColumns + " FROM faculty WHERE 1=1 ORDER BY last_name ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(facultyRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM faculty WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	faculty, total, err := repo.List(context.Background(), models.FacultyFilter{})
	require.NoError(t, err)
	assert.Len(t, faculty, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryListByProgram(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectQuery("SELECT .+ FROM faculty\\s+WHERE LOWER\\(TRIM\\(assigned_program\\)\\)").
		WithArgs("BSCS").
		WillReturnRows(facultyRows())

	faculty, err := repo.ListByProgram(context.Background(), "BSCS")
	require.NoError(t, err)
	assert.Len(t, faculty, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM faculty WHERE id = $1")).
		WithArgs("id1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "id1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectExec("INSERT INTO faculty").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	faculty := &models.Faculty{FirstName: "John", LastName: "Smith", Department: models.FacultyDeptTeaching, Program: "Instructor I", Status: "Active"}
	err := repo.Create(context.Background(), faculty)
	require.NoError(t, err)
	assert.NotEmpty(t, faculty.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
