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

func departmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "budget", "status", "created_at", "updated_at"}).
		AddRow("1", "Computer Studies", "CS department", 100000.0, "Active", time.Now(), time.Now())
}

func TestDepartmentRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + departmentColumns + " FROM departments WHERE 1=1 ORDER BY name ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(departmentRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM departments WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	departments, total, err := repo.List(context.Background(), models.DepartmentFilter{})
	require.NoError(t, err)
	assert.Len(t, departments, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepositoryExistsByName(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	mock.ExpectQuery("SELECT 1 FROM departments WHERE LOWER\\(TRIM\\(name\\)\\)").
		WithArgs("Computer Studies").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))

	exists, err := repo.ExistsByName(context.Background(), "Computer Studies", "")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	mock.ExpectExec("INSERT INTO departments").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	department := &models.Department{Name: "Computer Studies", Status: models.DepartmentStatusActive}
	err := repo.Create(context.Background(), department)
	require.NoError(t, err)
	assert.NotEmpty(t, department.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
