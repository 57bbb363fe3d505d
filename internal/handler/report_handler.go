package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univ-registry-api/internal/service"
	"github.com/noah-isme/univ-registry-api/pkg/response"
)

// ReportHandler exposes year-bucketed views, counts and roster exports.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// StudentsByYear godoc
// @Summary Students grouped by year and department
// @Tags Reports
// @Produce json
// @Param include_archived query bool false "Include archived year folders"
// @Success 200 {object} response.Envelope
// @Router /reports/students-by-year [get]
func (h *ReportHandler) StudentsByYear(c *gin.Context) {
	grouped, err := h.reports.StudentsByYear(c.Request.Context(), c.Query("include_archived") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grouped, nil)
}

// FacultyByYear godoc
// @Summary Faculty grouped by year and program
// @Tags Reports
// @Produce json
// @Param include_archived query bool false "Include archived year folders"
// @Success 200 {object} response.Envelope
// @Router /reports/faculty-by-year [get]
func (h *ReportHandler) FacultyByYear(c *gin.Context) {
	grouped, err := h.reports.FacultyByYear(c.Request.Context(), c.Query("include_archived") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grouped, nil)
}

// PositionCount godoc
// @Summary Count faculty by year, position and program
// @Tags Reports
// @Produce json
// @Param year query string true "Academic year"
// @Param position query string true "Position"
// @Param program query string true "Assigned program"
// @Success 200 {object} response.Envelope
// @Router /reports/faculty-position-count [get]
func (h *ReportHandler) PositionCount(c *gin.Context) {
	count, err := h.reports.FacultyPositionCount(c.Request.Context(), c.Query("year"), c.Query("position"), c.Query("program"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"count": count}, nil)
}

// DeanCount godoc
// @Summary Count deans serving a program in a year
// @Tags Reports
// @Produce json
// @Param year query string true "Academic year"
// @Param program query string true "Program name"
// @Success 200 {object} response.Envelope
// @Router /reports/dean-count [get]
func (h *ReportHandler) DeanCount(c *gin.Context) {
	count, err := h.reports.DeanCount(c.Request.Context(), c.Query("year"), c.Query("program"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"count": count}, nil)
}

// YearSummary godoc
// @Summary Record totals per year folder
// @Tags Reports
// @Produce json
// @Param include_archived query bool false "Include archived year folders"
// @Success 200 {object} response.Envelope
// @Router /reports/year-summary [get]
func (h *ReportHandler) YearSummary(c *gin.Context) {
	summary, err := h.reports.YearSummary(c.Request.Context(), c.Query("include_archived") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// ExportStudents godoc
// @Summary Download a student roster for one year
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param year query string true "Academic year"
// @Param format query string false "csv or pdf"
// @Success 200 {file} byte
// @Router /reports/students/export [get]
func (h *ReportHandler) ExportStudents(c *gin.Context) {
	result, err := h.reports.ExportStudentRoster(c.Request.Context(), c.Query("year"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

// ExportFaculty godoc
// @Summary Download a faculty roster for one year
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param year query string true "Academic year"
// @Param format query string false "csv or pdf"
// @Success 200 {file} byte
// @Router /reports/faculty/export [get]
func (h *ReportHandler) ExportFaculty(c *gin.Context) {
	result, err := h.reports.ExportFacultyRoster(c.Request.Context(), c.Query("year"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
