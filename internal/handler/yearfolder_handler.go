package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univ-registry-api/internal/models"
	"github.com/noah-isme/univ-registry-api/internal/service"
	appErrors "github.com/noah-isme/univ-registry-api/pkg/errors"
	"github.com/noah-isme/univ-registry-api/pkg/response"
)

// YearFolderHandler exposes academic-year folder endpoints.
type YearFolderHandler struct {
	years *service.YearFolderService
}

// NewYearFolderHandler constructs YearFolderHandler.
func NewYearFolderHandler(years *service.YearFolderService) *YearFolderHandler {
	return &YearFolderHandler{years: years}
}

// List godoc
// @Summary List year folders
// @Tags Years
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /years [get]
func (h *YearFolderHandler) List(c *gin.Context) {
	folders, err := h.years.Folders(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, folders, nil)
}

// Create godoc
// @Summary Add a custom year folder
// @Tags Years
// @Accept json
// @Produce json
// @Param payload body models.AddYearRequest true "Year payload"
// @Success 201 {object} response.Envelope
// @Router /years [post]
func (h *YearFolderHandler) Create(c *gin.Context) {
	var req models.AddYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	label, err := h.years.AddCustomYear(c.Request.Context(), req.Year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"label": label})
}

// Archive godoc
// @Summary Archive a year folder
// @Tags Years
// @Accept json
// @Produce json
// @Param payload body models.YearActionRequest true "Archive payload"
// @Success 200 {object} response.Envelope
// @Router /years/archive [post]
func (h *YearFolderHandler) Archive(c *gin.Context) {
	var req models.YearActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.years.Archive(c.Request.Context(), req.Label, req.Confirm); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"label": req.Label, "archived": true}, nil)
}

// Restore godoc
// @Summary Restore an archived year folder
// @Tags Years
// @Accept json
// @Produce json
// @Param payload body models.YearActionRequest true "Restore payload"
// @Success 200 {object} response.Envelope
// @Router /years/restore [post]
func (h *YearFolderHandler) Restore(c *gin.Context) {
	var req models.YearActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.years.Restore(c.Request.Context(), req.Label, req.Confirm); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"label": req.Label, "archived": false}, nil)
}

// Delete godoc
// @Summary Delete a custom year folder
// @Tags Years
// @Produce json
// @Param label path string true "Year label"
// @Success 204
// @Router /years/{label} [delete]
func (h *YearFolderHandler) Delete(c *gin.Context) {
	if err := h.years.DeleteYear(c.Request.Context(), c.Param("label")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
