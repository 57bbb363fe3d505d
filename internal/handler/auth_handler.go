package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univ-registry-api/internal/models"
	"github.com/noah-isme/univ-registry-api/internal/service"
	"github.com/noah-isme/univ-registry-api/pkg/config"
	appErrors "github.com/noah-isme/univ-registry-api/pkg/errors"
	"github.com/noah-isme/univ-registry-api/pkg/response"
)

// AuthHandler exposes authentication and profile endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	uploads config.UploadsConfig
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *service.AuthService, uploads config.UploadsConfig) *AuthHandler {
	return &AuthHandler{auth: auth, uploads: uploads}
}

// Register godoc
// @Summary Register a login account
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, h.withImageURL(user))
}

// Login godoc
// @Summary Login by email or username
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	resp.User = h.withImageURL(resp.User)
	response.JSON(c, http.StatusOK, resp, nil)
}

// Logout godoc
// @Summary Logout
// @Tags Auth
// @Produce json
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// Tokens are stateless; the client discards its copy.
	response.NoContent(c)
}

// Me godoc
// @Summary Current account
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	user, err := h.auth.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.withImageURL(user), nil)
}

// UpdateProfile godoc
// @Summary Update the current profile
// @Tags Auth
// @Accept mpfd
// @Produce json
// @Param name formData string true "Display name"
// @Param phone formData string false "Phone"
// @Param address formData string false "Address"
// @Param birthdate formData string false "Birthdate"
// @Param gender formData string false "Gender"
// @Param profile_image formData file false "Profile image"
// @Success 200 {object} response.Envelope
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	var (
		user *models.User
		err  error
	)
	fileHeader, fileErr := c.FormFile("profile_image")
	if fileErr == nil && fileHeader != nil {
		if h.uploads.MaxFileSizeBytes > 0 && fileHeader.Size > h.uploads.MaxFileSizeBytes {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "profile image exceeds the size limit"))
			return
		}
		if !h.allowedUpload(fileHeader.Header.Get("Content-Type")) {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported profile image type"))
			return
		}
		file, openErr := fileHeader.Open()
		if openErr != nil {
			response.Error(c, appErrors.Wrap(openErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
			return
		}
		defer file.Close() //nolint:errcheck
		user, err = h.auth.UpdateProfile(c.Request.Context(), claims.UserID, req, file, fileHeader.Filename)
	} else {
		user, err = h.auth.UpdateProfile(c.Request.Context(), claims.UserID, req, nil, "")
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.withImageURL(user), nil)
}

// withImageURL fills ProfileImageURL from the stored relative path and
// the configured public uploads prefix.
func (h *AuthHandler) withImageURL(user *models.User) *models.User {
	if user == nil || user.ProfileImage == "" {
		return user
	}
	prefix := h.uploads.PublicPath
	if prefix == "" {
		prefix = "/uploads"
	}
	user.ProfileImageURL = strings.TrimSuffix(prefix, "/") + "/" + user.ProfileImage
	return user
}

func (h *AuthHandler) allowedUpload(contentType string) bool {
	if len(h.uploads.AllowedMIMEs) == 0 {
		return true
	}
	for _, mime := range h.uploads.AllowedMIMEs {
		if strings.EqualFold(strings.TrimSpace(mime), strings.TrimSpace(contentType)) {
			return true
		}
	}
	return false
}
