package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univ-registry-api/internal/models"
	"github.com/noah-isme/univ-registry-api/internal/service"
	appErrors "github.com/noah-isme/univ-registry-api/pkg/errors"
	"github.com/noah-isme/univ-registry-api/pkg/response"
)

// ActivityHandler exposes the activity feed and toast notifications.
type ActivityHandler struct {
	activity *service.ActivityService
	notifier *service.Notifier
}

// NewActivityHandler constructs ActivityHandler.
func NewActivityHandler(activity *service.ActivityService, notifier *service.Notifier) *ActivityHandler {
	return &ActivityHandler{activity: activity, notifier: notifier}
}

// Feed godoc
// @Summary Recent activity entries, newest first
// @Tags Activity
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /activity [get]
func (h *ActivityHandler) Feed(c *gin.Context) {
	feed, err := h.activity.Feed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if feed == nil {
		feed = []models.ActivityEntry{}
	}
	response.JSON(c, http.StatusOK, feed, nil)
}

type notifyRequest struct {
	Message    string                  `json:"message" binding:"required"`
	Kind       models.NotificationKind `json:"kind"`
	DurationMS int64                   `json:"duration_ms"`
}

// Notify godoc
// @Summary Raise a toast notification
// @Tags Activity
// @Accept json
// @Produce json
// @Param payload body notifyRequest true "Notification payload"
// @Success 201 {object} response.Envelope
// @Router /notifications [post]
func (h *ActivityHandler) Notify(c *gin.Context) {
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	kind := req.Kind
	if kind == "" {
		kind = models.NotifyInfo
	}
	notif := h.notifier.Notify(req.Message, kind, time.Duration(req.DurationMS)*time.Millisecond)
	response.Created(c, notif)
}

// Active godoc
// @Summary Notifications still showing
// @Tags Activity
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *ActivityHandler) Active(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.notifier.Active(), nil)
}

// Hover godoc
// @Summary Pause a notification's dismissal timer
// @Tags Activity
// @Produce json
// @Param id path string true "Notification ID"
// @Success 204
// @Router /notifications/{id}/hover [post]
func (h *ActivityHandler) Hover(c *gin.Context) {
	h.notifier.Hover(c.Param("id"))
	response.NoContent(c)
}

// Leave godoc
// @Summary Resume a notification's dismissal timer
// @Tags Activity
// @Produce json
// @Param id path string true "Notification ID"
// @Success 204
// @Router /notifications/{id}/leave [post]
func (h *ActivityHandler) Leave(c *gin.Context) {
	h.notifier.Leave(c.Param("id"))
	response.NoContent(c)
}

// Dismiss godoc
// @Summary Dismiss a notification
// @Tags Activity
// @Produce json
// @Param id path string true "Notification ID"
// @Success 204
// @Router /notifications/{id} [delete]
func (h *ActivityHandler) Dismiss(c *gin.Context) {
	h.notifier.Dismiss(c.Param("id"))
	response.NoContent(c)
}
