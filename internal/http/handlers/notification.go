package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/skillmatch-backend/internal/http/response"
	"github.com/yungbote/skillmatch-backend/internal/pkg/ctxutil"
	pkgerrors "github.com/yungbote/skillmatch-backend/internal/pkg/errors"
	"github.com/yungbote/skillmatch-backend/internal/services"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (nh *NotificationHandler) ListMine(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	notifications, err := nh.notificationService.ListMine(c.Request.Context(), rd.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, notifications)
}

func (nh *NotificationHandler) MarkRead(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		response.Error(c, http.StatusBadRequest, "invalid_input", pkgerrors.ErrInvalidInput)
		return
	}
	if err := nh.notificationService.MarkRead(c.Request.Context(), rd.UserID, req.IDs); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"read": len(req.IDs)})
}
