package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/skillmatch-backend/internal/http/response"
	"github.com/yungbote/skillmatch-backend/internal/pkg/ctxutil"
	pkgerrors "github.com/yungbote/skillmatch-backend/internal/pkg/errors"
	"github.com/yungbote/skillmatch-backend/internal/services"
)

type PushHandler struct {
	pushService services.PushService
}

func NewPushHandler(pushService services.PushService) *PushHandler {
	return &PushHandler{pushService: pushService}
}

// Subscribe accepts the standard PushSubscription JSON a browser produces.
func (ph *PushHandler) Subscribe(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	var req struct {
		Endpoint string `json:"endpoint"`
		Keys     struct {
			P256dh string `json:"p256dh"`
			Auth   string `json:"auth"`
		} `json:"keys"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_input", pkgerrors.ErrInvalidInput)
		return
	}
	if err := ph.pushService.Subscribe(c.Request.Context(), rd.UserID, req.Endpoint, req.Keys.P256dh, req.Keys.Auth); err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, gin.H{"subscribed": true})
}
