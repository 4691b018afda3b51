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

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

func (mh *MatchHandler) ListMine(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	matches, err := mh.matchService.ListMine(c.Request.Context(), rd.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, matches)
}

func (mh *MatchHandler) Get(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_input", pkgerrors.ErrInvalidInput)
		return
	}
	m, err := mh.matchService.Get(c.Request.Context(), rd.UserID, matchID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, m)
}
