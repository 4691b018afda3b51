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

type EntryHandler struct {
	entryService services.EntryService
}

func NewEntryHandler(entryService services.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

func (eh *EntryHandler) Create(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_input", pkgerrors.ErrInvalidInput)
		return
	}
	e, err := eh.entryService.Create(c.Request.Context(), rd.UserID, req.Text)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, e)
}

func (eh *EntryHandler) ListMine(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	entries, err := eh.entryService.ListMine(c.Request.Context(), rd.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, entries)
}

func (eh *EntryHandler) Get(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_input", pkgerrors.ErrInvalidInput)
		return
	}
	e, err := eh.entryService.Get(c.Request.Context(), rd.UserID, entryID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, e)
}

func (eh *EntryHandler) UpdateStatus(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_input", pkgerrors.ErrInvalidInput)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_input", pkgerrors.ErrInvalidInput)
		return
	}
	if err := eh.entryService.UpdateStatus(c.Request.Context(), rd.UserID, entryID, req.Status); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"status": req.Status})
}

func (eh *EntryHandler) TagSkills(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_input", pkgerrors.ErrInvalidInput)
		return
	}
	tags, err := eh.entryService.TagSkills(c.Request.Context(), rd.UserID, entryID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"skills": tags})
}

func (eh *EntryHandler) RequestEnrichment(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_input", pkgerrors.ErrInvalidInput)
		return
	}
	if err := eh.entryService.RequestEnrichment(c.Request.Context(), rd.UserID, entryID); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"queued": true})
}
