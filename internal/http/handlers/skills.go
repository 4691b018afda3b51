package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/skillmatch-backend/internal/http/response"
	pkgerrors "github.com/yungbote/skillmatch-backend/internal/pkg/errors"
	"github.com/yungbote/skillmatch-backend/internal/services"
)

const (
	skillsTextMin = 10
	skillsTextMax = 2000
)

type SkillsHandler struct {
	extractor services.SkillExtractor
}

func NewSkillsHandler(extractor services.SkillExtractor) *SkillsHandler {
	return &SkillsHandler{extractor: extractor}
}

// Classify extracts skill tags from free text. Extraction itself never
// errors; only malformed requests do.
func (sh *SkillsHandler) Classify(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_input", pkgerrors.ErrInvalidInput)
		return
	}
	text := strings.TrimSpace(req.Text)
	if n := utf8.RuneCountInString(text); n < skillsTextMin || n > skillsTextMax {
		response.Error(c, http.StatusBadRequest, "invalid_input", pkgerrors.ErrInvalidInput)
		return
	}
	response.OK(c, gin.H{"skills": sh.extractor.Extract(c.Request.Context(), text)})
}
