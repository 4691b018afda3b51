package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/skillmatch-backend/internal/http/response"
	"github.com/yungbote/skillmatch-backend/internal/jobs/sweeper"
)

// CronHandler exposes the matching sweep to an external scheduler; the route
// sits behind the cron secret middleware.
type CronHandler struct {
	sweeper *sweeper.Sweeper
}

func NewCronHandler(sw *sweeper.Sweeper) *CronHandler {
	return &CronHandler{sweeper: sw}
}

func (ch *CronHandler) RunSweep(c *gin.Context) {
	result, err := ch.sweeper.RunNow(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{
		"candidates":  result.Candidates,
		"new_matches": result.NewMatches,
		"dispatched":  result.Dispatched,
	})
}
