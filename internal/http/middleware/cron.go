package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/skillmatch-backend/internal/http/response"
	pkgerrors "github.com/yungbote/skillmatch-backend/internal/pkg/errors"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
)

const cronSecretHeader = "X-Cron-Secret"

type CronMiddleware struct {
	log    *logger.Logger
	secret string
}

func NewCronMiddleware(baseLog *logger.Logger, secret string) *CronMiddleware {
	return &CronMiddleware{
		log:    baseLog.With("middleware", "CronMiddleware"),
		secret: secret,
	}
}

// RequireSecret guards operator-only endpoints with a shared header secret.
// An empty configured secret disables the routes entirely.
func (cm *CronMiddleware) RequireSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := c.GetHeader(cronSecretHeader)
		if cm.secret == "" ||
			subtle.ConstantTimeCompare([]byte(presented), []byte(cm.secret)) != 1 {
			response.Error(c, http.StatusUnauthorized, "unauthorized", pkgerrors.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}
