package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yanqian/hiking-guide/internal/domain/edge"
)

// corsMiddleware stamps the forwarder's CORS policy before the handler runs
// so locally generated errors carry it too. Forwarded responses reapply
// the policy after copying backend headers.
func corsMiddleware(fwd *edge.Forwarder) gin.HandlerFunc {
	return func(c *gin.Context) {
		fwd.ApplyCORS(c.Writer.Header())
		c.Next()
	}
}
