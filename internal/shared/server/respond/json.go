package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes payload as-is with the given status. Assembled results carry
// their own envelope; failures go through Error instead.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 response, typically an AnalysisResult or health payload.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}
