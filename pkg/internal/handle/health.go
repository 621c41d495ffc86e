package handle

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health 服务自身健康检查.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format("20060102150405"),
	})
}
