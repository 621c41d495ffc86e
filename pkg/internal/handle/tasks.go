package handle

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/rkwork/clipforge/pkg/context"
)

// proxyTask 统一的任务队列转发：调用下游并透传 JSON，失败返回 500.
func proxyTask(c *gin.Context, call func(ctx context.Context) (map[string]any, error)) {
	result, err := call(c.Request.Context())
	if err != nil {
		log := ctxPkg.LoggerFrom(c.Request.Context())
		log.Error().Err(err).Msg("task queue request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTaskStatus 查询指定任务的状态.
func GetTaskStatus(c *gin.Context) {
	jobID := c.Param("id")
	proxyTask(c, func(ctx context.Context) (map[string]any, error) {
		return taskQueue().GetTask(ctx, jobID)
	})
}

// ListTasks 查询所有任务列表.
func ListTasks(c *gin.Context) {
	proxyTask(c, func(ctx context.Context) (map[string]any, error) {
		return taskQueue().ListTasks(ctx)
	})
}

// GetQueueInfo 查询队列信息.
func GetQueueInfo(c *gin.Context) {
	proxyTask(c, func(ctx context.Context) (map[string]any, error) {
		return taskQueue().QueueInfo(ctx)
	})
}

// CancelTask 取消指定任务.
func CancelTask(c *gin.Context) {
	jobID := c.Param("id")
	proxyTask(c, func(ctx context.Context) (map[string]any, error) {
		return taskQueue().CancelTask(ctx, jobID)
	})
}

// ClearQueue 清空任务队列.
func ClearQueue(c *gin.Context) {
	proxyTask(c, func(ctx context.Context) (map[string]any, error) {
		return taskQueue().ClearQueue(ctx)
	})
}

// TaskQueueHealth 任务队列服务健康检查.
func TaskQueueHealth(c *gin.Context) {
	proxyTask(c, func(ctx context.Context) (map[string]any, error) {
		return taskQueue().Health(ctx)
	})
}
