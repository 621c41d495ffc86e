package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/sony/gobreaker"
	"resty.dev/v3"

	"github.com/rkwork/clipforge/pkg/configs"
	"github.com/rkwork/clipforge/pkg/internal/types"
)

// TaskQueueClient 任务队列服务的调用客户端.
// 对端契约固定：POST /tasks、GET /tasks、GET /tasks/{id}、DELETE /tasks/{id}、
// POST /queue/clear、GET /queue/info、GET /health，全部返回 JSON.
type TaskQueueClient struct {
	rc       *resty.Client
	cb       *gobreaker.CircuitBreaker
	priority string
}

// NewTaskQueueClient 创建客户端，超时与熔断均来自配置.
func NewTaskQueueClient(cfg *configs.TaskQueueConfig) *TaskQueueClient {
	rc := resty.New()
	rc.SetBaseURL(cfg.BaseURL)
	rc.SetTimeout(cfg.GetTimeoutDuration())

	return &TaskQueueClient{
		rc:       rc,
		cb:       newBreaker("taskqueue", &cfg.Breaker),
		priority: cfg.Priority,
	}
}

// do 执行一次请求并把 JSON 响应解析为通用 map；非 2xx 转为 *HTTPError.
func (c *TaskQueueClient) do(ctx context.Context, method, path string, body any) (map[string]any, error) {
	return execute(c.cb, func() (map[string]any, error) {
		req := c.rc.R().SetContext(ctx)
		if body != nil {
			req.SetBody(body)
		}

		resp, err := req.Execute(method, path)
		if err != nil {
			return nil, fmt.Errorf("task queue request %s %s: %w", method, path, err)
		}

		if !resp.IsSuccess() {
			return nil, &HTTPError{StatusCode: resp.StatusCode(), Body: resp.String()}
		}

		var result map[string]any
		if err := sonic.UnmarshalString(resp.String(), &result); err != nil {
			return nil, fmt.Errorf("decode task queue response: %w", err)
		}

		return result, nil
	})
}

// SubmitTask 提交任务. Priority 为空时使用配置的默认优先级.
func (c *TaskQueueClient) SubmitTask(ctx context.Context, req *types.SubmitTaskRequest) (map[string]any, error) {
	if req.Priority == "" {
		req.Priority = c.priority
	}

	return c.do(ctx, http.MethodPost, "/tasks", req)
}

// GetTask 查询指定任务的状态.
func (c *TaskQueueClient) GetTask(ctx context.Context, jobID string) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, "/tasks/"+jobID, nil)
}

// ListTasks 查询所有任务列表.
func (c *TaskQueueClient) ListTasks(ctx context.Context) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, "/tasks", nil)
}

// CancelTask 取消指定任务.
func (c *TaskQueueClient) CancelTask(ctx context.Context, jobID string) (map[string]any, error) {
	return c.do(ctx, http.MethodDelete, "/tasks/"+jobID, nil)
}

// QueueInfo 查询队列信息.
func (c *TaskQueueClient) QueueInfo(ctx context.Context) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, "/queue/info", nil)
}

// ClearQueue 清空任务队列.
func (c *TaskQueueClient) ClearQueue(ctx context.Context) (map[string]any, error) {
	return c.do(ctx, http.MethodPost, "/queue/clear", nil)
}

// Health 任务队列服务健康检查.
func (c *TaskQueueClient) Health(ctx context.Context) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, "/health", nil)
}
