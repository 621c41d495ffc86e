package client_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rkwork/clipforge/pkg/configs"
	"github.com/rkwork/clipforge/pkg/internal/client"
	"github.com/rkwork/clipforge/pkg/internal/types"
)

func newClient(url string) *client.TaskQueueClient {
	return client.NewTaskQueueClient(&configs.TaskQueueConfig{
		BaseURL:  url,
		Timeout:  5,
		Priority: "normal",
	})
}

// TestSubmitTask 请求体序列化与响应解析.
func TestSubmitTask(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tasks" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"job_id":"j-42","status":"queued"}`))
	}))
	defer srv.Close()

	result, err := newClient(srv.URL).SubmitTask(t.Context(), &types.SubmitTaskRequest{
		TaskID:    "abc123",
		TaskType:  "split_mixer",
		VideoType: "素材混剪",
		Data: types.TaskData{
			InputFolder:  "/data/in",
			OutputFolder: "/data/out",
		},
	})
	if err != nil {
		t.Fatalf("SubmitTask failed: %v", err)
	}

	if got["task_id"] != "abc123" || got["task_type"] != "split_mixer" {
		t.Errorf("unexpected payload: %v", got)
	}

	// Priority 为空时填充配置默认值
	if got["priority"] != "normal" {
		t.Errorf("default priority not applied: %v", got["priority"])
	}

	data, _ := got["data"].(map[string]any)
	if data["input_folder"] != "/data/in" {
		t.Errorf("unexpected data payload: %v", got["data"])
	}

	if result["job_id"] != "j-42" {
		t.Errorf("unexpected result: %v", result)
	}
}

// TestNon2xxBecomesHTTPError 非 2xx 响应转为保留状态码的错误.
func TestNon2xxBecomesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "job not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).GetTask(t.Context(), "missing")

	var httpErr *client.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}

	if httpErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", httpErr.StatusCode)
	}
}

// TestQueuePaths 各操作访问的路径与方法.
func TestQueuePaths(t *testing.T) {
	type hit struct{ method, path string }

	var hits []hit

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, hit{r.Method, r.URL.Path})

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newClient(srv.URL)
	ctx := t.Context()

	_, _ = c.ListTasks(ctx)
	_, _ = c.GetTask(ctx, "j-1")
	_, _ = c.CancelTask(ctx, "j-1")
	_, _ = c.QueueInfo(ctx)
	_, _ = c.ClearQueue(ctx)
	_, _ = c.Health(ctx)

	want := []hit{
		{http.MethodGet, "/tasks"},
		{http.MethodGet, "/tasks/j-1"},
		{http.MethodDelete, "/tasks/j-1"},
		{http.MethodGet, "/queue/info"},
		{http.MethodPost, "/queue/clear"},
		{http.MethodGet, "/health"},
	}

	if len(hits) != len(want) {
		t.Fatalf("expected %d requests, got %d", len(want), len(hits))
	}

	for i, w := range want {
		if hits[i] != w {
			t.Errorf("request %d = %+v, want %+v", i, hits[i], w)
		}
	}
}
