package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rkwork/clipforge/pkg/configs"
	"github.com/rkwork/clipforge/pkg/internal/client"
	"github.com/rkwork/clipforge/pkg/internal/service"
	"github.com/rkwork/clipforge/pkg/internal/types"
)

// setupUploadConfig 初始化配置并把上传根目录指到临时目录.
func setupUploadConfig(t *testing.T) *configs.AppConfig {
	t.Helper()

	if err := configs.InitConfig(t.TempDir()); err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	cfg := configs.GetConfig()
	cfg.Log.EnableFile = false
	cfg.Upload.RootDir = t.TempDir()
	cfg.Upload.MaxFileSize = 10 * 1024 * 1024
	cfg.Upload.MaxBatch = 50
	cfg.Upload.AllowedExts = nil
	cfg.Upload.AllowedUser = []string{"alice", "rkwork"}

	return cfg
}

func batchForm(storeOnly bool) *types.UploadBatchForm {
	return &types.UploadBatchForm{
		TaskOption:     "split_mixer",
		VideoType:      "clip",
		Username:       "alice",
		OnlyFileUpload: storeOnly,
	}
}

// TestNewTaskID 任务 ID 长度固定且不重复.
func TestNewTaskID(t *testing.T) {
	seen := make(map[string]bool)

	for range 100 {
		id := service.NewTaskID()
		if len(id) != service.TaskIDLength {
			t.Fatalf("expected task id length %d, got %d", service.TaskIDLength, len(id))
		}

		if seen[id] {
			t.Fatalf("duplicate task id generated: %s", id)
		}

		seen[id] = true
	}
}

// TestResolveTaskPath 两种模式的目录布局.
func TestResolveTaskPath(t *testing.T) {
	p := service.ResolveTaskPath("root", "alice", "cat", "sub", "abc123", false)
	want := filepath.Join("root", "alice", "cat", "sub", "alice_task_abc123")

	if p != want {
		t.Errorf("dispatch mode path = %q, want %q", p, want)
	}

	p = service.ResolveTaskPath("root", "alice", "cat", "sub", "abc123", true)
	want = filepath.Join("root", "alice", "abc123", "alice_task_abc123")

	if p != want {
		t.Errorf("store-only path = %q, want %q", p, want)
	}
}

// TestProcessBatchSuccessWithCollision 同批次内重名文件获得数字后缀，报告保留原名.
func TestProcessBatchSuccessWithCollision(t *testing.T) {
	cfg := setupUploadConfig(t)
	cfg.Upload.AllowedExts = []string{".jpg"}

	files := []types.BatchFile{
		{Name: "a.jpg", Content: []byte("aaa")},
		{Name: "b.jpg", Content: []byte("bbb")},
		{Name: "a.jpg", Content: []byte("ccc")},
	}

	svc := service.NewUploadService(context.Background(), nil)

	report, err := svc.ProcessBatch(context.Background(), batchForm(true), files)
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}

	if report.Status != types.StatusSuccess {
		t.Errorf("expected status success, got %s", report.Status)
	}

	if report.Summary.TotalFiles != 3 || report.Summary.Successful != 3 || report.Summary.Failed != 0 {
		t.Errorf("unexpected summary: %+v", report.Summary)
	}

	wantSaved := []string{"a.jpg", "b.jpg", "a_1.jpg"}
	for i, want := range wantSaved {
		if report.SavedFiles[i].SavedAs != want {
			t.Errorf("saved_files[%d].saved_as = %q, want %q", i, report.SavedFiles[i].SavedAs, want)
		}
	}

	// 报告中的原名不受冲突重命名影响
	if report.SavedFiles[2].Filename != "a.jpg" {
		t.Errorf("original filename changed: %q", report.SavedFiles[2].Filename)
	}

	// 文件确实落盘
	dir := service.ResolveTaskPath(cfg.Upload.RootDir, "alice", "split_mixer", "clip", report.TaskID, true)
	for _, name := range wantSaved {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("stored file missing: %s", name)
		}
	}
}

// TestProcessBatchForbidden 未授权用户整批拒绝，且不产生任何磁盘副作用.
func TestProcessBatchForbidden(t *testing.T) {
	cfg := setupUploadConfig(t)

	form := batchForm(true)
	form.Username = "mallory"

	svc := service.NewUploadService(context.Background(), nil)

	_, err := svc.ProcessBatch(context.Background(), form,
		[]types.BatchFile{{Name: "a.txt", Content: []byte("x")}})
	if err == nil || !strings.Contains(err.Error(), "Access denied") {
		t.Fatalf("expected forbidden error, got %v", err)
	}

	entries, _ := os.ReadDir(cfg.Upload.RootDir)
	if len(entries) != 0 {
		t.Errorf("expected no directories created, found %d entries", len(entries))
	}
}

// TestProcessBatchSizeGate 空批次与超量批次整批拒绝.
func TestProcessBatchSizeGate(t *testing.T) {
	setupUploadConfig(t)

	svc := service.NewUploadService(context.Background(), nil)

	if _, err := svc.ProcessBatch(context.Background(), batchForm(true), nil); err == nil {
		t.Error("expected error for empty batch")
	}

	many := make([]types.BatchFile, 51)
	for i := range many {
		many[i] = types.BatchFile{Name: "f.txt", Content: []byte("x")}
	}

	if _, err := svc.ProcessBatch(context.Background(), batchForm(true), many); err == nil {
		t.Error("expected error for oversized batch")
	}
}

// TestProcessBatchPerFileFailures 单文件失败不影响兄弟文件.
func TestProcessBatchPerFileFailures(t *testing.T) {
	cfg := setupUploadConfig(t)
	cfg.Upload.AllowedExts = []string{".jpg"}
	cfg.Upload.MaxFileSize = 8

	files := []types.BatchFile{
		{Name: "ok.jpg", Content: []byte("1234")},
		{Name: "", Content: []byte("x")},
		{Name: "bad.txt", Content: []byte("x")},
		{Name: "big.jpg", Content: []byte("123456789")},
	}

	svc := service.NewUploadService(context.Background(), nil)

	report, err := svc.ProcessBatch(context.Background(), batchForm(true), files)
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}

	if report.Status != types.StatusPartialSuccess {
		t.Errorf("expected partial_success, got %s", report.Status)
	}

	if report.Summary.Successful != 1 || report.Summary.Failed != 3 {
		t.Errorf("unexpected summary: %+v", report.Summary)
	}

	// 空文件名使用占位名并按输入顺序记录
	if report.FailedFiles[0].Filename != "file_2" || report.FailedFiles[0].Error != "Empty filename" {
		t.Errorf("unexpected empty-name outcome: %+v", report.FailedFiles[0])
	}

	if !strings.Contains(report.FailedFiles[1].Error, ".txt") {
		t.Errorf("extension rejection should name the extension: %+v", report.FailedFiles[1])
	}

	if !strings.Contains(report.FailedFiles[2].Error, "File too large") {
		t.Errorf("unexpected oversize outcome: %+v", report.FailedFiles[2])
	}
}

// TestProcessBatchAllFailed 全部失败时状态为 failed.
func TestProcessBatchAllFailed(t *testing.T) {
	cfg := setupUploadConfig(t)
	cfg.Upload.AllowedExts = []string{".jpg"}

	svc := service.NewUploadService(context.Background(), nil)

	report, err := svc.ProcessBatch(context.Background(), batchForm(true),
		[]types.BatchFile{{Name: "a.txt", Content: []byte("x")}})
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}

	if report.Status != types.StatusFailed {
		t.Errorf("expected failed, got %s", report.Status)
	}
}

// newQueueClient 指向测试服务器的任务队列客户端.
func newQueueClient(url string) *client.TaskQueueClient {
	return client.NewTaskQueueClient(&configs.TaskQueueConfig{
		BaseURL:  url,
		Timeout:  5,
		Priority: "normal",
	})
}

// TestDispatchSuccess 分发模式提交任务并把队列返回并入报告.
func TestDispatchSuccess(t *testing.T) {
	setupUploadConfig(t)

	var got types.SubmitTaskRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tasks" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"job_id":"j-1","status":"queued"}`))
	}))
	defer srv.Close()

	svc := service.NewUploadService(context.Background(), newQueueClient(srv.URL))

	report, err := svc.ProcessBatch(context.Background(), batchForm(false),
		[]types.BatchFile{{Name: "a.mp4", Content: []byte("vvvv")}})
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}

	if got.TaskID != report.TaskID {
		t.Errorf("submitted task_id %q != report task_id %q", got.TaskID, report.TaskID)
	}

	if got.TaskType != "split_mixer" {
		t.Errorf("task_type = %q", got.TaskType)
	}

	if got.Priority != "normal" {
		t.Errorf("priority = %q", got.Priority)
	}

	if got.Data.InputFolder == "" || got.Data.OutputFolder == "" {
		t.Errorf("folders missing in payload: %+v", got.Data)
	}

	if report.TaskResult["job_id"] != "j-1" {
		t.Errorf("queue result not merged into report: %+v", report.TaskResult)
	}
}

// TestDispatchFailureEmbedded 队列提交失败降级为报告内的结构化错误，不影响存储结果.
func TestDispatchFailureEmbedded(t *testing.T) {
	setupUploadConfig(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc := service.NewUploadService(context.Background(), newQueueClient(srv.URL))

	report, err := svc.ProcessBatch(context.Background(), batchForm(false),
		[]types.BatchFile{{Name: "a.mp4", Content: []byte("vvvv")}})
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}

	if report.Status != types.StatusSuccess {
		t.Errorf("storage status should stay success, got %s", report.Status)
	}

	msg, ok := report.TaskResult["error"].(string)
	if !ok || msg == "" {
		t.Errorf("expected embedded dispatch error, got %+v", report.TaskResult)
	}
}
