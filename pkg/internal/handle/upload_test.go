package handle_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/rkwork/clipforge/pkg/configs"
	"github.com/rkwork/clipforge/pkg/internal/handle"
	"github.com/rkwork/clipforge/pkg/internal/types"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	if err := configs.InitConfig(t.TempDir()); err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	cfg := configs.GetConfig()
	cfg.Log.EnableFile = false
	cfg.Upload.RootDir = t.TempDir()
	cfg.Upload.AllowedUser = []string{"alice"}

	e := gin.New()
	e.POST("/api/v1/files", handle.UploadFiles)

	return e
}

// multipartBody 构造包含表单字段与文件的 multipart 请求体.
func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}

	for name, content := range files {
		fw, err := w.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}

		if _, err := fw.Write(content); err != nil {
			t.Fatal(err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	return buf, w.FormDataContentType()
}

func postUpload(t *testing.T, e *gin.Engine, fields map[string]string, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, fields, files)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

var validFields = map[string]string{
	"task_option":      "split_mixer",
	"video_type":       "clip",
	"username":         "alice",
	"only_file_upload": "true",
}

// TestUploadFilesCreated 合法批次返回 201 与完整报告.
func TestUploadFilesCreated(t *testing.T) {
	e := newTestRouter(t)

	rec := postUpload(t, e, validFields, map[string][]byte{
		"a.jpg": []byte("aaa"),
		"b.mp4": []byte("bbbb"),
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var report types.BatchReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}

	if report.Status != types.StatusSuccess {
		t.Errorf("status = %s", report.Status)
	}

	if len(report.TaskID) != 16 {
		t.Errorf("task_id = %q", report.TaskID)
	}

	if report.Summary.TotalFiles != 2 || report.Summary.Successful != 2 {
		t.Errorf("unexpected summary: %+v", report.Summary)
	}

	// 仅存储模式不应有任务结果
	if report.TaskResult != nil {
		t.Errorf("unexpected task_result: %+v", report.TaskResult)
	}
}

// TestUploadFilesForbidden 白名单外的用户返回 403.
func TestUploadFilesForbidden(t *testing.T) {
	e := newTestRouter(t)

	fields := map[string]string{
		"task_option":      "split_mixer",
		"video_type":       "clip",
		"username":         "mallory",
		"only_file_upload": "true",
	}

	rec := postUpload(t, e, fields, map[string][]byte{"a.jpg": []byte("x")})

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

// TestUploadFilesMissingFields 缺少必填表单字段返回 422.
func TestUploadFilesMissingFields(t *testing.T) {
	e := newTestRouter(t)

	rec := postUpload(t, e, map[string]string{"username": "alice"},
		map[string][]byte{"a.jpg": []byte("x")})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

// TestUploadFilesNoFiles 没有文件的批次返回 422.
func TestUploadFilesNoFiles(t *testing.T) {
	e := newTestRouter(t)

	rec := postUpload(t, e, validFields, nil)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

// TestHealth 服务自身健康检查端点.
func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	e := gin.New()
	e.GET("/health", handle.Health)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if body["status"] != "healthy" {
		t.Errorf("status field = %q", body["status"])
	}

	if len(body["timestamp"]) != 14 {
		t.Errorf("timestamp should be yyyymmddhhmmss, got %q", body["timestamp"])
	}
}
