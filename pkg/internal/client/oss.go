package client

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/sony/gobreaker"
	"resty.dev/v3"

	"github.com/rkwork/clipforge/pkg/configs"
	"github.com/rkwork/clipforge/pkg/internal/types"
)

// OSSClient OSS 上传服务的调用客户端.
// 对端契约固定：GET /health、POST /upload/single、POST /upload/multiple、POST /upload/text.
type OSSClient struct {
	rc      *resty.Client
	cb      *gobreaker.CircuitBreaker
	baseURL string
}

// NewOSSClient 创建客户端. 上传可能携带大文件，读超时独立于连接超时.
func NewOSSClient(cfg *configs.OSSConfig) *OSSClient {
	rc := resty.New()
	rc.SetBaseURL(cfg.BaseURL)
	rc.SetTimeout(cfg.GetReadTimeoutDuration())

	return &OSSClient{
		rc:      rc,
		cb:      newBreaker("oss", &cfg.Breaker),
		baseURL: cfg.BaseURL,
	}
}

// BaseURL 返回配置的服务地址.
func (c *OSSClient) BaseURL() string {
	return c.baseURL
}

// Health 检查 OSS 服务健康状态. 请求失败不作为错误返回，而是标记 unhealthy，
// 调用方据此短路后续上传.
func (c *OSSClient) Health(ctx context.Context) *types.OSSHealth {
	resp, err := c.rc.R().SetContext(ctx).Get("/health")
	if err != nil {
		return &types.OSSHealth{Status: "unhealthy", Error: err.Error()}
	}

	if !resp.IsSuccess() {
		return &types.OSSHealth{
			Status: "unhealthy",
			Error:  fmt.Sprintf("HTTP %d: %s", resp.StatusCode(), resp.String()),
		}
	}

	var health types.OSSHealth
	if err := sonic.UnmarshalString(resp.String(), &health); err != nil {
		return &types.OSSHealth{Status: "unhealthy", Error: err.Error()}
	}

	return &health
}

// HealthRaw 返回健康检查的原始 JSON，代理端点透传用. 非 2xx 或网络错误返回 error.
func (c *OSSClient) HealthRaw(ctx context.Context) (map[string]any, error) {
	return c.doRaw(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.Get("/health")
	})
}

// UploadSingle 上传单个文件，multipart 表单字段名 file.
func (c *OSSClient) UploadSingle(ctx context.Context, file *types.BatchFile, uploadPath string) (*types.OSSUploadResult, error) {
	return execute(c.cb, func() (*types.OSSUploadResult, error) {
		req := c.rc.R().SetContext(ctx).
			SetMultipartFields(&resty.MultipartField{
				Name:        "file",
				FileName:    file.Name,
				ContentType: orOctetStream(file.ContentType),
				Reader:      bytes.NewReader(file.Content),
			})
		applyUploadPath(req, uploadPath)

		return c.decodeUpload(req.Post("/upload/single"))
	})
}

// UploadMultiple 将多个文件放进一次 multipart 请求，字段名 files.
func (c *OSSClient) UploadMultiple(ctx context.Context, files []types.BatchFile, uploadPath string) (*types.OSSUploadResult, error) {
	return execute(c.cb, func() (*types.OSSUploadResult, error) {
		fields := make([]*resty.MultipartField, 0, len(files))
		for i := range files {
			f := &files[i]
			fields = append(fields, &resty.MultipartField{
				Name:        "files",
				FileName:    f.Name,
				ContentType: orOctetStream(f.ContentType),
				Reader:      bytes.NewReader(f.Content),
			})
		}

		req := c.rc.R().SetContext(ctx).SetMultipartFields(fields...)
		applyUploadPath(req, uploadPath)

		return c.decodeUpload(req.Post("/upload/multiple"))
	})
}

// UploadText 以表单方式上传文本内容.
func (c *OSSClient) UploadText(ctx context.Context, text, filename, uploadPath string) (*types.OSSUploadResult, error) {
	return execute(c.cb, func() (*types.OSSUploadResult, error) {
		req := c.rc.R().SetContext(ctx).SetFormData(map[string]string{
			"text":     text,
			"filename": filename,
		})
		applyUploadPath(req, uploadPath)

		return c.decodeUpload(req.Post("/upload/text"))
	})
}

// decodeUpload 统一处理上传响应：非 2xx 转为 *HTTPError，成功解析为 OSSUploadResult.
func (c *OSSClient) decodeUpload(resp *resty.Response, err error) (*types.OSSUploadResult, error) {
	if err != nil {
		return nil, fmt.Errorf("oss request: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, &HTTPError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	var result types.OSSUploadResult
	if err := sonic.UnmarshalString(resp.String(), &result); err != nil {
		return nil, fmt.Errorf("decode oss response: %w", err)
	}

	return &result, nil
}

// doRaw 执行请求并把响应体解析为通用 map.
func (c *OSSClient) doRaw(ctx context.Context, call func(*resty.Request) (*resty.Response, error)) (map[string]any, error) {
	return execute(c.cb, func() (map[string]any, error) {
		resp, err := call(c.rc.R().SetContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("oss request: %w", err)
		}

		if !resp.IsSuccess() {
			return nil, &HTTPError{StatusCode: resp.StatusCode(), Body: resp.String()}
		}

		var result map[string]any
		if err := sonic.UnmarshalString(resp.String(), &result); err != nil {
			return nil, fmt.Errorf("decode oss response: %w", err)
		}

		return result, nil
	})
}

func applyUploadPath(req *resty.Request, uploadPath string) {
	if uploadPath != "" {
		req.SetQueryParam("upload_path", uploadPath)
	}
}

func orOctetStream(contentType string) string {
	if contentType == "" {
		return "application/octet-stream"
	}

	return contentType
}
