package types

// OSSHealth OSS 服务健康检查响应.
type OSSHealth struct {
	Status          string `json:"status"`
	Service         string `json:"service,omitempty"`
	OSSClientStatus string `json:"oss_client_status,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Healthy 判断 OSS 服务是否可用.
func (h *OSSHealth) Healthy() bool {
	return h != nil && h.Status == "healthy"
}

// OSSSummary OSS 批量上传的计数汇总.
type OSSSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// OSSUploadResult OSS 上传操作的同步结果，单文件/文本带 FileName，批量带 Summary.
type OSSUploadResult struct {
	Success  bool        `json:"success"`
	Error    string      `json:"error,omitempty"`
	Message  string      `json:"message,omitempty"`
	FileName string      `json:"file_name,omitempty"`
	Summary  *OSSSummary `json:"summary,omitempty"`
	// Skipped 本地读取失败而未发往 OSS 的文件名，与远端失败分开列出.
	Skipped []string `json:"skipped,omitempty"`
}

// OSSTextForm 文本上传请求体.
type OSSTextForm struct {
	Text     string `form:"text"     json:"text"     rule:"required"`
	Filename string `form:"filename" json:"filename"`
}

// OSSDirectoryForm 目录上传请求体，Extensions 为空时不过滤.
type OSSDirectoryForm struct {
	Directory  string   `json:"directory"  rule:"required"`
	Extensions []string `json:"extensions" rule:"omitempty,dive,fileext"`
}
