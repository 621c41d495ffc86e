// Package types 定义对外请求与响应的数据结构.
package types

// BatchStatus 批次处理的总体状态.
type BatchStatus string

const (
	StatusSuccess        BatchStatus = "success"
	StatusPartialSuccess BatchStatus = "partial_success"
	StatusFailed         BatchStatus = "failed"
)

// UploadBatchForm 多文件上传请求的表单字段，文件本体从 multipart 中读取.
type UploadBatchForm struct {
	TaskOption     string `form:"task_option"      rule:"required,max=128"` // 任务分类
	VideoType      string `form:"video_type"       rule:"required,max=128"` // 任务子类型
	Username       string `form:"username"         rule:"required,max=64"`  // 用户名
	OnlyFileUpload bool   `form:"only_file_upload"`                         // true 时仅存储，不提交任务
}

// BatchFile 已读入内存的单个上传文件.
type BatchFile struct {
	Name        string
	Content     []byte
	ContentType string
}

// SavedFile 保存成功的文件条目，SavedAs 可能因重名冲突而与原名不同.
type SavedFile struct {
	Filename string  `json:"filename"`
	SavedAs  string  `json:"saved_as"`
	SizeMB   float64 `json:"size_mb"`
}

// FailedFile 保存失败的文件条目.
type FailedFile struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// UploadSummary 批次内文件的计数汇总，TotalSizeMB 只累计成功文件.
type UploadSummary struct {
	TotalFiles  int     `json:"total_files"`
	Successful  int     `json:"successful"`
	Failed      int     `json:"failed"`
	TotalSizeMB float64 `json:"total_size_mb"`
}

// BatchReport 一次批量上传的最终报告，组装后不再修改.
type BatchReport struct {
	TaskID      string        `json:"task_id"`
	Status      BatchStatus   `json:"status"`
	Summary     UploadSummary `json:"summary"`
	SavedFiles  []SavedFile   `json:"saved_files"`
	FailedFiles []FailedFile  `json:"failed_files"`
	Timestamp   string        `json:"timestamp"`
	// TaskResult 任务队列的返回内容；提交失败时为 {"error": "..."}，仅存储模式下为空.
	TaskResult map[string]any `json:"task_result,omitempty"`
}
