// Package model 定义持久化的数据模型.
package model

import (
	"time"
)

// FileRecord 每个成功落盘文件的一条元数据记录.
// 文件系统是事实来源，本表仅用于查询，不参与上传流程的成败判定.
type FileRecord struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// 一次批量上传的任务标识
	TaskID   string `gorm:"size:32;index"  json:"task_id"`
	Username string `gorm:"size:64;index"  json:"username"`
	// 实际保存的文件名（可能带冲突后缀）
	Filename     string `gorm:"size:512"       json:"filename"`
	OriginalName string `gorm:"size:512"       json:"original_name"`
	Path         string `gorm:"size:1024"      json:"path"`
	SizeMB       float64 `gorm:"index"         json:"size_mb"`
	Category     string `gorm:"size:128;index" json:"category"`
	UploadType   string `gorm:"size:128"       json:"upload_type"`
	CreatedAt    time.Time `json:"created_at"`
}
