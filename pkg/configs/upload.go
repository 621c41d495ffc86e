package configs

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultUploadRootDir     = "user_uploads"      // 上传文件根目录
	DefaultUploadMaxFileSize = 200 * 1024 * 1024   // 单文件最大字节数
	DefaultUploadMaxBatch    = 50                  // 单次请求最大文件数
	DefaultUploadUsers       = "rkwork,muzi"       // 允许上传的用户
	DefaultUploadVideoLabel  = "Baby素材处理混剪" // 提交任务时使用的固定视频类型标签
)

type (
	// UploadConfig 用户文件上传配置.
	UploadConfig struct {
		RootDir     string   `mapstructure:"root_dir"`
		MaxFileSize int64    `mapstructure:"max_file_size"`
		MaxBatch    int      `mapstructure:"max_batch"      rule:"min=1"`
		AllowedExts []string `mapstructure:"allowed_exts"`
		AllowedUser []string `mapstructure:"allowed_users"`
		VideoLabel  string   `mapstructure:"video_label"`
	}
)

// UserAllowed 判断用户名是否在允许列表中.
func (u *UploadConfig) UserAllowed(username string) bool {
	for _, name := range u.AllowedUser {
		if strings.TrimSpace(name) == username {
			return true
		}
	}

	return false
}

// ExtAllowed 判断扩展名是否允许，列表为空时不限制.
func (u *UploadConfig) ExtAllowed(ext string) bool {
	if len(u.AllowedExts) == 0 {
		return true
	}

	ext = strings.ToLower(ext)
	for _, allowed := range u.AllowedExts {
		if strings.ToLower(strings.TrimSpace(allowed)) == ext {
			return true
		}
	}

	return false
}

func (u *UploadConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("upload.root_dir", DefaultUploadRootDir)
	v.SetDefault("upload.max_file_size", DefaultUploadMaxFileSize)
	v.SetDefault("upload.max_batch", DefaultUploadMaxBatch)
	v.SetDefault("upload.allowed_exts", []string{})
	v.SetDefault("upload.allowed_users", strings.Split(DefaultUploadUsers, ","))
	v.SetDefault("upload.video_label", DefaultUploadVideoLabel)
}
