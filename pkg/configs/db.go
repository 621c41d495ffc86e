package configs

import "github.com/spf13/viper"

const (
	DefaultDBEnabled      = true                // 是否启用文件记录库
	DefaultDBPath         = "data/clipforge.db" // SQLite 数据库文件路径
	DefaultDBMaxOpenConns = 1                   // SQLite 串行写，限制为单连接
	DefaultDBMaxIdleConns = 1                   // 默认最大空闲连接数
)

// DBConfig 文件记录数据库配置，固定使用 SQLite（纯 Go 驱动，无 cgo）.
type DBConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Path         string `mapstructure:"path"`
	MaxOpenConns int    `mapstructure:"max_open_conns" rule:"min=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" rule:"min=0"`
}

func (c *DBConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("db.enabled", DefaultDBEnabled)
	v.SetDefault("db.path", DefaultDBPath)
	v.SetDefault("db.max_open_conns", DefaultDBMaxOpenConns)
	v.SetDefault("db.max_idle_conns", DefaultDBMaxIdleConns)
}
