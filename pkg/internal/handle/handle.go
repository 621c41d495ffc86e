// Package handle 提供 HTTP 请求处理器的实现.
package handle

import (
	"sync"

	"github.com/rkwork/clipforge/pkg/configs"
	"github.com/rkwork/clipforge/pkg/internal/client"
)

// 下游客户端进程内只建一份，首次使用时按当前配置初始化.
var (
	queueOnce   sync.Once
	queueClient *client.TaskQueueClient

	ossOnce   sync.Once
	ossClient *client.OSSClient
)

// taskQueue 返回任务队列客户端.
func taskQueue() *client.TaskQueueClient {
	queueOnce.Do(func() {
		queueClient = client.NewTaskQueueClient(&configs.GetConfig().TaskQueue)
	})

	return queueClient
}

// oss 返回 OSS 服务客户端.
func oss() *client.OSSClient {
	ossOnce.Do(func() {
		ossClient = client.NewOSSClient(&configs.GetConfig().OSS)
	})

	return ossClient
}
