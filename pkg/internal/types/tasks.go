package types

// TaskData 提交任务时的输入输出目录.
type TaskData struct {
	InputFolder  string `json:"input_folder"`
	OutputFolder string `json:"output_folder"`
}

// SubmitTaskRequest 任务队列服务 POST /tasks 的请求体，字段名是对端约定.
type SubmitTaskRequest struct {
	TaskID    string   `json:"task_id"`
	TaskType  string   `json:"task_type"`
	VideoType string   `json:"video_type"`
	Data      TaskData `json:"data"`
	Priority  string   `json:"priority"`
}
