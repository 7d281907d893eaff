package constant

// 服务标识，用于日志、追踪与消费者组命名。
const (
	ServiceName    = "anon_forum_service"
	ServiceVersion = "1.0.0"
)
