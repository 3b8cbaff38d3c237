package notify

import "context"

// Notification 推送载荷。内容模板由下游推送服务负责，这里只管投递。
type Notification struct {
	DeviceToken string `json:"device_token"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Channel     string `json:"channel"`    // chat / chat_request / network
	ThreadKey   string `json:"thread_key"` // 客户端折叠通知用
}

// Dispatcher 是“发完即忘”的投递口：失败只记日志，绝不影响触发它的状态变更。
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification)
}

// Nop discards every notification. Used in tests and when push is disabled.
type Nop struct{}

func (Nop) Dispatch(context.Context, Notification) {}
