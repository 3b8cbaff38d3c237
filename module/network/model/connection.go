package model

import (
	"time"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Connection 表示一次建联申请。记录只追加：同一对账号可以有多条历史行，
// 被拒后重新发起就是再插一条 pending，不改写旧行。
type Connection struct {
	RequestID  string `bson:"request_id"` // PK
	SenderID   string `bson:"sender_id"`
	ReceiverID string `bson:"receiver_id"`
	Status     string `bson:"status"` // pending → accepted / rejected，终态不再变

	CreateTime time.Time `bson:"create_time"`
	HandleTime time.Time `bson:"handle_time,omitempty"`
}

func (*Connection) TableName() string { return "network_connection" }

// Terminal 是否已到终态。
func (c *Connection) Terminal() bool { return c.Status != StatusPending }

// Counterpart 返回 viewer 的对端账号；viewer 不在这条记录里时返回空串。
func (c *Connection) Counterpart(viewerID string) string {
	switch viewerID {
	case c.SenderID:
		return c.ReceiverID
	case c.ReceiverID:
		return c.SenderID
	}
	return ""
}
