package model

import (
	"time"
)

// 消息类型。语音与文本可作预览；其余媒体类型不拿自己发的当预览。
const (
	MsgTypeText   = "text"
	MsgTypeVoice  = "voice"
	MsgTypeImage  = "image"
	MsgTypeFile   = "file"
	MsgTypeSystem = "system"
)

// 会话中的两个角色。block/delete 旗标都按角色挂。
const (
	RoleCandidate = "candidate"
	RoleEmployer  = "employer"
)

// DeliveryContext 是消息落库那一刻的旗标快照，落库后不随会话旗标变化
// （软删除是唯一的例外：DeleteChat 会把删除位追溯写进历史快照）。
// 历史过滤用快照，当前可见性用会话上的实时旗标，两套不混用。
type DeliveryContext struct {
	HasCandidateDeleted bool `bson:"has_candidate_deleted"`
	HasEmployerDeleted  bool `bson:"has_employer_deleted"`
	IsCandidateBlocked  bool `bson:"is_candidate_blocked"`
	IsEmployerBlocked   bool `bson:"is_employer_blocked"`
}

// Message 只追加；落库后除 is_read 与删除位快照外不可变。
type Message struct {
	MessageID string `bson:"message_id"` // snowflake，同时充当会话内序号
	FromID    string `bson:"from_id"`
	ToID      string `bson:"to_id"`
	Body      string `bson:"body"` // 不透明密文，核心流程不解读
	Type      string `bson:"type"`
	IsRead    bool   `bson:"is_read"`

	Delivery DeliveryContext `bson:"delivery"`

	SendTime int64 `bson:"send_time"` // Unix ms
}

// Conversation 是候选人×雇主×职位的唯一线程。PA 与候选人的常设会话
// 复用同一结构：employer 位放 PA 账号，job 为空。
// 四个独立布尔“幕帘”：两方各自的软删除 + 两方各自的被拉黑位。
type Conversation struct {
	ConversationID string `bson:"conversation_id"` // PK
	CandidateID    string `bson:"candidate_id"`
	EmployerID     string `bson:"employer_id"`
	JobID          string `bson:"job_id"`
	PAID           string `bson:"pa_id"`

	IsExposed bool `bson:"is_exposed"`

	HasCandidateDeleted bool `bson:"has_candidate_deleted"`
	HasEmployerDeleted  bool `bson:"has_employer_deleted"`
	IsCandidateBlocked  bool `bson:"is_candidate_blocked"` // 候选人被雇主拉黑
	IsEmployerBlocked   bool `bson:"is_employer_blocked"`  // 雇主被候选人拉黑

	Messages []Message `bson:"messages"`

	CreateTime time.Time `bson:"create_time"`
	UpdateTime time.Time `bson:"update_time"`
}

func (*Conversation) TableName() string { return "conversation" }

// RoleOf 返回账号在会话里的角色；不在会话里返回空串。
func (c *Conversation) RoleOf(accountID string) string {
	switch accountID {
	case c.CandidateID:
		return RoleCandidate
	case c.EmployerID:
		return RoleEmployer
	}
	return ""
}

// Counterpart 返回对端账号ID。
func (c *Conversation) Counterpart(accountID string) string {
	switch accountID {
	case c.CandidateID:
		return c.EmployerID
	case c.EmployerID:
		return c.CandidateID
	}
	return ""
}

// Snapshot 取会话当前旗标作为新消息的投递快照。
func (c *Conversation) Snapshot() DeliveryContext {
	return DeliveryContext{
		HasCandidateDeleted: c.HasCandidateDeleted,
		HasEmployerDeleted:  c.HasEmployerDeleted,
		IsCandidateBlocked:  c.IsCandidateBlocked,
		IsEmployerBlocked:   c.IsEmployerBlocked,
	}
}

// DeletedFor 按角色取实时删除位。
func (c *Conversation) DeletedFor(role string) bool {
	if role == RoleCandidate {
		return c.HasCandidateDeleted
	}
	return c.HasEmployerDeleted
}

// BlockedRole 按角色取实时拉黑位（该角色是否被对端拉黑）。
func (c *Conversation) BlockedRole(role string) bool {
	if role == RoleCandidate {
		return c.IsCandidateBlocked
	}
	return c.IsEmployerBlocked
}

// AnyBlocked 关系维度上是否存在拉黑（两个方向任一）。
func (c *Conversation) AnyBlocked() bool {
	return c.IsCandidateBlocked || c.IsEmployerBlocked
}
