package model

import (
	"time"
)

// ChatRequest 是候选人经 PA 发给雇主的聊天申请，按职位一条。
// 处理是关系级的：同一对候选人×雇主的所有 pending 申请一次性落到同一终态。
type ChatRequest struct {
	RequestID   string `bson:"request_id"` // PK
	PAID        string `bson:"pa_id"`
	EmployerID  string `bson:"employer_id"`
	CandidateID string `bson:"candidate_id"`
	JobID       string `bson:"job_id"`

	IsAccepted bool `bson:"is_accepted"`
	IsRejected bool `bson:"is_rejected"`

	CreateTime time.Time `bson:"create_time"`
	HandleTime time.Time `bson:"handle_time,omitempty"`
}

func (*ChatRequest) TableName() string { return "chat_request" }

// Terminal 终态申请不可再处理。
func (r *ChatRequest) Terminal() bool {
	return r.IsAccepted || r.IsRejected
}
