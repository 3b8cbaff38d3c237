package store

import (
	"context"

	"talentlink/module/chat/model"
)

type RequestStore interface {
	Insert(ctx context.Context, r *model.ChatRequest) error
	Get(ctx context.Context, requestID string) (*model.ChatRequest, error)

	// ListPending 返回该雇主×候选人之间全部未处理申请（跨职位）。
	ListPending(ctx context.Context, employerID, candidateID string) ([]*model.ChatRequest, error)

	// MarkAllHandled 把该对账号所有 pending 申请一次性落到同一终态。
	// 幂等：已处理的行不受影响。
	MarkAllHandled(ctx context.Context, employerID, candidateID string, accepted bool) error

	ListByParty(ctx context.Context, accountID string) ([]*model.ChatRequest, error)
}

type ConversationStore interface {
	Get(ctx context.Context, conversationID string) (*model.Conversation, error)
	FindByKey(ctx context.Context, candidateID, employerID, jobID string) (*model.Conversation, error)

	// CreateOrActivate 按自然键 (candidate, employer, job) upsert：
	// 已存在 ⇒ 置 is_exposed=true；不存在 ⇒ 原样落库。
	// 幂等：重复触发定位到同一会话，不产生重复文档。
	CreateOrActivate(ctx context.Context, c *model.Conversation) (*model.Conversation, error)

	AppendMessage(ctx context.Context, conversationID string, m model.Message) error

	// MarkRead 把会话内发给 reader 的未读消息置已读（过滤数组元素更新）。
	MarkRead(ctx context.Context, conversationID, readerID string) error

	// SetDeleted 置会话级删除位，并把删除位追溯写进每条历史消息的快照。
	SetDeleted(ctx context.Context, conversationID, role string) error

	// SetBlocked 对同一有序 (candidate, employer) 对的所有会话统一置拉黑位。
	SetBlocked(ctx context.Context, candidateID, employerID, role string, value bool) error

	// FindAnyBetween 在任一角色排布下找这对账号的一个会话。
	FindAnyBetween(ctx context.Context, aID, bID string) (*model.Conversation, error)

	ListFor(ctx context.Context, viewerID string) ([]*model.Conversation, error)
}
