package store

import (
	"context"

	"talentlink/module/network/model"
)

type ConnectionStore interface {
	Insert(ctx context.Context, c *model.Connection) error
	Get(ctx context.Context, requestID string) (*model.Connection, error)

	// MarkHandled 仅在记录仍为 pending 时落终态；返回是否真的更新了。
	// 靠过滤条件做守卫，不做读-改-写。
	MarkHandled(ctx context.Context, requestID, status string) (bool, error)

	// ListInvolving 返回 viewer 作为任一端的全部历史行。
	ListInvolving(ctx context.Context, viewerID string) ([]*model.Connection, error)
	// HasLivePending 同向 pending 行是否存在（防重复申请）。
	HasLivePending(ctx context.Context, senderID, receiverID string) (bool, error)
}
