package store

import (
	"context"

	"talentlink/module/roster/model"
)

type GroupStore interface {
	Insert(ctx context.Context, g *model.Group) error
	Get(ctx context.Context, groupID string) (*model.Group, error)
	ListByIDs(ctx context.Context, groupIDs []string) ([]*model.Group, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Group, error)
	Update(ctx context.Context, g *model.Group) error
	Delete(ctx context.Context, groupID string) error
}

type HotListStore interface {
	// ReplaceForGroup 原子语义上是“先清后建”；操作幂等，可安全重跑。
	ReplaceForGroup(ctx context.Context, groupID string, rows []*model.HotList) error
	DeleteForGroup(ctx context.Context, groupID string) error
	ListForViewer(ctx context.Context, viewerID string) ([]*model.HotList, error)
}
