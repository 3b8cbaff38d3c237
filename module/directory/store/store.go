package store

import (
	"context"

	"talentlink/module/directory/model"
)

// AccountStore 抽象：生产实现 Mongo；内存实现（mem.go）供测试。
type AccountStore interface {
	Get(ctx context.Context, accountID string) (*model.Account, error)

	// ListCommunity 返回指定社群的全部账号，排除给定账号家族。
	ListCommunity(ctx context.Context, membership, excludeFamilyID string) ([]*model.Account, error)
	ListCandidates(ctx context.Context) ([]*model.Account, error)

	// 原子集合操作；重复执行收敛到同一状态
	AddExposedTo(ctx context.Context, accountID string, granteeIDs ...string) error
	RemoveExposedTo(ctx context.Context, accountID string, granteeIDs ...string) error
	AddBlockedBy(ctx context.Context, accountID, blockerID string) error
	RemoveBlockedBy(ctx context.Context, accountID, blockerID string) error
}

type JobStore interface {
	Get(ctx context.Context, jobID string) (*model.Job, error)
	ListActive(ctx context.Context) ([]*model.Job, error)
	ListByGroup(ctx context.Context, groupID string) ([]*model.Job, error)

	AddExposedTo(ctx context.Context, jobID string, memberIDs ...string) error
	RemoveExposedTo(ctx context.Context, jobID string, memberIDs ...string) error
	// RemoveGroupRef 把组引用从所有职位上摘掉（删组时的收尾）。
	RemoveGroupRef(ctx context.Context, groupID string) error
}
