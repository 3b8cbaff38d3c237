package model

import (
	"time"
)

// 曝光模式。一个组同一时刻只能处于一种模式，换模式必须重新物化 HotList。
const (
	ModeAll            = "all"             // 全平台可见（通配授权）
	ModeCommunity      = "community"       // 物化到 owner 社群的每个成员
	ModeExplicitGroups = "explicit-groups" // 物化到引用组成员的并集
)

func ValidMode(mode string) bool {
	switch mode {
	case ModeAll, ModeCommunity, ModeExplicitGroups:
		return true
	}
	return false
}

// Group 是 PA 维护的目标账号名单：热门推荐名单、职位曝光名单或候选人名单。
type Group struct {
	GroupID string `bson:"group_id"` // PK
	OwnerID string `bson:"owner_id"` // PA 账号
	Name    string `bson:"name"`

	MemberIDs []string `bson:"member_ids"` // 有序成员列表
	Mode      string   `bson:"mode"`

	// explicit-groups 模式下解析的引用组
	RefGroupIDs []string `bson:"ref_group_ids,omitempty"`

	// 分类：决定组变更要不要回写职位曝光
	IsHotList   bool `bson:"is_hot_list"`
	IsJob       bool `bson:"is_job"`
	IsCandidate bool `bson:"is_candidate"`

	CreateTime time.Time `bson:"create_time"`
	UpdateTime time.Time `bson:"update_time"`
}

func (*Group) TableName() string { return "group" }

// HotList 是按 viewer 物化出来的可见性授权：targetViewer 可以看到 members。
// 由 Group 的曝光模式推导，组变更时整组重建（幂等）。
type HotList struct {
	OwnerID   string   `bson:"owner_id"`  // 发起授权的 PA
	ViewerID  string   `bson:"viewer_id"` // 被授权的查看者；"*"=通配（mode=all）
	GroupID   string   `bson:"group_id"`
	GroupName string   `bson:"group_name"`
	MemberIDs []string `bson:"member_ids"` // viewer 因此可见的账号

	UpdateTime time.Time `bson:"update_time"`
}

func (*HotList) TableName() string { return "hot_list" }

// WildcardViewer 标记 mode=all 的通配授权行。
const WildcardViewer = "*"
