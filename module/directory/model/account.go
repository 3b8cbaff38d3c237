package model

import (
	"time"
)

// ExposurePolicy 描述“谁能看到这份资源”。账号（候选人档案）与职位都内嵌同一份策略，
// 由 Exposure Resolver 统一判定。
type ExposurePolicy struct {
	IsExposedToAll       bool     `bson:"is_exposed_to_all"`       // 对全平台可见
	IsExposedToCommunity bool     `bson:"is_exposed_to_community"` // 对同社群可见
	ExposedTo            []string `bson:"exposed_to"`              // 显式授权的账号ID集合（$addToSet 维护）
	Membership           string   `bson:"membership"`              // 资源归属社群；为空=不参与社群匹配
}

// Account 表示平台账号：PA（安置机构）、雇主或候选人。
// 一个机构可能有多个账号，同属一个 family；社群物化时排除 owner 自己的 family。
type Account struct {
	AccountID string `bson:"account_id"` // PK
	Name      string `bson:"name"`
	FamilyID  string `bson:"family_id"` // 账号家族（同机构的关联账号）

	// 角色开关（一个账号可兼多角色）
	IsPA        bool `bson:"is_pa"`
	IsEmployer  bool `bson:"is_employer"`
	IsCandidate bool `bson:"is_candidate"`

	// 社群归属。主社群缺失 ⇒ 不产生任何社群匹配，不是错误。
	Membership            string   `bson:"membership"`
	AdditionalMemberships []string `bson:"additional_memberships"`

	ExposurePolicy `bson:",inline"`

	// BlockedBy 反向索引：哪些账号拉黑了我。与会话上的 block 旗标一起维护，
	// 供与会话无关的可见性查询使用。
	BlockedBy []string `bson:"blocked_by"`

	// 候选人侧筛选属性
	IsFresher       bool `bson:"is_fresher"`        // 应届生
	SeeksInternship bool `bson:"seeks_internship"`  // 只找实习
	ActiveJobCount  int  `bson:"active_job_count"`  // 雇主侧：在招职位数

	DeviceToken string `bson:"device_token"` // 推送令牌；为空=不推送

	CreateTime time.Time `bson:"create_time"`
	UpdateTime time.Time `bson:"update_time"`
}

func (*Account) TableName() string { return "account" }

// Memberships 返回主社群+附加社群；主社群为空时不包含空串。
func (a *Account) Memberships() []string {
	out := make([]string, 0, 1+len(a.AdditionalMemberships))
	if a.Membership != "" {
		out = append(out, a.Membership)
	}
	out = append(out, a.AdditionalMemberships...)
	return out
}
