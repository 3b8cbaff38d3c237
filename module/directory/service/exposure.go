package service

import (
	"talentlink/module/directory/model"
)

// Viewer 是可见性判定需要的最小视角：账号ID + 社群归属。
// 每个查询都显式携带 viewer，不从隐式上下文里取。
type Viewer struct {
	ID                    string
	Membership            string
	AdditionalMemberships []string
}

func ViewerOf(a *model.Account) Viewer {
	return Viewer{
		ID:                    a.AccountID,
		Membership:            a.Membership,
		AdditionalMemberships: a.AdditionalMemberships,
	}
}

// IsVisible 判定 viewer 是否可见携带该策略的资源。纯函数，可并行批量调用。
// 判定顺序（任一命中即可见）：
//  1. 资源对全平台开放；
//  2. viewer 在资源的显式授权名单里；
//  3. 资源对社群开放，且 viewer 的主社群等于资源社群，或资源社群在 viewer 的附加社群里。
//
// 社群缺失只是“不产生社群匹配”，不是错误。
func IsVisible(viewer Viewer, res model.ExposurePolicy) bool {
	if res.IsExposedToAll {
		return true
	}
	for _, id := range res.ExposedTo {
		if id == viewer.ID {
			return true
		}
	}
	if res.IsExposedToCommunity && res.Membership != "" {
		if viewer.Membership == res.Membership {
			return true
		}
		for _, m := range viewer.AdditionalMemberships {
			if m == res.Membership {
				return true
			}
		}
	}
	return false
}

// Refinement 是基础可见性之后的二次过滤，只收窄、不放宽。
type Refinement func(*model.Account) bool

func FresherOnly() Refinement {
	return func(a *model.Account) bool { return a.IsFresher }
}

func InternshipOnly() Refinement {
	return func(a *model.Account) bool { return a.SeeksInternship }
}

func MinOneActiveJob() Refinement {
	return func(a *model.Account) bool { return a.ActiveJobCount >= 1 }
}

// FilterVisibleJobs 批量过滤：先基础可见性，再交给调用方叠加职位侧条件。
func FilterVisibleJobs(viewer Viewer, jobs []*model.Job) []*model.Job {
	out := make([]*model.Job, 0, len(jobs))
	for _, j := range jobs {
		if !j.Active() {
			continue
		}
		if IsVisible(viewer, j.ExposurePolicy) {
			out = append(out, j)
		}
	}
	return out
}

// FilterVisibleCandidates 批量过滤候选人档案，refinements 逐个叠加。
func FilterVisibleCandidates(viewer Viewer, accounts []*model.Account, refinements ...Refinement) []*model.Account {
	out := make([]*model.Account, 0, len(accounts))
next:
	for _, a := range accounts {
		if !a.IsCandidate {
			continue
		}
		if !IsVisible(viewer, a.ExposurePolicy) {
			continue
		}
		for _, ref := range refinements {
			if !ref(a) {
				continue next
			}
		}
		out = append(out, a)
	}
	return out
}
