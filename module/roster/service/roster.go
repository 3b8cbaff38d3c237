package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	dirstore "talentlink/module/directory/store"
	"talentlink/module/roster/model"
	"talentlink/module/roster/store"
	errs "talentlink/tools/errs"
)

// Registry 维护名单组及其物化出来的 HotList 授权。
// 组→职位的回写是无事务的批量补偿：算目标集合、与现状做差、打增量补丁，
// 重复执行收敛到同一结果。
type Registry struct {
	Groups   store.GroupStore
	HotLists store.HotListStore
	Accounts dirstore.AccountStore
	Jobs     dirstore.JobStore
}

type GroupInput struct {
	Name        string   `json:"name"`
	MemberIDs   []string `json:"member_ids"`
	Mode        string   `json:"mode"`
	RefGroupIDs []string `json:"ref_group_ids"`
	IsHotList   bool     `json:"is_hot_list"`
	IsJob       bool     `json:"is_job"`
	IsCandidate bool     `json:"is_candidate"`
}

func (in *GroupInput) validate() error {
	if in.Name == "" {
		return errs.ErrArgs.WrapMsg("group name required")
	}
	if !model.ValidMode(in.Mode) {
		return errs.ErrArgs.WrapMsg("invalid exposure mode", "mode", in.Mode)
	}
	if in.Mode == model.ModeExplicitGroups && len(in.RefGroupIDs) == 0 {
		return errs.ErrArgs.WrapMsg("explicit-groups mode requires referenced groups")
	}
	return nil
}

func (r *Registry) CreateGroup(ctx context.Context, actorID string, in GroupInput) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	now := time.Now()
	g := &model.Group{
		GroupID:     uuid.NewString(),
		OwnerID:     actorID,
		Name:        in.Name,
		MemberIDs:   in.MemberIDs,
		Mode:        in.Mode,
		RefGroupIDs: in.RefGroupIDs,
		IsHotList:   in.IsHotList,
		IsJob:       in.IsJob,
		IsCandidate: in.IsCandidate,
		CreateTime:  now,
		UpdateTime:  now,
	}
	if err := r.Groups.Insert(ctx, g); err != nil {
		return "", err
	}
	if err := r.materialize(ctx, g); err != nil {
		return "", err
	}
	return g.GroupID, nil
}

func (r *Registry) UpdateGroup(ctx context.Context, actorID, groupID string, in GroupInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	g, err := r.Groups.Get(ctx, groupID)
	if err != nil {
		return err
	}
	if g.OwnerID != actorID {
		return errs.ErrNoPermission.Wrap()
	}

	oldMembers := g.MemberIDs
	wasJob := g.IsJob

	g.Name = in.Name
	g.MemberIDs = in.MemberIDs
	g.Mode = in.Mode
	g.RefGroupIDs = in.RefGroupIDs
	g.IsHotList = in.IsHotList
	g.IsJob = in.IsJob
	g.IsCandidate = in.IsCandidate
	g.UpdateTime = time.Now()

	if err := r.Groups.Update(ctx, g); err != nil {
		return err
	}
	// 模式/成员变更 ⇒ 整组重建授权行
	if err := r.materialize(ctx, g); err != nil {
		return err
	}
	if wasJob || g.IsJob {
		if err := r.reconcileJobs(ctx, groupID, oldMembers, g.MemberIDs); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) DeleteGroup(ctx context.Context, actorID, groupID string) error {
	g, err := r.Groups.Get(ctx, groupID)
	if err != nil {
		return err
	}
	if g.OwnerID != actorID {
		return errs.ErrNoPermission.Wrap()
	}
	// 删组=对空目标集合做一次回收
	if g.IsJob {
		if err := r.reconcileJobs(ctx, groupID, g.MemberIDs, nil); err != nil {
			return err
		}
	}
	if err := r.Jobs.RemoveGroupRef(ctx, groupID); err != nil {
		return err
	}
	if err := r.HotLists.DeleteForGroup(ctx, groupID); err != nil {
		return err
	}
	return r.Groups.Delete(ctx, groupID)
}

// GrantedMembers 返回 viewer 通过 HotList 授权获得可见性的账号ID集合。
func (r *Registry) GrantedMembers(ctx context.Context, viewerID string) ([]string, error) {
	rows, err := r.HotLists.ListForViewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	all := make([]string, 0)
	for _, row := range rows {
		all = append(all, row.MemberIDs...)
	}
	return lo.Uniq(all), nil
}

// materialize 按模式重建组的 HotList 行。整组先清后建，幂等。
func (r *Registry) materialize(ctx context.Context, g *model.Group) error {
	now := time.Now()
	row := func(viewerID string) *model.HotList {
		return &model.HotList{
			OwnerID:    g.OwnerID,
			ViewerID:   viewerID,
			GroupID:    g.GroupID,
			GroupName:  g.Name,
			MemberIDs:  g.MemberIDs,
			UpdateTime: now,
		}
	}

	var rows []*model.HotList
	switch g.Mode {
	case model.ModeAll:
		rows = append(rows, row(model.WildcardViewer))

	case model.ModeCommunity:
		owner, err := r.Accounts.Get(ctx, g.OwnerID)
		if err != nil {
			return err
		}
		if owner.Membership == "" {
			// 无社群 ⇒ 无匹配，物化为空
			break
		}
		community, err := r.Accounts.ListCommunity(ctx, owner.Membership, owner.FamilyID)
		if err != nil {
			return err
		}
		for _, viewer := range community {
			rows = append(rows, row(viewer.AccountID))
		}

	case model.ModeExplicitGroups:
		refs, err := r.Groups.ListByIDs(ctx, g.RefGroupIDs)
		if err != nil {
			return err
		}
		viewers := make([]string, 0)
		for _, ref := range refs {
			viewers = append(viewers, ref.MemberIDs...)
		}
		for _, viewerID := range lo.Uniq(viewers) {
			rows = append(rows, row(viewerID))
		}
	}

	return r.HotLists.ReplaceForGroup(ctx, g.GroupID, rows)
}

// reconcileJobs 把组成员变化按差量回写到引用该组的职位曝光名单。
// 成员同时被职位的其他组授权时不回收。
func (r *Registry) reconcileJobs(ctx context.Context, groupID string, oldMembers, newMembers []string) error {
	added, removed := lo.Difference(newMembers, oldMembers)
	if len(added) == 0 && len(removed) == 0 {
		return nil
	}

	jobs, err := r.Jobs.ListByGroup(ctx, groupID)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		if err := r.Jobs.AddExposedTo(ctx, job.JobID, added...); err != nil {
			return err
		}
		if len(removed) == 0 {
			continue
		}
		otherIDs := lo.Without(job.GroupIDs, groupID)
		others, err := r.Groups.ListByIDs(ctx, otherIDs)
		if err != nil {
			return err
		}
		stillGranted := make([]string, 0)
		for _, o := range others {
			stillGranted = append(stillGranted, o.MemberIDs...)
		}
		toRemove, _ := lo.Difference(removed, stillGranted)
		if err := r.Jobs.RemoveExposedTo(ctx, job.JobID, toRemove...); err != nil {
			return err
		}
	}
	return nil
}
