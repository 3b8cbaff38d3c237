package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	dirmodel "talentlink/module/directory/model"
	dirstore "talentlink/module/directory/store"
	"talentlink/module/roster/model"
	"talentlink/module/roster/store"
	errs "talentlink/tools/errs"
)

func newRegistry() (*Registry, *dirstore.MemAccountStore, *dirstore.MemJobStore) {
	accounts := dirstore.NewMemAccountStore()
	jobs := dirstore.NewMemJobStore()
	r := &Registry{
		Groups:   store.NewMemGroupStore(),
		HotLists: store.NewMemHotListStore(),
		Accounts: accounts,
		Jobs:     jobs,
	}
	return r, accounts, jobs
}

func TestCreateGroupModeAll(t *testing.T) {
	ctx := context.Background()
	r, accounts, _ := newRegistry()
	accounts.Put(&dirmodel.Account{AccountID: "pa1", IsPA: true})

	groupID, err := r.CreateGroup(ctx, "pa1", GroupInput{
		Name:      "open roster",
		MemberIDs: []string{"c1", "c2"},
		Mode:      model.ModeAll,
		IsHotList: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, groupID)

	// 任意 viewer 都拿到授权（通配行）
	members, err := r.GrantedMembers(ctx, "anyone")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"c1", "c2"}, members)
}

func TestCreateGroupModeCommunity(t *testing.T) {
	ctx := context.Background()
	r, accounts, _ := newRegistry()
	accounts.Put(&dirmodel.Account{AccountID: "pa1", Membership: "tech", FamilyID: "famA"})
	accounts.Put(&dirmodel.Account{AccountID: "emp1", Membership: "tech", FamilyID: "famB"})
	accounts.Put(&dirmodel.Account{AccountID: "emp2", Membership: "tech", FamilyID: "famA"}) // owner 家族，排除
	accounts.Put(&dirmodel.Account{AccountID: "emp3", Membership: "finance", FamilyID: "famC"})

	_, err := r.CreateGroup(ctx, "pa1", GroupInput{
		Name:      "community roster",
		MemberIDs: []string{"c1"},
		Mode:      model.ModeCommunity,
		IsHotList: true,
	})
	require.NoError(t, err)

	members, err := r.GrantedMembers(ctx, "emp1")
	require.NoError(t, err)
	require.Equal(t, []string{"c1"}, members)

	for _, viewer := range []string{"emp2", "emp3"} {
		members, err = r.GrantedMembers(ctx, viewer)
		require.NoError(t, err)
		require.Empty(t, members)
	}
}

func TestCreateGroupCommunityWithoutMembership(t *testing.T) {
	ctx := context.Background()
	r, accounts, _ := newRegistry()
	accounts.Put(&dirmodel.Account{AccountID: "pa1"}) // 无社群
	accounts.Put(&dirmodel.Account{AccountID: "emp1", Membership: "tech"})

	_, err := r.CreateGroup(ctx, "pa1", GroupInput{
		Name:      "empty roster",
		MemberIDs: []string{"c1"},
		Mode:      model.ModeCommunity,
	})
	require.NoError(t, err)

	// 无社群 ⇒ 物化为空，不是错误
	members, err := r.GrantedMembers(ctx, "emp1")
	require.NoError(t, err)
	require.Empty(t, members)
}

func TestCreateGroupExplicitGroupsUnion(t *testing.T) {
	ctx := context.Background()
	r, accounts, _ := newRegistry()
	accounts.Put(&dirmodel.Account{AccountID: "pa1"})

	refA, err := r.CreateGroup(ctx, "pa1", GroupInput{
		Name: "viewers A", MemberIDs: []string{"emp1", "emp2"}, Mode: model.ModeAll,
	})
	require.NoError(t, err)
	refB, err := r.CreateGroup(ctx, "pa1", GroupInput{
		Name: "viewers B", MemberIDs: []string{"emp2", "emp3"}, Mode: model.ModeAll,
	})
	require.NoError(t, err)

	_, err = r.CreateGroup(ctx, "pa1", GroupInput{
		Name:        "shared roster",
		MemberIDs:   []string{"c1"},
		Mode:        model.ModeExplicitGroups,
		RefGroupIDs: []string{refA, refB},
		IsHotList:   true,
	})
	require.NoError(t, err)

	// refA∪refB 的成员都是 viewer，去重
	for _, viewer := range []string{"emp1", "emp2", "emp3"} {
		members, err := r.GrantedMembers(ctx, viewer)
		require.NoError(t, err)
		require.Contains(t, members, "c1")
	}
}

func TestExplicitGroupsRequiresRefs(t *testing.T) {
	r, _, _ := newRegistry()
	_, err := r.CreateGroup(context.Background(), "pa1", GroupInput{
		Name: "bad", Mode: model.ModeExplicitGroups,
	})
	require.True(t, errs.ErrArgs.Is(err))
}

func TestUpdateGroupOwnerOnly(t *testing.T) {
	ctx := context.Background()
	r, accounts, _ := newRegistry()
	accounts.Put(&dirmodel.Account{AccountID: "pa1"})

	groupID, err := r.CreateGroup(ctx, "pa1", GroupInput{
		Name: "mine", MemberIDs: []string{"c1"}, Mode: model.ModeAll,
	})
	require.NoError(t, err)

	err = r.UpdateGroup(ctx, "intruder", groupID, GroupInput{
		Name: "stolen", Mode: model.ModeAll,
	})
	require.True(t, errs.ErrNoPermission.Is(err))

	err = r.UpdateGroup(ctx, "pa1", "missing", GroupInput{Name: "x", Mode: model.ModeAll})
	require.True(t, errs.ErrRecordNotFound.Is(err))
}

func TestJobReconciliationOnMemberChange(t *testing.T) {
	ctx := context.Background()
	r, accounts, jobs := newRegistry()
	accounts.Put(&dirmodel.Account{AccountID: "pa1"})

	groupID, err := r.CreateGroup(ctx, "pa1", GroupInput{
		Name: "job viewers", MemberIDs: []string{"emp1", "emp2"}, Mode: model.ModeAll, IsJob: true,
	})
	require.NoError(t, err)

	jobs.Put(&dirmodel.Job{
		JobID: "j1", OwnerID: "pa1", Title: "backend", IsVisible: true,
		GroupIDs:       []string{groupID},
		ExposurePolicy: dirmodel.ExposurePolicy{ExposedTo: []string{"emp1", "emp2"}},
	})

	// emp2 掉出、emp3 加入
	err = r.UpdateGroup(ctx, "pa1", groupID, GroupInput{
		Name: "job viewers", MemberIDs: []string{"emp1", "emp3"}, Mode: model.ModeAll, IsJob: true,
	})
	require.NoError(t, err)

	job, err := jobs.Get(ctx, "j1")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"emp1", "emp3"}, job.ExposedTo)
}

func TestJobReconciliationKeepsOtherGroupGrants(t *testing.T) {
	ctx := context.Background()
	r, accounts, jobs := newRegistry()
	accounts.Put(&dirmodel.Account{AccountID: "pa1"})

	groupA, err := r.CreateGroup(ctx, "pa1", GroupInput{
		Name: "A", MemberIDs: []string{"emp1", "emp2"}, Mode: model.ModeAll, IsJob: true,
	})
	require.NoError(t, err)
	groupB, err := r.CreateGroup(ctx, "pa1", GroupInput{
		Name: "B", MemberIDs: []string{"emp2"}, Mode: model.ModeAll, IsJob: true,
	})
	require.NoError(t, err)

	jobs.Put(&dirmodel.Job{
		JobID: "j1", OwnerID: "pa1", IsVisible: true,
		GroupIDs:       []string{groupA, groupB},
		ExposurePolicy: dirmodel.ExposurePolicy{ExposedTo: []string{"emp1", "emp2"}},
	})

	// emp2 掉出 A，但 B 还授权着 ⇒ 不回收
	err = r.UpdateGroup(ctx, "pa1", groupA, GroupInput{
		Name: "A", MemberIDs: []string{"emp1"}, Mode: model.ModeAll, IsJob: true,
	})
	require.NoError(t, err)

	job, err := jobs.Get(ctx, "j1")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"emp1", "emp2"}, job.ExposedTo)
}

func TestDeleteGroupCleansUp(t *testing.T) {
	ctx := context.Background()
	r, accounts, jobs := newRegistry()
	accounts.Put(&dirmodel.Account{AccountID: "pa1"})

	groupID, err := r.CreateGroup(ctx, "pa1", GroupInput{
		Name: "doomed", MemberIDs: []string{"emp1"}, Mode: model.ModeAll, IsJob: true, IsHotList: true,
	})
	require.NoError(t, err)

	jobs.Put(&dirmodel.Job{
		JobID: "j1", OwnerID: "pa1", IsVisible: true,
		GroupIDs:       []string{groupID},
		ExposurePolicy: dirmodel.ExposurePolicy{ExposedTo: []string{"emp1"}},
	})

	require.NoError(t, r.DeleteGroup(ctx, "pa1", groupID))

	members, err := r.GrantedMembers(ctx, "emp1")
	require.NoError(t, err)
	require.Empty(t, members)

	job, err := jobs.Get(ctx, "j1")
	require.NoError(t, err)
	require.Empty(t, job.ExposedTo)
	require.NotContains(t, job.GroupIDs, groupID)

	err = r.DeleteGroup(ctx, "pa1", groupID)
	require.True(t, errs.ErrRecordNotFound.Is(err))
}

func TestMaterializeIdempotent(t *testing.T) {
	ctx := context.Background()
	r, accounts, _ := newRegistry()
	accounts.Put(&dirmodel.Account{AccountID: "pa1"})

	groupID, err := r.CreateGroup(ctx, "pa1", GroupInput{
		Name: "stable", MemberIDs: []string{"c1"}, Mode: model.ModeAll,
	})
	require.NoError(t, err)

	// 同内容重复 update ⇒ 授权行不翻倍
	for i := 0; i < 3; i++ {
		err = r.UpdateGroup(ctx, "pa1", groupID, GroupInput{
			Name: "stable", MemberIDs: []string{"c1"}, Mode: model.ModeAll,
		})
		require.NoError(t, err)
	}
	members, err := r.GrantedMembers(ctx, "whoever")
	require.NoError(t, err)
	require.Equal(t, []string{"c1"}, members)
}
