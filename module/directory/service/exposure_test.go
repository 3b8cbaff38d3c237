package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"talentlink/module/directory/model"
)

func TestIsVisiblePrecedence(t *testing.T) {
	viewer := Viewer{ID: "emp1", Membership: "tech"}

	cases := []struct {
		name   string
		policy model.ExposurePolicy
		want   bool
	}{
		{"nothing set", model.ExposurePolicy{}, false},
		{"exposed to all", model.ExposurePolicy{IsExposedToAll: true}, true},
		{"explicit grant", model.ExposurePolicy{ExposedTo: []string{"emp1"}}, true},
		{"explicit grant for someone else", model.ExposurePolicy{ExposedTo: []string{"emp2"}}, false},
		{"community match", model.ExposurePolicy{IsExposedToCommunity: true, Membership: "tech"}, true},
		{"community mismatch", model.ExposurePolicy{IsExposedToCommunity: true, Membership: "finance"}, false},
		{"community flag without membership", model.ExposurePolicy{IsExposedToCommunity: true}, false},
		{"all flags off but granted", model.ExposurePolicy{ExposedTo: []string{"emp1"}, Membership: "finance"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, IsVisible(viewer, tc.policy))
		})
	}
}

func TestIsVisibleAdditionalMemberships(t *testing.T) {
	viewer := Viewer{ID: "emp1", Membership: "tech", AdditionalMemberships: []string{"finance", "health"}}
	policy := model.ExposurePolicy{IsExposedToCommunity: true, Membership: "health"}
	require.True(t, IsVisible(viewer, policy))

	// viewer 自己没有社群 ⇒ 不命中社群规则
	bare := Viewer{ID: "emp2"}
	require.False(t, IsVisible(bare, policy))
}

func TestFilterVisibleCandidates(t *testing.T) {
	viewer := Viewer{ID: "emp1", Membership: "tech"}
	candidates := []*model.Account{
		{AccountID: "c1", IsCandidate: true, ExposurePolicy: model.ExposurePolicy{IsExposedToAll: true}, IsFresher: true},
		{AccountID: "c2", IsCandidate: true, ExposurePolicy: model.ExposurePolicy{IsExposedToCommunity: true, Membership: "tech"}},
		{AccountID: "c3", IsCandidate: true}, // 不可见
		{AccountID: "e1", IsEmployer: true, ExposurePolicy: model.ExposurePolicy{IsExposedToAll: true}}, // 非候选人
	}

	got := FilterVisibleCandidates(viewer, candidates)
	require.Len(t, got, 2)
	require.Equal(t, "c1", got[0].AccountID)
	require.Equal(t, "c2", got[1].AccountID)

	fresher := FilterVisibleCandidates(viewer, candidates, FresherOnly())
	require.Len(t, fresher, 1)
	require.Equal(t, "c1", fresher[0].AccountID)
}

func TestRefinementsOnlyNarrow(t *testing.T) {
	viewer := Viewer{ID: "emp1"}
	hidden := []*model.Account{
		{AccountID: "c1", IsCandidate: true, IsFresher: true, SeeksInternship: true},
	}
	// 二次过滤命中也救不回基础不可见的档案
	require.Empty(t, FilterVisibleCandidates(viewer, hidden, FresherOnly(), InternshipOnly()))
}

func TestFilterVisibleJobs(t *testing.T) {
	viewer := Viewer{ID: "cand1", Membership: "tech"}
	jobs := []*model.Job{
		{JobID: "j1", IsVisible: true, ExposurePolicy: model.ExposurePolicy{IsExposedToAll: true}},
		{JobID: "j2", IsVisible: true, IsArchived: true, ExposurePolicy: model.ExposurePolicy{IsExposedToAll: true}},
		{JobID: "j3", IsVisible: true, ExposurePolicy: model.ExposurePolicy{ExposedTo: []string{"cand1"}}},
		{JobID: "j4", IsVisible: false, ExposurePolicy: model.ExposurePolicy{IsExposedToAll: true}},
		{JobID: "j5", IsVisible: true},
	}
	got := FilterVisibleJobs(viewer, jobs)
	require.Len(t, got, 2)
	require.Equal(t, "j1", got[0].JobID)
	require.Equal(t, "j3", got[1].JobID)
}
