package store

import (
	"context"
	"sync"

	"talentlink/module/directory/model"
	errs "talentlink/tools/errs"
)

// 内存实现：测试用。语义与 Mongo 实现对齐（集合操作幂等）。
type MemAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*model.Account
}

func NewMemAccountStore() *MemAccountStore {
	return &MemAccountStore{accounts: make(map[string]*model.Account)}
}

func (s *MemAccountStore) Put(a *model.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.accounts[a.AccountID] = &cp
}

func (s *MemAccountStore) Get(_ context.Context, accountID string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, errs.ErrRecordNotFound.WrapMsg("account", "account_id", accountID)
	}
	cp := *a
	return &cp, nil
}

func (s *MemAccountStore) ListCommunity(_ context.Context, membership, excludeFamilyID string) ([]*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Account
	for _, a := range s.accounts {
		if excludeFamilyID != "" && a.FamilyID == excludeFamilyID {
			continue
		}
		if a.Membership == membership || contains(a.AdditionalMemberships, membership) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemAccountStore) ListCandidates(_ context.Context) ([]*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Account
	for _, a := range s.accounts {
		if a.IsCandidate {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemAccountStore) AddExposedTo(_ context.Context, accountID string, granteeIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return errs.ErrRecordNotFound.WrapMsg("account", "account_id", accountID)
	}
	a.ExposedTo = addToSet(a.ExposedTo, granteeIDs...)
	return nil
}

func (s *MemAccountStore) RemoveExposedTo(_ context.Context, accountID string, granteeIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return errs.ErrRecordNotFound.WrapMsg("account", "account_id", accountID)
	}
	a.ExposedTo = pull(a.ExposedTo, granteeIDs...)
	return nil
}

func (s *MemAccountStore) AddBlockedBy(_ context.Context, accountID, blockerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return errs.ErrRecordNotFound.WrapMsg("account", "account_id", accountID)
	}
	a.BlockedBy = addToSet(a.BlockedBy, blockerID)
	return nil
}

func (s *MemAccountStore) RemoveBlockedBy(_ context.Context, accountID, blockerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return errs.ErrRecordNotFound.WrapMsg("account", "account_id", accountID)
	}
	a.BlockedBy = pull(a.BlockedBy, blockerID)
	return nil
}

type MemJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*model.Job
}

func NewMemJobStore() *MemJobStore {
	return &MemJobStore{jobs: make(map[string]*model.Job)}
}

func (s *MemJobStore) Put(j *model.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *j
	s.jobs[j.JobID] = &cp
}

func (s *MemJobStore) Get(_ context.Context, jobID string) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return nil, errs.ErrRecordNotFound.WrapMsg("job", "job_id", jobID)
	}
	cp := *j
	return &cp, nil
}

func (s *MemJobStore) ListActive(_ context.Context) ([]*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Job
	for _, j := range s.jobs {
		if j.Active() {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemJobStore) ListByGroup(_ context.Context, groupID string) ([]*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Job
	for _, j := range s.jobs {
		if contains(j.GroupIDs, groupID) {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemJobStore) AddExposedTo(_ context.Context, jobID string, memberIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return errs.ErrRecordNotFound.WrapMsg("job", "job_id", jobID)
	}
	j.ExposedTo = addToSet(j.ExposedTo, memberIDs...)
	return nil
}

func (s *MemJobStore) RemoveExposedTo(_ context.Context, jobID string, memberIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return errs.ErrRecordNotFound.WrapMsg("job", "job_id", jobID)
	}
	j.ExposedTo = pull(j.ExposedTo, memberIDs...)
	return nil
}

func (s *MemJobStore) RemoveGroupRef(_ context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		j.GroupIDs = pull(j.GroupIDs, groupID)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func addToSet(list []string, vs ...string) []string {
	for _, v := range vs {
		if !contains(list, v) {
			list = append(list, v)
		}
	}
	return list
}

func pull(list []string, vs ...string) []string {
	out := list[:0]
	for _, x := range list {
		drop := false
		for _, v := range vs {
			if x == v {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, x)
		}
	}
	return out
}
