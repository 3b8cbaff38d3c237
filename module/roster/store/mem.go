package store

import (
	"context"
	"sync"

	"talentlink/module/roster/model"
	errs "talentlink/tools/errs"
)

type MemGroupStore struct {
	mu     sync.RWMutex
	groups map[string]*model.Group
}

func NewMemGroupStore() *MemGroupStore {
	return &MemGroupStore{groups: make(map[string]*model.Group)}
}

func (s *MemGroupStore) Insert(_ context.Context, g *model.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *g
	s.groups[g.GroupID] = &cp
	return nil
}

func (s *MemGroupStore) Get(_ context.Context, groupID string) (*model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[groupID]
	if !ok {
		return nil, errs.ErrRecordNotFound.WrapMsg("group", "group_id", groupID)
	}
	cp := *g
	return &cp, nil
}

func (s *MemGroupStore) ListByIDs(_ context.Context, groupIDs []string) ([]*model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Group
	for _, id := range groupIDs {
		if g, ok := s.groups[id]; ok {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemGroupStore) ListByOwner(_ context.Context, ownerID string) ([]*model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Group
	for _, g := range s.groups {
		if g.OwnerID == ownerID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemGroupStore) Update(_ context.Context, g *model.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[g.GroupID]; !ok {
		return errs.ErrRecordNotFound.WrapMsg("group", "group_id", g.GroupID)
	}
	cp := *g
	s.groups[g.GroupID] = &cp
	return nil
}

func (s *MemGroupStore) Delete(_ context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.groups, groupID)
	return nil
}

type MemHotListStore struct {
	mu   sync.RWMutex
	rows []*model.HotList
}

func NewMemHotListStore() *MemHotListStore {
	return &MemHotListStore{}
}

func (s *MemHotListStore) ReplaceForGroup(_ context.Context, groupID string, rows []*model.HotList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	for _, r := range s.rows {
		if r.GroupID != groupID {
			kept = append(kept, r)
		}
	}
	s.rows = kept
	for _, r := range rows {
		cp := *r
		s.rows = append(s.rows, &cp)
	}
	return nil
}

func (s *MemHotListStore) DeleteForGroup(ctx context.Context, groupID string) error {
	return s.ReplaceForGroup(ctx, groupID, nil)
}

func (s *MemHotListStore) ListForViewer(_ context.Context, viewerID string) ([]*model.HotList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.HotList
	for _, r := range s.rows {
		if r.ViewerID == viewerID || r.ViewerID == model.WildcardViewer {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}
