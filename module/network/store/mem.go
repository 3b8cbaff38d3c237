package store

import (
	"context"
	"sync"
	"time"

	"talentlink/module/network/model"
	errs "talentlink/tools/errs"
)

type MemConnectionStore struct {
	mu   sync.RWMutex
	rows []*model.Connection
}

func NewMemConnectionStore() *MemConnectionStore {
	return &MemConnectionStore{}
}

func (s *MemConnectionStore) Insert(_ context.Context, c *model.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.rows = append(s.rows, &cp)
	return nil
}

func (s *MemConnectionStore) Get(_ context.Context, requestID string) (*model.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rows {
		if r.RequestID == requestID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, errs.ErrRecordNotFound.WrapMsg("connection", "request_id", requestID)
}

func (s *MemConnectionStore) MarkHandled(_ context.Context, requestID, status string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.RequestID == requestID && r.Status == model.StatusPending {
			r.Status = status
			r.HandleTime = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (s *MemConnectionStore) ListInvolving(_ context.Context, viewerID string) ([]*model.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Connection
	for _, r := range s.rows {
		if r.SenderID == viewerID || r.ReceiverID == viewerID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemConnectionStore) HasLivePending(_ context.Context, senderID, receiverID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rows {
		if r.SenderID == senderID && r.ReceiverID == receiverID && r.Status == model.StatusPending {
			return true, nil
		}
	}
	return false, nil
}
