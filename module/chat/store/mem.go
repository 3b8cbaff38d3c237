package store

import (
	"context"
	"sync"
	"time"

	"talentlink/module/chat/model"
	errs "talentlink/tools/errs"
)

type MemRequestStore struct {
	mu   sync.RWMutex
	rows []*model.ChatRequest
}

func NewMemRequestStore() *MemRequestStore {
	return &MemRequestStore{}
}

func (s *MemRequestStore) Insert(_ context.Context, r *model.ChatRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.rows = append(s.rows, &cp)
	return nil
}

func (s *MemRequestStore) Get(_ context.Context, requestID string) (*model.ChatRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rows {
		if r.RequestID == requestID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, errs.ErrRecordNotFound.WrapMsg("chat request", "request_id", requestID)
}

func (s *MemRequestStore) ListPending(_ context.Context, employerID, candidateID string) ([]*model.ChatRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.ChatRequest
	for _, r := range s.rows {
		if r.EmployerID == employerID && r.CandidateID == candidateID && !r.Terminal() {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemRequestStore) MarkAllHandled(_ context.Context, employerID, candidateID string, accepted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, r := range s.rows {
		if r.EmployerID == employerID && r.CandidateID == candidateID && !r.Terminal() {
			if accepted {
				r.IsAccepted = true
			} else {
				r.IsRejected = true
			}
			r.HandleTime = now
		}
	}
	return nil
}

func (s *MemRequestStore) ListByParty(_ context.Context, accountID string) ([]*model.ChatRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.ChatRequest
	for _, r := range s.rows {
		if r.PAID == accountID || r.EmployerID == accountID || r.CandidateID == accountID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

type MemConversationStore struct {
	mu   sync.RWMutex
	rows []*model.Conversation
}

func NewMemConversationStore() *MemConversationStore {
	return &MemConversationStore{}
}

func (s *MemConversationStore) clone(c *model.Conversation) *model.Conversation {
	cp := *c
	cp.Messages = make([]model.Message, len(c.Messages))
	copy(cp.Messages, c.Messages)
	return &cp
}

func (s *MemConversationStore) Get(_ context.Context, conversationID string) (*model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.rows {
		if c.ConversationID == conversationID {
			return s.clone(c), nil
		}
	}
	return nil, errs.ErrRecordNotFound.WrapMsg("conversation", "conversation_id", conversationID)
}

func (s *MemConversationStore) FindByKey(_ context.Context, candidateID, employerID, jobID string) (*model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.rows {
		if c.CandidateID == candidateID && c.EmployerID == employerID && c.JobID == jobID {
			return s.clone(c), nil
		}
	}
	return nil, errs.ErrRecordNotFound.WrapMsg("conversation")
}

func (s *MemConversationStore) CreateOrActivate(_ context.Context, c *model.Conversation) (*model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.CandidateID == c.CandidateID && row.EmployerID == c.EmployerID && row.JobID == c.JobID {
			row.IsExposed = true
			row.UpdateTime = time.Now()
			return s.clone(row), nil
		}
	}
	cp := s.clone(c)
	cp.IsExposed = true
	s.rows = append(s.rows, cp)
	return s.clone(cp), nil
}

func (s *MemConversationStore) AppendMessage(_ context.Context, conversationID string, m model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.rows {
		if c.ConversationID == conversationID {
			c.Messages = append(c.Messages, m)
			c.UpdateTime = time.Now()
			return nil
		}
	}
	return errs.ErrRecordNotFound.WrapMsg("conversation", "conversation_id", conversationID)
}

func (s *MemConversationStore) MarkRead(_ context.Context, conversationID, readerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.rows {
		if c.ConversationID != conversationID {
			continue
		}
		for i := range c.Messages {
			if c.Messages[i].ToID == readerID {
				c.Messages[i].IsRead = true
			}
		}
		return nil
	}
	return errs.ErrRecordNotFound.WrapMsg("conversation", "conversation_id", conversationID)
}

func (s *MemConversationStore) SetDeleted(_ context.Context, conversationID, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.rows {
		if c.ConversationID != conversationID {
			continue
		}
		if role == model.RoleCandidate {
			c.HasCandidateDeleted = true
			for i := range c.Messages {
				c.Messages[i].Delivery.HasCandidateDeleted = true
			}
		} else {
			c.HasEmployerDeleted = true
			for i := range c.Messages {
				c.Messages[i].Delivery.HasEmployerDeleted = true
			}
		}
		return nil
	}
	return errs.ErrRecordNotFound.WrapMsg("conversation", "conversation_id", conversationID)
}

func (s *MemConversationStore) SetBlocked(_ context.Context, candidateID, employerID, role string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.rows {
		if c.CandidateID == candidateID && c.EmployerID == employerID {
			if role == model.RoleCandidate {
				c.IsCandidateBlocked = value
			} else {
				c.IsEmployerBlocked = value
			}
		}
	}
	return nil
}

func (s *MemConversationStore) FindAnyBetween(_ context.Context, aID, bID string) (*model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.rows {
		if (c.CandidateID == aID && c.EmployerID == bID) || (c.CandidateID == bID && c.EmployerID == aID) {
			return s.clone(c), nil
		}
	}
	return nil, errs.ErrRecordNotFound.WrapMsg("conversation between pair")
}

func (s *MemConversationStore) ListFor(_ context.Context, viewerID string) ([]*model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Conversation
	for _, c := range s.rows {
		if c.CandidateID == viewerID || c.EmployerID == viewerID {
			out = append(out, s.clone(c))
		}
	}
	return out, nil
}
