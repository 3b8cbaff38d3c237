package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"talentlink/module/chat/model"
	"talentlink/module/chat/store"
	dirstore "talentlink/module/directory/store"
	"talentlink/service/notify"
	"talentlink/tools/ids"
	errs "talentlink/tools/errs"
)

// Workflow 承载聊天申请流：候选人经 PA 发起，PA 处理，处理结果是关系级的
// （同一对候选人×雇主跨职位一次性落终态）。
type Workflow struct {
	Requests      store.RequestStore
	Conversations store.ConversationStore
	Accounts      dirstore.AccountStore
	Jobs          dirstore.JobStore
	Dispatcher    notify.Dispatcher
}

// CreateRequest 落一条 pending 申请。同一职位下已有未处理申请 ⇒ 冲突。
func (w *Workflow) CreateRequest(ctx context.Context, paID, candidateID, employerID, jobID string) (string, error) {
	if candidateID == employerID {
		return "", errs.ErrArgs.WrapMsg("candidate and employer must differ")
	}
	if _, err := w.Accounts.Get(ctx, candidateID); err != nil {
		return "", err
	}
	if _, err := w.Accounts.Get(ctx, employerID); err != nil {
		return "", err
	}
	if jobID != "" {
		if _, err := w.Jobs.Get(ctx, jobID); err != nil {
			return "", err
		}
	}
	pending, err := w.Requests.ListPending(ctx, employerID, candidateID)
	if err != nil {
		return "", err
	}
	for _, p := range pending {
		if p.JobID == jobID {
			return "", errs.ErrConflict.WrapMsg("chat request already pending", "job_id", jobID)
		}
	}
	r := &model.ChatRequest{
		RequestID:   ids.GenerateString(),
		PAID:        paID,
		EmployerID:  employerID,
		CandidateID: candidateID,
		JobID:       jobID,
		CreateTime:  time.Now(),
	}
	if err := w.Requests.Insert(ctx, r); err != nil {
		return "", err
	}
	return r.RequestID, nil
}

// Accept 接受申请：对该对账号的全部 pending 申请生效。
// 1. 单向授权：把雇主加进候选人 exposedTo（雇主不反向可见）。
// 2. 建或激活会话，种子系统消息只在首建时落一条。
// 3. 全部 pending 置 accepted。
// 重复 Accept ⇒ 冲突；Reject 过的同理。
func (w *Workflow) Accept(ctx context.Context, actorID, requestID string) (string, error) {
	r, err := w.Requests.Get(ctx, requestID)
	if err != nil {
		return "", err
	}
	if err := w.checkHandleable(r, actorID); err != nil {
		return "", err
	}
	if _, err := w.Accounts.Get(ctx, r.CandidateID); err != nil {
		return "", err
	}
	if _, err := w.Accounts.Get(ctx, r.EmployerID); err != nil {
		return "", err
	}

	if err := w.Accounts.AddExposedTo(ctx, r.CandidateID, r.EmployerID); err != nil {
		return "", err
	}

	now := time.Now()
	seed := &model.Conversation{
		ConversationID: uuid.NewString(),
		CandidateID:    r.CandidateID,
		EmployerID:     r.EmployerID,
		JobID:          r.JobID,
		PAID:           r.PAID,
		IsExposed:      true,
		Messages: []model.Message{{
			MessageID: ids.GenerateString(),
			FromID:    r.CandidateID,
			ToID:      r.EmployerID,
			Body:      "Chat request accepted, you can start chatting now.",
			Type:      model.MsgTypeSystem,
			SendTime:  now.UnixMilli(),
		}},
		CreateTime: now,
		UpdateTime: now,
	}
	conv, err := w.Conversations.CreateOrActivate(ctx, seed)
	if err != nil {
		return "", err
	}

	if err := w.Requests.MarkAllHandled(ctx, r.EmployerID, r.CandidateID, true); err != nil {
		return "", err
	}

	if w.Dispatcher != nil {
		token := ""
		if employer, err := w.Accounts.Get(ctx, r.EmployerID); err == nil {
			token = employer.DeviceToken
		}
		w.Dispatcher.Dispatch(ctx, notify.Notification{
			DeviceToken: token,
			Title:       "New conversation",
			Body:        "A candidate is now available to chat.",
			Channel:     "chat",
			ThreadKey:   "conv:" + conv.ConversationID,
		})
	}
	return conv.ConversationID, nil
}

// Reject 拒绝申请：不建雇主会话、不授权。对每条被拒的职位申请，往 PA
// 与候选人的常设会话里追加一条点名职位的系统消息，然后全部置 rejected。
func (w *Workflow) Reject(ctx context.Context, actorID, requestID string) error {
	r, err := w.Requests.Get(ctx, requestID)
	if err != nil {
		return err
	}
	if err := w.checkHandleable(r, actorID); err != nil {
		return err
	}

	pending, err := w.Requests.ListPending(ctx, r.EmployerID, r.CandidateID)
	if err != nil {
		return err
	}

	now := time.Now()
	paConv, err := w.Conversations.CreateOrActivate(ctx, &model.Conversation{
		ConversationID: uuid.NewString(),
		CandidateID:    r.CandidateID,
		EmployerID:     r.PAID, // PA 常设会话：employer 位放 PA，job 为空
		PAID:           r.PAID,
		IsExposed:      true,
		CreateTime:     now,
		UpdateTime:     now,
	})
	if err != nil {
		return err
	}
	for _, p := range pending {
		title := "the position"
		if p.JobID != "" {
			if job, err := w.Jobs.Get(ctx, p.JobID); err == nil {
				title = job.Title
			}
		}
		msg := model.Message{
			MessageID: ids.GenerateString(),
			FromID:    r.PAID,
			ToID:      r.CandidateID,
			Body:      "Your chat request for " + title + " was declined.",
			Type:      model.MsgTypeSystem,
			Delivery:  paConv.Snapshot(),
			SendTime:  time.Now().UnixMilli(),
		}
		if err := w.Conversations.AppendMessage(ctx, paConv.ConversationID, msg); err != nil {
			return err
		}
	}

	return w.Requests.MarkAllHandled(ctx, r.EmployerID, r.CandidateID, false)
}

// ReleaseCandidate 由 PA 在没有聊天申请的情况下直接把候选人放给雇主：
// 同样的单向授权 + 会话建立/激活路径。幂等，重复释放收敛到同一会话。
func (w *Workflow) ReleaseCandidate(ctx context.Context, paID, candidateID, employerID, jobID string) (string, error) {
	if candidateID == employerID {
		return "", errs.ErrArgs.WrapMsg("candidate and employer must differ")
	}
	if _, err := w.Accounts.Get(ctx, candidateID); err != nil {
		return "", err
	}
	if _, err := w.Accounts.Get(ctx, employerID); err != nil {
		return "", err
	}
	if err := w.Accounts.AddExposedTo(ctx, candidateID, employerID); err != nil {
		return "", err
	}
	now := time.Now()
	conv, err := w.Conversations.CreateOrActivate(ctx, &model.Conversation{
		ConversationID: uuid.NewString(),
		CandidateID:    candidateID,
		EmployerID:     employerID,
		JobID:          jobID,
		PAID:           paID,
		IsExposed:      true,
		Messages: []model.Message{{
			MessageID: ids.GenerateString(),
			FromID:    candidateID,
			ToID:      employerID,
			Body:      "A candidate has been shared with you.",
			Type:      model.MsgTypeSystem,
			SendTime:  now.UnixMilli(),
		}},
		CreateTime: now,
		UpdateTime: now,
	})
	if err != nil {
		return "", err
	}
	return conv.ConversationID, nil
}

// ListRequests 返回账号（PA/雇主/候选人任一身份）名下的申请。
func (w *Workflow) ListRequests(ctx context.Context, accountID string) ([]*model.ChatRequest, error) {
	return w.Requests.ListByParty(ctx, accountID)
}

func (w *Workflow) checkHandleable(r *model.ChatRequest, actorID string) error {
	if actorID != r.PAID && actorID != r.EmployerID {
		return errs.ErrNoPermission.WrapMsg("only the PA or employer may handle a chat request")
	}
	if r.IsAccepted {
		return errs.ErrConflict.WrapMsg("chat request already accepted", "request_id", r.RequestID)
	}
	if r.IsRejected {
		return errs.ErrConflict.WrapMsg("chat request already declined", "request_id", r.RequestID)
	}
	return nil
}
