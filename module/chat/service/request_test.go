package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"talentlink/module/chat/model"
	"talentlink/module/chat/store"
	dirmodel "talentlink/module/directory/model"
	dirstore "talentlink/module/directory/store"
	errs "talentlink/tools/errs"
)

func newWorkflow() (*Workflow, *dirstore.MemAccountStore, *dirstore.MemJobStore) {
	accounts := dirstore.NewMemAccountStore()
	jobs := dirstore.NewMemJobStore()
	accounts.Put(&dirmodel.Account{AccountID: "pa1", IsPA: true})
	accounts.Put(&dirmodel.Account{AccountID: "emp1", IsEmployer: true})
	accounts.Put(&dirmodel.Account{AccountID: "cand1", IsCandidate: true})
	jobs.Put(&dirmodel.Job{JobID: "j1", OwnerID: "emp1", Title: "Backend Engineer", IsVisible: true})
	jobs.Put(&dirmodel.Job{JobID: "j2", OwnerID: "emp1", Title: "SRE", IsVisible: true})

	w := &Workflow{
		Requests:      store.NewMemRequestStore(),
		Conversations: store.NewMemConversationStore(),
		Accounts:      accounts,
		Jobs:          jobs,
	}
	return w, accounts, jobs
}

func TestAcceptChatRequest(t *testing.T) {
	ctx := context.Background()
	w, accounts, _ := newWorkflow()

	requestID, err := w.CreateRequest(ctx, "pa1", "cand1", "emp1", "j1")
	require.NoError(t, err)

	conversationID, err := w.Accept(ctx, "pa1", requestID)
	require.NoError(t, err)

	// 单向授权：候选人档案对雇主可见，反向不成立
	cand, err := accounts.Get(ctx, "cand1")
	require.NoError(t, err)
	require.Contains(t, cand.ExposedTo, "emp1")
	emp, err := accounts.Get(ctx, "emp1")
	require.NoError(t, err)
	require.NotContains(t, emp.ExposedTo, "cand1")

	// 会话带一条种子系统消息
	conv, err := w.Conversations.Get(ctx, conversationID)
	require.NoError(t, err)
	require.True(t, conv.IsExposed)
	require.Len(t, conv.Messages, 1)
	require.Equal(t, model.MsgTypeSystem, conv.Messages[0].Type)
	require.Equal(t, "cand1", conv.Messages[0].FromID)

	r, err := w.Requests.Get(ctx, requestID)
	require.NoError(t, err)
	require.True(t, r.IsAccepted)
}

func TestAcceptBatchesAcrossJobs(t *testing.T) {
	ctx := context.Background()
	w, _, _ := newWorkflow()

	first, err := w.CreateRequest(ctx, "pa1", "cand1", "emp1", "j1")
	require.NoError(t, err)
	second, err := w.CreateRequest(ctx, "pa1", "cand1", "emp1", "j2")
	require.NoError(t, err)

	_, err = w.Accept(ctx, "pa1", first)
	require.NoError(t, err)

	// 同对账号的其他职位申请一并落 accepted
	r, err := w.Requests.Get(ctx, second)
	require.NoError(t, err)
	require.True(t, r.IsAccepted)

	pending, err := w.Requests.ListPending(ctx, "emp1", "cand1")
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestAcceptTerminalConflicts(t *testing.T) {
	ctx := context.Background()
	w, _, _ := newWorkflow()

	requestID, err := w.CreateRequest(ctx, "pa1", "cand1", "emp1", "j1")
	require.NoError(t, err)
	_, err = w.Accept(ctx, "pa1", requestID)
	require.NoError(t, err)

	_, err = w.Accept(ctx, "pa1", requestID)
	require.True(t, errs.ErrConflict.Is(err))
	require.ErrorContains(t, err, "already accepted")

	rejected, err := w.CreateRequest(ctx, "pa1", "cand1", "emp1", "j2")
	require.NoError(t, err)
	require.NoError(t, w.Reject(ctx, "pa1", rejected))

	_, err = w.Accept(ctx, "pa1", rejected)
	require.True(t, errs.ErrConflict.Is(err))
	require.ErrorContains(t, err, "already declined")
}

func TestAcceptIdempotentConversation(t *testing.T) {
	ctx := context.Background()
	w, _, _ := newWorkflow()

	requestID, err := w.CreateRequest(ctx, "pa1", "cand1", "emp1", "j1")
	require.NoError(t, err)
	conversationID, err := w.Accept(ctx, "pa1", requestID)
	require.NoError(t, err)

	// 同一自然键再触发建会话路径 ⇒ 定位到同一会话，种子消息不翻倍
	again, err := w.ReleaseCandidate(ctx, "pa1", "cand1", "emp1", "j1")
	require.NoError(t, err)
	require.Equal(t, conversationID, again)

	conv, err := w.Conversations.Get(ctx, conversationID)
	require.NoError(t, err)
	require.Len(t, conv.Messages, 1)
}

func TestRejectChatRequest(t *testing.T) {
	ctx := context.Background()
	w, _, _ := newWorkflow()

	_, err := w.CreateRequest(ctx, "pa1", "cand1", "emp1", "j1")
	require.NoError(t, err)
	second, err := w.CreateRequest(ctx, "pa1", "cand1", "emp1", "j2")
	require.NoError(t, err)

	require.NoError(t, w.Reject(ctx, "pa1", second))

	// 不建雇主会话
	_, err = w.Conversations.FindByKey(ctx, "cand1", "emp1", "j1")
	require.True(t, errs.ErrRecordNotFound.Is(err))
	_, err = w.Conversations.FindByKey(ctx, "cand1", "emp1", "j2")
	require.True(t, errs.ErrRecordNotFound.Is(err))

	// PA 常设会话里每个被拒职位一条系统消息，点名职位
	paConv, err := w.Conversations.FindByKey(ctx, "cand1", "pa1", "")
	require.NoError(t, err)
	require.Len(t, paConv.Messages, 2)
	bodies := paConv.Messages[0].Body + paConv.Messages[1].Body
	require.Contains(t, bodies, "Backend Engineer")
	require.Contains(t, bodies, "SRE")

	pending, err := w.Requests.ListPending(ctx, "emp1", "cand1")
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestCreateRequestValidation(t *testing.T) {
	ctx := context.Background()
	w, _, _ := newWorkflow()

	_, err := w.CreateRequest(ctx, "pa1", "cand1", "cand1", "j1")
	require.True(t, errs.ErrArgs.Is(err))

	_, err = w.CreateRequest(ctx, "pa1", "ghost", "emp1", "j1")
	require.True(t, errs.ErrRecordNotFound.Is(err))

	_, err = w.CreateRequest(ctx, "pa1", "cand1", "emp1", "j1")
	require.NoError(t, err)
	_, err = w.CreateRequest(ctx, "pa1", "cand1", "emp1", "j1")
	require.True(t, errs.ErrConflict.Is(err))
}

func TestHandleRequestPermission(t *testing.T) {
	ctx := context.Background()
	w, _, _ := newWorkflow()

	requestID, err := w.CreateRequest(ctx, "pa1", "cand1", "emp1", "j1")
	require.NoError(t, err)

	_, err = w.Accept(ctx, "cand1", requestID)
	require.True(t, errs.ErrNoPermission.Is(err))

	err = w.Reject(ctx, "stranger", requestID)
	require.True(t, errs.ErrNoPermission.Is(err))
}
