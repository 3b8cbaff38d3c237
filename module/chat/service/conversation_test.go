package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"talentlink/module/chat/model"
	"talentlink/module/chat/store"
	dirmodel "talentlink/module/directory/model"
	dirstore "talentlink/module/directory/store"
	errs "talentlink/tools/errs"
)

func newMessenger(t *testing.T) (*Messenger, string) {
	t.Helper()
	accounts := dirstore.NewMemAccountStore()
	accounts.Put(&dirmodel.Account{AccountID: "cand1", IsCandidate: true})
	accounts.Put(&dirmodel.Account{AccountID: "emp1", IsEmployer: true})

	m := &Messenger{
		Conversations: store.NewMemConversationStore(),
		Accounts:      accounts,
	}
	conv, err := m.Conversations.CreateOrActivate(context.Background(), &model.Conversation{
		ConversationID: "conv1",
		CandidateID:    "cand1",
		EmployerID:     "emp1",
		JobID:          "j1",
		PAID:           "pa1",
		IsExposed:      true,
		CreateTime:     time.Now(),
	})
	require.NoError(t, err)
	return m, conv.ConversationID
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()
	m, convID := newMessenger(t)

	messageID, err := m.SendMessage(ctx, convID, "cand1", "ciphertext-1", model.MsgTypeText)
	require.NoError(t, err)
	require.NotEmpty(t, messageID)

	conv, err := m.Conversations.Get(ctx, convID)
	require.NoError(t, err)
	require.Len(t, conv.Messages, 1)
	require.Equal(t, "emp1", conv.Messages[0].ToID)
	require.False(t, conv.Messages[0].IsRead)
	require.Equal(t, model.DeliveryContext{}, conv.Messages[0].Delivery)

	_, err = m.SendMessage(ctx, convID, "outsider", "x", model.MsgTypeText)
	require.True(t, errs.ErrNoPermission.Is(err))

	_, err = m.SendMessage(ctx, convID, "cand1", "", model.MsgTypeText)
	require.True(t, errs.ErrArgs.Is(err))
}

func TestBlockFreezesSnapshots(t *testing.T) {
	ctx := context.Background()
	m, convID := newMessenger(t)

	_, err := m.SendMessage(ctx, convID, "cand1", "before-block", model.MsgTypeText)
	require.NoError(t, err)

	// 雇主拉黑候选人
	require.NoError(t, m.SetBlocked(ctx, "emp1", "cand1", true))

	_, err = m.SendMessage(ctx, convID, "cand1", "after-block", model.MsgTypeText)
	require.NoError(t, err)

	conv, err := m.Conversations.Get(ctx, convID)
	require.NoError(t, err)
	require.False(t, conv.Messages[0].Delivery.IsCandidateBlocked)
	require.True(t, conv.Messages[1].Delivery.IsCandidateBlocked)

	// 雇主视角：拉黑期间的消息不进预览
	last := ComputeLastMessage(conv, "emp1")
	require.NotNil(t, last)
	require.Equal(t, "before-block", last.Body)

	// 候选人自己的视角不受自己被拉黑影响
	last = ComputeLastMessage(conv, "cand1")
	require.NotNil(t, last)
	require.Equal(t, "after-block", last.Body)

	// 解除拉黑后新消息恢复可见，历史快照保持冻结
	require.NoError(t, m.SetBlocked(ctx, "emp1", "cand1", false))
	_, err = m.SendMessage(ctx, convID, "cand1", "after-unblock", model.MsgTypeText)
	require.NoError(t, err)

	conv, err = m.Conversations.Get(ctx, convID)
	require.NoError(t, err)
	require.True(t, conv.Messages[1].Delivery.IsCandidateBlocked)
	last = ComputeLastMessage(conv, "emp1")
	require.Equal(t, "after-unblock", last.Body)
}

func TestBlockPropagatesAcrossJobs(t *testing.T) {
	ctx := context.Background()
	m, _ := newMessenger(t)

	other, err := m.Conversations.CreateOrActivate(ctx, &model.Conversation{
		ConversationID: "conv2",
		CandidateID:    "cand1",
		EmployerID:     "emp1",
		JobID:          "j2",
		PAID:           "pa1",
		IsExposed:      true,
		CreateTime:     time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, m.SetBlocked(ctx, "emp1", "cand1", true))

	// 同一对账号的所有会话实时旗标一起翻
	conv, err := m.Conversations.Get(ctx, other.ConversationID)
	require.NoError(t, err)
	require.True(t, conv.IsCandidateBlocked)

	// 反向索引同步
	cand, err := m.Accounts.Get(ctx, "cand1")
	require.NoError(t, err)
	require.Contains(t, cand.BlockedBy, "emp1")

	require.NoError(t, m.SetBlocked(ctx, "emp1", "cand1", false))
	cand, err = m.Accounts.Get(ctx, "cand1")
	require.NoError(t, err)
	require.NotContains(t, cand.BlockedBy, "emp1")
}

func TestBlockRequiresPriorConversation(t *testing.T) {
	m := &Messenger{
		Conversations: store.NewMemConversationStore(),
		Accounts:      dirstore.NewMemAccountStore(),
	}
	err := m.SetBlocked(context.Background(), "a", "b", true)
	require.True(t, errs.ErrArgs.Is(err))
	require.ErrorContains(t, err, "prior communication")
}

func TestDeleteChat(t *testing.T) {
	ctx := context.Background()
	m, convID := newMessenger(t)

	_, err := m.SendMessage(ctx, convID, "emp1", "hello", model.MsgTypeText)
	require.NoError(t, err)

	require.NoError(t, m.DeleteChat(ctx, convID, "cand1"))

	conv, err := m.Conversations.Get(ctx, convID)
	require.NoError(t, err)

	// 追溯改写：历史快照对删除方关帘，对端不受影响
	require.True(t, conv.Messages[0].Delivery.HasCandidateDeleted)
	require.Nil(t, ComputeLastMessage(conv, "cand1"))
	require.NotNil(t, ComputeLastMessage(conv, "emp1"))
	require.Zero(t, UnreadCount(conv, "cand1"))

	// 删除不拦截新消息；新消息快照继承删除位，删除方依旧看不到
	_, err = m.SendMessage(ctx, convID, "emp1", "still there?", model.MsgTypeText)
	require.NoError(t, err)
	conv, err = m.Conversations.Get(ctx, convID)
	require.NoError(t, err)
	require.Nil(t, ComputeLastMessage(conv, "cand1"))
	require.Equal(t, "still there?", ComputeLastMessage(conv, "emp1").Body)

	// 列表侧整条线程消失
	views, err := m.ListConversations(ctx, "cand1")
	require.NoError(t, err)
	require.Empty(t, views)
	views, err = m.ListConversations(ctx, "emp1")
	require.NoError(t, err)
	require.Len(t, views, 1)
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	m, convID := newMessenger(t)

	_, err := m.SendMessage(ctx, convID, "emp1", "msg1", model.MsgTypeText)
	require.NoError(t, err)
	_, err = m.SendMessage(ctx, convID, "emp1", "msg2", model.MsgTypeText)
	require.NoError(t, err)

	conv, err := m.Conversations.Get(ctx, convID)
	require.NoError(t, err)
	require.EqualValues(t, 2, UnreadCount(conv, "cand1"))

	require.NoError(t, m.MarkRead(ctx, convID, "cand1"))
	conv, err = m.Conversations.Get(ctx, convID)
	require.NoError(t, err)
	require.Zero(t, UnreadCount(conv, "cand1"))

	// 幂等
	require.NoError(t, m.MarkRead(ctx, convID, "cand1"))
}

func TestMarkReadGatedByBlock(t *testing.T) {
	ctx := context.Background()
	m, convID := newMessenger(t)

	_, err := m.SendMessage(ctx, convID, "emp1", "msg1", model.MsgTypeText)
	require.NoError(t, err)

	// 候选人拉黑雇主 ⇒ 雇主的消息对候选人不可见，已读是 no-op
	require.NoError(t, m.SetBlocked(ctx, "cand1", "emp1", true))
	require.NoError(t, m.MarkRead(ctx, convID, "cand1"))

	conv, err := m.Conversations.Get(ctx, convID)
	require.NoError(t, err)
	require.False(t, conv.Messages[0].IsRead)
}

func TestComputeLastMessageOwnMediaFallback(t *testing.T) {
	ctx := context.Background()
	m, convID := newMessenger(t)

	_, err := m.SendMessage(ctx, convID, "cand1", "some text", model.MsgTypeText)
	require.NoError(t, err)
	_, err = m.SendMessage(ctx, convID, "cand1", "img-blob", model.MsgTypeImage)
	require.NoError(t, err)

	conv, err := m.Conversations.Get(ctx, convID)
	require.NoError(t, err)

	// 自己发的媒体不当自己的预览，回退到最近的文本
	last := ComputeLastMessage(conv, "cand1")
	require.NotNil(t, last)
	require.Equal(t, "some text", last.Body)

	// 对端照常看到媒体消息
	last = ComputeLastMessage(conv, "emp1")
	require.Equal(t, model.MsgTypeImage, last.Type)
}

func TestComputeLastMessageOnlyOwnMedia(t *testing.T) {
	ctx := context.Background()
	m, convID := newMessenger(t)

	_, err := m.SendMessage(ctx, convID, "cand1", "img-blob", model.MsgTypeImage)
	require.NoError(t, err)

	conv, err := m.Conversations.Get(ctx, convID)
	require.NoError(t, err)
	require.Nil(t, ComputeLastMessage(conv, "cand1"))
}

func TestListConversationsUnread(t *testing.T) {
	ctx := context.Background()
	m, convID := newMessenger(t)

	_, err := m.SendMessage(ctx, convID, "emp1", "hi", model.MsgTypeText)
	require.NoError(t, err)

	views, err := m.ListConversations(ctx, "cand1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, convID, views[0].ConversationID)
	require.Equal(t, "emp1", views[0].CounterpartID)
	require.EqualValues(t, 1, views[0].UnreadCount)
	require.Equal(t, model.MsgTypeText, views[0].PreviewType)

	require.NoError(t, m.MarkRead(ctx, convID, "cand1"))
	views, err = m.ListConversations(ctx, "cand1")
	require.NoError(t, err)
	require.Zero(t, views[0].UnreadCount)
}
