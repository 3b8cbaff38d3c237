package service

import (
	"context"
	"time"

	"talentlink/module/chat/model"
	"talentlink/module/chat/store"
	dirstore "talentlink/module/directory/store"
	"talentlink/service/notify"
	"talentlink/service/storage"
	"talentlink/tools/ids"
	errs "talentlink/tools/errs"
)

// Decrypter 仅为预览解密；其余路径把消息体当不透明密文。
type Decrypter interface {
	Decrypt(ciphertext string) (string, error)
}

// Messenger 承载会话状态机：发消息、已读、拉黑、软删、预览计算。
// 所有操作都是单文档原子更新或可重跑的批量补偿。
type Messenger struct {
	Conversations store.ConversationStore
	Accounts      dirstore.AccountStore
	Dispatcher    notify.Dispatcher
	Unread        *storage.UnreadCache // 可为 nil
	Cipher        Decrypter            // 可为 nil
}

// SendMessage 追加消息并把会话当前旗标冻结成投递快照。
// 关系上存在拉黑时不推送，但消息照常落库。
func (m *Messenger) SendMessage(ctx context.Context, conversationID, fromID, body, msgType string) (string, error) {
	if body == "" {
		return "", errs.ErrArgs.WrapMsg("message body required")
	}
	if msgType == "" {
		msgType = model.MsgTypeText
	}
	conv, err := m.Conversations.Get(ctx, conversationID)
	if err != nil {
		return "", err
	}
	role := conv.RoleOf(fromID)
	if role == "" {
		return "", errs.ErrNoPermission.Wrap()
	}
	toID := conv.Counterpart(fromID)

	msg := model.Message{
		MessageID: ids.GenerateString(),
		FromID:    fromID,
		ToID:      toID,
		Body:      body,
		Type:      msgType,
		Delivery:  conv.Snapshot(),
		SendTime:  time.Now().UnixMilli(),
	}
	if err := m.Conversations.AppendMessage(ctx, conversationID, msg); err != nil {
		return "", err
	}
	m.Unread.Invalidate(ctx, conversationID, conv.CandidateID, conv.EmployerID)

	if m.Dispatcher != nil && !conv.AnyBlocked() {
		token := ""
		if to, err := m.Accounts.Get(ctx, toID); err == nil {
			token = to.DeviceToken
		}
		m.Dispatcher.Dispatch(ctx, notify.Notification{
			DeviceToken: token,
			Title:       "New message",
			Channel:     "chat",
			ThreadKey:   "conv:" + conversationID,
		})
	}
	return msg.MessageID, nil
}

// MarkRead 把发给 reader 且通过“当前”旗标门控的消息置已读。幂等。
func (m *Messenger) MarkRead(ctx context.Context, conversationID, readerID string) error {
	conv, err := m.Conversations.Get(ctx, conversationID)
	if err != nil {
		return err
	}
	role := conv.RoleOf(readerID)
	if role == "" {
		return errs.ErrNoPermission.Wrap()
	}
	// 实时门控：reader 已软删 ⇒ 整条线程不可见；对端被 reader 拉黑 ⇒ 对端消息不可见
	if conv.DeletedFor(role) {
		return nil
	}
	if conv.BlockedRole(opposite(role)) {
		return nil
	}
	if err := m.Conversations.MarkRead(ctx, conversationID, readerID); err != nil {
		return err
	}
	m.Unread.Invalidate(ctx, conversationID, readerID)
	return nil
}

// SetBlocked 找到这对账号的任一会话定角色，然后把拉黑位传播到同一有序对
// 的所有会话（一个职位一条线程，拉黑是关系级的），并维护反向索引。
func (m *Messenger) SetBlocked(ctx context.Context, blockerID, blockedID string, value bool) error {
	conv, err := m.Conversations.FindAnyBetween(ctx, blockerID, blockedID)
	if err != nil {
		if errs.ErrRecordNotFound.Is(err) {
			return errs.ErrArgs.WrapMsg("cannot block without prior communication")
		}
		return err
	}
	blockedRole := conv.RoleOf(blockedID)
	if blockedRole == "" || conv.RoleOf(blockerID) == "" {
		return errs.ErrArgs.WrapMsg("cannot block without prior communication")
	}
	if err := m.Conversations.SetBlocked(ctx, conv.CandidateID, conv.EmployerID, blockedRole, value); err != nil {
		return err
	}
	if value {
		return m.Accounts.AddBlockedBy(ctx, blockedID, blockerID)
	}
	return m.Accounts.RemoveBlockedBy(ctx, blockedID, blockerID)
}

// DeleteChat 软删：对 actor 追溯隐藏整条线程，不拦截后续新消息，
// 对端视图不受影响。
func (m *Messenger) DeleteChat(ctx context.Context, conversationID, actorID string) error {
	conv, err := m.Conversations.Get(ctx, conversationID)
	if err != nil {
		return err
	}
	role := conv.RoleOf(actorID)
	if role == "" {
		return errs.ErrNoPermission.Wrap()
	}
	if err := m.Conversations.SetDeleted(ctx, conversationID, role); err != nil {
		return err
	}
	m.Unread.Invalidate(ctx, conversationID, actorID)
	return nil
}

func opposite(role string) string {
	if role == model.RoleCandidate {
		return model.RoleEmployer
	}
	return model.RoleCandidate
}

// ComputeLastMessage 用“快照”旗标过滤历史，取最近一条；若那条是 viewer
// 自己发的媒体消息，向前找最近一条合格的文本/语音消息当预览。
// 自己发的媒体永远不作为自己的预览；找不到替代就没有预览。
func ComputeLastMessage(conv *model.Conversation, viewerID string) *model.Message {
	role := conv.RoleOf(viewerID)
	if role == "" {
		return nil
	}

	qualifies := func(msg *model.Message) bool {
		// 对端的拉黑位为 false，且 viewer 自己的删除位为 false
		if role == model.RoleCandidate {
			return !msg.Delivery.IsEmployerBlocked && !msg.Delivery.HasCandidateDeleted
		}
		return !msg.Delivery.IsCandidateBlocked && !msg.Delivery.HasEmployerDeleted
	}

	var last *model.Message
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		if qualifies(&conv.Messages[i]) {
			last = &conv.Messages[i]
			break
		}
	}
	if last == nil {
		return nil
	}

	if last.FromID == viewerID && isMedia(last.Type) {
		for i := len(conv.Messages) - 1; i >= 0; i-- {
			msg := &conv.Messages[i]
			if !qualifies(msg) {
				continue
			}
			if msg.Type == model.MsgTypeText || msg.Type == model.MsgTypeVoice {
				return msg
			}
		}
		return nil
	}
	return last
}

func isMedia(msgType string) bool {
	switch msgType {
	case model.MsgTypeText, model.MsgTypeVoice, model.MsgTypeSystem:
		return false
	}
	return true
}

// UnreadCount 按“当前”旗标统计发给 viewer 的未读数。
// 软删会追溯改写快照，所以被删线程自然归零。
func UnreadCount(conv *model.Conversation, viewerID string) int64 {
	role := conv.RoleOf(viewerID)
	if role == "" {
		return 0
	}
	if conv.DeletedFor(role) || conv.BlockedRole(opposite(role)) {
		return 0
	}
	var n int64
	for i := range conv.Messages {
		msg := &conv.Messages[i]
		if msg.ToID == viewerID && !msg.IsRead {
			n++
		}
	}
	return n
}

// ConversationView 是列表端消费的投影：未读数 + 最近一条消息的可读预览。
type ConversationView struct {
	ConversationID string `json:"conversation_id"`
	CounterpartID  string `json:"counterpart_id"`
	JobID          string `json:"job_id"`
	IsExposed      bool   `json:"is_exposed"`
	UnreadCount    int64  `json:"unread_count"`
	LastMessageAt  int64  `json:"last_message_at,omitempty"`
	Preview        string `json:"preview,omitempty"`
	PreviewType    string `json:"preview_type,omitempty"`
}

// ListConversations 返回 viewer 的会话列表；自己软删过的线程不出现。
func (m *Messenger) ListConversations(ctx context.Context, viewerID string) ([]ConversationView, error) {
	convs, err := m.Conversations.ListFor(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	out := make([]ConversationView, 0, len(convs))
	for _, conv := range convs {
		role := conv.RoleOf(viewerID)
		if conv.DeletedFor(role) {
			continue
		}

		unread, ok := m.Unread.Get(ctx, conv.ConversationID, viewerID)
		if !ok {
			unread = UnreadCount(conv, viewerID)
			m.Unread.Set(ctx, conv.ConversationID, viewerID, unread)
		}

		v := ConversationView{
			ConversationID: conv.ConversationID,
			CounterpartID:  conv.Counterpart(viewerID),
			JobID:          conv.JobID,
			IsExposed:      conv.IsExposed,
			UnreadCount:    unread,
		}
		if last := ComputeLastMessage(conv, viewerID); last != nil {
			v.LastMessageAt = last.SendTime
			v.PreviewType = last.Type
			v.Preview = m.preview(last)
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *Messenger) preview(msg *model.Message) string {
	if msg.Type == model.MsgTypeSystem {
		return msg.Body // 系统消息是服务端生成的明文
	}
	if m.Cipher == nil {
		return ""
	}
	plain, err := m.Cipher.Decrypt(msg.Body)
	if err != nil {
		return ""
	}
	return plain
}
