package service

import (
	"context"
	"sort"
	"time"

	"talentlink/module/network/model"
	"talentlink/module/network/store"
	"talentlink/service/notify"
	"talentlink/tools/ids"
	errs "talentlink/tools/errs"
)

const (
	FilterPending  = "pending"  // 我发出的、待处理
	FilterReceived = "received" // 发给我的、待处理
	FilterAccepted = "accepted"
	FilterAll      = "all"
)

type Network struct {
	Connections store.ConnectionStore
	Dispatcher  notify.Dispatcher
}

// ConnectionView 是去重后的列表项：每个对端一条，取该对账号最近一次的状态。
type ConnectionView struct {
	RequestID      string    `json:"request_id"`
	CounterpartID  string    `json:"counterpart_id"`
	Status         string    `json:"status"`
	SentByViewer   bool      `json:"sent_by_viewer"`
	CreateTime     time.Time `json:"create_time"`
}

func (n *Network) RequestConnection(ctx context.Context, senderID, receiverID string) (string, error) {
	if senderID == "" || receiverID == "" || senderID == receiverID {
		return "", errs.ErrArgs.WrapMsg("invalid connection pair")
	}
	// 已有同向 pending 就不再追加；拒绝过的可以重新发起（新行，历史保留）
	exists, err := n.Connections.HasLivePending(ctx, senderID, receiverID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", errs.ErrConflict.WrapMsg("connection request already pending")
	}
	c := &model.Connection{
		RequestID:  ids.GenerateString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     model.StatusPending,
		CreateTime: time.Now(),
	}
	if err := n.Connections.Insert(ctx, c); err != nil {
		return "", err
	}
	if n.Dispatcher != nil {
		n.Dispatcher.Dispatch(ctx, notify.Notification{
			Title:     "New connection request",
			Channel:   "network",
			ThreadKey: "network:" + senderID,
		})
	}
	return c.RequestID, nil
}

func (n *Network) RespondConnection(ctx context.Context, actorID, requestID string, accept bool) error {
	c, err := n.Connections.Get(ctx, requestID)
	if err != nil {
		if errs.ErrRecordNotFound.Is(err) {
			return errs.ErrConflict.WrapMsg("request missing or already handled")
		}
		return err
	}
	if c.ReceiverID != actorID {
		return errs.ErrNoPermission.Wrap()
	}
	status := model.StatusRejected
	if accept {
		status = model.StatusAccepted
	}
	updated, err := n.Connections.MarkHandled(ctx, requestID, status)
	if err != nil {
		return err
	}
	if !updated {
		return errs.ErrConflict.WrapMsg("request missing or already handled")
	}
	return nil
}

// ListConnections 按过滤器返回 viewer 的关系列表。
// accepted/all 先按对端去重，留每对最近一行的状态。
func (n *Network) ListConnections(ctx context.Context, viewerID, filter string) ([]ConnectionView, error) {
	rows, err := n.Connections.ListInvolving(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	switch filter {
	case FilterPending:
		return collect(rows, viewerID, func(c *model.Connection) bool {
			return c.SenderID == viewerID && c.Status == model.StatusPending
		}), nil
	case FilterReceived:
		return collect(rows, viewerID, func(c *model.Connection) bool {
			return c.ReceiverID == viewerID && c.Status == model.StatusPending
		}), nil
	case FilterAccepted, FilterAll:
		views := dedupeLatest(rows, viewerID)
		if filter == FilterAccepted {
			kept := views[:0]
			for _, v := range views {
				if v.Status == model.StatusAccepted {
					kept = append(kept, v)
				}
			}
			views = kept
		}
		return views, nil
	default:
		return nil, errs.ErrArgs.WrapMsg("unknown filter", "filter", filter)
	}
}

func collect(rows []*model.Connection, viewerID string, keep func(*model.Connection) bool) []ConnectionView {
	out := make([]ConnectionView, 0)
	for _, c := range rows {
		if keep(c) {
			out = append(out, view(c, viewerID))
		}
	}
	sortViews(out)
	return out
}

// dedupeLatest: 同一对端的多条历史行里，取“最近一次状态变化”的那条。
// 最近 = handle_time（终态行）或 create_time（pending 行）的较大者。
func dedupeLatest(rows []*model.Connection, viewerID string) []ConnectionView {
	latest := make(map[string]*model.Connection)
	for _, c := range rows {
		cp := c.Counterpart(viewerID)
		if cp == "" {
			continue
		}
		cur, ok := latest[cp]
		if !ok || changedAt(c).After(changedAt(cur)) {
			latest[cp] = c
		}
	}
	out := make([]ConnectionView, 0, len(latest))
	for _, c := range latest {
		out = append(out, view(c, viewerID))
	}
	sortViews(out)
	return out
}

func changedAt(c *model.Connection) time.Time {
	if !c.HandleTime.IsZero() {
		return c.HandleTime
	}
	return c.CreateTime
}

func view(c *model.Connection, viewerID string) ConnectionView {
	return ConnectionView{
		RequestID:     c.RequestID,
		CounterpartID: c.Counterpart(viewerID),
		Status:        c.Status,
		SentByViewer:  c.SenderID == viewerID,
		CreateTime:    c.CreateTime,
	}
}

func sortViews(v []ConnectionView) {
	sort.Slice(v, func(i, j int) bool { return v[i].CreateTime.After(v[j].CreateTime) })
}
