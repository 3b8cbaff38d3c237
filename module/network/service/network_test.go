package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"talentlink/module/network/model"
	"talentlink/module/network/store"
	errs "talentlink/tools/errs"
)

func newNetwork() *Network {
	return &Network{Connections: store.NewMemConnectionStore()}
}

func TestRequestConnection(t *testing.T) {
	ctx := context.Background()
	n := newNetwork()

	requestID, err := n.RequestConnection(ctx, "a", "b")
	require.NoError(t, err)
	require.NotEmpty(t, requestID)

	_, err = n.RequestConnection(ctx, "a", "a")
	require.True(t, errs.ErrArgs.Is(err))

	// 同向重复 pending ⇒ 冲突
	_, err = n.RequestConnection(ctx, "a", "b")
	require.True(t, errs.ErrConflict.Is(err))

	// 反向不受影响
	_, err = n.RequestConnection(ctx, "b", "a")
	require.NoError(t, err)
}

func TestRespondConnection(t *testing.T) {
	ctx := context.Background()
	n := newNetwork()

	requestID, err := n.RequestConnection(ctx, "a", "b")
	require.NoError(t, err)

	// 只有接收方能处理
	err = n.RespondConnection(ctx, "a", requestID, true)
	require.True(t, errs.ErrNoPermission.Is(err))

	require.NoError(t, n.RespondConnection(ctx, "b", requestID, true))

	// 终态不可再变
	err = n.RespondConnection(ctx, "b", requestID, false)
	require.True(t, errs.ErrConflict.Is(err))

	// 不存在的申请按已处理对待
	err = n.RespondConnection(ctx, "b", "nope", true)
	require.True(t, errs.ErrConflict.Is(err))
}

func TestRejectedThenRetry(t *testing.T) {
	ctx := context.Background()
	n := newNetwork()

	first, err := n.RequestConnection(ctx, "a", "b")
	require.NoError(t, err)
	require.NoError(t, n.RespondConnection(ctx, "b", first, false))

	// 被拒后可以重新发起，历史行保留
	second, err := n.RequestConnection(ctx, "a", "b")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestListConnectionsDedupesPerCounterpart(t *testing.T) {
	ctx := context.Background()
	n := newNetwork()

	first, err := n.RequestConnection(ctx, "a", "b")
	require.NoError(t, err)
	require.NoError(t, n.RespondConnection(ctx, "b", first, false))

	time.Sleep(2 * time.Millisecond) // handle_time 分辨率
	second, err := n.RequestConnection(ctx, "a", "b")
	require.NoError(t, err)
	require.NoError(t, n.RespondConnection(ctx, "b", second, true))

	views, err := n.ListConnections(ctx, "a", FilterAll)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, second, views[0].RequestID)
	require.Equal(t, "b", views[0].CounterpartID)
	require.Equal(t, model.StatusAccepted, views[0].Status)
	require.True(t, views[0].SentByViewer)

	accepted, err := n.ListConnections(ctx, "b", FilterAccepted)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	require.Equal(t, "a", accepted[0].CounterpartID)
	require.False(t, accepted[0].SentByViewer)
}

func TestListConnectionsFilters(t *testing.T) {
	ctx := context.Background()
	n := newNetwork()

	_, err := n.RequestConnection(ctx, "a", "b")
	require.NoError(t, err)
	_, err = n.RequestConnection(ctx, "c", "a")
	require.NoError(t, err)

	pending, err := n.ListConnections(ctx, "a", FilterPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "b", pending[0].CounterpartID)

	received, err := n.ListConnections(ctx, "a", FilterReceived)
	require.NoError(t, err)
	require.Len(t, received, 1)
	require.Equal(t, "c", received[0].CounterpartID)

	_, err = n.ListConnections(ctx, "a", "bogus")
	require.True(t, errs.ErrArgs.Is(err))
}
