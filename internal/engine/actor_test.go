package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orderbookx.com/internal/book"
)

func startActor(t *testing.T, cfg ActorConfig) *BookActor {
	t.Helper()
	a := NewBookActor(cfg, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go a.Run(ctx)
	return a
}

func enqueue(t *testing.T, a *BookActor, cmd Command) {
	t.Helper()
	require.NoError(t, a.TryEnqueue(cmd))
}

func TestActor_SubmitAndTrade(t *testing.T) {
	a := startActor(t, ActorConfig{})

	enqueue(t, a, Command{Type: CmdSubmitLimit, Order: book.Order{ID: 1, Side: book.Sell, Price: 100.00, Qty: 300, Ts: 1}})
	enqueue(t, a, Command{Type: CmdSubmitLimit, Order: book.Order{ID: 2, Side: book.Buy, Price: 100.00, Qty: 200, Ts: 2}})

	select {
	case tr := <-a.Trades():
		assert.Equal(t, uint64(2), tr.BidID)
		assert.Equal(t, uint64(1), tr.AskID)
		assert.Equal(t, uint64(200), tr.Qty)
		assert.Equal(t, 100.00, tr.Price)
	case <-time.After(2 * time.Second):
		t.Fatal("no trade event delivered")
	}

	res, err := a.Snapshot(context.Background(), 5)
	require.NoError(t, err)
	// 卖单剩 100 继续挂着
	require.Len(t, res.Asks, 1)
	assert.Equal(t, uint64(100), res.Asks[0].Qty)
	assert.Empty(t, res.Bids)
	assert.Equal(t, 1, res.Orders)
}

func TestActor_MailboxFull(t *testing.T) {
	// 不起 Run：邮箱填满后必须立刻报忙
	a := NewBookActor(ActorConfig{MailboxSize: 1}, nil)

	require.NoError(t, a.TryEnqueue(Command{Type: CmdCancel, OrderID: 1}))
	err := a.TryEnqueue(Command{Type: CmdCancel, OrderID: 2})
	assert.ErrorIs(t, err, ErrEngineBusy)
	assert.Equal(t, uint64(1), a.MailboxFull())
}

func TestActor_VersionDetectsChange(t *testing.T) {
	a := startActor(t, ActorConfig{})
	ctx := context.Background()

	enqueue(t, a, Command{Type: CmdSubmitLimit, Order: book.Order{ID: 1, Side: book.Buy, Price: 99.00, Qty: 10, Ts: 1}})

	// 等命令被消化
	var before SnapshotResult
	require.Eventually(t, func() bool {
		res, err := a.Snapshot(ctx, 1)
		if err != nil || res.Orders != 1 {
			return false
		}
		before = res
		return true
	}, 2*time.Second, 5*time.Millisecond)

	// 没有写入：version 必须稳定
	again, err := a.Snapshot(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, before.Version, again.Version)

	// 有写入：version 必须变
	enqueue(t, a, Command{Type: CmdAmend, OrderID: 1, NewPrice: 99.00, NewQty: 20})
	require.Eventually(t, func() bool {
		res, err := a.Snapshot(ctx, 1)
		return err == nil && res.Version > before.Version
	}, 2*time.Second, 5*time.Millisecond)
}

func TestActor_SnapshotSeesConsistentSides(t *testing.T) {
	a := startActor(t, ActorConfig{})
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		enqueue(t, a, Command{Type: CmdSubmitLimit, Order: book.Order{
			ID: uint64(i + 1), Side: book.Buy, Price: 99.00 - float64(i%5)*0.25, Qty: 10, Ts: uint64(i),
		}})
	}
	require.Eventually(t, func() bool {
		res, err := a.Snapshot(ctx, 10)
		return err == nil && res.Orders == 50
	}, 2*time.Second, 5*time.Millisecond)

	res, err := a.Snapshot(ctx, 10)
	require.NoError(t, err)
	// owner goroutine 截取：两边层级数和计数必须自洽
	assert.Equal(t, res.BidLevels, len(res.Bids))
	assert.Equal(t, 0, res.AskLevels)
	assert.Equal(t, res.BestBid, res.Bids[0].Price)
}
