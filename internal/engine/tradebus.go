package engine

import (
	"context"
	"sync/atomic"

	"orderbookx.com/internal/book"
)

// TradeBus 成交事件总线：撮合线程永远不被慢消费者拖住，
// 发不进去就丢并计数（生产嵌入应接市场数据/回报下游时自己调大 buffer）。
type TradeBus struct {
	ch      chan book.Trade
	dropped uint64
}

func NewTradeBus(size int) *TradeBus {
	if size <= 0 {
		size = 1 << 16
	}
	return &TradeBus{ch: make(chan book.Trade, size)}
}

// TryPublish 非阻塞发布，满了就丢
func (b *TradeBus) TryPublish(tr book.Trade) bool {
	select {
	case b.ch <- tr:
		return true
	default:
		atomic.AddUint64(&b.dropped, 1)
		return false
	}
}

// Publish 阻塞发布，回放/测试用
func (b *TradeBus) Publish(ctx context.Context, tr book.Trade) error {
	select {
	case b.ch <- tr:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *TradeBus) C() <-chan book.Trade { return b.ch }

func (b *TradeBus) Dropped() uint64 { return atomic.LoadUint64(&b.dropped) }
