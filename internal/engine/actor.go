package engine

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"
	"orderbookx.com/internal/book"
	"orderbookx.com/pkg/metrics"
)

type ActorConfig struct {
	MailboxSize int // 命令邮箱容量
	BatchMax    int // 一次最多吞多少条
	BusSize     int // 成交事件总线容量
}

// BookActor 单写者边界：一个 goroutine 独占一本簿，
// 写命令串行消化，读请求也由同一个循环应答——簿内部完全不用锁。
type BookActor struct {
	bk  *book.OrderBook
	in  chan Command
	rd  chan SnapshotRequest
	cfg ActorConfig
	bus *TradeBus
	log *zap.Logger

	mailboxFull uint64
}

func NewBookActor(cfg ActorConfig, log *zap.Logger) *BookActor {
	if cfg.MailboxSize <= 0 {
		cfg.MailboxSize = 4096
	}
	if cfg.BatchMax <= 0 {
		cfg.BatchMax = 256
	}
	if log == nil {
		log = zap.NewNop()
	}

	bus := NewTradeBus(cfg.BusSize)
	a := &BookActor{
		in:  make(chan Command, cfg.MailboxSize),
		rd:  make(chan SnapshotRequest),
		cfg: cfg,
		bus: bus,
		log: log,
	}
	// 成交直接从撮合回调桥到总线
	a.bk = book.New(book.Config{
		Logger: log,
		OnTrade: func(tr book.Trade) {
			metrics.TradesTotal.Inc()
			metrics.TradedQtyTotal.Add(float64(tr.Qty))
			if !bus.TryPublish(tr) {
				metrics.EventsDroppedTotal.Inc()
			}
		},
	})
	return a
}

func (a *BookActor) Trades() <-chan book.Trade { return a.bus.C() }

func (a *BookActor) DroppedTrades() uint64 { return a.bus.Dropped() }

func (a *BookActor) MailboxFull() uint64 { return atomic.LoadUint64(&a.mailboxFull) }

// TryEnqueue 非阻塞投递。邮箱满 = 背压信号，调用方自己决定重试还是丢弃。
func (a *BookActor) TryEnqueue(cmd Command) error {
	select {
	case a.in <- cmd:
		return nil
	default:
		atomic.AddUint64(&a.mailboxFull, 1)
		metrics.MailboxFullTotal.Inc()
		return ErrEngineBusy
	}
}

// Snapshot 阻塞等 owner goroutine 应答，拿到的两边 + version 是同一时刻的
func (a *BookActor) Snapshot(ctx context.Context, depth int) (SnapshotResult, error) {
	req := SnapshotRequest{Depth: depth, Reply: make(chan SnapshotResult, 1)}
	select {
	case a.rd <- req:
	case <-ctx.Done():
		return SnapshotResult{}, ctx.Err()
	}
	select {
	case res := <-req.Reply:
		return res, nil
	case <-ctx.Done():
		return SnapshotResult{}, ctx.Err()
	}
}

// Run 先阻塞拿 1 条，再非阻塞尽量多拿几条的批处理循环
func (a *BookActor) Run(ctx context.Context) {
	batch := make([]Command, 0, a.cfg.BatchMax) // 复用 batch slice，避免每轮分配
	for {
		var first Command
		select {
		case <-ctx.Done():
			return
		case req := <-a.rd:
			a.answer(req)
			continue
		case first = <-a.in:
		}

		batch = batch[:0]
		batch = append(batch, first)
		for len(batch) < a.cfg.BatchMax {
			select {
			case cmd := <-a.in:
				batch = append(batch, cmd)
			default:
				goto PROCESS
			}
		}
	PROCESS:
		for _, cmd := range batch {
			a.apply(cmd)
		}
	}
}

func (a *BookActor) apply(cmd Command) {
	switch cmd.Type {
	case CmdSubmitLimit:
		if err := a.bk.Insert(cmd.Order); err != nil {
			metrics.OrdersRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
			return
		}
		metrics.OrdersAcceptedTotal.Inc()
	case CmdCancel:
		if a.bk.Cancel(cmd.OrderID) {
			metrics.CancelsTotal.WithLabelValues("ok").Inc()
		} else {
			metrics.CancelsTotal.WithLabelValues("not_found").Inc()
		}
	case CmdAmend:
		if a.bk.Amend(cmd.OrderID, cmd.NewPrice, cmd.NewQty) {
			metrics.AmendsTotal.WithLabelValues("ok").Inc()
		} else {
			metrics.AmendsTotal.WithLabelValues("failed").Inc()
		}
	default:
		a.log.Error("unknown command", zap.Uint8("type", uint8(cmd.Type)), zap.Uint64("req_id", cmd.ReqID))
	}
}

func (a *BookActor) answer(req SnapshotRequest) {
	bids, asks := a.bk.Snapshot(req.Depth)
	req.Reply <- SnapshotResult{
		Bids:      bids,
		Asks:      asks,
		Version:   a.bk.Version(),
		Orders:    a.bk.OrderCount(),
		BidLevels: a.bk.BidLevels(),
		AskLevels: a.bk.AskLevels(),
		BestBid:   a.bk.BestBid(),
		BestAsk:   a.bk.BestAsk(),
		Spread:    a.bk.Spread(),
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, book.ErrInvalidID):
		return "invalid_id"
	case errors.Is(err, book.ErrInvalidSide):
		return "invalid_side"
	case errors.Is(err, book.ErrInvalidPrice):
		return "invalid_price"
	case errors.Is(err, book.ErrInvalidQty):
		return "invalid_qty"
	case errors.Is(err, book.ErrDuplicateID):
		return "duplicate_id"
	default:
		return "other"
	}
}
