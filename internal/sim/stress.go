package sim

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"orderbookx.com/internal/book"
	"orderbookx.com/internal/engine"
	"orderbookx.com/pkg/logger"
)

// StressConfig 随机负载参数，全部可从配置/环境变量覆盖
type StressConfig struct {
	Orders    int     `mapstructure:"orders"`
	PriceLow  float64 `mapstructure:"price_low"`
	PriceHigh float64 `mapstructure:"price_high"`
	MaxQty    uint64  `mapstructure:"max_qty"`
	Rate      float64 `mapstructure:"rate"` // 提交速率 orders/s，0 = 不限速
	Readers   int     `mapstructure:"readers"`
	Depth     int     `mapstructure:"depth"`
	Seed      int64   `mapstructure:"seed"` // 0 = 取当前时间
}

func (c *StressConfig) defaults() {
	if c.Orders <= 0 {
		c.Orders = 10000
	}
	if c.PriceLow <= 0 {
		c.PriceLow = 99.0
	}
	if c.PriceHigh <= c.PriceLow {
		c.PriceHigh = 101.0
	}
	if c.MaxQty == 0 {
		c.MaxQty = 1000
	}
	if c.Readers < 0 {
		c.Readers = 0
	}
	if c.Depth <= 0 {
		c.Depth = 5
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
}

// StressReport 一轮压测的汇总
type StressReport struct {
	RunID          string
	Submitted      uint64
	Busy           uint64 // 邮箱满被顶回的次数（含重试前的失败）
	Cancels        uint64
	Amends         uint64
	Trades         uint64
	DroppedTrades  uint64
	Snapshots      uint64
	VersionChanges uint64 // 读者观察到 version 变化的次数
	Elapsed        time.Duration
	Final          engine.SnapshotResult
}

// RunStress 随机订单流打满 actor：写者限速提交 + 周期性撤改，
// 读者并发拉快照，用 version 检测两次读之间簿有没有动过。
func RunStress(ctx context.Context, a *engine.BookActor, cfg StressConfig) (StressReport, error) {
	cfg.defaults()

	runID := uuid.NewString()
	ctx = context.WithValue(ctx, logger.RunIdKey, runID)
	logger.Info(ctx, "stress start",
		zap.Int("orders", cfg.Orders),
		zap.Float64("rate", cfg.Rate),
		zap.Int("readers", cfg.Readers),
		zap.Int64("seed", cfg.Seed))

	var rep StressReport
	rep.RunID = runID

	var trades uint64
	writerDone := make(chan struct{})
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)

	// 成交事件排水，顺手计数
	g.Go(func() error {
		for {
			select {
			case <-a.Trades():
				atomic.AddUint64(&trades, 1)
			case <-writerDone:
				// 收尾：把剩的排干
				for {
					select {
					case <-a.Trades():
						atomic.AddUint64(&trades, 1)
					default:
						return nil
					}
				}
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	// 并发读者：隔一小会儿拉一次快照，version 变了就计一次
	for r := 0; r < cfg.Readers; r++ {
		g.Go(func() error {
			var lastVersion uint64
			for {
				select {
				case <-writerDone:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				case <-time.After(time.Millisecond):
				}
				res, err := a.Snapshot(gctx, cfg.Depth)
				if err != nil {
					return err
				}
				atomic.AddUint64(&rep.Snapshots, 1)
				if res.Version != lastVersion {
					atomic.AddUint64(&rep.VersionChanges, 1)
					lastVersion = res.Version
				}
			}
		})
	}

	// 写者：随机单流，复刻参考驱动的撤单/改单节奏
	g.Go(func() error {
		defer close(writerDone)

		rng := rand.New(rand.NewSource(cfg.Seed))
		var limiter *rate.Limiter
		if cfg.Rate > 0 {
			limiter = rate.NewLimiter(rate.Limit(cfg.Rate), int(cfg.Rate/10)+1)
		}

		for i := 1; i <= cfg.Orders; i++ {
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
			}

			side := book.Buy
			if rng.Intn(2) == 0 {
				side = book.Sell
			}
			cmd := engine.Command{
				Type: engine.CmdSubmitLimit,
				Order: book.Order{
					ID:    uint64(i),
					Side:  side,
					Price: cfg.PriceLow + rng.Float64()*(cfg.PriceHigh-cfg.PriceLow),
					Qty:   uint64(rng.Int63n(int64(cfg.MaxQty))) + 1,
					Ts:    uint64(time.Now().UnixNano()),
				},
			}
			if err := submitWithRetry(gctx, a, cmd, &rep.Busy); err != nil {
				return err
			}
			rep.Submitted++

			// 每 100 单撤一张旧的
			if i > 100 && i%100 == 0 {
				c := engine.Command{Type: engine.CmdCancel, OrderID: uint64(i - 50)}
				if err := submitWithRetry(gctx, a, c, &rep.Busy); err != nil {
					return err
				}
				rep.Cancels++
			}
			// 每 150 单改一张
			if i > 200 && i%150 == 0 {
				m := engine.Command{
					Type:     engine.CmdAmend,
					OrderID:  uint64(i - 75),
					NewPrice: cfg.PriceLow + rng.Float64()*(cfg.PriceHigh-cfg.PriceLow),
					NewQty:   uint64(rng.Int63n(int64(cfg.MaxQty))) + 1,
				}
				if err := submitWithRetry(gctx, a, m, &rep.Busy); err != nil {
					return err
				}
				rep.Amends++
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return rep, err
	}

	// 等 actor 把邮箱里最后一批消化掉再取终态
	final, err := waitDrained(ctx, a, cfg.Depth)
	if err != nil {
		return rep, err
	}
	rep.Final = final
	// 排水协程退出后可能还有尾巴
	for {
		select {
		case <-a.Trades():
			atomic.AddUint64(&trades, 1)
			continue
		default:
		}
		break
	}
	rep.Trades = atomic.LoadUint64(&trades)
	rep.DroppedTrades = a.DroppedTrades()
	rep.Elapsed = time.Since(start)

	logger.Info(ctx, "stress done",
		zap.Uint64("submitted", rep.Submitted),
		zap.Uint64("trades", rep.Trades),
		zap.Uint64("busy", rep.Busy),
		zap.Uint64("snapshots", rep.Snapshots),
		zap.Duration("elapsed", rep.Elapsed),
		zap.Uint64("final_version", rep.Final.Version),
		zap.Int("final_orders", rep.Final.Orders))
	return rep, nil
}

// submitWithRetry 邮箱满就退避重试，别的错误直接上抛
func submitWithRetry(ctx context.Context, a *engine.BookActor, cmd engine.Command, busy *uint64) error {
	for {
		err := a.TryEnqueue(cmd)
		if err == nil {
			return nil
		}
		if err != engine.ErrEngineBusy {
			return err
		}
		atomic.AddUint64(busy, 1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Microsecond):
		}
	}
}

// waitDrained version 连续两次快照不再变，说明邮箱空了
func waitDrained(ctx context.Context, a *engine.BookActor, depth int) (engine.SnapshotResult, error) {
	var last engine.SnapshotResult
	for i := 0; ; i++ {
		res, err := a.Snapshot(ctx, depth)
		if err != nil {
			return res, err
		}
		if i > 0 && res.Version == last.Version {
			return res, nil
		}
		last = res
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}
