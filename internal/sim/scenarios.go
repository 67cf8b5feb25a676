package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"orderbookx.com/internal/book"
	"orderbookx.com/pkg/logger"
)

// 脚本化演示：复刻人工验收用的几段固定序列，
// 全部走簿的公开操作，算法内部一概不碰。

func newDemoBook() *book.OrderBook {
	return book.New(book.Config{
		Logger: logger.Log,
		OnTrade: func(tr book.Trade) {
			fmt.Printf("MATCH: %d @ %.2f (Bid: %d, Ask: %d)\n", tr.Qty, tr.Price, tr.BidID, tr.AskID)
		},
	})
}

func printBook(b *book.OrderBook, depth int) {
	bids, asks := b.Snapshot(depth)
	fmt.Print(RenderBook(bids, asks, b.BestBid(), b.BestAsk(), b.Spread()))
}

// RunBasic 挂单、快照、撤单、两种改单、错误用例
func RunBasic(ctx context.Context) {
	fmt.Println("=== BASIC FUNCTIONALITY ===")
	b := newDemoBook()

	fmt.Println("\n1. seeding orders...")
	_ = b.Insert(book.Order{ID: 1, Side: book.Buy, Price: 100.50, Qty: 1000, Ts: 1234567890})
	_ = b.Insert(book.Order{ID: 2, Side: book.Buy, Price: 100.25, Qty: 500, Ts: 1234567891})
	_ = b.Insert(book.Order{ID: 3, Side: book.Buy, Price: 100.00, Qty: 750, Ts: 1234567892})
	_ = b.Insert(book.Order{ID: 4, Side: book.Sell, Price: 100.75, Qty: 300, Ts: 1234567893})
	_ = b.Insert(book.Order{ID: 5, Side: book.Sell, Price: 101.00, Qty: 400, Ts: 1234567894})
	_ = b.Insert(book.Order{ID: 6, Side: book.Sell, Price: 101.25, Qty: 200, Ts: 1234567895})
	printBook(b, 10)

	fmt.Println("\n2. snapshot top 3:")
	bids, asks := b.Snapshot(3)
	for _, lv := range bids {
		fmt.Printf("  bid $%.2f : %d\n", lv.Price, lv.Qty)
	}
	for _, lv := range asks {
		fmt.Printf("  ask $%.2f : %d\n", lv.Price, lv.Qty)
	}

	fmt.Println("\n3. cancel order 2:", okStr(b.Cancel(2)))

	fmt.Println("\n4. qty-only amend order 1 -> 1500:", okStr(b.Amend(1, 100.50, 1500)))

	fmt.Println("\n5. price amend order 3 -> 99.75:", okStr(b.Amend(3, 99.75, 750)))
	printBook(b, 10)

	fmt.Println("\n6. error cases:")
	fmt.Println("  cancel 999:", okStr(b.Cancel(999)))
	fmt.Println("  amend 888:", okStr(b.Amend(888, 100.0, 100)))

	logger.Info(ctx, "basic scenario done",
		zap.Int("orders", b.OrderCount()), zap.Uint64("version", b.Version()))
}

// RunMatching 交叉单触发撮合
func RunMatching(ctx context.Context) {
	fmt.Println("\n=== MATCHING ===")
	b := newDemoBook()

	_ = b.Insert(book.Order{ID: 1, Side: book.Buy, Price: 100.00, Qty: 500, Ts: 1000})
	_ = b.Insert(book.Order{ID: 2, Side: book.Sell, Price: 101.00, Qty: 300, Ts: 1001})
	printBook(b, 10)

	fmt.Println("\ncrossing buy 200 @ 101.50:")
	_ = b.Insert(book.Order{ID: 3, Side: book.Buy, Price: 101.50, Qty: 200, Ts: 1002})
	printBook(b, 10)

	logger.Info(ctx, "matching scenario done", zap.Uint64("version", b.Version()))
}

// RunFIFO 同价位时间优先
func RunFIFO(ctx context.Context) {
	fmt.Println("\n=== FIFO PRIORITY ===")
	b := newDemoBook()

	_ = b.Insert(book.Order{ID: 1, Side: book.Buy, Price: 100.00, Qty: 100, Ts: 1000})
	_ = b.Insert(book.Order{ID: 2, Side: book.Buy, Price: 100.00, Qty: 200, Ts: 1001})
	_ = b.Insert(book.Order{ID: 3, Side: book.Buy, Price: 100.00, Qty: 150, Ts: 1002})

	// 卖 250：应该先吃 1 的 100，再吃 2 的 150
	_ = b.Insert(book.Order{ID: 4, Side: book.Sell, Price: 100.00, Qty: 250, Ts: 1003})
	printBook(b, 10)

	logger.Info(ctx, "fifo scenario done", zap.Uint64("version", b.Version()))
}

// RunEdgeCases 非法输入 + 空簿读数
func RunEdgeCases(ctx context.Context) {
	fmt.Println("\n=== EDGE CASES ===")
	b := newDemoBook()

	fmt.Println("1. invalid inputs (all rejected, see log):")
	_ = b.Insert(book.Order{ID: 0, Side: book.Buy, Price: 100.0, Qty: 100, Ts: 1000})
	_ = b.Insert(book.Order{ID: 1, Side: book.Buy, Price: -10.0, Qty: 100, Ts: 1000})
	_ = b.Insert(book.Order{ID: 2, Side: book.Buy, Price: 100.0, Qty: 0, Ts: 1000})
	_ = b.Insert(book.Order{ID: 3, Side: book.Buy, Price: 100.0, Qty: 100, Ts: 1000})
	_ = b.Insert(book.Order{ID: 3, Side: book.Sell, Price: 101.0, Qty: 200, Ts: 1001}) // duplicate
	printBook(b, 10)

	fmt.Println("\n2. empty book reads:")
	empty := newDemoBook()
	fmt.Printf("  best bid: %v\n", empty.BestBid())
	fmt.Printf("  best ask: %v\n", empty.BestAsk())
	fmt.Printf("  spread:   %v\n", empty.Spread())
	bids, asks := empty.Snapshot(5)
	fmt.Printf("  snapshot sizes: bids=%d asks=%d\n", len(bids), len(asks))

	logger.Info(ctx, "edge scenario done", zap.Int("orders", b.OrderCount()))
}

// RunAll 按固定顺序跑全部脚本化场景
func RunAll(ctx context.Context) {
	RunBasic(ctx)
	RunMatching(ctx)
	RunFIFO(ctx)
	RunEdgeCases(ctx)
}

func okStr(ok bool) string {
	if ok {
		return "SUCCESS"
	}
	return "FAILED"
}
