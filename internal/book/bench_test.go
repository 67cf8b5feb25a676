package book

import "testing"

// 铺一个多价位的卖盘，给撮合基准当靶子
func seedAsks(b *OrderBook, levels, per int) {
	var id uint64 = 1
	for i := 0; i < levels; i++ {
		p := 100.0 + float64(i)*0.25
		for j := 0; j < per; j++ {
			_ = b.Insert(Order{ID: id, Side: Sell, Price: p, Qty: 1, Ts: id})
			id++
		}
	}
}

func BenchmarkInsert_NoCross(b *testing.B) {
	bk := New(Config{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// 买卖永不交叉，纯测插入路径
		_ = bk.Insert(Order{ID: uint64(i + 1), Side: Buy, Price: 99.0, Qty: 1, Ts: uint64(i)})
	}
}

func BenchmarkChurn_InsertCancel(b *testing.B) {
	bk := New(Config{})
	const n = 20000
	for i := 0; i < n; i++ {
		_ = bk.Insert(Order{ID: uint64(i + 1), Side: Sell, Price: 100, Qty: 1, Ts: uint64(i)})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// 撤一单补一单：看 arena 复用有没有把分配压下去
		_ = bk.Cancel(uint64(i%n) + 1)
		_ = bk.Insert(Order{ID: uint64(n + i + 1), Side: Sell, Price: 100, Qty: 1, Ts: uint64(n + i)})
	}
}

func BenchmarkMatch_CrossDrain(b *testing.B) {
	bk := New(Config{})
	seedAsks(bk, 50, 200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bk.Insert(Order{ID: uint64(1_000_000 + i), Side: Buy, Price: 200, Qty: 500, Ts: uint64(i)})
		// 卖盘被吃空了就重建（不计时）
		if bk.AskLevels() == 0 {
			b.StopTimer()
			bk = New(Config{})
			seedAsks(bk, 50, 200)
			b.StartTimer()
		}
	}
}

func BenchmarkSnapshot_Depth10(b *testing.B) {
	bk := New(Config{})
	seedAsks(bk, 100, 10)
	for i := 0; i < 1000; i++ {
		_ = bk.Insert(Order{ID: uint64(500_000 + i), Side: Buy, Price: 99.0 - float64(i%50)*0.25, Qty: 5, Ts: uint64(i)})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = bk.Snapshot(10)
	}
}
