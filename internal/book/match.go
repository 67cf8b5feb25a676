package book

// match 把交叉掉的流动性吃干净：两边非空且 bestBid >= bestAsk 就一直撮。
// 价格时间优先：每个桶的 head 永远是该价位最老的活跃单（pushBack 的构造保证）。
// matching 标志防重入——撮合里再触发撮合直接 no-op。
// 每轮总挂单量严格减少，必然终止。
func (b *OrderBook) match() {
	if b.matching {
		return
	}
	b.matching = true
	defer func() { b.matching = false }()

	for {
		bidPrice, bidLvIdx, okB := b.bids.best()
		if !okB {
			break
		}
		askPrice, askLvIdx, okA := b.asks.best()
		if !okA {
			break
		}
		// 不交叉了，收工
		if bidPrice < askPrice {
			break
		}

		bidLv := b.levels.at(bidLvIdx)
		askLv := b.levels.at(askLvIdx)
		bidIdx, askIdx := bidLv.head, askLv.head
		if bidIdx == nilIdx || askIdx == nilIdx {
			// 索引里的桶必须非空；走到这儿是结构坏了
			panic("book: crossed level with no orders")
		}
		bid := b.orders.at(bidIdx)
		ask := b.orders.at(askIdx)
		if !bid.active || !ask.active {
			panic("book: inactive order linked in level")
		}

		exec := min(bid.qty, ask.qty)
		if exec == 0 {
			// 零量成交意味着撮合没有进展
			panic("book: crossed book with no progress")
		}

		// 成交价归先到的一方：时间戳早（含相等时的买方）的那张单定价
		price := ask.price
		if bid.ts <= ask.ts {
			price = bid.price
		}

		bid.qty -= exec
		ask.qty -= exec
		// 部分成交也要维护桶聚合量的不变量
		bidLv.totalQty -= exec
		askLv.totalQty -= exec
		b.version++

		if b.onTrade != nil {
			b.onTrade(Trade{BidID: bid.id, AskID: ask.id, Price: price, Qty: exec})
		}

		if bid.qty == 0 {
			b.retire(bidIdx, bid)
		}
		if ask.qty == 0 {
			b.retire(askIdx, ask)
		}
	}
}
