package book

import (
	"go.uber.org/zap"
)

// Config 簿的装配参数。Logger 是带外诊断通道（校验失败走这里），
// 不传就静默；OnTrade 在撮合期间同步回调。
type Config struct {
	Logger  *zap.Logger
	OnTrade func(Trade)
}

// OrderBook 单一标的的限价订单簿。
// 内部结构（arena / 价位桶 / 索引）全部私有，外部只拿值快照。
// 基线模型：单写者，所有公开方法默认独占访问，内部不加锁（并发是外层包装的事）。
type OrderBook struct {
	orders *arena[order]
	levels *arena[priceLevel] // 两边共用一个 level arena
	bids   *sideIndex
	asks   *sideIndex
	byID   map[uint64]uint32 // orderID -> 订单 arena 下标（撤改 O(1)）

	version  uint64
	matching bool // 撮合进行中标志：防重入

	onTrade func(Trade)
	log     *zap.Logger
}

func New(cfg Config) *OrderBook {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	levels := newArena[priceLevel]()
	return &OrderBook{
		orders:  newArena[order](),
		levels:  levels,
		bids:    newSideIndex(Buy, levels),
		asks:    newSideIndex(Sell, levels),
		byID:    make(map[uint64]uint32, 1024),
		onTrade: cfg.OnTrade,
		log:     log,
	}
}

func (b *OrderBook) sideIndexFor(s Side) *sideIndex {
	if s == Buy {
		return b.bids
	}
	return b.asks
}

// Insert 校验通过才动簿：注册 + 挂到价位桶队尾，version+1，然后同步触发撮合。
// 任何校验失败不改任何状态，错误同时打到诊断日志。
func (b *OrderBook) Insert(req Order) error {
	if req.ID == 0 {
		b.log.Error("insert rejected", zap.Error(ErrInvalidID))
		return ErrInvalidID
	}
	if req.Side != Buy && req.Side != Sell {
		b.log.Error("insert rejected", zap.Error(ErrInvalidSide), zap.Uint64("order_id", req.ID))
		return ErrInvalidSide
	}
	if !validPrice(req.Price) {
		b.log.Error("insert rejected", zap.Error(ErrInvalidPrice),
			zap.Uint64("order_id", req.ID), zap.Float64("price", req.Price))
		return ErrInvalidPrice
	}
	if !validQty(req.Qty) {
		b.log.Error("insert rejected", zap.Error(ErrInvalidQty),
			zap.Uint64("order_id", req.ID), zap.Uint64("qty", req.Qty))
		return ErrInvalidQty
	}
	// 重复 id 是校验失败，不是覆盖
	if _, exists := b.byID[req.ID]; exists {
		b.log.Error("insert rejected", zap.Error(ErrDuplicateID), zap.Uint64("order_id", req.ID))
		return ErrDuplicateID
	}

	idx := b.orders.alloc()
	o := b.orders.at(idx)
	// arena 槽位是未初始化存储：每个字段都要重置
	o.id, o.side, o.price, o.qty, o.ts = req.ID, req.Side, req.Price, req.Qty, req.Ts
	o.prev, o.next = nilIdx, nilIdx
	o.active = true

	b.byID[req.ID] = idx
	_, lv := b.sideIndexFor(req.Side).getOrCreate(req.Price)
	lv.pushBack(b.orders, idx)
	b.version++

	b.match()
	return nil
}

// Cancel 撤单。id 为 0 / 未注册 / 已失效都返回 false，不改状态，二次撤同样干净失败。
func (b *OrderBook) Cancel(id uint64) bool {
	if id == 0 {
		b.log.Warn("cancel rejected", zap.Error(ErrInvalidID))
		return false
	}
	idx, ok := b.byID[id]
	if !ok {
		b.log.Warn("cancel rejected", zap.Error(ErrNotFound), zap.Uint64("order_id", id))
		return false
	}
	o := b.orders.at(idx)
	if !o.active {
		// 注册表只会持有 active 订单，这里是防御
		return false
	}
	b.retire(idx, o)
	b.version++
	return true
}

// Amend 改单。价格数量校验同 Insert。
//   - 只改数量：桶聚合量按差值调整，队列位置保留（时间优先不丢）
//   - 改价：等价撤单重挂，排到新价位队尾，时间优先作废
//
// 两条路径都只 version+1。Amend 本身不触发撮合：改价导致的交叉盘
// 留到下一次 Insert 才被消化（复刻参考实现的策略，见 DESIGN.md）。
func (b *OrderBook) Amend(id uint64, newPrice float64, newQty uint64) bool {
	if id == 0 {
		b.log.Warn("amend rejected", zap.Error(ErrInvalidID))
		return false
	}
	if !validPrice(newPrice) {
		b.log.Warn("amend rejected", zap.Error(ErrInvalidPrice),
			zap.Uint64("order_id", id), zap.Float64("price", newPrice))
		return false
	}
	if !validQty(newQty) {
		b.log.Warn("amend rejected", zap.Error(ErrInvalidQty),
			zap.Uint64("order_id", id), zap.Uint64("qty", newQty))
		return false
	}
	idx, ok := b.byID[id]
	if !ok {
		b.log.Warn("amend rejected", zap.Error(ErrNotFound), zap.Uint64("order_id", id))
		return false
	}
	o := b.orders.at(idx)
	if !o.active {
		return false
	}

	si := b.sideIndexFor(o.side)
	if o.price == newPrice {
		// 数量原地改：不摘链，不丢队位
		lvIdx, ok := si.get(o.price)
		if !ok {
			panic("book: active order without a price level")
		}
		lv := b.levels.at(lvIdx)
		lv.totalQty = lv.totalQty - o.qty + newQty
		o.qty = newQty
	} else {
		oldIdx, ok := si.get(o.price)
		if !ok {
			panic("book: active order without a price level")
		}
		oldLv := b.levels.at(oldIdx)
		oldLv.unlink(b.orders, idx)
		if oldLv.empty() {
			si.remove(oldLv.price)
		}
		o.price, o.qty = newPrice, newQty
		_, newLv := si.getOrCreate(newPrice)
		newLv.pushBack(b.orders, idx)
	}
	b.version++
	return true
}

// Snapshot 两边各取最多 depth 个价位，best-first。只读，不动 version。
func (b *OrderBook) Snapshot(depth int) (bids, asks []LevelSnapshot) {
	return b.bids.top(depth), b.asks.top(depth)
}

// BestBid 无买盘时报哨兵 0
func (b *OrderBook) BestBid() float64 {
	if p, _, ok := b.bids.best(); ok {
		return p
	}
	return NoBid
}

// BestAsk 无卖盘时报哨兵 MaxFloat64
func (b *OrderBook) BestAsk() float64 {
	if p, _, ok := b.asks.best(); ok {
		return p
	}
	return NoAsk
}

// Spread 任一边为空时报 0
func (b *OrderBook) Spread() float64 {
	ask := b.BestAsk()
	if ask == NoAsk || b.bids.len() == 0 {
		return 0
	}
	return ask - b.BestBid()
}

func (b *OrderBook) Version() uint64 { return b.version }

func (b *OrderBook) OrderCount() int { return len(b.byID) }

func (b *OrderBook) BidLevels() int { return b.bids.len() }

func (b *OrderBook) AskLevels() int { return b.asks.len() }

// retire 把订单彻底退场：摘链、清空桶、还 arena、删注册表。
// 撤单 / 完全成交共用这一条路径。
func (b *OrderBook) retire(idx uint32, o *order) {
	si := b.sideIndexFor(o.side)
	lvIdx, ok := si.get(o.price)
	if !ok {
		panic("book: active order without a price level")
	}
	lv := b.levels.at(lvIdx)
	lv.unlink(b.orders, idx)
	if lv.empty() {
		si.remove(lv.price)
	}
	o.active = false
	delete(b.byID, o.id)
	b.orders.release(idx)
}
