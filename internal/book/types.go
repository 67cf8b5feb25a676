package book

import (
	"errors"
	"math"
)

// 买卖方向
type Side uint8

const (
	Buy Side = iota + 1
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// 编译期常量：价格/数量上限、arena 块大小（不是协议状态，只是可调上限）
const (
	MinPrice    = 0.01
	MaxPrice    = 1_000_000.0
	MaxOrderQty = 1_000_000

	// 空盘口的哨兵值：无买盘报 0，无卖盘报最大可表示价格
	NoBid = 0.0
	NoAsk = math.MaxFloat64
)

// Order 是调用方的下单请求。ID 由调用方分配，注册期间不可复用。
type Order struct {
	ID    uint64
	Side  Side
	Price float64
	Qty   uint64
	Ts    uint64 // 到达时间戳（纳秒），时间优先用
}

// Trade 撮合成交事件：买卖订单对 + 数量 + 成交价
type Trade struct {
	BidID uint64
	AskID uint64
	Price float64
	Qty   uint64
}

// LevelSnapshot 单个价位的聚合快照
type LevelSnapshot struct {
	Price float64
	Qty   uint64
}

// 校验失败都是局部错误：不改簿、不致命。只有 arena 耗尽才 panic。
var (
	ErrInvalidID    = errors.New("book: invalid order id (0)")
	ErrInvalidSide  = errors.New("book: invalid side")
	ErrInvalidPrice = errors.New("book: invalid price")
	ErrInvalidQty   = errors.New("book: invalid quantity")
	ErrDuplicateID  = errors.New("book: duplicate order id")
	ErrNotFound     = errors.New("book: order not found")
)

// 盘内订单：挂在价位桶的双向链上。prev/next 是 arena 下标而不是指针，
// 释放复用后不会留下悬空地址。
type order struct {
	id     uint64
	side   Side
	price  float64
	qty    uint64
	ts     uint64
	prev   uint32
	next   uint32
	active bool
}

func validPrice(p float64) bool {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return false
	}
	return p >= MinPrice && p <= MaxPrice
}

func validQty(q uint64) bool {
	return q > 0 && q <= MaxOrderQty
}
