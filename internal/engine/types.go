package engine

import (
	"errors"

	"orderbookx.com/internal/book"
)

// 命令类型
type CmdType uint8

const (
	CmdSubmitLimit CmdType = iota + 1 // 挂限价单
	CmdCancel                         // 撤单
	CmdAmend                          // 改单
)

// Command 入队即返回：写操作不做同步等待，结果走事件/日志。
// 读（快照）单独走 SnapshotRequest，由同一个 owner goroutine 应答。
type Command struct {
	Type  CmdType
	ReqID uint64 // 上游追踪用，可选

	// SubmitLimit
	Order book.Order

	// Cancel / Amend
	OrderID  uint64
	NewPrice float64
	NewQty   uint64
}

// SnapshotRequest 带应答通道的读请求
type SnapshotRequest struct {
	Depth int
	Reply chan SnapshotResult
}

// SnapshotResult 一次由 owner goroutine 原子截取的完整读视图
type SnapshotResult struct {
	Bids      []book.LevelSnapshot
	Asks      []book.LevelSnapshot
	Version   uint64
	Orders    int
	BidLevels int
	AskLevels int
	BestBid   float64
	BestAsk   float64
	Spread    float64
}

var (
	ErrEngineBusy = errors.New("engine busy: mailbox full")
	ErrBadCommand = errors.New("bad command")
)
