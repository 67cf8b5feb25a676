package book

import "fmt"

// arena 块大小：一次增长 1024 个槽位
const arenaBlockSize = 1024

// nilIdx 表示 "没有"：链表端点、空闲槽等
const nilIdx = ^uint32(0)

// arena 定长块分配器。槽位用 uint32 下标寻址，块按需追加，
// 已发出的下标在释放前永远有效（块单独分配，永不搬迁/压缩）。
// release 后的槽位视为未初始化：分配方拿到下标后必须重置所有字段。
type arena[T any] struct {
	blocks [][]T
	next   uint32   // bump 指针（全局下标）
	free   []uint32 // 空闲下标栈，O(1) 进出
}

func newArena[T any]() *arena[T] {
	a := &arena[T]{}
	a.grow()
	return a
}

func (a *arena[T]) grow() {
	// 下标空间耗尽属于资源耗尽，继续跑只会破坏不变量
	if uint64(len(a.blocks)+1)*arenaBlockSize > uint64(nilIdx) {
		panic(fmt.Sprintf("book: arena exhausted (%d blocks)", len(a.blocks)))
	}
	a.blocks = append(a.blocks, make([]T, arenaBlockSize))
}

// alloc 优先复用空闲槽，否则 bump；块用完就再挂一块
func (a *arena[T]) alloc() uint32 {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		return idx
	}
	if int(a.next) >= len(a.blocks)*arenaBlockSize {
		a.grow()
	}
	idx := a.next
	a.next++
	return idx
}

func (a *arena[T]) release(idx uint32) {
	a.free = append(a.free, idx)
}

func (a *arena[T]) at(idx uint32) *T {
	return &a.blocks[idx/arenaBlockSize][idx%arenaBlockSize]
}

// inUse 当前在外面的槽位数
func (a *arena[T]) inUse() int {
	return int(a.next) - len(a.free)
}
