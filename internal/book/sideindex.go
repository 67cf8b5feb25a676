package book

import (
	"container/heap"
	"sort"
)

// priceHeap 价位堆：卖盘最小堆（最低卖价在顶），买盘 desc=true 变最大堆。
// 桶删掉时堆里不删，留给 best() 懒清理。
type priceHeap struct {
	ps   []float64
	desc bool
}

func (h *priceHeap) Len() int { return len(h.ps) }

func (h *priceHeap) Less(i, j int) bool {
	if h.desc {
		return h.ps[i] > h.ps[j]
	}
	return h.ps[i] < h.ps[j]
}

func (h *priceHeap) Swap(i, j int) { h.ps[i], h.ps[j] = h.ps[j], h.ps[i] }

func (h *priceHeap) Push(x any) { h.ps = append(h.ps, x.(float64)) }

func (h *priceHeap) Pop() any {
	old := h.ps
	n := len(old)
	x := old[n-1]
	h.ps = old[:n-1]
	return x
}

// sideIndex 单边价位索引：price -> 桶下标 的 map 管存在性，
// 堆管 "best" 的 O(log levels) 维护。桶本体放在共享的 level arena 里。
type sideIndex struct {
	side    Side
	levels  *arena[priceLevel]
	byPrice map[float64]uint32
	h       priceHeap
}

func newSideIndex(side Side, levels *arena[priceLevel]) *sideIndex {
	return &sideIndex{
		side:    side,
		levels:  levels,
		byPrice: make(map[float64]uint32, 1024),
		h:       priceHeap{desc: side == Buy},
	}
}

// getOrCreate 返回已有桶，没有就建：arena 分配 + reset + 入堆 + 入 map
func (s *sideIndex) getOrCreate(price float64) (uint32, *priceLevel) {
	if idx, ok := s.byPrice[price]; ok {
		return idx, s.levels.at(idx)
	}
	idx := s.levels.alloc()
	lv := s.levels.at(idx)
	lv.reset(price) // arena 槽可能带着旧值
	s.byPrice[price] = idx
	heap.Push(&s.h, price) // 新价位出现：入堆
	return idx, lv
}

func (s *sideIndex) get(price float64) (uint32, bool) {
	idx, ok := s.byPrice[price]
	return idx, ok
}

// remove 摘掉一个空桶并把槽还给 arena。调用方必须先确认桶已空。
// 堆里的价位不动，best() 懒删除。
func (s *sideIndex) remove(price float64) {
	idx, ok := s.byPrice[price]
	if !ok {
		return
	}
	delete(s.byPrice, price)
	s.levels.release(idx)
}

// best 堆顶拿最优价；map 里已经没有的价位是过期项，弹掉继续找
func (s *sideIndex) best() (price float64, idx uint32, ok bool) {
	for s.h.Len() > 0 {
		p := s.h.ps[0]
		if i, live := s.byPrice[p]; live {
			return p, i, true
		}
		heap.Pop(&s.h) // lazy deletion
	}
	return 0, nilIdx, false
}

func (s *sideIndex) len() int {
	return len(s.byPrice)
}

// top 按本边的 best-first 顺序取最多 depth 个价位的聚合快照。
// 读路径才会走到，价位数有限，排个序没压力。
func (s *sideIndex) top(depth int) []LevelSnapshot {
	out := make([]LevelSnapshot, 0, min(depth, len(s.byPrice)))
	if depth <= 0 || len(s.byPrice) == 0 {
		return out
	}
	prices := make([]float64, 0, len(s.byPrice))
	for p := range s.byPrice {
		prices = append(prices, p)
	}
	if s.side == Buy {
		sort.Sort(sort.Reverse(sort.Float64Slice(prices)))
	} else {
		sort.Float64s(prices)
	}
	for _, p := range prices {
		if len(out) == depth {
			break
		}
		lv := s.levels.at(s.byPrice[p])
		out = append(out, LevelSnapshot{Price: lv.price, Qty: lv.totalQty})
	}
	return out
}
