package book

import "testing"

func seedLevelOrder(t *testing.T, orders *arena[order], id uint64, qty uint64) uint32 {
	t.Helper()
	idx := orders.alloc()
	o := orders.at(idx)
	o.id, o.side, o.price, o.qty, o.ts = id, Buy, 100, qty, id
	o.prev, o.next = nilIdx, nilIdx
	o.active = true
	return idx
}

func TestLevel_PushBack_FIFO(t *testing.T) {
	orders := newArena[order]()
	var lv priceLevel
	lv.reset(100)

	i1 := seedLevelOrder(t, orders, 1, 10)
	i2 := seedLevelOrder(t, orders, 2, 20)
	i3 := seedLevelOrder(t, orders, 3, 30)
	lv.pushBack(orders, i1)
	lv.pushBack(orders, i2)
	lv.pushBack(orders, i3)

	if lv.count != 3 || lv.totalQty != 60 {
		t.Fatalf("count/qty expected 3/60, got %d/%d", lv.count, lv.totalQty)
	}
	// head -> tail 必须是到达顺序
	want := []uint64{1, 2, 3}
	got := make([]uint64, 0, 3)
	for idx := lv.head; idx != nilIdx; idx = orders.at(idx).next {
		got = append(got, orders.at(idx).id)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fifo order broken: %v", got)
		}
	}
}

func TestLevel_UnlinkMiddle(t *testing.T) {
	orders := newArena[order]()
	var lv priceLevel
	lv.reset(100)

	i1 := seedLevelOrder(t, orders, 1, 10)
	i2 := seedLevelOrder(t, orders, 2, 20)
	i3 := seedLevelOrder(t, orders, 3, 30)
	lv.pushBack(orders, i1)
	lv.pushBack(orders, i2)
	lv.pushBack(orders, i3)

	// 摘中间：邻居必须重接
	lv.unlink(orders, i2)
	if lv.count != 2 || lv.totalQty != 40 {
		t.Fatalf("count/qty expected 2/40, got %d/%d", lv.count, lv.totalQty)
	}
	if orders.at(i1).next != i3 || orders.at(i3).prev != i1 {
		t.Fatalf("neighbors not relinked after unlink")
	}

	// 摘头和尾
	lv.unlink(orders, i1)
	if lv.head != i3 || lv.tail != i3 {
		t.Fatalf("head/tail wrong after unlinking head")
	}
	lv.unlink(orders, i3)
	if !lv.empty() || lv.head != nilIdx || lv.tail != nilIdx {
		t.Fatalf("level should be empty")
	}
}
