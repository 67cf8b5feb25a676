package book

// priceLevel 一个价位桶：挂一条订单 FIFO 链 + 该价位的聚合挂单量。
// head/tail 是订单 arena 的下标。
// 不变量：桶在索引里 <=> count > 0；totalQty == 链上所有订单 qty 之和。
type priceLevel struct {
	price    float64
	totalQty uint64
	head     uint32
	tail     uint32
	count    int
}

// reset arena 槽位复用后重新初始化
func (l *priceLevel) reset(price float64) {
	l.price = price
	l.totalQty = 0
	l.head, l.tail = nilIdx, nilIdx
	l.count = 0
}

// pushBack 追加到队尾 => 同价位天然 FIFO（时间优先）
func (l *priceLevel) pushBack(orders *arena[order], idx uint32) {
	o := orders.at(idx)
	o.prev, o.next = l.tail, nilIdx
	if l.tail != nilIdx {
		orders.at(l.tail).next = idx
	} else {
		l.head = idx
	}
	l.tail = idx
	l.totalQty += o.qty
	l.count++
}

// unlink O(1) 摘链：靠订单自己的 prev/next 改写邻居下标
func (l *priceLevel) unlink(orders *arena[order], idx uint32) {
	o := orders.at(idx)
	if o.prev != nilIdx {
		orders.at(o.prev).next = o.next
	} else {
		// idx 是 head
		l.head = o.next
	}
	if o.next != nilIdx {
		orders.at(o.next).prev = o.prev
	} else {
		// idx 是 tail
		l.tail = o.prev
	}
	// 断开下标，避免误用
	o.prev, o.next = nilIdx, nilIdx
	l.totalQty -= o.qty
	l.count--
}

func (l *priceLevel) empty() bool {
	return l.count == 0
}
