package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"orderbookx.com/internal/book"
)

func TestRenderBook_TwoColumns(t *testing.T) {
	bids := []book.LevelSnapshot{{Price: 100.50, Qty: 1000}, {Price: 100.25, Qty: 500}}
	asks := []book.LevelSnapshot{{Price: 100.75, Qty: 300}}

	out := RenderBook(bids, asks, 100.50, 100.75, 0.25)

	assert.Contains(t, out, "100.50 |     1000")
	assert.Contains(t, out, "100.75 |      300")
	assert.Contains(t, out, "Best Bid: 100.50")
	assert.Contains(t, out, "Best Ask: 100.75")
	assert.Contains(t, out, "Spread: 0.25")
}

func TestRenderBook_EmptySides(t *testing.T) {
	out := RenderBook(nil, nil, book.NoBid, book.NoAsk, 0)

	// 空盘口的哨兵值显示成 "-"
	assert.Contains(t, out, "Best Bid: -")
	assert.Contains(t, out, "Best Ask: -")
	assert.Contains(t, out, "Spread: 0.00")
}
