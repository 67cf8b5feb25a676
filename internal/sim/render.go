package sim

import (
	"fmt"
	"strings"

	"orderbookx.com/internal/book"
)

// RenderBook 双列深度表，买盘卖盘并排
func RenderBook(bids, asks []book.LevelSnapshot, bestBid, bestAsk, spread float64) string {
	var sb strings.Builder
	sb.WriteString("\n=== ORDER BOOK ===\n")
	sb.WriteString("Bids (Buy)          | Asks (Sell)\n")
	sb.WriteString("Price    | Quantity | Price    | Quantity\n")
	sb.WriteString("---------|----------|----------|----------\n")

	rows := max(len(bids), len(asks))
	for i := 0; i < rows; i++ {
		if i < len(bids) {
			fmt.Fprintf(&sb, "%8.2f | %8d", bids[i].Price, bids[i].Qty)
		} else {
			sb.WriteString("         |         ")
		}
		sb.WriteString(" | ")
		if i < len(asks) {
			fmt.Fprintf(&sb, "%8.2f | %8d", asks[i].Price, asks[i].Qty)
		} else {
			sb.WriteString("         |         ")
		}
		sb.WriteByte('\n')
	}

	fmt.Fprintf(&sb, "\nBest Bid: %s\n", renderPrice(bestBid, book.NoBid))
	fmt.Fprintf(&sb, "Best Ask: %s\n", renderPrice(bestAsk, book.NoAsk))
	fmt.Fprintf(&sb, "Spread: %.2f\n", spread)
	return sb.String()
}

// 哨兵值（无买盘 0 / 无卖盘 MaxFloat64）显示成 "-"
func renderPrice(p, sentinel float64) string {
	if p == sentinel {
		return "-"
	}
	return fmt.Sprintf("%.2f", p)
}
