package order

import (
	"fmt"
	"strings"
)

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

// FormatNotification renders the Telegram (legacy Markdown) message sent to
// the shop owner for a new order. Customer supplied text is escaped.
func FormatNotification(o *Order) string {
	var b strings.Builder

	b.WriteString("🚨 *НОВЫЙ ЗАКАЗ!*\n\n")
	fmt.Fprintf(&b, "👤 *Клиент:* %s\n", markdownEscaper.Replace(o.CustomerName))
	fmt.Fprintf(&b, "📞 *Телефон:* %s\n", markdownEscaper.Replace(o.CustomerPhone))
	fmt.Fprintf(&b, "💰 *Сумма:* %s BYN\n\n", o.TotalPrice.StringFixed(2))
	b.WriteString("*🛒 Товары:*")

	for _, it := range o.Items {
		b.WriteString("\n📦 ")
		b.WriteString(markdownEscaper.Replace(it.Name))
		b.WriteString(" (")
		b.WriteString(FormatSizes(it))
		b.WriteString(")")
	}
	return b.String()
}

// FormatSizes renders "S: 2шт, M: 1шт" in display size order
func FormatSizes(it Item) string {
	labels := it.SizeQuantities.Labels()
	parts := make([]string, 0, len(labels))
	for _, size := range labels {
		parts = append(parts, fmt.Sprintf("%s: %dшт", markdownEscaper.Replace(size), it.SizeQuantities[size]))
	}
	return strings.Join(parts, ", ")
}
