// Package checkout turns a cart into the order message handed to the seller's
// chat. Nothing is recorded in-system; the link is the whole handoff.
package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fjod/xpawto-store/internal/cart"
)

const chatBaseURL = "https://wa.me/"

// BuildOrderMessage renders one bullet per line, the total item count and,
// when method is non-nil, the chosen payment method.
func BuildOrderMessage(lines []cart.Line, method *PaymentMethod) string {
	total := 0
	bullets := make([]string, 0, len(lines))
	for _, l := range lines {
		bullets = append(bullets, fmt.Sprintf("• %s - %s (Qty: %d)", l.Product.Name, l.Product.Price, l.Quantity))
		total += l.Quantity
	}

	var b strings.Builder
	b.WriteString("Halo! Saya ingin memesan:\n\n")
	b.WriteString(strings.Join(bullets, "\n"))
	fmt.Fprintf(&b, "\n\nTotal Item: %d pcs", total)
	if method != nil {
		fmt.Fprintf(&b, "\nMetode Pembayaran: %s", method.Label())
	}
	b.WriteString("\n\nMohon konfirmasi ketersediaan stok dan total harga. Terima kasih!")
	return b.String()
}

// BuildLink returns the chat deep link carrying message to phone.
func BuildLink(phone, message string) string {
	link := chatBaseURL + url.PathEscape(phone)
	if message == "" {
		return link
	}
	return link + "?text=" + encodeComponent(message)
}

var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent percent-encodes s the way browsers encode a URI component:
// spaces become %20 and the marks !'()* stay literal.
func encodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
