package checkout

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownPaymentMethod = errors.New("unknown payment method")

type PaymentMethod string

const (
	PaymentDana      PaymentMethod = "dana"
	PaymentGopay     PaymentMethod = "gopay"
	PaymentShopeePay PaymentMethod = "shopeepay"
	PaymentSeabank   PaymentMethod = "seabank"
	PaymentQRIS      PaymentMethod = "qris"
)

// PaymentMethods lists the selectable methods in display order.
var PaymentMethods = []PaymentMethod{PaymentDana, PaymentGopay, PaymentShopeePay, PaymentSeabank, PaymentQRIS}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if m.Label() == "" {
		return "", fmt.Errorf("%q: %w", s, ErrUnknownPaymentMethod)
	}
	return m, nil
}

// Label is the text shown to the seller; empty for unknown methods.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentDana:
		return "💳 Dana"
	case PaymentGopay:
		return "🟢 Gopay"
	case PaymentShopeePay:
		return "🧡 Shopee Pay"
	case PaymentSeabank:
		return "🔵 Seabank"
	case PaymentQRIS:
		return "📱 QRIS"
	default:
		return ""
	}
}
