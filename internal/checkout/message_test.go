package checkout

import (
	"net/url"
	"testing"

	"github.com/fjod/xpawto-store/internal/cart"
	"github.com/fjod/xpawto-store/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLines() []cart.Line {
	return []cart.Line{
		{Product: domain.Product{ID: 7, Name: "RED FOX", Price: "Rp 8.000-10.000", Stock: 4}, Quantity: 2},
		{Product: domain.Product{ID: 19, Name: "Paket 30+", Price: "Rp 3.000", Stock: 10}, Quantity: 1},
	}
}

func TestBuildOrderMessage_WithPaymentMethod(t *testing.T) {
	method := PaymentGopay

	msg := BuildOrderMessage(sampleLines(), &method)

	expected := "Halo! Saya ingin memesan:\n\n" +
		"• RED FOX - Rp 8.000-10.000 (Qty: 2)\n" +
		"• Paket 30+ - Rp 3.000 (Qty: 1)\n\n" +
		"Total Item: 3 pcs\n" +
		"Metode Pembayaran: 🟢 Gopay\n\n" +
		"Mohon konfirmasi ketersediaan stok dan total harga. Terima kasih!"
	assert.Equal(t, expected, msg)
}

func TestBuildOrderMessage_WithoutPaymentMethod(t *testing.T) {
	msg := BuildOrderMessage(sampleLines(), nil)

	assert.NotContains(t, msg, "Metode Pembayaran")
	assert.Contains(t, msg, "Total Item: 3 pcs\n\nMohon")
}

func TestBuildLink_EncodesLikeURIComponent(t *testing.T) {
	link := BuildLink("6285128048534", "Paket 30+ & (promo)!")

	assert.Equal(t, "https://wa.me/6285128048534?text=Paket%2030%2B%20%26%20(promo)!", link)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Paket 30+ & (promo)!", u.Query().Get("text"))
}

func TestBuildLink_RoundTripsFullMessage(t *testing.T) {
	method := PaymentQRIS
	msg := BuildOrderMessage(sampleLines(), &method)

	u, err := url.Parse(BuildLink("6285128048534", msg))
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/6285128048534", u.Path)
	assert.Equal(t, msg, u.Query().Get("text"))
}

func TestBuildLink_NoMessage(t *testing.T) {
	assert.Equal(t, "https://wa.me/6285128048534", BuildLink("6285128048534", ""))
}

func TestParsePaymentMethod(t *testing.T) {
	for _, m := range PaymentMethods {
		parsed, err := ParsePaymentMethod(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
		assert.NotEmpty(t, parsed.Label())
	}

	parsed, err := ParsePaymentMethod(" QRIS ")
	require.NoError(t, err)
	assert.Equal(t, PaymentQRIS, parsed)

	_, err = ParsePaymentMethod("paypal")
	assert.ErrorIs(t, err, ErrUnknownPaymentMethod)
}
