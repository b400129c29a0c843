package gateway

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranqv/shopcore/internal/config"
)

func testVNPay(t *testing.T) *VNPay {
	t.Helper()
	g := NewVNPay(config.VNPayConfig{
		TmnCode:    "SHOPTEST",
		HashSecret: "VNPAYSECRETKEY123",
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "https://shop.example.com/api/payments/vnpay/return",
	})
	g.now = func() time.Time {
		return time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	}
	return g
}

// paramsOf splits the generated redirect URL back into a flat parameter map,
// the same shape the return and IPN endpoints receive
func paramsOf(t *testing.T, rawURL string) map[string]string {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	params := make(map[string]string)
	for k, vs := range u.Query() {
		params[k] = vs[0]
	}
	return params
}

func TestCreatePaymentURL(t *testing.T) {
	g := testVNPay(t)

	session, err := g.CreatePaymentURL("ORD-20260315-ABCDEF12", decimal.NewFromInt(530000), "203.0.113.9", "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(session.URL, "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?"))
	assert.True(t, strings.HasPrefix(session.TxnRef, "ORD-20260315-ABCDEF12-"))

	params := paramsOf(t, session.URL)
	assert.Equal(t, "2.1.0", params["vnp_Version"])
	assert.Equal(t, "pay", params["vnp_Command"])
	assert.Equal(t, "SHOPTEST", params["vnp_TmnCode"])
	assert.Equal(t, "53000000", params["vnp_Amount"], "amount must be sent in minor units")
	assert.Equal(t, "VND", params["vnp_CurrCode"])
	assert.Equal(t, session.TxnRef, params["vnp_TxnRef"])
	assert.Equal(t, "203.0.113.9", params["vnp_IpAddr"])
	assert.Equal(t, "20260315103000", params["vnp_CreateDate"])
	assert.Equal(t, "20260315104500", params["vnp_ExpireDate"], "sessions expire after 15 minutes")
	assert.NotContains(t, params, "vnp_BankCode")
	assert.NotEmpty(t, params["vnp_SecureHash"])
}

func TestCreatePaymentURLWithBankCode(t *testing.T) {
	g := testVNPay(t)

	session, err := g.CreatePaymentURL("ORD-20260315-ABCDEF12", decimal.NewFromInt(100000), "203.0.113.9", "NCB")
	require.NoError(t, err)
	assert.Equal(t, "NCB", paramsOf(t, session.URL)["vnp_BankCode"])
}

func TestCreatePaymentURLTxnRefUniquePerAttempt(t *testing.T) {
	g := testVNPay(t)

	first, err := g.CreatePaymentURL("ORD-20260315-ABCDEF12", decimal.NewFromInt(100000), "203.0.113.9", "")
	require.NoError(t, err)
	second, err := g.CreatePaymentURL("ORD-20260315-ABCDEF12", decimal.NewFromInt(100000), "203.0.113.9", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.TxnRef, second.TxnRef)
}

func TestCreatePaymentURLRequiresCredentials(t *testing.T) {
	g := NewVNPay(config.VNPayConfig{})
	_, err := g.CreatePaymentURL("ORD-1", decimal.NewFromInt(100000), "203.0.113.9", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestVerifySignatureRoundTrip(t *testing.T) {
	g := testVNPay(t)

	session, err := g.CreatePaymentURL("ORD-20260315-ABCDEF12", decimal.NewFromInt(530000), "203.0.113.9", "")
	require.NoError(t, err)

	// VNPAY echoes the signed parameters back on the return URL
	params := paramsOf(t, session.URL)
	assert.True(t, g.VerifySignature(params))
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	g := testVNPay(t)

	session, err := g.CreatePaymentURL("ORD-20260315-ABCDEF12", decimal.NewFromInt(530000), "203.0.113.9", "")
	require.NoError(t, err)

	params := paramsOf(t, session.URL)
	params["vnp_Amount"] = "1"
	assert.False(t, g.VerifySignature(params))
}

func TestVerifySignatureRejectsMissingHash(t *testing.T) {
	g := testVNPay(t)

	session, err := g.CreatePaymentURL("ORD-20260315-ABCDEF12", decimal.NewFromInt(530000), "203.0.113.9", "")
	require.NoError(t, err)

	params := paramsOf(t, session.URL)
	delete(params, "vnp_SecureHash")
	assert.False(t, g.VerifySignature(params))
}

func TestVerifySignatureCaseInsensitiveHash(t *testing.T) {
	g := testVNPay(t)

	session, err := g.CreatePaymentURL("ORD-20260315-ABCDEF12", decimal.NewFromInt(530000), "203.0.113.9", "")
	require.NoError(t, err)

	params := paramsOf(t, session.URL)
	params["vnp_SecureHash"] = strings.ToUpper(params["vnp_SecureHash"])
	assert.True(t, g.VerifySignature(params))
}

func TestVerifySignatureIgnoresHashTypeParam(t *testing.T) {
	g := testVNPay(t)

	session, err := g.CreatePaymentURL("ORD-20260315-ABCDEF12", decimal.NewFromInt(530000), "203.0.113.9", "")
	require.NoError(t, err)

	params := paramsOf(t, session.URL)
	params["vnp_SecureHashType"] = "HMACSHA512"
	assert.True(t, g.VerifySignature(params))
}
