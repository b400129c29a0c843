package gateway

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tranqv/shopcore/internal/config"
)

// VNPAY gateway response codes
const (
	VNPayCodeSuccess = "00"
)

// VNPAY parameter names
const (
	paramSecureHash     = "vnp_SecureHash"
	paramSecureHashType = "vnp_SecureHashType"
)

// VNPay builds signed redirect URLs and verifies signed callbacks for the
// VNPAY gateway
type VNPay struct {
	cfg config.VNPayConfig
	now func() time.Time
}

// NewVNPay creates a new VNPAY adapter
func NewVNPay(cfg config.VNPayConfig) *VNPay {
	return &VNPay{cfg: cfg, now: time.Now}
}

// Session is one outbound payment attempt
type Session struct {
	URL    string `json:"url"`
	TxnRef string `json:"txn_ref"`
}

// CreatePaymentURL assembles the signed redirect URL for an order. TxnRef is
// unique per attempt and must be stored as the payment's transaction code so
// callbacks can be correlated.
func (g *VNPay) CreatePaymentURL(orderCode string, amount decimal.Decimal, clientIP, bankCode string) (*Session, error) {
	if g.cfg.TmnCode == "" || g.cfg.HashSecret == "" {
		return nil, fmt.Errorf("vnpay credentials are not configured")
	}

	txnRef := fmt.Sprintf("%s-%s", orderCode, strings.ToUpper(uuid.New().String()[:6]))
	createdAt := g.now()

	// Amount goes over the wire in minor units (x100)
	minorUnits := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	params := map[string]string{
		"vnp_Version":    "2.1.0",
		"vnp_Command":    "pay",
		"vnp_TmnCode":    g.cfg.TmnCode,
		"vnp_Amount":     fmt.Sprintf("%d", minorUnits),
		"vnp_CurrCode":   "VND",
		"vnp_TxnRef":     txnRef,
		"vnp_OrderInfo":  fmt.Sprintf("Thanh toan don hang %s", orderCode),
		"vnp_OrderType":  "other",
		"vnp_Locale":     "vn",
		"vnp_ReturnUrl":  g.cfg.ReturnURL,
		"vnp_IpAddr":     clientIP,
		"vnp_CreateDate": createdAt.Format("20060102150405"),
		"vnp_ExpireDate": createdAt.Add(15 * time.Minute).Format("20060102150405"),
	}
	if bankCode != "" {
		params["vnp_BankCode"] = bankCode
	}

	query := canonicalQuery(params)
	signature := g.sign(query)

	return &Session{
		URL:    fmt.Sprintf("%s?%s&%s=%s", g.cfg.PayURL, query, paramSecureHash, signature),
		TxnRef: txnRef,
	}, nil
}

// VerifySignature recomputes the HMAC over every received parameter except
// the signature fields and compares in constant time
func (g *VNPay) VerifySignature(params map[string]string) bool {
	received, ok := params[paramSecureHash]
	if !ok || received == "" {
		return false
	}

	filtered := make(map[string]string, len(params))
	for k, v := range params {
		if k == paramSecureHash || k == paramSecureHashType {
			continue
		}
		filtered[k] = v
	}

	expected := g.sign(canonicalQuery(filtered))
	return hmac.Equal([]byte(strings.ToLower(received)), []byte(expected))
}

// sign computes the hex HMAC-SHA512 of data with the shared secret
func (g *VNPay) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(g.cfg.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// canonicalQuery sorts parameter keys and url-encodes values, matching the
// canonical form used on both the signing and verification sides
func canonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String()
}
