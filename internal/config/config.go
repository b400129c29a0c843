package config

import (
	"os"
	"strings"
)

// VNPayConfig holds VNPAY merchant credentials and endpoints
type VNPayConfig struct {
	TmnCode    string // merchant terminal code
	HashSecret string // shared HMAC secret
	PayURL     string
	ReturnURL  string
}

// CheckoutVNConfig holds Checkout.vn integration settings.
// The provider has not published its callback signature scheme, so
// InsecureSkipVerify must be set explicitly to accept unverified IPNs
// (test environments only).
type CheckoutVNConfig struct {
	MerchantID         string
	APIKey             string
	SessionURL         string
	InsecureSkipVerify bool
}

// Config is the application configuration loaded from the environment
type Config struct {
	HTTPPort     string
	Environment  string
	LogLevel     string
	KafkaBrokers []string
	RedisAddr    string
	RedisPass    string
	VNPay        VNPayConfig
	CheckoutVN   CheckoutVNConfig
}

// Load reads configuration from environment variables with sane defaults
func Load() Config {
	return Config{
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:    getEnv("REDIS_PASSWORD", ""),
		VNPay: VNPayConfig{
			TmnCode:    getEnv("VNPAY_TMN_CODE", ""),
			HashSecret: getEnv("VNPAY_HASH_SECRET", ""),
			PayURL:     getEnv("VNPAY_PAY_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
			ReturnURL:  getEnv("VNPAY_RETURN_URL", "http://localhost:8080/api/payments/vnpay/return"),
		},
		CheckoutVN: CheckoutVNConfig{
			MerchantID:         getEnv("CHECKOUTVN_MERCHANT_ID", ""),
			APIKey:             getEnv("CHECKOUTVN_API_KEY", ""),
			SessionURL:         getEnv("CHECKOUTVN_SESSION_URL", "https://www.checkout.vn/api/v1/sessions"),
			InsecureSkipVerify: getEnv("CHECKOUTVN_INSECURE_SKIP_VERIFY", "false") == "true",
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
