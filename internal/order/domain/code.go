package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order code prefixes
const (
	CodePrefixOnline     = "ORD"
	CodePrefixDirectSale = "DS"
)

// NewOrderCode generates a human-readable order code: prefix, date, and a
// random UUID-derived suffix. The suffix carries enough entropy that
// collisions are practically impossible; the unique constraint on
// orders.code plus a retry loop covers the rest.
func NewOrderCode(prefix string, now time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix)
}
