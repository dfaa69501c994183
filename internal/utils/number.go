package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

// GenerateOrderNumber returns ORD-<unix millis>-<3 random digits>. Uniqueness
// is enforced by the orders_order_number_key constraint, not by this value.
func GenerateOrderNumber(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(now.UnixNano() % 1000)
	}

	return fmt.Sprintf("ORD-%d-%03d", now.UnixMilli(), n.Int64())
}

// GenerateInvoiceNumber returns INV-<unix millis>-<order id>.
func GenerateInvoiceNumber(now time.Time, orderID int64) string {
	return fmt.Sprintf("INV-%d-%d", now.UnixMilli(), orderID)
}

// ParseID parses a positive numeric path parameter.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
