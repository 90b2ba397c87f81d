package orders

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// NewOrderNumber produces a human-readable order number of the form
// PO-20260115-3F2A9C. The suffix is random; the database unique index on
// order_number catches the rare collision and the caller retries.
func NewOrderNumber(now time.Time) (string, error) {
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generate order number suffix: %w", err)
	}
	return fmt.Sprintf("PO-%s-%s", now.UTC().Format("20060102"), strings.ToUpper(hex.EncodeToString(suffix))), nil
}
