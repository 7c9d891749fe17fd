package xid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Receipt returns a receipt id that stays readable at the till and does not
// collide when two receipts close within the same second.
func Receipt(at time.Time) string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("RCPT-%s-%09d", at.Format("20060102-150405"), at.Nanosecond())
	}
	return fmt.Sprintf("RCPT-%s-%s", at.Format("20060102-150405"), hex.EncodeToString(buf))
}
