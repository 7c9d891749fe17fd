package xid

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReceiptIsUniqueWithinOneSecond(t *testing.T) {
	at := time.Date(2026, 10, 19, 14, 5, 9, 0, time.UTC)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := Receipt(at)
		assert.True(t, strings.HasPrefix(id, "RCPT-20261019-140509-"), id)
		assert.False(t, seen[id], "duplicate receipt id %s", id)
		seen[id] = true
	}
}
