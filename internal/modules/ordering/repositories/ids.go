package repositories

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// IDGenerator builds ids from the tail of the millisecond clock, the format
// operators already know from the sheets (CAF-123456, CLI-12345678).
type IDGenerator struct {
	now func() time.Time
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// Next returns prefix plus the last n digits of the clock. taken is consulted
// for collisions, in which case the next millisecond is tried.
func (g *IDGenerator) Next(prefix string, n int, taken func(string) bool) string {
	ms := g.now().UnixMilli()
	for i := int64(0); i < 1000; i++ {
		id := prefix + tail(ms+i, n)
		if taken == nil || !taken(id) {
			return id
		}
	}
	// every suffix in the window is taken
	return fmt.Sprintf("%s%d", prefix, ms)
}

func tail(v int64, n int) string {
	s := strconv.FormatInt(v, 10)
	if len(s) > n {
		return s[len(s)-n:]
	}
	return strings.Repeat("0", n-len(s)) + s
}
