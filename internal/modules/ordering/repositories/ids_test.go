package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIDGenerator_Next(t *testing.T) {
	g := &IDGenerator{now: func() time.Time { return time.UnixMilli(1741000123456) }}

	assert.Equal(t, "CAF-123456", g.Next("CAF-", 6, nil))
	assert.Equal(t, "CLI-00123456", g.Next("CLI-", 8, nil))

	taken := map[string]bool{"CAF-123456": true, "CAF-123457": true}
	assert.Equal(t, "CAF-123458", g.Next("CAF-", 6, func(id string) bool { return taken[id] }))
}
