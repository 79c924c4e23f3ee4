package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUTCClock(t *testing.T) {
	var c Clock = New()

	before := time.Now()
	now := c.Now()

	assert.Equal(t, time.UTC, now.Location())
	assert.WithinDuration(t, before, now, time.Second)
}
