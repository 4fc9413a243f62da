package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeysArePrefixed(t *testing.T) {
	c := New("localhost:0", "", 0, time.Minute)
	defer c.Close()
	assert.Equal(t, "casacueto:booked-dates:room1", c.key("booked-dates:room1"))
	assert.Equal(t, time.Minute, c.ttl)
}
