package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJoinRateLimiter_BlocksPastLimit(t *testing.T) {
	req := require.New(t)
	rl := NewJoinRateLimiter(3, time.Minute)

	req.True(rl.Allow("u1"))
	req.True(rl.Allow("u1"))
	req.True(rl.Allow("u1"))
	req.False(rl.Allow("u1"))

	// Other participants have their own window
	req.True(rl.Allow("u2"))
}

func TestJoinRateLimiter_WindowSlides(t *testing.T) {
	req := require.New(t)
	rl := NewJoinRateLimiter(1, 10*time.Millisecond)

	req.True(rl.Allow("u1"))
	req.False(rl.Allow("u1"))

	time.Sleep(15 * time.Millisecond)
	req.True(rl.Allow("u1"))
}
