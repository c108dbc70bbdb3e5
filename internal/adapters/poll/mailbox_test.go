package poll

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMailbox_QueueAndDrain(t *testing.T) {
	req := require.New(t)
	mb := NewMailbox()
	req.True(mb.Register("u1"))
	req.False(mb.Register("u1"), "re-register must not report a fresh box")

	mb.Queue("u1", Update{Event: "room-updated"})
	mb.Queue("u1", Update{Event: "votes-revealed"})

	// Drain takes everything in order, once
	got := mb.Drain("u1")
	req.Len(got, 2)
	req.Equal("room-updated", got[0].Event)
	req.Equal("votes-revealed", got[1].Event)
	req.Nil(mb.Drain("u1"))
}

func TestMailbox_Queue_WithoutBoxIsDropped(t *testing.T) {
	req := require.New(t)
	mb := NewMailbox()

	// No box registered, delivery is skipped silently
	mb.Queue("ghost", Update{Event: "room-updated"})
	req.Equal(0, mb.Count())
	req.Nil(mb.Drain("ghost"))
}

func TestMailbox_Wait_ReturnsQueuedImmediately(t *testing.T) {
	req := require.New(t)
	mb := NewMailbox()
	mb.Register("u1")
	mb.Queue("u1", Update{Event: "story-updated"})

	got := mb.Wait(context.Background(), "u1", time.Second)
	req.Len(got, 1)
	req.Equal("story-updated", got[0].Event)
}

func TestMailbox_Wait_WakesOnDelivery(t *testing.T) {
	req := require.New(t)
	mb := NewMailbox()
	mb.Register("u1")

	go func() {
		time.Sleep(20 * time.Millisecond)
		mb.Queue("u1", Update{Event: "user-joined"})
	}()

	start := time.Now()
	got := mb.Wait(context.Background(), "u1", 5*time.Second)
	req.Len(got, 1)
	req.Less(time.Since(start), time.Second, "must wake on delivery, not run out the clock")
}

func TestMailbox_Wait_TimeoutIsEmptyNotNil(t *testing.T) {
	req := require.New(t)
	mb := NewMailbox()
	mb.Register("u1")

	got := mb.Wait(context.Background(), "u1", 20*time.Millisecond)
	req.NotNil(got)
	req.Empty(got)
}

func TestMailbox_Wait_UnknownBox(t *testing.T) {
	req := require.New(t)
	mb := NewMailbox()

	start := time.Now()
	got := mb.Wait(context.Background(), "ghost", 5*time.Second)
	req.Empty(got)
	req.Less(time.Since(start), time.Second)
}

func TestMailbox_RemoveAndPrune(t *testing.T) {
	req := require.New(t)
	mb := NewMailbox()
	mb.Register("u1")
	mb.Register("u2")
	mb.Queue("u1", Update{Event: "room-updated"})

	mb.Remove("u1")
	req.Nil(mb.Drain("u1"))
	req.Equal(1, mb.Count())

	// u2 has never polled; with a zero idle window it is pruned
	time.Sleep(time.Millisecond)
	req.Equal(1, mb.PruneIdle(0))
	req.Equal(0, mb.Count())
}

func TestMailbox_OverflowDropsOldest(t *testing.T) {
	req := require.New(t)
	mb := NewMailbox()
	mb.Register("u1")

	for i := 0; i < maxQueued+10; i++ {
		mb.Queue("u1", Update{Event: "room-updated", Timestamp: time.Unix(int64(i), 0)})
	}

	got := mb.Drain("u1")
	req.Len(got, maxQueued)
	req.Equal(time.Unix(10, 0), got[0].Timestamp)
}
