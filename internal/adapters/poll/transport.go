package poll

import (
	"time"

	"github.com/dkeye/Deck/internal/core"
	"github.com/dkeye/Deck/internal/domain"
)

// Transport implements core.Transport by enqueueing into mailboxes. Delivery
// here means "queued"; the participant picks it up on their next poll.
type Transport struct {
	mb *Mailbox
}

func NewTransport(mb *Mailbox) *Transport {
	return &Transport{mb: mb}
}

func (t *Transport) DeliverToUser(pid domain.ParticipantID, ev core.Event) {
	t.mb.Queue(pid, Update{Event: ev.Name, Data: ev.Payload, Timestamp: time.Now()})
}

func (t *Transport) DeliverToRoom(room *core.Room, exclude domain.ParticipantID, ev core.Event) {
	now := time.Now()
	for _, pid := range room.MemberIDs() {
		if pid == exclude {
			continue
		}
		t.mb.Queue(pid, Update{Event: ev.Name, Data: ev.Payload, Timestamp: now})
	}
}
