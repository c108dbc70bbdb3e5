package core

import (
	"github.com/dkeye/Deck/internal/domain"
	"github.com/rs/zerolog/log"
)

// Event names, shared by every transport binding.
const (
	EvRoomUpdated         = "room-updated"
	EvUserJoined          = "user-joined"
	EvUserLeft            = "user-left"
	EvUserUpdated         = "user-updated"
	EvVotesRevealed       = "votes-revealed"
	EvVotesReset          = "votes-reset"
	EvStoryUpdated        = "story-updated"
	EvVoteRemoved         = "vote-removed"
	EvJoinRequest         = "join-request"
	EvJoinRequestPending  = "join-request-pending"
	EvJoinRequestApproved = "join-request-approved"
	EvJoinRequestRejected = "join-request-rejected"
	EvJoinRequestsUpdated = "join-requests-updated"
	EvSessionEnded        = "session-ended"
	EvError               = "error"
)

// Event is a named payload. Framing (envelopes, channels, queues) belongs to
// the transport adapters, never here.
type Event struct {
	Name    string
	Payload any
}

type Scope int

const (
	ScopeUser Scope = iota
	ScopeRoom
)

// Delivery is one addressed event. Room-scoped deliveries may exclude the
// acting participant (a joiner does not receive their own user-joined).
type Delivery struct {
	Scope   Scope
	User    domain.ParticipantID
	Room    *Room
	Exclude domain.ParticipantID
	Event   Event
}

func toUser(id domain.ParticipantID, name string, payload any) Delivery {
	return Delivery{Scope: ScopeUser, User: id, Event: Event{Name: name, Payload: payload}}
}

func toRoom(r *Room, exclude domain.ParticipantID, name string, payload any) Delivery {
	return Delivery{Scope: ScopeRoom, Room: r, Exclude: exclude, Event: Event{Name: name, Payload: payload}}
}

// Transport delivers routed events to clients. Implementations must not
// assume a live connection exists: for the long-poll binding delivery means
// enqueueing. A failed delivery is the adapter's problem; state has already
// moved on.
type Transport interface {
	DeliverToUser(id domain.ParticipantID, ev Event)
	DeliverToRoom(room *Room, exclude domain.ParticipantID, ev Event)
}

// Router fans a delivery set out to every registered transport. Dispatch is
// called after the room lock is released; delivery order within one set is
// preserved per transport.
type Router struct {
	transports []Transport
}

func NewRouter() *Router {
	return &Router{}
}

func (r *Router) Register(t Transport) {
	r.transports = append(r.transports, t)
}

func (r *Router) Dispatch(ds []Delivery) {
	for _, d := range ds {
		for _, t := range r.transports {
			switch d.Scope {
			case ScopeUser:
				t.DeliverToUser(d.User, d.Event)
			case ScopeRoom:
				t.DeliverToRoom(d.Room, d.Exclude, d.Event)
			}
		}
	}
	if len(ds) > 0 && len(r.transports) == 0 {
		log.Debug().Str("module", "core.router").Int("events", len(ds)).Msg("no transports registered, events dropped")
	}
}
