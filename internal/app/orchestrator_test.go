package app

import (
	"testing"

	"github.com/dkeye/Deck/internal/core"
	"github.com/dkeye/Deck/internal/domain"
	"github.com/stretchr/testify/require"
)

// captureTransport records what the router hands it, flattened to
// (recipient, event) pairs the assertions can pick through.
type captureTransport struct {
	toUser map[domain.ParticipantID][]string
	toRoom []string
}

func newCaptureTransport() *captureTransport {
	return &captureTransport{toUser: make(map[domain.ParticipantID][]string)}
}

func (c *captureTransport) DeliverToUser(pid domain.ParticipantID, ev core.Event) {
	c.toUser[pid] = append(c.toUser[pid], ev.Name)
}

func (c *captureTransport) DeliverToRoom(_ *core.Room, _ domain.ParticipantID, ev core.Event) {
	c.toRoom = append(c.toRoom, ev.Name)
}

func newTestOrchestrator() (*Orchestrator, *captureTransport) {
	events := core.NewRouter()
	cap := newCaptureTransport()
	events.Register(cap)
	return NewOrchestrator(core.NewRegistry(), core.NewDirectory(), events), cap
}

func TestOrchestrator_JoinAndVoteFlow(t *testing.T) {
	req := require.New(t)
	o, cap := newTestOrchestrator()
	room := o.Rooms.Create(domain.RoomOptions{})

	// Given two members
	res, err := o.Join(room.ID(), "u1", "Ann", false)
	req.NoError(err)
	req.False(res.Pending)
	req.NotNil(res.Room)
	_, err = o.Join(room.ID(), "u2", "Bob", false)
	req.NoError(err)
	req.Contains(cap.toRoom, core.EvUserJoined)

	// When both vote and Ann reveals
	req.NoError(o.CastVote("u1", domain.NumericVote(3)))
	req.NoError(o.CastVote("u2", domain.NumericVote(5)))
	req.NoError(o.RevealVotes("u1"))

	// Then the round is revealed and broadcast
	req.True(room.Revealed())
	req.Contains(cap.toRoom, core.EvVotesRevealed)

	// And a reset reopens it
	req.NoError(o.ResetVotes("u2"))
	req.False(room.Revealed())
	req.Equal(0, room.VoteCount())
}

func TestOrchestrator_Join_UnknownRoom(t *testing.T) {
	req := require.New(t)
	o, _ := newTestOrchestrator()

	_, err := o.Join("0000", "u1", "Ann", false)
	req.ErrorIs(err, domain.ErrRoomNotFound)
}

func TestOrchestrator_OpsWithoutSession(t *testing.T) {
	req := require.New(t)
	o, _ := newTestOrchestrator()

	req.ErrorIs(o.CastVote("ghost", domain.NumericVote(1)), domain.ErrNotAMember)
	req.ErrorIs(o.RevealVotes("ghost"), domain.ErrNotAMember)
	req.ErrorIs(o.SetStory("ghost", "x"), domain.ErrNotAMember)
	req.ErrorIs(o.EndSession("ghost"), domain.ErrNotAMember)
}

func TestOrchestrator_ApprovalEndToEnd(t *testing.T) {
	req := require.New(t)
	o, cap := newTestOrchestrator()
	room := o.Rooms.Create(domain.RoomOptions{RequireApproval: true})

	_, err := o.Join(room.ID(), "u1", "Ann", false)
	req.NoError(err)

	// When Bob asks to join
	res, err := o.Join(room.ID(), "u2", "Bob", false)
	req.NoError(err)
	req.True(res.Pending)
	req.Equal([]string{core.EvJoinRequest}, cap.toUser["u1"])
	req.Contains(cap.toUser["u2"], core.EvJoinRequestPending)

	// Bob cannot approve himself
	req.ErrorIs(o.ApproveJoinRequest("u2", "u2"), domain.ErrUnauthorized)

	// When Ann approves
	req.NoError(o.ApproveJoinRequest("u1", "u2"))
	req.Equal(2, room.MemberCount())
	req.Contains(cap.toUser["u2"], core.EvJoinRequestApproved)
	req.Contains(cap.toUser["u1"], core.EvJoinRequestsUpdated)
}

func TestOrchestrator_RejectTearsSessionDown(t *testing.T) {
	req := require.New(t)
	o, cap := newTestOrchestrator()
	room := o.Rooms.Create(domain.RoomOptions{RequireApproval: true})

	_, err := o.Join(room.ID(), "u1", "Ann", false)
	req.NoError(err)
	_, err = o.Join(room.ID(), "u2", "Bob", false)
	req.NoError(err)

	req.NoError(o.RejectJoinRequest("u1", "u2"))
	req.Contains(cap.toUser["u2"], core.EvJoinRequestRejected)

	// Bob has no session left at all
	req.ErrorIs(o.CastVote("u2", domain.NumericVote(1)), domain.ErrNotAMember)
}

func TestOrchestrator_DisconnectDeletesEmptyRoom(t *testing.T) {
	req := require.New(t)
	o, _ := newTestOrchestrator()
	room := o.Rooms.Create(domain.RoomOptions{})

	_, err := o.Join(room.ID(), "u1", "Ann", false)
	req.NoError(err)

	o.Disconnect("u1")

	_, ok := o.Rooms.Get(room.ID())
	req.False(ok)
	rooms, users := o.Stats()
	req.Equal(0, rooms)
	req.Equal(0, users)

	// Disconnecting again is harmless
	o.Disconnect("u1")
}

func TestOrchestrator_EndSessionDeletesRoom(t *testing.T) {
	req := require.New(t)
	o, cap := newTestOrchestrator()
	room := o.Rooms.Create(domain.RoomOptions{})

	_, err := o.Join(room.ID(), "u1", "Ann", false)
	req.NoError(err)
	_, err = o.Join(room.ID(), "u2", "Bob", false)
	req.NoError(err)

	// Only the creator may end it
	req.ErrorIs(o.EndSession("u2"), domain.ErrUnauthorized)

	req.NoError(o.EndSession("u1"))
	_, ok := o.Rooms.Get(room.ID())
	req.False(ok)
	req.Contains(cap.toUser["u1"], core.EvSessionEnded)
	req.Contains(cap.toUser["u2"], core.EvSessionEnded)
}

func TestOrchestrator_JoinMovesBetweenRooms(t *testing.T) {
	req := require.New(t)
	o, _ := newTestOrchestrator()
	first := o.Rooms.Create(domain.RoomOptions{})
	second := o.Rooms.Create(domain.RoomOptions{})

	_, err := o.Join(first.ID(), "u1", "Ann", false)
	req.NoError(err)
	_, err = o.Join(first.ID(), "u2", "Bob", false)
	req.NoError(err)

	// When Bob joins another room
	_, err = o.Join(second.ID(), "u2", "Bob", false)
	req.NoError(err)

	// Then he is gone from the first
	req.Equal(1, first.MemberCount())
	req.Equal(1, second.MemberCount())
	roomID, _, ok := o.Directory.Resolve("u2")
	req.True(ok)
	req.Equal(second.ID(), roomID)
}
