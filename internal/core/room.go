package core

import (
	"math"
	"sync"
	"time"

	"github.com/dkeye/Deck/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const (
	msgPendingApproval = "Your join request has been sent to the room creator for approval."
	msgJoinApproved    = "Your join request has been approved!"
	msgJoinRejected    = "Your join request has been rejected."
	msgSessionEnded    = "The session has been ended by the room creator"
)

// Room owns one session's membership, votes and story. Every operation runs
// under the room lock, keeps the directory consistent inside the same
// critical section, and returns the addressed events for the caller to
// dispatch once the lock is released. It never touches transport resources.
type Room struct {
	mu sync.Mutex

	id        domain.RoomID
	name      domain.RoomName
	opts      domain.RoomOptions
	creatorID domain.ParticipantID

	members      map[domain.ParticipantID]*domain.Participant
	order        []domain.ParticipantID
	pending      map[domain.ParticipantID]*domain.Participant
	pendingOrder []domain.ParticipantID

	votes    map[domain.ParticipantID]domain.Vote
	revealed bool
	story    string

	createdAt time.Time
}

func NewRoom(id domain.RoomID, opts domain.RoomOptions) *Room {
	return &Room{
		id:        id,
		name:      opts.Name,
		opts:      opts,
		members:   make(map[domain.ParticipantID]*domain.Participant),
		pending:   make(map[domain.ParticipantID]*domain.Participant),
		votes:     make(map[domain.ParticipantID]domain.Vote),
		createdAt: time.Now(),
	}
}

// JoinResult is the synchronous answer to a join; the deliveries carry the
// asynchronous side of it.
type JoinResult struct {
	Pending     bool
	Message     string
	Room        *RoomSnapshot
	Participant *domain.Participant
}

// Join admits p, or parks them in the pending queue when the room requires
// approval. The very first joiner becomes the creator and is admitted
// unconditionally.
func (r *Room) Join(dir *Directory, p *domain.Participant) (JoinResult, []Delivery) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, alreadyMember := r.members[p.ID]

	switch {
	case r.creatorID == "":
		r.creatorID = p.ID
		r.addMemberLocked(p)
		dir.Bind(p.ID, r.id, p, false)
		log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("user", string(p.ID)).Msg("creator joined")

	case alreadyMember:
		// Reconnect with a stable id: re-admit directly, never through the
		// approval queue, and without announcing an unchanged roster.
		r.addMemberLocked(p)
		if p.IsObserver {
			delete(r.votes, p.ID)
		}
		dir.Bind(p.ID, r.id, p, false)
		log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("user", string(p.ID)).Msg("member rejoined")
		snap := r.snapshotLocked()
		return JoinResult{Room: &snap, Participant: p}, nil

	case r.opts.RequireApproval && p.ID != r.creatorID:
		if _, ok := r.pending[p.ID]; !ok {
			r.pendingOrder = append(r.pendingOrder, p.ID)
		}
		r.pending[p.ID] = p
		dir.Bind(p.ID, r.id, p, true)
		log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("user", string(p.ID)).Msg("join request queued")
		return JoinResult{Pending: true, Message: msgPendingApproval, Participant: p}, []Delivery{
			toUser(r.creatorID, EvJoinRequest, JoinRequestPayload{User: *p, RoomID: r.id}),
			toUser(p.ID, EvJoinRequestPending, MessagePayload{Message: msgPendingApproval}),
		}

	default:
		r.addMemberLocked(p)
		dir.Bind(p.ID, r.id, p, false)
		log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("user", string(p.ID)).Msg("member joined")
	}

	snap := r.snapshotLocked()
	return JoinResult{Room: &snap, Participant: p}, []Delivery{
		toRoom(r, p.ID, EvUserJoined, MemberListPayload{
			User:             p,
			Users:            r.membersLocked(),
			VoteCount:        len(r.votes),
			ParticipantCount: r.participantCountLocked(),
		}),
	}
}

// CastVote records pid's estimate for the current round. Observers do not
// vote.
func (r *Room) CastVote(pid domain.ParticipantID, v domain.Vote) ([]Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.members[pid]
	if !ok {
		return nil, domain.ErrNotAMember
	}
	if p.IsObserver {
		return nil, domain.ErrForbidden
	}
	if r.revealed {
		return nil, domain.ErrVotesRevealed
	}
	r.votes[pid] = v
	return []Delivery{r.roomUpdatedLocked()}, nil
}

// RemoveVote retracts pid's estimate. The acknowledgment is caller-only; the
// membership sees a plain room update.
func (r *Room) RemoveVote(pid domain.ParticipantID) ([]Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[pid]; !ok {
		return nil, domain.ErrNotAMember
	}
	if r.revealed {
		return nil, domain.ErrVotesRevealed
	}
	delete(r.votes, pid)
	return []Delivery{
		toUser(pid, EvVoteRemoved, struct{}{}),
		r.roomUpdatedLocked(),
	}, nil
}

// RevealVotes unmasks the round.
func (r *Room) RevealVotes(pid domain.ParticipantID) ([]Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[pid]; !ok {
		return nil, domain.ErrNotAMember
	}
	if !r.canRevealLocked(pid) {
		return nil, domain.ErrForbidden
	}
	r.revealed = true
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Int("votes", len(r.votes)).Msg("votes revealed")
	return []Delivery{
		toRoom(r, "", EvVotesRevealed, VotesRevealedPayload{
			Votes:            r.voteResultsLocked(),
			AverageVote:      r.averageLocked(),
			VoteCount:        len(r.votes),
			ParticipantCount: r.participantCountLocked(),
		}),
	}, nil
}

// ResetVotes starts a new round. Reuses the reveal policy: whoever may
// reveal may reset.
func (r *Room) ResetVotes(pid domain.ParticipantID) ([]Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[pid]; !ok {
		return nil, domain.ErrNotAMember
	}
	if !r.canRevealLocked(pid) {
		return nil, domain.ErrForbidden
	}
	r.votes = make(map[domain.ParticipantID]domain.Vote)
	r.revealed = false
	return []Delivery{toRoom(r, "", EvVotesReset, struct{}{})}, nil
}

// SetStory labels the item being estimated.
func (r *Room) SetStory(pid domain.ParticipantID, story string) ([]Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[pid]; !ok {
		return nil, domain.ErrNotAMember
	}
	if r.opts.CreatorOnlyStory && pid != r.creatorID {
		return nil, domain.ErrForbidden
	}
	r.story = story
	return []Delivery{toRoom(r, "", EvStoryUpdated, StoryPayload{Story: story})}, nil
}

// ToggleObserver flips pid between voter and observer.
func (r *Room) ToggleObserver(pid domain.ParticipantID) ([]Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.members[pid]
	if !ok {
		return nil, domain.ErrNotAMember
	}
	p.IsObserver = !p.IsObserver
	if p.IsObserver {
		delete(r.votes, pid)
	}
	return []Delivery{
		toRoom(r, "", EvUserUpdated, MemberListPayload{
			User:             p,
			Users:            r.membersLocked(),
			VoteCount:        len(r.votes),
			ParticipantCount: r.participantCountLocked(),
		}),
	}, nil
}

// ApproveJoinRequest promotes target from pending to member. Creator only;
// the caller identity must come from the authenticated session, never from a
// client-supplied field.
func (r *Room) ApproveJoinRequest(dir *Directory, caller, target domain.ParticipantID) ([]Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.creatorID {
		return nil, domain.ErrUnauthorized
	}
	req, ok := r.pending[target]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	r.removePendingLocked(target)
	r.addMemberLocked(req)
	dir.SetPending(target, false)
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("user", string(target)).Msg("join request approved")

	snap := r.snapshotLocked()
	return []Delivery{
		toUser(target, EvJoinRequestApproved, JoinApprovedPayload{Message: msgJoinApproved, Room: snap, User: *req}),
		toRoom(r, "", EvUserJoined, MemberListPayload{
			Users:            r.membersLocked(),
			VoteCount:        len(r.votes),
			ParticipantCount: r.participantCountLocked(),
		}),
		toUser(r.creatorID, EvJoinRequestsUpdated, JoinRequestsPayload{JoinRequests: r.joinRequestsLocked()}),
	}, nil
}

// RejectJoinRequest drops target from the pending queue and tears their
// session down.
func (r *Room) RejectJoinRequest(dir *Directory, caller, target domain.ParticipantID) ([]Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.creatorID {
		return nil, domain.ErrUnauthorized
	}
	if _, ok := r.pending[target]; !ok {
		return nil, domain.ErrRequestNotFound
	}
	r.removePendingLocked(target)
	dir.Unbind(target)
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("user", string(target)).Msg("join request rejected")

	return []Delivery{
		toUser(target, EvJoinRequestRejected, MessagePayload{Message: msgJoinRejected}),
		toUser(r.creatorID, EvJoinRequestsUpdated, JoinRequestsPayload{JoinRequests: r.joinRequestsLocked()}),
	}, nil
}

// EndSession tears the whole room down regardless of member count. Events go
// point-to-point because the membership is gone by dispatch time; the caller
// must delete the room from the registry afterwards.
func (r *Room) EndSession(dir *Directory, caller domain.ParticipantID) ([]Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.creatorID {
		return nil, domain.ErrUnauthorized
	}

	ds := make([]Delivery, 0, len(r.order))
	for _, id := range r.order {
		ds = append(ds, toUser(id, EvSessionEnded, MessagePayload{Message: msgSessionEnded}))
	}
	for _, id := range r.order {
		dir.Unbind(id)
	}
	for _, id := range r.pendingOrder {
		dir.Unbind(id)
	}
	r.members = make(map[domain.ParticipantID]*domain.Participant)
	r.order = nil
	r.pending = make(map[domain.ParticipantID]*domain.Participant)
	r.pendingOrder = nil
	r.votes = make(map[domain.ParticipantID]domain.Vote)
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Msg("session ended by creator")
	return ds, nil
}

// Leave removes pid from members or the pending queue, whichever holds them.
// Repeated calls for an absent participant are no-ops. The second return
// reports whether the room is now empty and should be deleted.
func (r *Room) Leave(dir *Directory, pid domain.ParticipantID) ([]Delivery, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, wasMember := r.members[pid]
	_, wasPending := r.pending[pid]
	if !wasMember && !wasPending {
		return nil, false
	}

	if wasMember {
		delete(r.members, pid)
		delete(r.votes, pid)
		r.order = lo.Without(r.order, pid)
	}
	if wasPending {
		r.removePendingLocked(pid)
	}
	dir.Unbind(pid)

	if len(r.members) == 0 {
		log.Info().Str("module", "core.room").Str("room", string(r.id)).Msg("room empty, evicting")
		return nil, true
	}
	return []Delivery{
		toRoom(r, pid, EvUserLeft, MemberListPayload{
			UserID:           pid,
			Users:            r.membersLocked(),
			VoteCount:        len(r.votes),
			ParticipantCount: r.participantCountLocked(),
		}),
	}, false
}

// ----- locked helpers -----

func (r *Room) addMemberLocked(p *domain.Participant) {
	if _, ok := r.members[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.members[p.ID] = p
}

func (r *Room) removePendingLocked(pid domain.ParticipantID) {
	delete(r.pending, pid)
	r.pendingOrder = lo.Without(r.pendingOrder, pid)
}

func (r *Room) canRevealLocked(pid domain.ParticipantID) bool {
	return !r.opts.CreatorOnlyReveal || pid == r.creatorID
}

func (r *Room) membersLocked() []domain.Participant {
	return lo.Map(r.order, func(id domain.ParticipantID, _ int) domain.Participant {
		return *r.members[id]
	})
}

func (r *Room) joinRequestsLocked() []domain.Participant {
	return lo.Map(r.pendingOrder, func(id domain.ParticipantID, _ int) domain.Participant {
		return *r.pending[id]
	})
}

func (r *Room) participantCountLocked() int {
	return lo.CountBy(lo.Values(r.members), func(p *domain.Participant) bool {
		return !p.IsObserver
	})
}

// voteResultsLocked maps display name to the actual value. Only meaningful
// once revealed; reveal itself uses it to build the broadcast.
func (r *Room) voteResultsLocked() map[string]domain.Vote {
	out := make(map[string]domain.Vote, len(r.votes))
	for pid, v := range r.votes {
		if p, ok := r.members[pid]; ok {
			out[p.Name] = v
		}
	}
	return out
}

// voteStatusLocked masks values behind a bare "true" until the reveal.
func (r *Room) voteStatusLocked() map[string]any {
	out := make(map[string]any, len(r.votes))
	for pid, v := range r.votes {
		p, ok := r.members[pid]
		if !ok {
			continue
		}
		if r.revealed {
			out[p.Name] = v
		} else {
			out[p.Name] = true
		}
	}
	return out
}

// averageLocked is the rounded mean of numeric positive votes; nil when the
// round has no such votes. Sentinels count toward the tally elsewhere but
// are excluded here.
func (r *Room) averageLocked() *int {
	var sum float64
	var n int
	for _, v := range r.votes {
		if v.IsNumeric() && v.Value() > 0 {
			sum += v.Value()
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := int(math.Round(sum / float64(n)))
	return &avg
}

func (r *Room) snapshotLocked() RoomSnapshot {
	var avg *int
	if r.revealed {
		avg = r.averageLocked()
	}
	return RoomSnapshot{
		ID:                r.id,
		Name:              r.name,
		Users:             r.membersLocked(),
		ShowVotes:         r.revealed,
		Votes:             r.voteStatusLocked(),
		AverageVote:       avg,
		CurrentStory:      r.story,
		VoteCount:         len(r.votes),
		ParticipantCount:  r.participantCountLocked(),
		CreatorID:         r.creatorID,
		CreatorOnlyReveal: r.opts.CreatorOnlyReveal,
		CreatorOnlyStory:  r.opts.CreatorOnlyStory,
		RequireApproval:   r.opts.RequireApproval,
		JoinRequests:      r.joinRequestsLocked(),
	}
}

func (r *Room) roomUpdatedLocked() Delivery {
	return toRoom(r, "", EvRoomUpdated, RoomUpdatedPayload{Room: r.snapshotLocked()})
}

// ----- read projections -----

func (r *Room) ID() domain.RoomID     { return r.id }
func (r *Room) Name() domain.RoomName { return r.name }
func (r *Room) CreatedAt() time.Time  { return r.createdAt }
func (r *Room) IsPublic() bool        { return r.opts.Public }

func (r *Room) CreatorID() domain.ParticipantID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creatorID
}

func (r *Room) Revealed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revealed
}

func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

func (r *Room) MemberIDs() []domain.ParticipantID {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ParticipantID, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Room) Members() []domain.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.membersLocked()
}

func (r *Room) JoinRequests() []domain.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.joinRequestsLocked()
}

func (r *Room) Snapshot() RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) VoteCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.votes)
}

func (r *Room) ParticipantCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.participantCountLocked()
}

func (r *Room) AverageVote() *int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.averageLocked()
}

// VoteResults is defined only after the reveal; nil before it.
func (r *Room) VoteResults() map[string]domain.Vote {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.revealed {
		return nil
	}
	return r.voteResultsLocked()
}

// VoteStatusMasked hides values until the reveal, then delegates to the real
// results.
func (r *Room) VoteStatusMasked() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.voteStatusLocked()
}

// HasVote reports whether pid has a recorded vote.
func (r *Room) HasVote(pid domain.ParticipantID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.votes[pid]
	return ok
}

// VoterIDs lists ids with a recorded vote, unordered.
func (r *Room) VoterIDs() []domain.ParticipantID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Keys(r.votes)
}
