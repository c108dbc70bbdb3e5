package core

import "github.com/dkeye/Deck/internal/domain"

// RoomSnapshot is the full client-facing view of a room. Vote values are
// masked behind a bare "has voted" flag until the reveal; the map is keyed by
// display name, never by participant id.
type RoomSnapshot struct {
	ID                domain.RoomID          `json:"id"`
	Name              domain.RoomName        `json:"name"`
	Users             []domain.Participant   `json:"users"`
	ShowVotes         bool                   `json:"showVotes"`
	Votes             map[string]any         `json:"votes"`
	AverageVote       *int                   `json:"averageVote"`
	CurrentStory      string                 `json:"currentStory"`
	VoteCount         int                    `json:"voteCount"`
	ParticipantCount  int                    `json:"participantCount"`
	CreatorID         domain.ParticipantID   `json:"creatorId"`
	CreatorOnlyReveal bool                   `json:"creatorOnlyReveal"`
	CreatorOnlyStory  bool                   `json:"creatorOnlyStory"`
	RequireApproval   bool                   `json:"requireApproval"`
	JoinRequests      []domain.Participant   `json:"joinRequests"`
}

// RoomUpdatedPayload wraps a snapshot for the room-updated broadcast.
type RoomUpdatedPayload struct {
	Room RoomSnapshot `json:"room"`
}

// MemberListPayload backs user-joined, user-left and user-updated.
type MemberListPayload struct {
	User             *domain.Participant  `json:"user,omitempty"`
	UserID           domain.ParticipantID `json:"userId,omitempty"`
	Users            []domain.Participant `json:"users"`
	VoteCount        int                  `json:"voteCount"`
	ParticipantCount int                  `json:"participantCount"`
}

// VotesRevealedPayload carries the unmasked results.
type VotesRevealedPayload struct {
	Votes            map[string]domain.Vote `json:"votes"`
	AverageVote      *int                   `json:"averageVote"`
	VoteCount        int                    `json:"voteCount"`
	ParticipantCount int                    `json:"participantCount"`
}

type StoryPayload struct {
	Story string `json:"story"`
}

type MessagePayload struct {
	Message string `json:"message"`
}

type JoinRequestPayload struct {
	User   domain.Participant `json:"user"`
	RoomID domain.RoomID      `json:"roomId"`
}

type JoinApprovedPayload struct {
	Message string             `json:"message"`
	Room    RoomSnapshot       `json:"room"`
	User    domain.Participant `json:"user"`
}

type JoinRequestsPayload struct {
	JoinRequests []domain.Participant `json:"joinRequests"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
