package domain

import "errors"

var (
	// ErrRoomNotFound — the room id resolves to nothing in the registry.
	ErrRoomNotFound = errors.New("room not found")

	// ErrNotAMember — the caller has no live session in the room.
	ErrNotAMember = errors.New("not a member of the room")

	// ErrForbidden — a policy-gated operation was called by the wrong actor.
	ErrForbidden = errors.New("forbidden by room policy")

	// ErrVotesRevealed — vote mutation attempted after the reveal.
	ErrVotesRevealed = errors.New("votes already revealed")

	// ErrUnauthorized — a creator-only operation was called by a non-creator.
	ErrUnauthorized = errors.New("only the room creator may do this")

	// ErrRequestNotFound — stale or duplicate approve/reject of a join request.
	ErrRequestNotFound = errors.New("join request not found")
)
