// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const (
	MaxParticipantIDLen = 64
	MaxNameLen          = 36
)

var (
	ErrNameEmpty          = errors.New("name empty")
	ErrNameTooLong        = errors.New("name too long")
	ErrParticipantIDEmpty = errors.New("participant id empty")
)

type ParticipantID string

// Participant is one person inside a room. Observers are listed with the
// members but never counted toward quorum and never appear in the votes.
type Participant struct {
	ID         ParticipantID `json:"id"`
	Name       string        `json:"name"`
	IsObserver bool          `json:"isObserver"`
	Avatar     string        `json:"avatar"`
}

// NewParticipant is a tiny helper to avoid ad-hoc struct literals in adapters.
// The avatar glyph is derived from the id, so reconnects with the same id get
// the same glyph.
func NewParticipant(id ParticipantID, name string, observer bool) (*Participant, error) {
	if id == "" {
		return nil, ErrParticipantIDEmpty
	}
	if len(id) > MaxParticipantIDLen {
		id = id[:MaxParticipantIDLen]
	}
	if len(name) == 0 {
		return nil, ErrNameEmpty
	}
	if len(name) > MaxNameLen {
		return nil, ErrNameTooLong
	}
	return &Participant{
		ID:         id,
		Name:       name,
		IsObserver: observer,
		Avatar:     AvatarFor(string(id)),
	}, nil
}
