package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAvatarFor_Deterministic(t *testing.T) {
	req := require.New(t)

	// Given the same id twice
	a := AvatarFor("user-42")
	b := AvatarFor("user-42")

	// Then the glyph is stable
	req.Equal(a, b)
	req.NotEmpty(a)
}

func TestAvatarFor_AlwaysFromTable(t *testing.T) {
	req := require.New(t)

	ids := []string{"", "a", "??", "user-1", "user-2", "a-very-long-identifier-with-unicode-Ω"}
	for _, id := range ids {
		req.Contains(avatarTable, AvatarFor(id))
	}
}

func TestNewParticipant_Validation(t *testing.T) {
	req := require.New(t)

	_, err := NewParticipant("", "Ann", false)
	req.ErrorIs(err, ErrParticipantIDEmpty)

	_, err = NewParticipant("u1", "", false)
	req.ErrorIs(err, ErrNameEmpty)

	_, err = NewParticipant("u1", "0123456789012345678901234567890123456789", false)
	req.ErrorIs(err, ErrNameTooLong)

	p, err := NewParticipant("u1", "Ann", true)
	req.NoError(err)
	req.True(p.IsObserver)
	req.Equal(AvatarFor("u1"), p.Avatar)
}
