package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirectory_BindResolveUnbind(t *testing.T) {
	req := require.New(t)
	dir := NewDirectory()
	p := mustParticipant(t, "u1", "Ann", false)

	// Given a bound session
	dir.Bind("u1", "1234", p, false)
	req.Equal(1, dir.Count())

	roomID, got, ok := dir.Resolve("u1")
	req.True(ok)
	req.Equal("1234", string(roomID))
	req.Equal(p, got)
	req.False(dir.IsPending("u1"))

	// When the pending flag flips
	dir.SetPending("u1", true)
	req.True(dir.IsPending("u1"))

	// Then unbinding forgets everything
	dir.Unbind("u1")
	_, _, ok = dir.Resolve("u1")
	req.False(ok)
	req.False(dir.IsPending("u1"))
	req.Equal(0, dir.Count())
}

func TestDirectory_ResolveUnknown(t *testing.T) {
	req := require.New(t)
	dir := NewDirectory()

	_, _, ok := dir.Resolve("ghost")
	req.False(ok)
	dir.SetPending("ghost", true) // no-op, no panic
	req.False(dir.IsPending("ghost"))
}
