package domain

import "strings"

const MaxRoomNameLen = 64

type (
	RoomName string
	RoomID   string
)

// NewRoomName trims and clips a client-supplied room name. An empty result is
// allowed; the registry substitutes a default at creation time.
func NewRoomName(raw string) RoomName {
	raw = strings.TrimSpace(raw)
	if len(raw) > MaxRoomNameLen {
		raw = raw[:MaxRoomNameLen]
	}
	return RoomName(raw)
}

// RoomOptions are the policy flags fixed at creation time.
// Public controls listing only, never access.
type RoomOptions struct {
	Name              RoomName
	CreatorOnlyReveal bool
	CreatorOnlyStory  bool
	RequireApproval   bool
	Public            bool
}
