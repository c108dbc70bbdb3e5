package domain

// avatarTable is the fixed glyph pool. Index collisions (and the duplicated
// entries) are harmless: the glyph is purely cosmetic.
var avatarTable = []string{
	"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼", "🐨", "🐯",
	"🦁", "🐮", "🐸", "🐵", "🐔", "🐧", "🐦", "🐤", "🦆",
	"🦅", "🦉", "🦇", "🐺", "🐗", "🐴", "🦄", "🐝", "🐛", "🦋",
	"🐌", "🐞", "🐜", "🦟", "🦗", "🕷️", "🦂", "🐢", "🐍", "🦎",
	"🦖", "🦕", "🐙", "🦑", "🦐", "🦞", "🦀", "🐡", "🐠", "🐟",
	"🐬", "🐳", "🐋", "🦈", "🐊", "🐅", "🐆", "🦓", "🦍", "🦧",
	"🐘", "🦛", "🦏", "🐪", "🐫", "🦒", "🦘", "🐃", "🐂", "🐄",
	"🐎", "🐏", "🐑", "🦙", "🐐", "🦏", "🦛", "🦘", "🐨",
	"🐼", "🐻", "🦊", "🐺", "🐗", "🐴", "🦄", "🐝", "🐛", "🦋",
}

// AvatarFor maps a participant id to a glyph with a 32-bit string hash
// (h = 31*h + c, wrapping). Deterministic: same id, same glyph, on any
// instance.
func AvatarFor(id string) string {
	var h int32
	for _, c := range id {
		h = h*31 + int32(c)
	}
	idx := int64(h)
	if idx < 0 {
		idx = -idx
	}
	return avatarTable[idx%int64(len(avatarTable))]
}
