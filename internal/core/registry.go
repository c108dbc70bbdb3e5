package core

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/dkeye/Deck/internal/domain"
	"github.com/rs/zerolog/log"
)

// DefaultIDLength matches the original short, human-typeable room codes.
// Collisions at 4 digits are non-trivial at scale; acceptable for the
// expected room churn and lifetime.
const DefaultIDLength = 4

// RoomInfo is the public listing row.
type RoomInfo struct {
	ID        domain.RoomID   `json:"id"`
	Name      domain.RoomName `json:"name"`
	UserCount int             `json:"userCount"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Registry is the process-wide room table. Explicitly constructed and passed
// into the operation layer; never ambient state.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*Room
	idLen int
	rng   *rand.Rand
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[domain.RoomID]*Room),
		idLen: DefaultIDLength,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Create draws fixed-length digit ids until one misses the table, then
// stores and returns the new room. The room has no creator until the first
// join.
func (g *Registry) Create(opts domain.RoomOptions) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()

	var id domain.RoomID
	for {
		id = g.drawIDLocked()
		if _, taken := g.rooms[id]; !taken {
			break
		}
	}
	if opts.Name == "" {
		opts.Name = domain.RoomName("Room " + string(id))
	}
	room := NewRoom(id, opts)
	g.rooms[id] = room
	log.Info().Str("module", "core.registry").Str("room", string(id)).Str("name", string(opts.Name)).Msg("room created")
	return room
}

func (g *Registry) drawIDLocked() domain.RoomID {
	var b strings.Builder
	for i := 0; i < g.idLen; i++ {
		b.WriteByte(byte('0' + g.rng.Intn(10)))
	}
	return domain.RoomID(b.String())
}

func (g *Registry) Get(id domain.RoomID) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[id]
	return room, ok
}

// Delete removes the room; idempotent.
func (g *Registry) Delete(id domain.RoomID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.rooms[id]; ok {
		delete(g.rooms, id)
		log.Info().Str("module", "core.registry").Str("room", string(id)).Msg("room deleted")
	}
}

// ListPublic returns listing rows for rooms with public visibility.
func (g *Registry) ListPublic() []RoomInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]RoomInfo, 0, len(g.rooms))
	for _, r := range g.rooms {
		if !r.IsPublic() {
			continue
		}
		out = append(out, RoomInfo{
			ID:        r.ID(),
			Name:      r.Name(),
			UserCount: r.MemberCount(),
			CreatedAt: r.CreatedAt(),
		})
	}
	return out
}

func (g *Registry) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}
