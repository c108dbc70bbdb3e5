// Package relay is the pub/sub binding. Events are published to Redis
// channels and fanned out by whatever subscriber infrastructure sits in
// front of the clients; this process never tracks relay connections.
package relay

import (
	"context"
	"encoding/json"

	"github.com/dkeye/Deck/internal/core"
	"github.com/dkeye/Deck/internal/domain"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// wireEvent is the published frame. Exclude rides along because a pub/sub
// channel cannot skip one subscriber; the subscriber drops frames addressed
// away from it.
type wireEvent struct {
	Event   string `json:"event"`
	Data    any    `json:"data"`
	Exclude string `json:"exclude,omitempty"`
}

func UserChannel(pid domain.ParticipantID) string {
	return "private-user-" + string(pid)
}

func RoomChannel(id domain.RoomID) string {
	return "room-" + string(id)
}

type Transport struct {
	rdb *redis.Client
}

func NewTransport(rdb *redis.Client) *Transport {
	return &Transport{rdb: rdb}
}

// DeliverToUser implements core.Transport.
func (t *Transport) DeliverToUser(pid domain.ParticipantID, ev core.Event) {
	t.publish(UserChannel(pid), wireEvent{Event: ev.Name, Data: ev.Payload})
}

// DeliverToRoom implements core.Transport.
func (t *Transport) DeliverToRoom(room *core.Room, exclude domain.ParticipantID, ev core.Event) {
	t.publish(RoomChannel(room.ID()), wireEvent{Event: ev.Name, Data: ev.Payload, Exclude: string(exclude)})
}

func (t *Transport) publish(channel string, w wireEvent) {
	b, err := json.Marshal(w)
	if err != nil {
		log.Error().Err(err).Str("module", "relay").Str("channel", channel).Msg("marshal event")
		return
	}
	if err := t.rdb.Publish(context.Background(), channel, b).Err(); err != nil {
		log.Error().Err(err).Str("module", "relay").Str("channel", channel).Str("event", w.Event).Msg("publish")
	}
}
