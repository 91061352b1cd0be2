package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"

	"github.com/mauv0809/pinned-leaderboard/internal/leaderboard"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType is the topic an event is sent to.
type EventType string

const (
	EventLeaderboardUpdated EventType = "leaderboard-updated"
)

// LeaderboardUpdated is published after the pinned message was edited.
type LeaderboardUpdated struct {
	ID         uuid.UUID           `msgpack:"id"`
	ChannelID  string              `msgpack:"channel_id"`
	MessageID  string              `msgpack:"message_id"`
	Entries    []leaderboard.Entry `msgpack:"entries"`
	RenderedAt time.Time           `msgpack:"rendered_at"`
}
