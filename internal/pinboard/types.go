package pinboard

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/mauv0809/pinned-leaderboard/internal/discord"
	"github.com/mauv0809/pinned-leaderboard/internal/leaderboard"
	"github.com/mauv0809/pinned-leaderboard/internal/metrics"
	"github.com/mauv0809/pinned-leaderboard/internal/pubsub"
	"github.com/mauv0809/pinned-leaderboard/internal/render"
	"github.com/mauv0809/pinned-leaderboard/internal/state"
)

// Outcome classifies a single synchronization attempt.
type Outcome string

const (
	Updated Outcome = "updated"
	Skipped Outcome = "skipped"
	Failed  Outcome = "failed"
)

// Result describes how a synchronization attempt ended.
type Result struct {
	Outcome   Outcome      `json:"outcome"`
	Reason    string       `json:"reason,omitempty"`
	MessageID snowflake.ID `json:"message_id,omitempty"`
	DryRun    bool         `json:"dry_run"`
	Content   string       `json:"content,omitempty"`
	Err       error        `json:"-"`
}

// State is the canonical pinned message for the configured channel. A zero
// MessageID means no message is known.
type State struct {
	ChannelID snowflake.ID
	MessageID snowflake.ID
}

type lookup int

const (
	lookupFound lookup = iota
	lookupNotFound
	lookupFaulted
)

func (l lookup) String() string {
	switch l {
	case lookupFound:
		return "found"
	case lookupNotFound:
		return "not_found"
	default:
		return "faulted"
	}
}

// Synchronizer owns the pinned message state and keeps the message current.
type Synchronizer struct {
	mu    sync.Mutex
	state State

	client   discord.Client
	resolver ChannelResolver
	store    leaderboard.Store
	renderer *render.Renderer
	states   state.Store
	metrics  metrics.Metrics
	pubsub   pubsub.PubSubClient
	topic    pubsub.EventType
	now      func() time.Time
}
