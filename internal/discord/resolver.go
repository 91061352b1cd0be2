package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/disgoorg/snowflake/v2"
)

// Resolver maps a channel id to a live text channel.
type Resolver struct {
	client Client
}

// NewResolver creates a Resolver over client.
func NewResolver(client Client) *Resolver {
	return &Resolver{client: client}
}

// Resolve returns the channel from the local cache or, on a miss, from the
// API. It reports false when the channel cannot be fetched or is not a text
// channel; callers retry on the next tick.
func (r *Resolver) Resolve(ctx context.Context, id snowflake.ID) (*discordgo.Channel, bool) {
	if ch, ok := r.client.CachedChannel(id); ok {
		return textChannel(ch)
	}

	ch, err := r.client.FetchChannel(ctx, id)
	if err != nil {
		log.Warn("Failed to fetch channel", "channel_id", id, "error", err)
		return nil, false
	}
	r.client.CacheChannel(ch)
	return textChannel(ch)
}

func textChannel(ch *discordgo.Channel) (*discordgo.Channel, bool) {
	if ch == nil {
		return nil, false
	}
	switch ch.Type {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		return ch, true
	default:
		log.Warn("Channel is not a text channel", "channel_id", ch.ID, "type", ch.Type)
		return nil, false
	}
}
