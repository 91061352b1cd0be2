package pinboard

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// ChannelResolver maps a channel id to a live text channel.
type ChannelResolver interface {
	Resolve(ctx context.Context, id snowflake.ID) (*discordgo.Channel, bool)
}

// Syncer runs one synchronization attempt. The scheduler and the HTTP
// surface depend on this rather than on *Synchronizer.
type Syncer interface {
	UpdatePinned(ctx context.Context, dryRun bool) Result
}
