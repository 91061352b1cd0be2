package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// ErrNotFound wraps REST failures for channels or messages that no longer exist.
var ErrNotFound = errors.New("discord: not found")

// Client is the part of the Discord API the leaderboard needs.
type Client interface {
	// SelfID is the bot's own user id, zero before the session is ready.
	SelfID() snowflake.ID

	CachedChannel(id snowflake.ID) (*discordgo.Channel, bool)
	CacheChannel(ch *discordgo.Channel)
	FetchChannel(ctx context.Context, id snowflake.ID) (*discordgo.Channel, error)

	Message(ctx context.Context, channelID, messageID snowflake.ID) (*discordgo.Message, error)
	PinnedMessages(ctx context.Context, channelID snowflake.ID) ([]*discordgo.Message, error)
	SendMessage(ctx context.Context, channelID snowflake.ID, content string) (*discordgo.Message, error)
	PinMessage(ctx context.Context, channelID, messageID snowflake.ID) error
	EditMessage(ctx context.Context, channelID, messageID snowflake.ID, content string) (*discordgo.Message, error)
}
