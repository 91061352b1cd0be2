package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/disgoorg/snowflake/v2"
)

var _ Client = (*Session)(nil)

// Session adapts a *discordgo.Session to Client.
type Session struct {
	s *discordgo.Session
}

// NewSession wraps s.
func NewSession(s *discordgo.Session) *Session {
	return &Session{s: s}
}

func (c *Session) SelfID() snowflake.ID {
	if c.s.State == nil || c.s.State.User == nil {
		return 0
	}
	id, err := snowflake.Parse(c.s.State.User.ID)
	if err != nil {
		return 0
	}
	return id
}

func (c *Session) CachedChannel(id snowflake.ID) (*discordgo.Channel, bool) {
	if c.s.State == nil {
		return nil, false
	}
	ch, err := c.s.State.Channel(id.String())
	if err != nil || ch == nil {
		return nil, false
	}
	return ch, true
}

func (c *Session) CacheChannel(ch *discordgo.Channel) {
	if c.s.State == nil || ch == nil {
		return
	}
	if err := c.s.State.ChannelAdd(ch); err != nil {
		log.Debug("Channel not added to state cache", "channel_id", ch.ID, "error", err)
	}
}

func (c *Session) FetchChannel(ctx context.Context, id snowflake.ID) (*discordgo.Channel, error) {
	ch, err := c.s.Channel(id.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, classify(err, "fetch channel %s", id)
	}
	return ch, nil
}

func (c *Session) Message(ctx context.Context, channelID, messageID snowflake.ID) (*discordgo.Message, error) {
	msg, err := c.s.ChannelMessage(channelID.String(), messageID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, classify(err, "fetch message %s", messageID)
	}
	return msg, nil
}

func (c *Session) PinnedMessages(ctx context.Context, channelID snowflake.ID) ([]*discordgo.Message, error) {
	msgs, err := c.s.ChannelMessagesPinned(channelID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, classify(err, "list pins in %s", channelID)
	}
	return msgs, nil
}

func (c *Session) SendMessage(ctx context.Context, channelID snowflake.ID, content string) (*discordgo.Message, error) {
	msg, err := c.s.ChannelMessageSend(channelID.String(), content, discordgo.WithContext(ctx))
	if err != nil {
		return nil, classify(err, "send message to %s", channelID)
	}
	return msg, nil
}

func (c *Session) PinMessage(ctx context.Context, channelID, messageID snowflake.ID) error {
	if err := c.s.ChannelMessagePin(channelID.String(), messageID.String(), discordgo.WithContext(ctx)); err != nil {
		return classify(err, "pin message %s", messageID)
	}
	return nil
}

func (c *Session) EditMessage(ctx context.Context, channelID, messageID snowflake.ID, content string) (*discordgo.Message, error) {
	msg, err := c.s.ChannelMessageEdit(channelID.String(), messageID.String(), content, discordgo.WithContext(ctx))
	if err != nil {
		return nil, classify(err, "edit message %s", messageID)
	}
	return msg, nil
}

// classify wraps err, marking 404 responses with ErrNotFound.
func classify(err error, format string, args ...any) error {
	op := fmt.Sprintf(format, args...)
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
