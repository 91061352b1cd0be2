package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/mauv0809/pinned-leaderboard/internal/commands"
	"github.com/mauv0809/pinned-leaderboard/internal/config"
)

const handlerTimeout = 15 * time.Second

// ReadyNotifier is told when the gateway connection is ready.
type ReadyNotifier interface {
	Ready()
}

// Responder produces replies for on-demand commands.
type Responder interface {
	Leaderboard(ctx context.Context) string
	MyStats(ctx context.Context, arg, requester string) string
}

var _ Responder = (*commands.Service)(nil)

// Bot routes Discord events to the leaderboard components.
type Bot struct {
	cfg       config.DiscordConfig
	session   *discordgo.Session
	responder Responder
	ready     ReadyNotifier

	ctx          context.Context
	registerOnce sync.Once
}

// NewSession creates a Discord session with the intents the bot needs.
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent
	return session, nil
}

// New creates a Bot and registers its event handlers on session.
func New(cfg config.DiscordConfig, session *discordgo.Session, responder Responder, ready ReadyNotifier) *Bot {
	b := &Bot{
		cfg:       cfg,
		session:   session,
		responder: responder,
		ready:     ready,
		ctx:       context.Background(),
	}
	b.registerHandlers()
	return b
}

// Start opens the gateway connection. Handlers derive their contexts from ctx.
func (b *Bot) Start(ctx context.Context) error {
	b.ctx = ctx
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	log.Info("Connected to Discord")
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	if b.session == nil {
		return nil
	}
	return b.session.Close()
}

func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onGuildCreate)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onInteraction)
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	defer b.recoverHandler("ready")

	log.Info("Bot is ready", "user", r.User.Username, "user_id", r.User.ID, "guilds", len(r.Guilds))
	for _, g := range r.Guilds {
		log.Debug("Member of guild", "guild_id", g.ID)
	}

	if b.cfg.SlashCommands {
		b.registerOnce.Do(func() {
			if _, err := registerCommands(s, r.User.ID); err != nil {
				log.Error("Failed to register slash commands", "error", err)
			}
		})
	}
	b.ready.Ready()
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	defer b.recoverHandler("guild_create")

	target := b.cfg.ChannelID.String()
	hasTarget := false
	for _, ch := range g.Channels {
		log.Debug("Guild channel", "guild", g.Name, "channel", ch.Name, "channel_id", ch.ID, "type", ch.Type)
		if ch.ID == target {
			hasTarget = true
		}
	}
	log.Info("Guild available", "guild", g.Name, "guild_id", g.ID, "channels", len(g.Channels), "has_leaderboard_channel", hasTarget)
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer b.recoverHandler("message_create")

	ctx, cancel := context.WithTimeout(b.ctx, handlerTimeout)
	defer cancel()

	reply, ok := b.handleMessage(ctx, m.Message)
	if !ok {
		return
	}
	if _, err := s.ChannelMessageSendReply(m.ChannelID, reply, m.Reference(), discordgo.WithContext(ctx)); err != nil {
		log.Error("Failed to reply to command", "channel_id", m.ChannelID, "error", err)
	}
}

// handleMessage returns the reply for a prefix command, or false when the
// message is not a command for this bot.
func (b *Bot) handleMessage(ctx context.Context, m *discordgo.Message) (string, bool) {
	if m == nil || m.Author == nil || m.Author.Bot {
		return "", false
	}
	name, arg, ok := parseCommand(b.cfg.CommandPrefix, m.Content)
	if !ok {
		return "", false
	}
	log.Debug("Received command", "command", name, "channel_id", m.ChannelID, "author_id", m.Author.ID)

	switch name {
	case commands.Leaderboard:
		return b.responder.Leaderboard(ctx), true
	case commands.MyStats:
		return b.responder.MyStats(ctx, arg, displayName(m.Member, m.Author)), true
	default:
		return "", false
	}
}

func (b *Bot) recoverHandler(event string) {
	if r := recover(); r != nil {
		log.Error("Recovered from panic in handler", "event", event, "panic", r)
	}
}
