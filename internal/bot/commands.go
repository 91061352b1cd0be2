package bot

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/mauv0809/pinned-leaderboard/internal/commands"
)

const playerOption = "player"

// Slash command definitions
func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        commands.Leaderboard,
			Description: "Show the current top 10",
		},
		{
			Name:        commands.MyStats,
			Description: "Show stats for a player, yourself by default",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        playerOption,
					Description: "Username or numeric user id",
					Required:    false,
				},
			},
		},
	}
}

// commandRegistrar is the part of *discordgo.Session used to register
// slash commands.
type commandRegistrar interface {
	ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
}

// interactionResponder is the part of *discordgo.Session used to answer
// slash commands.
type interactionResponder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// registerCommands registers the slash commands globally and returns how many
// were created.
func registerCommands(r commandRegistrar, appID string) (int, error) {
	log.Info("Registering slash commands")

	count := 0
	for _, cmd := range commandDefinitions() {
		if _, err := r.ApplicationCommandCreate(appID, "", cmd); err != nil {
			return count, fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		count++
		log.Debug("Registered command", "name", cmd.Name)
	}

	log.Info("Slash commands registered", "count", count)
	return count, nil
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer b.recoverHandler("interaction_create")

	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	ctx, cancel := context.WithTimeout(b.ctx, handlerTimeout)
	defer cancel()

	b.answerInteraction(ctx, s, i.Interaction)
}

// answerInteraction acknowledges a slash command before querying the store,
// since Discord drops interactions not acknowledged within three seconds. The
// reply then replaces the deferred response.
func (b *Bot) answerInteraction(ctx context.Context, r interactionResponder, i *discordgo.Interaction) {
	data := i.ApplicationCommandData()
	log.Debug("Received slash command", "command", data.Name, "guild_id", i.GuildID)

	if !knownCommand(data.Name) {
		log.Warn("Unknown command", "command", data.Name)
		return
	}

	err := r.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx))
	if err != nil {
		log.Error("Failed to acknowledge interaction", "command", data.Name, "error", err)
		return
	}

	reply, _ := b.handleInteraction(ctx, data, i.Member, i.User)
	if _, err := r.InteractionResponseEdit(i, &discordgo.WebhookEdit{Content: &reply}, discordgo.WithContext(ctx)); err != nil {
		log.Error("Failed to send interaction reply", "command", data.Name, "error", err)
	}
}

func knownCommand(name string) bool {
	return name == commands.Leaderboard || name == commands.MyStats
}

func (b *Bot) handleInteraction(ctx context.Context, data discordgo.ApplicationCommandInteractionData, member *discordgo.Member, user *discordgo.User) (string, bool) {
	switch data.Name {
	case commands.Leaderboard:
		return b.responder.Leaderboard(ctx), true
	case commands.MyStats:
		var arg string
		for _, opt := range data.Options {
			if opt.Name == playerOption {
				arg = opt.StringValue()
			}
		}
		return b.responder.MyStats(ctx, arg, displayName(member, user)), true
	default:
		return "", false
	}
}

// parseCommand splits "<prefix><name> [arg]" into its parts. Names are
// matched case-insensitively.
func parseCommand(prefix, content string) (name, arg string, ok bool) {
	content = strings.TrimSpace(content)
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(content, prefix)
	name = rest
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		name, arg = rest[:i], rest[i:]
	}
	name = strings.ToLower(name)
	if name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(arg), true
}

// displayName prefers the guild nickname, then the global display name,
// then the username.
func displayName(member *discordgo.Member, user *discordgo.User) string {
	if member != nil {
		if member.Nick != "" {
			return member.Nick
		}
		if user == nil {
			user = member.User
		}
	}
	if user == nil {
		return ""
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}
