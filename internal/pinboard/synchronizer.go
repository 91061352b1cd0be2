package pinboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"

	"github.com/mauv0809/pinned-leaderboard/internal/discord"
	"github.com/mauv0809/pinned-leaderboard/internal/leaderboard"
	"github.com/mauv0809/pinned-leaderboard/internal/metrics"
	"github.com/mauv0809/pinned-leaderboard/internal/pubsub"
	"github.com/mauv0809/pinned-leaderboard/internal/render"
	"github.com/mauv0809/pinned-leaderboard/internal/state"
)

var _ Syncer = (*Synchronizer)(nil)

// New creates a Synchronizer for channelID. Persisted state is read lazily on
// the first attempt.
func New(
	channelID snowflake.ID,
	client discord.Client,
	resolver ChannelResolver,
	store leaderboard.Store,
	renderer *render.Renderer,
	states state.Store,
	m metrics.Metrics,
	publisher pubsub.PubSubClient,
	opts ...Option,
) *Synchronizer {
	s := &Synchronizer{
		state:    State{ChannelID: channelID},
		client:   client,
		resolver: resolver,
		store:    store,
		renderer: renderer,
		states:   states,
		metrics:  m,
		pubsub:   publisher,
		topic:    pubsub.EventLeaderboardUpdated,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option customizes a Synchronizer.
type Option func(*Synchronizer)

// WithEventTopic overrides the Pub/Sub topic update events are sent to.
func WithEventTopic(topic string) Option {
	return func(s *Synchronizer) {
		if topic != "" {
			s.topic = pubsub.EventType(topic)
		}
	}
}

// State returns a snapshot of the canonical pinned message.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// GetOrCreatePinned returns the canonical pinned message in channel,
// resolving it from memory, the state file, the channel's pins or, as a last
// resort, by posting and pinning a new placeholder. channel must be the
// configured leaderboard channel.
func (s *Synchronizer) GetOrCreatePinned(ctx context.Context, channel *discordgo.Channel) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreatePinned(ctx, log.FromContext(ctx), channel, false)
}

// UpdatePinned refreshes the pinned leaderboard. Attempts are serialized; a
// second caller waits for the first to finish. In dry-run mode nothing is
// written to Discord or the state file.
func (s *Synchronizer) UpdatePinned(ctx context.Context, dryRun bool) Result {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := log.FromContext(ctx).With("sync_id", uuid.NewString(), "channel_id", s.state.ChannelID, "dry_run", dryRun)
	res := s.updatePinned(ctx, logger, dryRun)
	res.DryRun = dryRun

	switch res.Outcome {
	case Updated:
		logger.Info("Leaderboard synchronized", "message_id", res.MessageID, "duration", time.Since(start))
	case Skipped:
		logger.Warn("Leaderboard sync skipped", "reason", res.Reason)
	case Failed:
		logger.Error("Leaderboard sync failed", "reason", res.Reason, "error", res.Err)
	}
	if !dryRun {
		s.metrics.IncSyncOutcome(string(res.Outcome))
		s.metrics.ObserveSyncDuration(time.Since(start).Seconds())
	}
	return res
}

func (s *Synchronizer) updatePinned(ctx context.Context, logger *log.Logger, dryRun bool) Result {
	channel, ok := s.resolver.Resolve(ctx, s.state.ChannelID)
	if !ok {
		return Result{Outcome: Skipped, Reason: "channel unavailable"}
	}

	msg, err := s.getOrCreatePinned(ctx, logger, channel, dryRun)
	if err != nil {
		return Result{Outcome: Failed, Reason: "pinned message unavailable", Err: err}
	}

	entries, err := s.store.FetchTop(ctx, leaderboard.DefaultLimit)
	if err != nil {
		return Result{Outcome: Failed, Reason: "stats query failed", Err: err}
	}
	now := s.now()
	content := s.renderer.Leaderboard(entries, now)

	if dryRun {
		var id snowflake.ID
		if msg != nil {
			id, _ = snowflake.Parse(msg.ID)
		}
		logger.Info("Dry run, not editing pinned message", "message_id", id, "entries", len(entries))
		return Result{Outcome: Updated, Reason: "dry run", MessageID: id, Content: content}
	}

	messageID := s.state.MessageID
	if _, err := s.client.EditMessage(ctx, s.state.ChannelID, messageID, content); err != nil {
		return Result{Outcome: Failed, Reason: "edit failed", MessageID: messageID, Err: err}
	}

	s.publish(ctx, logger, entries, now)
	return Result{Outcome: Updated, MessageID: messageID, Content: content}
}

// getOrCreatePinned must be called with s.mu held. In dry-run mode it only
// reads: it neither mutates state nor creates a message, and may return a nil
// message when one would have been created.
func (s *Synchronizer) getOrCreatePinned(ctx context.Context, logger *log.Logger, channel *discordgo.Channel, dryRun bool) (*discordgo.Message, error) {
	channelID, err := s.channelID(channel)
	if err != nil {
		return nil, err
	}
	logger = logger.With("channel", channel.Name)

	candidate := s.state.MessageID
	if candidate == 0 {
		if id, ok := s.states.Load(ctx); ok {
			logger.Debug("Loaded pinned message id from state", "message_id", id)
			candidate = id
			if !dryRun {
				s.state.MessageID = id
			}
		}
	}

	if candidate != 0 {
		msg, found := s.fetchCandidate(ctx, logger, channelID, candidate)
		if found == lookupFound {
			if !msg.Pinned && !dryRun {
				s.repin(ctx, logger, channelID, candidate)
			}
			return msg, nil
		}
		logger.Info("Pinned message unavailable, re-resolving", "message_id", candidate, "lookup", found)
		if !dryRun {
			s.state.MessageID = 0
		}
	}

	own, err := s.findOwnPin(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if own != nil {
		id, err := snowflake.Parse(own.ID)
		if err != nil {
			return nil, fmt.Errorf("pinned message has invalid id %q: %w", own.ID, err)
		}
		logger.Info("Adopted existing pinned message", "message_id", id)
		if !dryRun {
			s.adopt(ctx, logger, id)
		}
		return own, nil
	}

	if dryRun {
		logger.Info("Dry run, would create a new pinned message")
		return nil, nil
	}
	return s.create(ctx, logger, channelID)
}

// fetchCandidate looks up a previously known message. Anything other than a
// message authored by the bot counts as stale.
// channelID checks that channel is the configured leaderboard channel.
func (s *Synchronizer) channelID(channel *discordgo.Channel) (snowflake.ID, error) {
	if channel == nil {
		return 0, errors.New("no channel given")
	}
	id, err := snowflake.Parse(channel.ID)
	if err != nil {
		return 0, fmt.Errorf("channel has invalid id %q: %w", channel.ID, err)
	}
	if id != s.state.ChannelID {
		return 0, fmt.Errorf("channel %s is not the leaderboard channel %s", id, s.state.ChannelID)
	}
	return id, nil
}

func (s *Synchronizer) fetchCandidate(ctx context.Context, logger *log.Logger, channelID, messageID snowflake.ID) (*discordgo.Message, lookup) {
	msg, err := s.client.Message(ctx, channelID, messageID)
	switch {
	case err == nil:
	case errors.Is(err, discord.ErrNotFound):
		return nil, lookupNotFound
	default:
		logger.Info("Could not fetch pinned message", "message_id", messageID, "error", err)
		return nil, lookupFaulted
	}
	if !s.authoredBySelf(msg) {
		logger.Info("Stored message is not ours", "message_id", messageID)
		return nil, lookupNotFound
	}
	return msg, lookupFound
}

func (s *Synchronizer) findOwnPin(ctx context.Context, channelID snowflake.ID) (*discordgo.Message, error) {
	if s.client.SelfID() == 0 {
		return nil, errors.New("bot identity unknown, session not ready")
	}
	pinned, err := s.client.PinnedMessages(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pinned messages: %w", err)
	}
	for _, msg := range pinned {
		if s.authoredBySelf(msg) {
			return msg, nil
		}
	}
	return nil, nil
}

func (s *Synchronizer) create(ctx context.Context, logger *log.Logger, channelID snowflake.ID) (*discordgo.Message, error) {
	msg, err := s.client.SendMessage(ctx, channelID, render.Placeholder)
	if err != nil {
		return nil, fmt.Errorf("failed to send placeholder: %w", err)
	}
	id, err := snowflake.Parse(msg.ID)
	if err != nil {
		return nil, fmt.Errorf("sent message has invalid id %q: %w", msg.ID, err)
	}
	// Adopt before pinning so a pin failure cannot orphan the message.
	s.adopt(ctx, logger, id)
	s.metrics.IncPinnedMessagesCreated()
	logger.Info("Created leaderboard message", "message_id", id)

	if err := s.client.PinMessage(ctx, channelID, id); err != nil {
		return nil, fmt.Errorf("failed to pin message %s: %w", id, err)
	}
	msg.Pinned = true
	return msg, nil
}

func (s *Synchronizer) repin(ctx context.Context, logger *log.Logger, channelID, messageID snowflake.ID) {
	if err := s.client.PinMessage(ctx, channelID, messageID); err != nil {
		logger.Warn("Failed to re-pin leaderboard message", "message_id", messageID, "error", err)
		return
	}
	logger.Info("Re-pinned leaderboard message", "message_id", messageID)
}

// adopt makes id canonical and persists it. Save failures only cost us the
// state on the next restart.
func (s *Synchronizer) adopt(ctx context.Context, logger *log.Logger, id snowflake.ID) {
	s.state.MessageID = id
	if err := s.states.Save(ctx, id); err != nil {
		logger.Warn("Failed to persist pinned message id", "message_id", id, "error", err)
	}
}

func (s *Synchronizer) authoredBySelf(msg *discordgo.Message) bool {
	self := s.client.SelfID()
	return msg != nil && msg.Author != nil && self != 0 && msg.Author.ID == self.String()
}

func (s *Synchronizer) publish(ctx context.Context, logger *log.Logger, entries []leaderboard.Entry, now time.Time) {
	if s.pubsub == nil {
		return
	}
	event := pubsub.LeaderboardUpdated{
		ID:         uuid.New(),
		ChannelID:  s.state.ChannelID.String(),
		MessageID:  s.state.MessageID.String(),
		Entries:    entries,
		RenderedAt: now.UTC(),
	}
	if err := s.pubsub.SendMessage(ctx, s.topic, event); err != nil {
		logger.Warn("Failed to publish leaderboard update", "event_id", event.ID, "error", err)
		s.metrics.IncEventsFailed()
		return
	}
	s.metrics.IncEventsPublished()
}
