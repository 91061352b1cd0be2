package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

var _ Client = (*Mock)(nil)

// Mock is an in-memory Discord used by tests. Channels registered with
// AddChannel are "remote"; the cache starts empty.
type Mock struct {
	mu sync.Mutex

	Self snowflake.ID

	channels map[snowflake.ID]*discordgo.Channel
	cache    map[snowflake.ID]*discordgo.Channel
	messages map[snowflake.ID]map[snowflake.ID]*discordgo.Message
	order    map[snowflake.ID][]snowflake.ID
	nextID   snowflake.ID

	// Injected failures
	FetchChannelErr error
	MessageErr      error
	PinnedErr       error
	SendErr         error
	PinErr          error
	EditErr         error

	// Call records
	FetchChannelCalls int
	MessageCalls      int
	PinnedCalls       int
	SendCalls         int
	PinCalls          int
	EditCalls         int
}

// NewMock creates a Mock whose bot user is self.
func NewMock(self snowflake.ID) *Mock {
	return &Mock{
		Self:     self,
		channels: make(map[snowflake.ID]*discordgo.Channel),
		cache:    make(map[snowflake.ID]*discordgo.Channel),
		messages: make(map[snowflake.ID]map[snowflake.ID]*discordgo.Message),
		order:    make(map[snowflake.ID][]snowflake.ID),
		nextID:   1000,
	}
}

// AddChannel registers a remote channel of the given type.
func (m *Mock) AddChannel(id snowflake.ID, typ discordgo.ChannelType) *discordgo.Channel {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := &discordgo.Channel{ID: id.String(), Type: typ, Name: fmt.Sprintf("channel-%s", id)}
	m.channels[id] = ch
	return ch
}

// Post creates a message authored by author directly in the channel.
func (m *Mock) Post(channelID, author snowflake.ID, content string, pinned bool) snowflake.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.post(channelID, author, content, pinned)
}

// Delete removes a message as if someone deleted it in the client.
func (m *Mock) Delete(channelID, messageID snowflake.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.messages[channelID], messageID)
}

// Content returns the current text of a message and whether it exists.
func (m *Mock) Content(channelID, messageID snowflake.ID) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[channelID][messageID]
	if !ok {
		return "", false
	}
	return msg.Content, true
}

// PinnedBy lists the ids of pinned messages authored by author, oldest first.
func (m *Mock) PinnedBy(channelID, author snowflake.ID) []snowflake.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []snowflake.ID
	for _, id := range m.order[channelID] {
		msg, ok := m.messages[channelID][id]
		if ok && msg.Pinned && msg.Author != nil && msg.Author.ID == author.String() {
			ids = append(ids, id)
		}
	}
	return ids
}

// MessageCount returns the number of live messages in the channel.
func (m *Mock) MessageCount(channelID snowflake.ID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages[channelID])
}

// Writes returns the number of send, pin and edit calls made.
func (m *Mock) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SendCalls + m.PinCalls + m.EditCalls
}

func (m *Mock) post(channelID, author snowflake.ID, content string, pinned bool) snowflake.ID {
	m.nextID++
	id := m.nextID
	if m.messages[channelID] == nil {
		m.messages[channelID] = make(map[snowflake.ID]*discordgo.Message)
	}
	m.messages[channelID][id] = &discordgo.Message{
		ID:        id.String(),
		ChannelID: channelID.String(),
		Content:   content,
		Author:    &discordgo.User{ID: author.String()},
		Pinned:    pinned,
	}
	m.order[channelID] = append(m.order[channelID], id)
	return id
}

func (m *Mock) notFound(what string, id snowflake.ID) error {
	return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
}

func (m *Mock) SelfID() snowflake.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Self
}

func (m *Mock) CachedChannel(id snowflake.ID) (*discordgo.Channel, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.cache[id]
	return ch, ok
}

func (m *Mock) CacheChannel(ch *discordgo.Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := snowflake.Parse(ch.ID)
	if err != nil {
		return
	}
	m.cache[id] = ch
}

func (m *Mock) FetchChannel(_ context.Context, id snowflake.ID) (*discordgo.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchChannelCalls++
	if m.FetchChannelErr != nil {
		return nil, m.FetchChannelErr
	}
	ch, ok := m.channels[id]
	if !ok {
		return nil, m.notFound("channel", id)
	}
	return ch, nil
}

func (m *Mock) Message(_ context.Context, channelID, messageID snowflake.ID) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MessageCalls++
	if m.MessageErr != nil {
		return nil, m.MessageErr
	}
	msg, ok := m.messages[channelID][messageID]
	if !ok {
		return nil, m.notFound("message", messageID)
	}
	cp := *msg
	return &cp, nil
}

func (m *Mock) PinnedMessages(_ context.Context, channelID snowflake.ID) ([]*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PinnedCalls++
	if m.PinnedErr != nil {
		return nil, m.PinnedErr
	}
	var pinned []*discordgo.Message
	// Discord lists the newest pin first.
	ids := m.order[channelID]
	for i := len(ids) - 1; i >= 0; i-- {
		msg, ok := m.messages[channelID][ids[i]]
		if ok && msg.Pinned {
			cp := *msg
			pinned = append(pinned, &cp)
		}
	}
	return pinned, nil
}

func (m *Mock) SendMessage(_ context.Context, channelID snowflake.ID, content string) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendCalls++
	if m.SendErr != nil {
		return nil, m.SendErr
	}
	if _, ok := m.channels[channelID]; !ok {
		return nil, m.notFound("channel", channelID)
	}
	id := m.post(channelID, m.Self, content, false)
	cp := *m.messages[channelID][id]
	return &cp, nil
}

func (m *Mock) PinMessage(_ context.Context, channelID, messageID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PinCalls++
	if m.PinErr != nil {
		return m.PinErr
	}
	msg, ok := m.messages[channelID][messageID]
	if !ok {
		return m.notFound("message", messageID)
	}
	msg.Pinned = true
	return nil
}

func (m *Mock) EditMessage(_ context.Context, channelID, messageID snowflake.ID, content string) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EditCalls++
	if m.EditErr != nil {
		return nil, m.EditErr
	}
	msg, ok := m.messages[channelID][messageID]
	if !ok {
		return nil, m.notFound("message", messageID)
	}
	msg.Content = content
	cp := *msg
	return &cp, nil
}
