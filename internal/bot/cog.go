package bot

// A Cog is a handler module registered on the bot. Cogs implement any of
// the optional hook interfaces below; dispatch walks the registry in
// registration order and invokes only the cogs that implement the hook.
type Cog interface {
	Name() string
}

// ReadyHandler receives the gateway-ready event once per connection.
type ReadyHandler interface {
	OnReady(b *Bot)
}

// MemberJoinHandler receives guild member joins.
type MemberJoinHandler interface {
	OnMemberJoin(b *Bot, memberID, username string)
}

// MessageHandler receives every non-command guild message.
type MessageHandler interface {
	OnMessage(b *Bot, ctx Context, content string)
}

// HeartbeatHandler receives the synthesized heartbeat tick. Handlers must
// not block: they run on the heartbeat goroutine and a slow handler delays
// delivery of later cogs' ticks.
type HeartbeatHandler interface {
	OnHeartbeat(b *Bot)
}

// CommandFunc handles a prefixed command. args is the remainder of the
// message after the command word.
type CommandFunc func(b *Bot, ctx Context, args string) error

// CommandProvider lets a cog register prefixed commands at registration
// time.
type CommandProvider interface {
	Commands() map[string]CommandFunc
}

// Context carries the invoking message's surroundings into guards and
// command handlers.
type Context interface {
	// ChannelName is the name of the channel the message arrived in.
	ChannelName() string
	// AuthorID identifies the message author.
	AuthorID() string
	// AuthorName is the author's display name.
	AuthorName() string
	// Send replies in the invoking channel.
	Send(content string) error
}

func (b *Bot) addCog(c Cog) {
	b.cogs = append(b.cogs, c)
	if cp, ok := c.(CommandProvider); ok {
		for name, fn := range cp.Commands() {
			b.commands[name] = fn
		}
	}
}

// CogNames returns the registered cogs in registration order.
func (b *Bot) CogNames() []string {
	names := make([]string, len(b.cogs))
	for i, c := range b.cogs {
		names[i] = c.Name()
	}
	return names
}

func (b *Bot) dispatchReady() {
	for _, c := range b.cogs {
		if h, ok := c.(ReadyHandler); ok {
			h.OnReady(b)
		}
	}
}

func (b *Bot) dispatchMemberJoin(memberID, username string) {
	for _, c := range b.cogs {
		if h, ok := c.(MemberJoinHandler); ok {
			h.OnMemberJoin(b, memberID, username)
		}
	}
}

func (b *Bot) dispatchMessage(ctx Context, content string) {
	for _, c := range b.cogs {
		if h, ok := c.(MessageHandler); ok {
			h.OnMessage(b, ctx, content)
		}
	}
}

func (b *Bot) dispatchHeartbeat() {
	for _, c := range b.cogs {
		if h, ok := c.(HeartbeatHandler); ok {
			h.OnHeartbeat(b)
		}
	}
}
