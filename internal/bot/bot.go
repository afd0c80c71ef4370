// Package bot owns the gateway connection and the lifecycle around it:
// building the merged configuration, registering the handler cogs, routing
// prefixed commands, and synthesizing the periodic heartbeat event the
// gateway library does not provide.
package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/local/hivebot/internal/activity"
	"github.com/local/hivebot/internal/config"
	"github.com/local/hivebot/internal/secrets"
	"github.com/local/hivebot/internal/storage"
)

const defaultHeartbeatInterval = 10 * time.Second

// gateway is the slice of *discordgo.Session the bot and its cogs call.
type gateway interface {
	Open() error
	Close() error
	UpdateGameStatus(idle int, name string) error
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Bot is the live process state: merged config, gateway session, cog
// registry, and the member-pending map cogs share.
type Bot struct {
	cfg      config.Document
	gw       gateway
	activity *activity.Store

	prefix   string
	cogs     []Cog
	commands map[string]CommandFunc

	mu         sync.Mutex
	pending    map[string]time.Time // member ID -> join time, cleared by cogs
	channelIDs map[string]string    // channel name -> ID, learned from guild events
	afterdark  bool

	heartbeatInterval time.Duration
	ready             chan struct{}
	readyOnce         sync.Once
	done              chan struct{}
	doneOnce          sync.Once
}

// Create runs the full bootstrap pipeline: load secrets, fetch the remote
// configuration from the bucket, merge the credential overrides, and
// construct the connected-but-not-yet-running bot. Any failure aborts
// startup; the caller exits non-zero.
func Create(ctx context.Context, envPath string) (*Bot, error) {
	secs, err := secrets.Load(envPath)
	if err != nil {
		return nil, err
	}

	store := storage.New(secs)
	raw, err := store.Fetch(ctx, config.RemoteKey)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Merge(secs, raw)
	if err != nil {
		return nil, err
	}

	token, _ := cfg.String("discord", "token")
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating gateway session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	act, err := activity.Open(activityPath(cfg))
	if err != nil {
		return nil, err
	}

	b := newBot(cfg, session, act)
	b.wireSession(session)
	return b, nil
}

func activityPath(cfg config.Document) string {
	if p, ok := cfg.String("activity", "db_path"); ok && p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".hivebot", "activity.db")
}

// newBot assembles the bot around an already-built gateway and registers
// the cogs. The registration order is a contract: later cogs may read state
// earlier cogs initialized.
func newBot(cfg config.Document, gw gateway, act *activity.Store) *Bot {
	prefix, ok := cfg.String("commands", "prefix")
	if !ok {
		log.Printf("bot: commands.prefix not configured, command routing disabled")
	} else {
		log.Printf("bot: setting prefix to %q", prefix)
	}

	interval := defaultHeartbeatInterval
	if secs, ok := cfg.Int("heartbeat", "interval_seconds"); ok && secs > 0 {
		interval = time.Duration(secs) * time.Second
	}

	b := &Bot{
		cfg:               cfg,
		gw:                gw,
		activity:          act,
		prefix:            prefix,
		commands:          make(map[string]CommandFunc),
		pending:           make(map[string]time.Time),
		channelIDs:        make(map[string]string),
		heartbeatInterval: interval,
		ready:             make(chan struct{}),
		done:              make(chan struct{}),
	}

	b.addCog(&PresenceCog{})
	b.addCog(&WelcomeCog{})
	b.addCog(&RolerCog{})
	b.addCog(&AfterdarkCog{})
	b.addCog(&RealtalkCog{})
	b.addCog(&ActivityCog{})
	b.addCog(&LurkersCog{})
	b.addCog(&AnimeCog{})
	b.addCog(&AnnoyingCog{})
	b.addCog(&NoveltyCog{})

	// Scheduled up front; blocks until the gateway reports ready.
	go b.heartbeatLoop()

	return b
}

// Run opens the gateway connection and blocks until the context is
// canceled. The heartbeat loop is signaled to exit before the session
// closes.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.gw.Open(); err != nil {
		b.Close()
		return fmt.Errorf("open gateway: %w", err)
	}
	log.Printf("bot: gateway connected")

	<-ctx.Done()
	log.Printf("bot: shutting down")

	closeErr := b.gw.Close()
	if err := b.Close(); err != nil {
		return err
	}
	return closeErr
}

// Close stops the heartbeat loop and releases the activity store. Safe to
// call more than once.
func (b *Bot) Close() error {
	var err error
	b.doneOnce.Do(func() {
		close(b.done)
		if b.activity != nil {
			err = b.activity.Close()
		}
	})
	return err
}

// Config exposes the merged configuration to cogs.
func (b *Bot) Config() config.Document { return b.cfg }

// Activity exposes the member activity store to cogs.
func (b *Bot) Activity() *activity.Store { return b.activity }

// CheckMetaChannel reports whether the invoking channel is the configured
// meta channel.
func (b *Bot) CheckMetaChannel(ctx Context) bool {
	name, _ := b.cfg.String("channels", "meta")
	return ctx.ChannelName() == name
}

// WarnMetaChannel sends a redirect notice and returns false when the
// invoking channel is not the meta channel.
func (b *Bot) WarnMetaChannel(ctx Context) bool {
	if !b.CheckMetaChannel(ctx) {
		name, _ := b.cfg.String("channels", "meta")
		if err := ctx.Send(fmt.Sprintf("take it to #%s", name)); err != nil {
			log.Printf("bot: sending redirect notice: %v", err)
		}
		return false
	}
	return true
}

// CheckBotChannel reports whether the invoking channel is the configured
// bot channel.
func (b *Bot) CheckBotChannel(ctx Context) bool {
	name, _ := b.cfg.String("channels", "bot")
	return ctx.ChannelName() == name
}

// WarnBotChannel sends a redirect notice and returns false when the
// invoking channel is not the bot channel.
func (b *Bot) WarnBotChannel(ctx Context) bool {
	if !b.CheckBotChannel(ctx) {
		name, _ := b.cfg.String("channels", "bot")
		if err := ctx.Send(fmt.Sprintf("take it to #%s", name)); err != nil {
			log.Printf("bot: sending redirect notice: %v", err)
		}
		return false
	}
	return true
}

// SendToNamed sends to a channel by name, using the name -> ID mapping
// learned from guild events. Unknown names are dropped with a log line.
func (b *Bot) SendToNamed(name, content string) {
	b.mu.Lock()
	id, ok := b.channelIDs[name]
	b.mu.Unlock()
	if !ok {
		log.Printf("bot: no known channel named %q, dropping message", name)
		return
	}
	if _, err := b.gw.ChannelMessageSend(id, content); err != nil {
		log.Printf("bot: sending to #%s: %v", name, err)
	}
}

func (b *Bot) learnChannel(name, id string) {
	if name == "" {
		return
	}
	b.mu.Lock()
	b.channelIDs[name] = id
	b.mu.Unlock()
}

// MarkPending records a newly joined member in the pending map.
func (b *Bot) MarkPending(memberID string) {
	b.mu.Lock()
	b.pending[memberID] = time.Now()
	b.mu.Unlock()
}

// PendingMembers returns a snapshot of the pending map.
func (b *Bot) PendingMembers() map[string]time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	snap := make(map[string]time.Time, len(b.pending))
	for id, t := range b.pending {
		snap[id] = t
	}
	return snap
}

// ClearPending removes a member from the pending map.
func (b *Bot) ClearPending(memberID string) {
	b.mu.Lock()
	delete(b.pending, memberID)
	b.mu.Unlock()
}

// SetAfterdark toggles after-dark mode, public state any cog may read.
func (b *Bot) SetAfterdark(on bool) {
	b.mu.Lock()
	b.afterdark = on
	b.mu.Unlock()
}

// Afterdark reports whether after-dark mode is on.
func (b *Bot) Afterdark() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.afterdark
}

func (b *Bot) markReady() {
	b.readyOnce.Do(func() { close(b.ready) })
}

// handleMessage routes a prefixed command to its handler, or dispatches the
// message to every message-handling cog.
func (b *Bot) handleMessage(ctx Context, content string) {
	if b.prefix != "" && strings.HasPrefix(content, b.prefix) {
		rest := strings.TrimPrefix(content, b.prefix)
		name, args, _ := strings.Cut(rest, " ")
		if fn, ok := b.commands[name]; ok {
			if err := fn(b, ctx, strings.TrimSpace(args)); err != nil {
				log.Printf("bot: command %s: %v", name, err)
			}
			return
		}
	}
	b.dispatchMessage(ctx, content)
}
