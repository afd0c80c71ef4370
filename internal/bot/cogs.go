package bot

import (
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"strings"
	"sync/atomic"
	"time"
)

// The cogs below are intentionally thin event consumers of public bot
// state; the lifecycle core treats them as opaque.

// PresenceCog sets the gateway presence once the connection is ready.
type PresenceCog struct{}

func (*PresenceCog) Name() string { return "presence" }

func (*PresenceCog) OnReady(b *Bot) {
	playing, ok := b.Config().String("presence", "playing")
	if !ok || playing == "" {
		return
	}
	if err := b.gw.UpdateGameStatus(0, playing); err != nil {
		log.Printf("presence: updating status: %v", err)
	}
}

// WelcomeCog greets joining members and marks them pending for the lurker
// check.
type WelcomeCog struct{}

func (*WelcomeCog) Name() string { return "welcome" }

func (*WelcomeCog) OnMemberJoin(b *Bot, memberID, username string) {
	b.MarkPending(memberID)

	greeting, ok := b.Config().String("welcome", "message")
	if !ok {
		greeting = "welcome, %s!"
	}
	meta, _ := b.Config().String("channels", "meta")
	b.SendToNamed(meta, fmt.Sprintf(greeting, username))
}

// RolerCog lists the self-assignable roles. Restricted to the bot channel.
type RolerCog struct{}

func (*RolerCog) Name() string { return "roler" }

func (*RolerCog) Commands() map[string]CommandFunc {
	return map[string]CommandFunc{"roles": rolesCommand}
}

func rolesCommand(b *Bot, ctx Context, _ string) error {
	if !b.WarnBotChannel(ctx) {
		return nil
	}
	v, ok := b.Config().Lookup("roles", "assignable")
	list, _ := v.([]any)
	if !ok || len(list) == 0 {
		return ctx.Send("no self-assignable roles configured")
	}
	names := make([]string, 0, len(list))
	for _, r := range list {
		if s, ok := r.(string); ok {
			names = append(names, s)
		}
	}
	return ctx.Send("self-assignable roles: " + strings.Join(names, ", "))
}

// AfterdarkCog toggles after-dark mode; the flag is public bot state.
type AfterdarkCog struct{}

func (*AfterdarkCog) Name() string { return "afterdark" }

func (*AfterdarkCog) Commands() map[string]CommandFunc {
	return map[string]CommandFunc{"afterdark": afterdarkCommand}
}

func afterdarkCommand(b *Bot, ctx Context, _ string) error {
	if !b.WarnBotChannel(ctx) {
		return nil
	}
	on := !b.Afterdark()
	b.SetAfterdark(on)
	if on {
		return ctx.Send("after-dark mode is on")
	}
	return ctx.Send("after-dark mode is off")
}

// RealtalkCog acknowledges a real-talk request in the meta channel.
type RealtalkCog struct{}

func (*RealtalkCog) Name() string { return "realtalk" }

func (*RealtalkCog) Commands() map[string]CommandFunc {
	return map[string]CommandFunc{"realtalk": realtalkCommand}
}

func realtalkCommand(b *Bot, ctx Context, _ string) error {
	if !b.WarnMetaChannel(ctx) {
		return nil
	}
	return ctx.Send(fmt.Sprintf("ok %s, real talk. floor is yours.", ctx.AuthorName()))
}

// ActivityCog records every author in the activity store.
type ActivityCog struct{}

func (*ActivityCog) Name() string { return "activity" }

func (*ActivityCog) OnMessage(b *Bot, ctx Context, _ string) {
	if err := b.Activity().Touch(ctx.AuthorID()); err != nil {
		log.Printf("activity: %v", err)
	}
}

// LurkersCog ages the pending map on each heartbeat: members who spoke are
// released, members pending past the idle window get one nudge and are
// dropped.
type LurkersCog struct{}

func (*LurkersCog) Name() string { return "lurkers" }

func (*LurkersCog) OnHeartbeat(b *Bot) {
	idleDays, ok := b.Config().Int("lurkers", "idle_days")
	if !ok || idleDays <= 0 {
		idleDays = 30
	}
	cutoff := time.Now().Add(-time.Duration(idleDays) * 24 * time.Hour)

	for memberID, joined := range b.PendingMembers() {
		if _, seen, err := b.Activity().LastSeen(memberID); err != nil {
			log.Printf("lurkers: %v", err)
			continue
		} else if seen {
			b.ClearPending(memberID)
			continue
		}
		if joined.Before(cutoff) {
			botCh, _ := b.Config().String("channels", "bot")
			b.SendToNamed(botCh, fmt.Sprintf("<@%s> has been lurking since %s", memberID, joined.Format("2006-01-02")))
			b.ClearPending(memberID)
		}
	}
}

// AnimeCog points lookups at the search backend. Restricted to the bot
// channel; the lookup itself is external.
type AnimeCog struct{}

func (*AnimeCog) Name() string { return "anime" }

func (*AnimeCog) Commands() map[string]CommandFunc {
	return map[string]CommandFunc{"anime": animeCommand}
}

func animeCommand(b *Bot, ctx Context, args string) error {
	if !b.WarnBotChannel(ctx) {
		return nil
	}
	if args == "" {
		return ctx.Send("anime what? give me a title")
	}
	return ctx.Send("https://myanimelist.net/search/all?q=" + url.QueryEscape(args))
}

// AnnoyingCog repeats its configured phrase every Nth message.
type AnnoyingCog struct {
	count atomic.Int64
}

func (*AnnoyingCog) Name() string { return "annoying" }

func (a *AnnoyingCog) OnMessage(b *Bot, ctx Context, _ string) {
	every, ok := b.Config().Int("annoying", "every")
	if !ok || every <= 0 {
		every = 20
	}
	if a.count.Add(1)%int64(every) != 0 {
		return
	}
	phrase, ok := b.Config().String("annoying", "phrase")
	if !ok {
		phrase = "nice"
	}
	if err := ctx.Send(phrase); err != nil {
		log.Printf("annoying: %v", err)
	}
}

// NoveltyCog answers the 8ball command.
type NoveltyCog struct{}

func (*NoveltyCog) Name() string { return "novelty" }

var eightBallAnswers = []string{
	"it is certain",
	"outlook good",
	"ask again later",
	"don't count on it",
	"very doubtful",
}

func (*NoveltyCog) Commands() map[string]CommandFunc {
	return map[string]CommandFunc{"8ball": eightBallCommand}
}

func eightBallCommand(_ *Bot, ctx Context, _ string) error {
	return ctx.Send(eightBallAnswers[rand.Intn(len(eightBallAnswers))])
}
