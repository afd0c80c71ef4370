package bot

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// wireSession registers the gateway event handlers on the live session.
func (b *Bot) wireSession(s *discordgo.Session) {
	s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("bot: ready as %s", r.User.Username)
		b.markReady()
		b.dispatchReady()
	})

	s.AddHandler(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		for _, ch := range g.Channels {
			b.learnChannel(ch.Name, ch.ID)
		}
	})

	s.AddHandler(func(s *discordgo.Session, ch *discordgo.ChannelCreate) {
		b.learnChannel(ch.Name, ch.ID)
	})

	s.AddHandler(func(s *discordgo.Session, ch *discordgo.ChannelUpdate) {
		b.learnChannel(ch.Name, ch.ID)
	})

	s.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		b.dispatchMemberJoin(m.User.ID, m.User.Username)
	})

	s.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}
		b.handleMessage(newDiscordContext(s, m), m.Content)
	})
}

// discordContext adapts an incoming message to the Context interface.
type discordContext struct {
	session *discordgo.Session
	msg     *discordgo.MessageCreate
	name    string
}

func newDiscordContext(s *discordgo.Session, m *discordgo.MessageCreate) *discordContext {
	name := ""
	ch, err := s.State.Channel(m.ChannelID)
	if err != nil {
		ch, err = s.Channel(m.ChannelID)
	}
	if err == nil {
		name = ch.Name
	} else {
		log.Printf("bot: resolving channel %s: %v", m.ChannelID, err)
	}
	return &discordContext{session: s, msg: m, name: name}
}

func (c *discordContext) ChannelName() string { return c.name }
func (c *discordContext) AuthorID() string    { return c.msg.Author.ID }
func (c *discordContext) AuthorName() string  { return c.msg.Author.Username }

func (c *discordContext) Send(content string) error {
	_, err := c.session.ChannelMessageSend(c.msg.ChannelID, content)
	return err
}
