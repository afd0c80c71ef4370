package bot

import "time"

// heartbeatLoop synthesizes the periodic heartbeat event discordgo does not
// expose. It waits for the gateway to report ready, then ticks on a fixed
// schedule measured from loop start (a slow listener delays delivery within
// a tick, not the schedule), and exits silently when the bot shuts down.
func (b *Bot) heartbeatLoop() {
	select {
	case <-b.ready:
	case <-b.done:
		return
	}

	ticker := time.NewTicker(b.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			b.dispatchHeartbeat()
		}
	}
}
