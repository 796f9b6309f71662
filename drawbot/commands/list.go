package commands

import (
	"fmt"
	"strings"
	"time"

	"luckydraw-bot/drawbot"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

func (h *LuckyDrawHandler) HandleList(e *handler.CommandEvent) error {
	active := h.bot.Registry.ListActive()
	if len(active) == 0 {
		return e.CreateMessage(discord.MessageCreate{
			Content: "There are no running lucky draws right now.",
			Flags:   discord.MessageFlagEphemeral,
		})
	}

	now := time.Now()
	var description strings.Builder
	for _, c := range active {
		fmt.Fprintf(&description, "**#%d** · **%s** · %d entrant(s) · %d slot(s) · ends in %s\n",
			c.ID, c.Prize, len(c.Participants), c.WinnersCount, formatTimeLeft(c.TimeLeft(now)))
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("🎲 Running Lucky Draws (%d)", len(active))).
		SetDescription(description.String()).
		SetColor(drawbot.InfoColor).
		Build()

	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{embed},
	})
}
