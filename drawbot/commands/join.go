package commands

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"luckydraw-bot/drawbot/draw"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

func (h *LuckyDrawHandler) HandleJoinButton(e *handler.ComponentEvent) error {
	id, err := strconv.ParseInt(strings.TrimPrefix(e.Data.CustomID(), JoinButtonPrefix), 10, 64)
	if err != nil {
		return fmt.Errorf("malformed join button custom id %q: %w", e.Data.CustomID(), err)
	}

	count, status := h.bot.Registry.Join(id, e.User().ID)

	var feedback string
	switch status {
	case draw.Joined:
		feedback = fmt.Sprintf("✅ You are in! %d entrant(s) so far.", count)
	case draw.JoinAlreadyEntered:
		feedback = "You have already joined this draw."
	case draw.JoinIsCreator:
		feedback = "You created this draw, so you cannot join it."
	case draw.JoinNotFound:
		feedback = "This draw no longer exists or has already ended."
	}

	if err := e.CreateMessage(discord.MessageCreate{
		Content: feedback,
		Flags:   discord.MessageFlagEphemeral,
	}); err != nil {
		return err
	}

	// Refresh the entrant count on the live message. Best effort: the join
	// itself is already committed.
	if status == draw.Joined {
		if c, ok := h.bot.Registry.Get(id); ok {
			if _, err := e.Client().Rest().UpdateMessage(e.Message.ChannelID, e.Message.ID,
				discord.NewMessageUpdateBuilder().
					SetEmbeds(CampaignEmbed(c, time.Now())).
					Build()); err != nil {
				slog.Warn("Could not refresh draw message",
					slog.String("type", "cmd"),
					slog.Int64("draw_id", id),
					slog.Any("error", err))
			}
		}
	}
	return nil
}
