package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"luckydraw-bot/drawbot"
	"luckydraw-bot/drawbot/draw"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

func (h *LuckyDrawHandler) HandleCreate(e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()
	prize := data.String("prize")
	minutes := data.Int("minutes")
	winners := 1
	if v, ok := data.OptInt("winners"); ok {
		winners = v
	}

	campaign, err := h.bot.Registry.Create(prize, minutes, winners, e.User().ID, e.User().Username, e.ChannelID())
	if err != nil {
		msg := "Could not create the draw."
		switch {
		case errors.Is(err, draw.ErrEmptyPrize):
			msg = "The prize must not be empty."
		case errors.Is(err, draw.ErrInvalidDuration):
			msg = "The duration must be between 1 minute and 7 days."
		case errors.Is(err, draw.ErrInvalidWinnersCount):
			msg = "The winner count must be between 1 and 100."
		}
		return e.CreateMessage(discord.MessageCreate{
			Content: "❌ " + msg,
			Flags:   discord.MessageFlagEphemeral,
		})
	}

	if err := e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{CampaignEmbed(campaign, time.Now())},
		Components: []discord.ContainerComponent{
			discord.NewActionRow(
				discord.NewPrimaryButton("🎉 Join", fmt.Sprintf("%s%d", JoinButtonPrefix, campaign.ID)),
			),
		},
	}); err != nil {
		return err
	}

	// Remember where the live message lives so joins can update it and the
	// final results can reference it. Losing this on failure is acceptable;
	// the announcement falls back to the channel alone.
	msg, err := e.Client().Rest().GetInteractionResponse(e.ApplicationID(), e.Token())
	if err != nil {
		slog.Warn("Could not resolve draw message reference",
			slog.String("type", "cmd"),
			slog.Int64("draw_id", campaign.ID),
			slog.Any("error", err))
		return nil
	}
	h.bot.Registry.SetMessageID(campaign.ID, msg.ID)
	return nil
}

// CampaignEmbed renders the live message of a running campaign.
func CampaignEmbed(c draw.Campaign, now time.Time) discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle("🎉 Lucky Draw 🎉").
		SetDescriptionf("Prize: **%s**", c.Prize).
		AddField("⏰ Ends", c.EndTime.Format("2006-01-02 15:04 MST"), true).
		AddField("⏳ Time left", formatTimeLeft(c.TimeLeft(now)), true).
		AddField("🏆 Winner slots", fmt.Sprintf("%d", c.WinnersCount), true).
		AddField("👥 Entrants", fmt.Sprintf("%d", len(c.Participants)), true).
		SetColor(drawbot.GoldColor).
		SetFooterText(fmt.Sprintf("Draw #%d · created by %s", c.ID, c.CreatorName)).
		Build()
}
