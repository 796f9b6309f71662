package drawbot

import (
	"context"
	"fmt"
	"strings"

	"luckydraw-bot/drawbot/draw"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	lru "github.com/hashicorp/golang-lru"
)

const announcedCacheSize = 256

// Announcer posts draw results to the campaign's channel. Delivery is
// at-least-once; a bounded cache of recently announced draw ids suppresses
// duplicate posts when the same result is handed over twice.
type Announcer struct {
	client    bot.Client
	announced *lru.Cache
}

func NewAnnouncer(client bot.Client) *Announcer {
	cache, _ := lru.New(announcedCacheSize)
	return &Announcer{
		client:    client,
		announced: cache,
	}
}

func (a *Announcer) AnnounceResult(_ context.Context, ended draw.Campaign) error {
	if a.announced.Contains(ended.ID) {
		return nil
	}
	if ended.ChannelID == 0 {
		return fmt.Errorf("draw %d has no channel reference", ended.ID)
	}

	content := "The lucky draw has ended."
	if len(ended.WinnerIDs) > 0 {
		content = "🎊 The lucky draw results are in!"
	}

	_, err := a.client.Rest().CreateMessage(ended.ChannelID, discord.NewMessageCreateBuilder().
		SetContent(content).
		SetEmbeds(ResultEmbed(ended)).
		Build())
	if err != nil {
		return fmt.Errorf("failed to post draw result: %w", err)
	}
	a.announced.Add(ended.ID, struct{}{})
	return nil
}

// ResultEmbed renders the final announcement for a resolved campaign. The
// no-participants outcome and the fewer-winners-than-requested outcome get
// their own wording.
func ResultEmbed(ended draw.Campaign) discord.Embed {
	eb := discord.NewEmbedBuilder().
		SetTitle("🎊 Lucky Draw Results 🎊").
		SetDescriptionf("Prize: **%s**", ended.Prize).
		SetColor(SuccessColor)

	if len(ended.WinnerIDs) == 0 {
		eb.AddField("😢 Result", "Nobody joined this draw.", false)
	} else {
		var winners strings.Builder
		for i, id := range ended.WinnerIDs {
			fmt.Fprintf(&winners, "%d. <@%s>\n", i+1, id)
		}
		eb.AddField(fmt.Sprintf("🏆 Winners (%d)", len(ended.WinnerIDs)), winners.String(), false)

		if len(ended.WinnerIDs) < ended.WinnersCount {
			eb.AddField("⚠️ Note",
				fmt.Sprintf("%d winner slots were requested but only %d people joined.",
					ended.WinnersCount, len(ended.Participants)), false)
		}
	}

	eb.AddField("📊 Stats",
		fmt.Sprintf("Entrants: %d\nWinner slots: %d\nDraw ID: %d\nCreated by: %s",
			len(ended.Participants), ended.WinnersCount, ended.ID, ended.CreatorName), false)
	eb.SetFooterText(fmt.Sprintf("Ended at %s", ended.EndedAt.Format("2006-01-02 15:04:05")))
	return eb.Build()
}
