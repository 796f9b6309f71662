package commands

import (
	"fmt"
	"math"
	"strings"
	"time"

	"luckydraw-bot/drawbot"
	"luckydraw-bot/drawbot/draw"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/sahilm/fuzzy"
)

const drawsPerPage = 5

func (h *LuckyDrawHandler) HandleHistory(e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()
	limit := 5
	if v, ok := data.OptInt("limit"); ok {
		limit = v
	}

	ended := h.bot.Registry.ListEnded(limit)
	if len(ended) == 0 {
		return e.CreateMessage(discord.MessageCreate{
			Content: "No lucky draws have ended yet.",
			Flags:   discord.MessageFlagEphemeral,
		})
	}

	totalPages := int(math.Ceil(float64(len(ended)) / float64(drawsPerPage)))

	return h.bot.Paginator.Create(e.Respond, paginator.Pages{
		ID:      e.ID().String(),
		Creator: e.User().ID,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			startIdx := page * drawsPerPage
			endIdx := min(startIdx+drawsPerPage, len(ended))

			var description strings.Builder
			for _, c := range ended[startIdx:endIdx] {
				description.WriteString(historyEntry(c))
			}

			embed.
				SetTitle("📜 Lucky Draw History").
				SetDescription(description.String()).
				SetColor(drawbot.InfoColor).
				SetFooterText(fmt.Sprintf("Page %d/%d · %d ended draw(s)", page+1, totalPages, len(ended)))
		},
		Pages:      totalPages,
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	}, false)
}

func (h *LuckyDrawHandler) HandleSearch(e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()
	query := strings.TrimSpace(data.String("prize"))
	if query == "" {
		return e.CreateMessage(discord.MessageCreate{
			Content: "Give me a prize name to search for.",
			Flags:   discord.MessageFlagEphemeral,
		})
	}

	all := h.bot.Registry.All()
	prizes := make([]string, len(all))
	for i, c := range all {
		prizes[i] = c.Prize
	}

	matches := fuzzy.Find(query, prizes)
	if len(matches) == 0 {
		return e.CreateMessage(discord.MessageCreate{
			Content: fmt.Sprintf("No draws match `%s`.", query),
			Flags:   discord.MessageFlagEphemeral,
		})
	}
	if len(matches) > drawsPerPage*2 {
		matches = matches[:drawsPerPage*2]
	}

	now := time.Now()
	var description strings.Builder
	for _, m := range matches {
		c := all[m.Index]
		if c.Active {
			fmt.Fprintf(&description, "**#%d** · **%s** · running · %d entrant(s) · ends in %s\n",
				c.ID, c.Prize, len(c.Participants), formatTimeLeft(c.TimeLeft(now)))
		} else {
			description.WriteString(historyEntry(c))
		}
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("🔍 Draws matching `%s`", query)).
		SetDescription(description.String()).
		SetColor(drawbot.InfoColor).
		Build()

	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{embed},
		Flags:  discord.MessageFlagEphemeral,
	})
}

func historyEntry(c draw.Campaign) string {
	winners := "nobody joined"
	if len(c.WinnerIDs) > 0 {
		mentions := make([]string, len(c.WinnerIDs))
		for i, id := range c.WinnerIDs {
			mentions[i] = fmt.Sprintf("<@%s>", id)
		}
		winners = strings.Join(mentions, ", ")
	}
	return fmt.Sprintf("**#%d** · **%s** · ended %s · %d entrant(s)\n↳ 🏆 %s\n",
		c.ID, c.Prize, c.EndedAt.Format("2006-01-02 15:04"), len(c.Participants), winners)
}
