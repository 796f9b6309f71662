package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"luckydraw-bot/drawbot"
	"luckydraw-bot/drawbot/draw"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

func (h *LuckyDrawHandler) HandleEnd(e *handler.CommandEvent) error {
	if !isAdmin(e) {
		return e.CreateMessage(discord.MessageCreate{
			Content: "⛔ Only administrators can end a draw early.",
			Flags:   discord.MessageFlagEphemeral,
		})
	}

	id := int64(e.SlashCommandInteractionData().Int("id"))
	ended, err := h.bot.Registry.End(id)
	if err != nil {
		msg := "Could not end the draw."
		switch {
		case errors.Is(err, draw.ErrNotFound):
			msg = fmt.Sprintf("Draw #%d does not exist.", id)
		case errors.Is(err, draw.ErrAlreadyEnded):
			msg = fmt.Sprintf("Draw #%d has already ended.", id)
		}
		return e.CreateMessage(discord.MessageCreate{
			Content: "❌ " + msg,
			Flags:   discord.MessageFlagEphemeral,
		})
	}

	slog.Info("Draw force-ended",
		slog.String("type", "cmd"),
		slog.Int64("draw_id", ended.ID),
		slog.String("by", e.User().Username))

	if err := e.CreateMessage(discord.MessageCreate{
		Content: fmt.Sprintf("✅ Draw #%d ended; %d winner(s) drawn.", ended.ID, len(ended.WinnerIDs)),
		Flags:   discord.MessageFlagEphemeral,
	}); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := h.bot.Announcer.AnnounceResult(ctx, ended); err != nil {
		slog.Error("Failed to announce force-ended draw",
			slog.String("type", "cmd"),
			slog.Int64("draw_id", ended.ID),
			slog.Any("error", err))
	}
	return nil
}

func (h *LuckyDrawHandler) HandleBackup(e *handler.CommandEvent) error {
	if !isAdmin(e) {
		return e.CreateMessage(discord.MessageCreate{
			Content: "⛔ Only administrators can inspect the draw data.",
			Flags:   discord.MessageFlagEphemeral,
		})
	}

	status := h.bot.Store.Status()
	active, ended := h.bot.Registry.Counts()

	embed := discord.NewEmbedBuilder().
		SetTitle("💾 Draw Data Status").
		AddField("State file", fileInfoLine(status.State), false).
		AddField("Backup file", fileInfoLine(status.Backup), false).
		AddField("Draws", fmt.Sprintf("%d active, %d ended", active, ended), false).
		SetColor(drawbot.InfoColor).
		SetFooterText("Data directory: " + status.Dir).
		Build()

	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{embed},
		Flags:  discord.MessageFlagEphemeral,
	})
}

func fileInfoLine(fi draw.FileInfo) string {
	if !fi.Exists {
		return "not present"
	}
	return fmt.Sprintf("%d bytes · written %s", fi.Size, fi.ModTime.Format("2006-01-02 15:04:05"))
}

func isAdmin(e *handler.CommandEvent) bool {
	member := e.Member()
	return member != nil && member.Permissions.Has(discord.PermissionAdministrator)
}
