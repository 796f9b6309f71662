package commands

import (
	"fmt"
	"time"

	"luckydraw-bot/drawbot"
	"luckydraw-bot/drawbot/handlers"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var LuckyDraw = discord.SlashCommandCreate{
	Name:        "luckydraw",
	Description: "Lucky draw campaigns",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "create",
			Description: "Create a new lucky draw",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "prize",
					Description: "What the winners get",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "minutes",
					Description: "How long the draw runs (1 minute to 7 days)",
					Required:    true,
					MinValue:    intPtr(1),
					MaxValue:    intPtr(10080),
				},
				discord.ApplicationCommandOptionInt{
					Name:        "winners",
					Description: "Number of winner slots (default 1)",
					Required:    false,
					MinValue:    intPtr(1),
					MaxValue:    intPtr(100),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "List all running lucky draws",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "history",
			Description: "Show the most recently ended draws",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionInt{
					Name:        "limit",
					Description: "How many ended draws to show (default 5)",
					Required:    false,
					MinValue:    intPtr(1),
					MaxValue:    intPtr(20),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "search",
			Description: "Find draws by prize name",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "prize",
					Description: "Prize name to search for",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "end",
			Description: "End a running draw now and pick the winners (admin only)",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionInt{
					Name:        "id",
					Description: "The draw ID",
					Required:    true,
					MinValue:    intPtr(1),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "backup",
			Description: "Show the state of the saved draw data (admin only)",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "help",
			Description: "How lucky draws work",
		},
	},
}

// JoinButtonPrefix is the custom ID prefix of the join button; the draw id
// follows the prefix.
const JoinButtonPrefix = "/draw/join/"

type LuckyDrawHandler struct {
	bot *drawbot.Bot
}

func NewLuckyDrawHandler(b *drawbot.Bot) *LuckyDrawHandler {
	return &LuckyDrawHandler{bot: b}
}

func (h *LuckyDrawHandler) Register(r handler.Router) {
	r.Route("/luckydraw", func(r handler.Router) {
		r.Command("/create", handlers.WrapWithLogging("luckydraw create", h.HandleCreate))
		r.Command("/list", handlers.WrapWithLogging("luckydraw list", h.HandleList))
		r.Command("/history", handlers.WrapWithLogging("luckydraw history", h.HandleHistory))
		r.Command("/search", handlers.WrapWithLogging("luckydraw search", h.HandleSearch))
		r.Command("/end", handlers.WrapWithLogging("luckydraw end", h.HandleEnd))
		r.Command("/backup", handlers.WrapWithLogging("luckydraw backup", h.HandleBackup))
		r.Command("/help", handlers.WrapWithLogging("luckydraw help", h.HandleHelp))
	})

	r.Component(JoinButtonPrefix, handlers.WrapComponentWithLogging("draw-join", h.HandleJoinButton))
}

func (h *LuckyDrawHandler) HandleHelp(e *handler.CommandEvent) error {
	embed := discord.NewEmbedBuilder().
		SetTitle("🎲 Lucky Draw Help").
		SetDescription("Time-boxed lucky draws: set a prize, a deadline and a winner count; "+
			"people join with the button; winners are picked at random when the time is up.").
		AddField("/luckydraw create", "Start a draw. Duration 1 minute to 7 days, up to 100 winner slots.", false).
		AddField("Join button", "Opt in with one click. The creator cannot join their own draw.", false).
		AddField("/luckydraw list", "All running draws with time left and entrant counts.", false).
		AddField("/luckydraw history", "Recently ended draws, newest first.", false).
		AddField("/luckydraw search", "Find past and running draws by prize name.", false).
		AddField("/luckydraw end", "Admins can end a draw early; winners are still drawn fairly.", false).
		SetColor(drawbot.InfoColor).
		Build()

	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{embed},
		Flags:  discord.MessageFlagEphemeral,
	})
}

func intPtr(v int) *int {
	return &v
}

// formatTimeLeft renders a remaining duration as a compact "2d 3h 4m" label.
func formatTimeLeft(d time.Duration) string {
	if d <= 0 {
		return "ending now"
	}
	d = d.Round(time.Minute)
	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	minutes := int(d % time.Hour / time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return "under a minute"
	}
}
