// Package telegram sends astrological digests and service notices via the
// Telegram Bot API and answers on-demand forecast commands.
//
// Messages use MarkdownV2; every piece of dynamic text goes through
// escapeMarkdownV2 before it is embedded.
package telegram

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rewired-gh/astrocal/internal/logger"
	"github.com/rewired-gh/astrocal/internal/models"
)

// maxMessageLength is Telegram's limit on message text, in runes.
const maxMessageLength = 4096

// bot is the subset of tgbotapi.BotAPI the client uses.
type bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Forecaster projects the sky for on-demand commands.
type Forecaster interface {
	Project(ctx context.Context, current *models.AstroSnapshot, daysAhead int) (*models.AstroSnapshot, error)
}

// Client handles Telegram notifications
type Client struct {
	bot            bot
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	return newClient(api, chatID, maxRetries, retryDelayBase)
}

func newClient(b bot, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            b,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// SendDigest sends the calendar and horizon projections of one digest cycle
func (c *Client) SendDigest(generatedAt time.Time, calendar models.Calendar, horizons map[int]*models.AstroSnapshot) error {
	return c.send(c.formatDigest(generatedAt, calendar, horizons))
}

// SendError notifies that a digest cycle failed
func (c *Client) SendError(err error) error {
	message := fmt.Sprintf("⚠️ *Digest cycle failed*\n\n`%s`", escapeCode(err.Error()))
	return c.send(message)
}

// SendRecovery notifies that digests succeed again after failures consecutive failures
func (c *Client) SendRecovery(failures int) error {
	noun := "failures"
	if failures == 1 {
		noun = "failure"
	}
	message := fmt.Sprintf("✅ *Digest recovered* after %d consecutive %s", failures, noun)
	return c.send(message)
}

// send delivers a MarkdownV2 message with retry
func (c *Client) send(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, truncate(text))
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		logger.Debug("Telegram send failed (attempt %d/%d): %v", i+1, c.maxRetries, err)
		if i < c.maxRetries-1 {
			time.Sleep(c.retryDelayBase * time.Duration(i+1))
		}
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// ListenForCommands answers commands from the configured chat until ctx is done.
// It returns immediately; updates are processed on a background goroutine.
func (c *Client) ListenForCommands(ctx context.Context, f Forecaster) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := c.bot.GetUpdatesChan(u)

	go func() {
		defer c.bot.StopReceivingUpdates()
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message == nil || !update.Message.IsCommand() {
					continue
				}
				if update.Message.Chat == nil || update.Message.Chat.ID != c.chatID {
					logger.Debug("Ignoring command from chat outside configuration")
					continue
				}
				reply := c.handleCommand(ctx, f, update.Message.Command(), update.Message.CommandArguments())
				if reply == "" {
					continue
				}
				if err := c.send(reply); err != nil {
					logger.Warn("Failed to answer /%s: %v", update.Message.Command(), err)
				}
			}
		}
	}()
}

// handleCommand builds the reply for a bot command. Unknown commands get no reply.
func (c *Client) handleCommand(ctx context.Context, f Forecaster, command, args string) string {
	var days int
	switch command {
	case "today":
		days = 0
	case "tomorrow":
		days = 1
	case "in":
		n, err := strconv.Atoi(strings.TrimSpace(args))
		if err != nil || n < 0 || n > 366 {
			return escapeMarkdownV2("Usage: /in <days>, with days between 0 and 366")
		}
		days = n
	case "help", "start":
		return escapeMarkdownV2("Commands: /today, /tomorrow, /in <days>")
	default:
		return ""
	}

	snap, err := f.Project(ctx, nil, days)
	if err != nil {
		logger.Warn("Command /%s failed: %v", command, err)
		return escapeMarkdownV2("The sky is unavailable right now. Try again later.")
	}
	return c.formatSnapshot(days, snap)
}

// formatDigest renders a digest cycle into a Telegram message
func (c *Client) formatDigest(generatedAt time.Time, calendar models.Calendar, horizons map[int]*models.AstroSnapshot) string {
	var b strings.Builder
	b.WriteString("🔮 *Astro Calendar*\n")
	fmt.Fprintf(&b, "📅 %s\n\n", escapeMarkdownV2(generatedAt.Format("2006-01-02 15:04")))

	if len(horizons) > 0 {
		b.WriteString("*Horizons*\n")
		offsets := make([]int, 0, len(horizons))
		for d := range horizons {
			offsets = append(offsets, d)
		}
		sort.Ints(offsets)
		for _, d := range offsets {
			b.WriteString(c.formatHorizon(d, horizons[d]))
		}
		b.WriteString("\n")
	}

	if len(calendar) > 0 {
		fmt.Fprintf(&b, "*Next %d days*\n", len(calendar))
		for _, day := range calendar {
			b.WriteString(c.formatDay(day))
		}
		if failed := calendar.Failed(); failed > 0 {
			fmt.Fprintf(&b, "\n_%d of %d days unavailable_\n", failed, len(calendar))
		}
	}

	return b.String()
}

func (c *Client) formatHorizon(days int, snap *models.AstroSnapshot) string {
	if snap == nil || snap.MoonPhase == nil {
		return fmt.Sprintf("\\+%dd: %s\n", days, escapeMarkdownV2("Data unavailable"))
	}
	moon := snap.MoonPhase
	line := fmt.Sprintf("%s %s in %s, Sun in %s, lucky %d",
		moon.PhaseEmoji, moon.Phase, moon.Sign, snap.CurrentSign, snap.DailyHoroscope.LuckyNumber)
	return fmt.Sprintf("\\+%dd: %s\n", days, escapeMarkdownV2(line))
}

func (c *Client) formatDay(day models.CalendarDay) string {
	date := day.Date.Format("Mon Jan 02")
	if !day.OK() || day.MoonPhase == nil {
		return fmt.Sprintf("`%s` %s\n", date, escapeMarkdownV2(day.Forecast))
	}

	line := fmt.Sprintf("%s %s", day.MoonPhase.PhaseEmoji, day.MoonPhase.Phase)
	var highlights []string
	for _, ev := range day.KeyEvents {
		if ev.Type == models.EventMoonSign {
			continue
		}
		highlights = append(highlights, ev.Icon+" "+ev.Name)
	}
	if len(highlights) > 0 {
		line += ", " + strings.Join(highlights, ", ")
	}

	marker := ""
	if day.IsToday {
		marker = " *today*"
	}
	return fmt.Sprintf("`%s`%s %s\n", date, marker, escapeMarkdownV2(line))
}

// formatSnapshot renders a single projected day for a command reply
func (c *Client) formatSnapshot(days int, snap *models.AstroSnapshot) string {
	var b strings.Builder

	when := "Today"
	switch {
	case days == 1:
		when = "Tomorrow"
	case days > 1:
		when = fmt.Sprintf("In %d days", days)
	}
	fmt.Fprintf(&b, "*%s* \\(%s\\)\n\n", escapeMarkdownV2(when), escapeMarkdownV2(snap.Date.Format("2006-01-02")))

	if moon := snap.MoonPhase; moon != nil {
		fmt.Fprintf(&b, "%s %s\n", moon.PhaseEmoji,
			escapeMarkdownV2(fmt.Sprintf("%s in %s, %.0f%% lit", moon.Phase, moon.Sign, moon.Illumination*100)))
	}
	fmt.Fprintf(&b, "☀️ %s\n\n", escapeMarkdownV2("Sun in "+string(snap.CurrentSign)))

	h := snap.DailyHoroscope
	fmt.Fprintf(&b, "%s\n\n", escapeMarkdownV2(h.Prediction))
	fmt.Fprintf(&b, "🎨 %s  🔢 %d  🙂 %s  💞 %s\n",
		escapeMarkdownV2(h.LuckyColor), h.LuckyNumber, escapeMarkdownV2(h.Mood), escapeMarkdownV2(string(h.Compatibility)))

	title := cases.Title(language.English)
	var retro []string
	for _, name := range snap.PlanetaryPositions.Names() {
		if snap.PlanetaryPositions[name].IsRetrograde {
			retro = append(retro, title.String(string(name)))
		}
	}
	if len(retro) > 0 {
		fmt.Fprintf(&b, "\n℞ %s\n", escapeMarkdownV2("Retrograde: "+strings.Join(retro, ", ")))
	}

	return b.String()
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}

// escapeCode escapes text placed inside a MarkdownV2 code span
func escapeCode(text string) string {
	r := strings.NewReplacer("\\", "\\\\", "`", "\\`")
	return r.Replace(text)
}

// truncate keeps text within Telegram's message limit. It cuts at the last
// line break that fits so single-line bold and code spans stay balanced. Text
// without a usable line break is cut mid line.
func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageLength {
		return text
	}
	const marker = "\n…"
	keep := runes[:maxMessageLength-2]
	for i := len(keep) - 1; i > 0; i-- {
		if keep[i] == '\n' {
			return string(keep[:i]) + marker
		}
	}

	cut := runes[:maxMessageLength-1]
	// Never leave a dangling escape.
	trailing := 0
	for i := len(cut) - 1; i >= 0 && cut[i] == '\\'; i-- {
		trailing++
	}
	if trailing%2 == 1 {
		cut = cut[:len(cut)-1]
	}
	return string(cut) + "…"
}
