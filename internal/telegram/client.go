// Package telegram provides the outbound notification transport via the
// Telegram Bot API. It formats airdrop and listing notices into MarkdownV2
// messages and handles delivery with retry for transient failures.
package telegram

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ohakidev/binance-alpha-tool-sub001/internal/notify"
)

// Client sends notifications to a fixed Telegram chat. It implements
// notify.Sender.
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client.
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

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
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// Send delivers one notification message, retrying transient failures with
// linear backoff.
func (c *Client) Send(m notify.Message) error {
	msg := tgbotapi.NewMessage(c.chatID, formatMessage(m))
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// formatMessage renders one notification as MarkdownV2.
func formatMessage(m notify.Message) string {
	symbol := escapeMarkdownV2(m.Symbol)
	chain := escapeMarkdownV2(m.Chain)

	switch m.Kind {
	case notify.KindDiscovery:
		name := escapeMarkdownV2(m.Name)
		text := fmt.Sprintf("🆕 *New Alpha airdrop*\n\n*%s* \\(%s\\) on %s\n", symbol, name, chain)
		if m.Status != "" {
			text += fmt.Sprintf("Status: %s\n", escapeMarkdownV2(m.Status))
		}
		if !m.ListingTime.IsZero() {
			text += fmt.Sprintf("Listing: %s\n", escapeMarkdownV2(m.ListingTime.UTC().Format("2006-01-02 15:04 MST")))
		}
		return text

	case notify.KindReminder:
		return fmt.Sprintf("⏰ *Listing reminder*\n\n*%s* on %s lists in \\~%d min\n%s\n",
			symbol, chain, m.MinutesUntil,
			escapeMarkdownV2(m.ListingTime.UTC().Format("2006-01-02 15:04 MST")))

	case notify.KindLive:
		return fmt.Sprintf("🟢 *Now live*\n\n*%s* on %s just went live\n", symbol, chain)

	default:
		return fmt.Sprintf("*%s* on %s: %s", symbol, chain, escapeMarkdownV2(m.Kind))
	}
}

// escapeMarkdownV2 escapes the characters Telegram's MarkdownV2 parser
// treats as markup.
func escapeMarkdownV2(text string) string {
	result := ""
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			result += "\\" + string(char)
		default:
			result += string(char)
		}
	}
	return result
}
