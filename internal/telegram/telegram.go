// Package telegram adapts the Bot API to the interfaces the rest of the
// bot consumes: outbound sends with copy protection, channel membership
// checks, and the operator log-channel archive.
package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/randompartner/chat-bot/internal/i18n"
	"github.com/randompartner/chat-bot/internal/relay"
)

// ChannelRef identifies the mandatory channel either by @username or by
// numeric chat ID.
type ChannelRef struct {
	Username string // "@channel", set when the ref is a username
	ID       int64  // set when the ref is numeric
}

// ParseChannelRef accepts "@username" or a numeric chat ID string.
func ParseChannelRef(s string) (ChannelRef, error) {
	if strings.HasPrefix(s, "@") {
		return ChannelRef{Username: s}, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return ChannelRef{}, fmt.Errorf("telegram: channel ref %q is neither @username nor chat id", s)
	}
	return ChannelRef{ID: id}, nil
}

// Config holds the Bot API settings.
type Config struct {
	Token        string
	Channel      ChannelRef // mandatory channel users must join
	InviteLink   string     // public invite link shown in the join prompt
	LogChannelID int64      // archive destination, 0 disables archiving
	Debug        bool
}

// Client wraps the Bot API connection. It implements relay.Sender,
// relay.Archiver and relay.SubscriptionGate.
type Client struct {
	api *tgbotapi.BotAPI
	cfg Config
}

// New connects to the Bot API and verifies the token.
func New(cfg Config) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	api.Debug = cfg.Debug
	log.Printf("[telegram] authorized as @%s", api.Self.UserName)
	return &Client{api: api, cfg: cfg}, nil
}

// Updates returns the long-poll update channel.
func (c *Client) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	return c.api.GetUpdatesChan(u)
}

// StopUpdates stops the long-poll loop and closes the update channel.
func (c *Client) StopUpdates() {
	c.api.StopReceivingUpdates()
}

// Username returns the bot's own username.
func (c *Client) Username() string {
	return c.api.Self.UserName
}

// classify wraps terminal delivery failures in relay.ErrPeerUnreachable so
// the relay can tell teardown from retry-later conditions.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "bot was blocked"),
		strings.Contains(msg, "user is deactivated"),
		strings.Contains(msg, "chat not found"):
		return fmt.Errorf("%w: %v", relay.ErrPeerUnreachable, err)
	}
	return err
}

// User-facing sends are built as raw requests: the pinned library predates
// Bot API 5.6, and every outbound user message must carry protect_content.

// SendText sends a plain text message with copy protection.
func (c *Client) SendText(_ context.Context, chatID int64, text string) error {
	params := make(tgbotapi.Params)
	params.AddNonZero64("chat_id", chatID)
	params["text"] = text
	params.AddBool("protect_content", true)
	if _, err := c.api.MakeRequest("sendMessage", params); err != nil {
		return classify(fmt.Errorf("telegram: send text to %d: %w", chatID, err))
	}
	return nil
}

// SendMarkdown sends a Markdown-formatted message with copy protection,
// optionally attaching a keyboard (ReplyKeyboardMarkup, InlineKeyboardMarkup
// or ReplyKeyboardRemove).
func (c *Client) SendMarkdown(_ context.Context, chatID int64, text string, keyboard interface{}) error {
	params := make(tgbotapi.Params)
	params.AddNonZero64("chat_id", chatID)
	params["text"] = text
	params.AddNonEmpty("parse_mode", tgbotapi.ModeMarkdown)
	params.AddBool("protect_content", true)
	if err := params.AddInterface("reply_markup", keyboard); err != nil {
		return fmt.Errorf("telegram: encode keyboard: %w", err)
	}
	if _, err := c.api.MakeRequest("sendMessage", params); err != nil {
		return classify(fmt.Errorf("telegram: send markdown to %d: %w", chatID, err))
	}
	return nil
}

// mediaEndpoints maps a media kind to its Bot API method and payload field.
var mediaEndpoints = map[relay.Kind][2]string{
	relay.KindPhoto:    {"sendPhoto", "photo"},
	relay.KindVideo:    {"sendVideo", "video"},
	relay.KindDocument: {"sendDocument", "document"},
	relay.KindVoice:    {"sendVoice", "voice"},
	relay.KindSticker:  {"sendSticker", "sticker"},
}

// SendMedia re-sends media by file ID with copy protection. The caption may
// be empty; stickers never carry one.
func (c *Client) SendMedia(_ context.Context, chatID int64, kind relay.Kind, fileID, caption string) error {
	endpoint, ok := mediaEndpoints[kind]
	if !ok {
		return fmt.Errorf("telegram: unsupported media kind %s", kind)
	}

	params := make(tgbotapi.Params)
	params.AddNonZero64("chat_id", chatID)
	params[endpoint[1]] = fileID
	if kind != relay.KindSticker {
		params.AddNonEmpty("caption", caption)
	}
	params.AddBool("protect_content", true)
	if _, err := c.api.MakeRequest(endpoint[0], params); err != nil {
		return classify(fmt.Errorf("telegram: send %s to %d: %w", kind, chatID, err))
	}
	return nil
}

// PromptJoin sends the mandatory-channel prompt with the invite link and a
// localized "I have joined" check button.
func (c *Client) PromptJoin(ctx context.Context, chatID int64, locale string) error {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📢 "+i18n.T(locale, "join_channel_btn"), c.cfg.InviteLink),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ "+i18n.T(locale, "joined_btn"), "check_join_"+locale),
		),
	)
	return c.SendMarkdown(ctx, chatID, i18n.T(locale, "join_channel_msg"), keyboard)
}

// IsSubscribed reports whether the user is a member of the mandatory
// channel. Creators and administrators count as members.
func (c *Client) IsSubscribed(_ context.Context, userID int64) (bool, error) {
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID:             c.cfg.Channel.ID,
			SuperGroupUsername: c.cfg.Channel.Username,
			UserID:             userID,
		},
	})
	if err != nil {
		return false, fmt.Errorf("telegram: chat member %d: %w", userID, err)
	}
	switch member.Status {
	case "creator", "administrator", "member":
		return true, nil
	}
	return false, nil
}

// Archive copies one relayed message to the operator log channel. Text is
// quoted in full; media is re-sent by file ID with an attribution caption.
func (c *Client) Archive(_ context.Context, msg relay.Message, partner int64) error {
	if c.cfg.LogChannelID == 0 {
		return nil
	}

	if msg.Kind == relay.KindText {
		text := fmt.Sprintf("[Text Message]\nFrom: `%d`\nTo partner: `%d`\n\nContent:\n%s",
			msg.From, partner, msg.Text)
		m := tgbotapi.NewMessage(c.cfg.LogChannelID, text)
		m.ParseMode = tgbotapi.ModeMarkdown
		if _, err := c.api.Send(m); err != nil {
			return fmt.Errorf("telegram: archive text: %w", err)
		}
		return nil
	}

	caption := fmt.Sprintf("Message from: `%d`\nTo partner: `%d`", msg.From, partner)
	if msg.Caption != "" {
		caption += "\n\nCaption:\n" + msg.Caption
	}
	file := tgbotapi.FileID(msg.FileID)

	var cfg tgbotapi.Chattable
	switch msg.Kind {
	case relay.KindPhoto:
		m := tgbotapi.NewPhoto(c.cfg.LogChannelID, file)
		m.Caption = caption
		m.ParseMode = tgbotapi.ModeMarkdown
		cfg = m
	case relay.KindVideo:
		m := tgbotapi.NewVideo(c.cfg.LogChannelID, file)
		m.Caption = caption
		m.ParseMode = tgbotapi.ModeMarkdown
		cfg = m
	case relay.KindDocument:
		m := tgbotapi.NewDocument(c.cfg.LogChannelID, file)
		m.Caption = caption
		m.ParseMode = tgbotapi.ModeMarkdown
		cfg = m
	case relay.KindVoice:
		m := tgbotapi.NewVoice(c.cfg.LogChannelID, file)
		m.Caption = caption
		m.ParseMode = tgbotapi.ModeMarkdown
		cfg = m
	case relay.KindSticker:
		// Stickers cannot carry captions; attribute them in a follow-up line.
		s := tgbotapi.NewSticker(c.cfg.LogChannelID, file)
		if _, err := c.api.Send(s); err != nil {
			return fmt.Errorf("telegram: archive sticker: %w", err)
		}
		m := tgbotapi.NewMessage(c.cfg.LogChannelID, caption)
		m.ParseMode = tgbotapi.ModeMarkdown
		cfg = m
	default:
		return fmt.Errorf("telegram: archive: unsupported kind %s", msg.Kind)
	}

	if _, err := c.api.Send(cfg); err != nil {
		return fmt.Errorf("telegram: archive %s: %w", msg.Kind, err)
	}
	return nil
}

// EditText rewrites the text and inline keyboard of an existing message.
// Passing a nil markup leaves the message without buttons.
func (c *Client) EditText(_ context.Context, chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	var cfg tgbotapi.Chattable
	if markup != nil {
		m := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *markup)
		m.ParseMode = tgbotapi.ModeMarkdown
		cfg = m
	} else {
		m := tgbotapi.NewEditMessageText(chatID, messageID, text)
		m.ParseMode = tgbotapi.ModeMarkdown
		cfg = m
	}
	if _, err := c.api.Request(cfg); err != nil {
		return fmt.Errorf("telegram: edit message %d in %d: %w", messageID, chatID, err)
	}
	return nil
}

// AnswerCallback acknowledges a callback query, optionally with a toast.
func (c *Client) AnswerCallback(callbackID, text string) {
	if _, err := c.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Printf("[telegram] answer callback: %v", err)
	}
}

// SendReport posts a block-and-report notice to the operator log channel.
// No-op when no log channel is configured.
func (c *Client) SendReport(_ context.Context, reportID string, reporter, reported int64) error {
	if c.cfg.LogChannelID == 0 {
		return nil
	}
	text := fmt.Sprintf("🚨 *NEW REPORT RECEIVED (Chat Blocked)* 🚨\n\n"+
		"*Report ID:* `%s`\n"+
		"*Reported User ID (Blocked):* `%d`\n"+
		"*Reporter User ID (Blocker):* `%d`\n"+
		"*Action:* User %d permanently blocked %d.",
		reportID, reported, reporter, reporter, reported)
	m := tgbotapi.NewMessage(c.cfg.LogChannelID, text)
	m.ParseMode = tgbotapi.ModeMarkdown
	if _, err := c.api.Send(m); err != nil {
		return fmt.Errorf("telegram: send report %s: %w", reportID, err)
	}
	return nil
}
