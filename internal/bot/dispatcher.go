// Package bot dispatches Telegram updates to the matching, relay and
// moderation layers. Updates from the same user are handled strictly in
// arrival order; different users are handled concurrently.
package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/randompartner/chat-bot/internal/i18n"
	"github.com/randompartner/chat-bot/internal/matching"
	"github.com/randompartner/chat-bot/internal/messaging"
	"github.com/randompartner/chat-bot/internal/metrics"
	"github.com/randompartner/chat-bot/internal/ratelimit"
	"github.com/randompartner/chat-bot/internal/relay"
	"github.com/randompartner/chat-bot/internal/session"
	"github.com/randompartner/chat-bot/internal/store"
)

// Platform is the subset of the Telegram client the dispatcher drives.
type Platform interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendMarkdown(ctx context.Context, chatID int64, text string, keyboard interface{}) error
	SendMedia(ctx context.Context, chatID int64, kind relay.Kind, fileID, caption string) error
	SendReport(ctx context.Context, reportID string, reporter, reported int64) error
	PromptJoin(ctx context.Context, chatID int64, locale string) error
	IsSubscribed(ctx context.Context, userID int64) (bool, error)
	EditText(ctx context.Context, chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error
	AnswerCallback(callbackID, text string)
}

// Relayer forwards one content message to the sender's partner.
type Relayer interface {
	Do(ctx context.Context, msg relay.Message) error
}

// Reporter publishes block-and-report events to the moderation feed.
type Reporter interface {
	PublishReportFiled(data []byte) error
}

// Dispatcher routes updates to their handlers.
type Dispatcher struct {
	store    *store.Store
	platform Platform
	relay    Relayer
	matcher  *matching.Matcher
	limiter  *ratelimit.Limiter // nil disables rate limiting
	reporter Reporter           // nil disables the moderation feed
	adminID  int64
	serial   *serializer
}

// New creates a Dispatcher. limiter and reporter may be nil.
func New(st *store.Store, platform Platform, rl Relayer, matcher *matching.Matcher, limiter *ratelimit.Limiter, reporter Reporter, adminID int64) *Dispatcher {
	return &Dispatcher{
		store:    st,
		platform: platform,
		relay:    rl,
		matcher:  matcher,
		limiter:  limiter,
		reporter: reporter,
		adminID:  adminID,
		serial:   newSerializer(),
	}
}

// Run consumes the update channel until it closes or the context is
// cancelled.
func (d *Dispatcher) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			d.Handle(ctx, update)
		}
	}
}

// Handle schedules one update on the per-user FIFO.
func (d *Dispatcher) Handle(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		d.serial.do(cb.From.ID, func() { d.handleCallback(ctx, cb) })
	case update.Message != nil:
		msg := update.Message
		if msg.From == nil || msg.Chat == nil || !msg.Chat.IsPrivate() {
			return
		}
		d.serial.do(msg.From.ID, func() { d.handleMessage(ctx, msg) })
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID

	if msg.IsCommand() {
		d.handleCommand(ctx, msg)
		return
	}

	// Media captioned "/broadcast ..." from the admin is a media broadcast,
	// not relayable content.
	if userID == d.adminID && strings.HasPrefix(msg.Caption, "/broadcast") {
		d.broadcastMedia(ctx, msg)
		return
	}

	locale := d.localeOf(ctx, userID)

	// Localized reply-keyboard buttons arrive as plain text. Match them
	// across every locale so a stale keyboard still works after a language
	// change.
	if action, ok := buttonAction(msg.Text); ok {
		switch action {
		case "search":
			d.handleSearch(ctx, userID, locale)
		case "next":
			d.handleNext(ctx, userID, locale)
		case "stop":
			d.handleStop(ctx, userID, locale)
		case "block":
			d.handleBlock(ctx, userID, locale)
		}
		return
	}

	content, ok := toRelayMessage(msg)
	if !ok {
		d.notify(ctx, userID, locale, "use_buttons_msg")
		return
	}
	if !d.limiter.Allow(ctx, userID, ratelimit.RuleMessage) {
		log.Printf("[bot] message rate limit hit for %d", userID)
		return
	}
	if err := d.relay.Do(ctx, content); err != nil {
		log.Printf("[bot] relay from %d: %v", userID, err)
	}
}

// buttonAction maps a reply-keyboard label in any supported locale to its
// action name.
func buttonAction(text string) (string, bool) {
	for _, code := range i18n.Supported {
		switch text {
		case i18n.T(code, "search_btn"):
			return "search", true
		case i18n.T(code, "next_btn"):
			return "next", true
		case i18n.T(code, "stop_btn"):
			return "stop", true
		case i18n.T(code, "block_btn"):
			return "block", true
		}
	}
	return "", false
}

func (d *Dispatcher) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	locale := d.localeOf(ctx, userID)

	switch msg.Command() {
	case "start":
		d.handleStart(ctx, msg)
	case "settings":
		d.handleSettings(ctx, userID, locale)
	case "search":
		d.handleSearch(ctx, userID, locale)
	case "next":
		d.handleNext(ctx, userID, locale)
	case "stop", "end":
		d.handleStop(ctx, userID, locale)
	case "block":
		d.handleBlock(ctx, userID, locale)
	case "broadcast":
		d.handleBroadcast(ctx, msg, locale)
	case "banuser":
		d.handleBanUser(ctx, msg, locale)
	case "unbanuser":
		d.handleUnbanUser(ctx, msg, locale)
	case "sendid":
		d.handleSendID(ctx, msg, locale)
	}
}

func (d *Dispatcher) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID

	known, err := d.store.UserExists(ctx, userID)
	if err != nil {
		log.Printf("[bot] user lookup %d: %v", userID, err)
		return
	}
	if !known {
		// First contact: pick a language before anything else. The user row
		// is created when the selection lands.
		kb := languageKeyboard("initial_set_lang")
		if err := d.platform.SendMarkdown(ctx, userID, i18n.T(i18n.Default, "initial_selection_msg"), kb); err != nil {
			log.Printf("[bot] initial language prompt to %d: %v", userID, err)
		}
		return
	}

	locale := d.localeOf(ctx, userID)
	if d.rejectBanned(ctx, userID, locale) || !d.requireSubscribed(ctx, userID, locale) {
		return
	}

	status, err := session.Resolve(ctx, d.store, userID)
	if err != nil {
		log.Printf("[bot] session for %d: %v", userID, err)
		return
	}
	switch status.State {
	case session.Paired:
		d.sendWithKeyboard(ctx, userID, locale, "already_in_chat", chatKeyboard(locale))
	case session.Waiting:
		d.sendWithKeyboard(ctx, userID, locale, "already_searching", idleKeyboard(locale))
	default:
		d.sendWithKeyboard(ctx, userID, locale, "welcome", idleKeyboard(locale))
	}
}

func (d *Dispatcher) handleSettings(ctx context.Context, userID int64, locale string) {
	if d.rejectBanned(ctx, userID, locale) {
		return
	}
	kb := languageKeyboard("set_lang")
	if err := d.platform.SendMarkdown(ctx, userID, i18n.T(locale, "settings_text"), kb); err != nil {
		log.Printf("[bot] settings prompt to %d: %v", userID, err)
	}
}

func (d *Dispatcher) handleSearch(ctx context.Context, userID int64, locale string) {
	if d.rejectBanned(ctx, userID, locale) || !d.requireSubscribed(ctx, userID, locale) {
		return
	}
	if !d.limiter.Allow(ctx, userID, ratelimit.RuleSearch) {
		log.Printf("[bot] search rate limit hit for %d", userID)
		return
	}

	status, err := session.Resolve(ctx, d.store, userID)
	if err != nil {
		log.Printf("[bot] session for %d: %v", userID, err)
		return
	}
	switch status.State {
	case session.Paired:
		d.notify(ctx, userID, locale, "search_already_in_chat")
		return
	case session.Waiting:
		d.notify(ctx, userID, locale, "search_already_searching")
		return
	}

	d.attemptMatch(ctx, userID, locale, "search_wait")
}

func (d *Dispatcher) handleNext(ctx context.Context, userID int64, locale string) {
	if d.rejectBanned(ctx, userID, locale) || !d.requireSubscribed(ctx, userID, locale) {
		return
	}
	if !d.limiter.Allow(ctx, userID, ratelimit.RuleSearch) {
		log.Printf("[bot] search rate limit hit for %d", userID)
		return
	}

	status, err := session.Resolve(ctx, d.store, userID)
	if err != nil {
		log.Printf("[bot] session for %d: %v", userID, err)
		return
	}

	switch status.State {
	case session.Waiting:
		d.notify(ctx, userID, locale, "next_already_searching")
		return
	case session.Paired:
		partner, ended, err := d.store.EndPair(ctx, userID)
		if err != nil {
			log.Printf("[bot] end pair for %d: %v", userID, err)
			return
		}
		if ended {
			d.notifyPartnerLeft(ctx, partner)
		}
	}

	d.attemptMatch(ctx, userID, locale, "next_msg_user")
}

// attemptMatch runs one match attempt and notifies both sides on success.
// waitingKey is the notice shown when the user is enqueued instead.
func (d *Dispatcher) attemptMatch(ctx context.Context, userID int64, locale, waitingKey string) {
	res, err := d.matcher.TryMatch(ctx, userID)
	if err != nil {
		log.Printf("[bot] match attempt for %d: %v", userID, err)
		return
	}
	if !res.Matched {
		d.sendWithKeyboard(ctx, userID, locale, waitingKey, idleKeyboard(locale))
		return
	}

	d.sendWithKeyboard(ctx, userID, locale, "partner_found", chatKeyboard(locale))
	peerLocale := d.localeOf(ctx, res.Peer)
	d.sendWithKeyboard(ctx, res.Peer, peerLocale, "partner_found", chatKeyboard(peerLocale))
}

func (d *Dispatcher) handleStop(ctx context.Context, userID int64, locale string) {
	if d.rejectBanned(ctx, userID, locale) {
		return
	}

	status, err := session.Resolve(ctx, d.store, userID)
	if err != nil {
		log.Printf("[bot] session for %d: %v", userID, err)
		return
	}

	switch status.State {
	case session.Paired:
		partner, ended, err := d.store.EndPair(ctx, userID)
		if err != nil {
			log.Printf("[bot] end pair for %d: %v", userID, err)
			return
		}
		d.sendWithKeyboard(ctx, userID, locale, "end_msg_user", idleKeyboard(locale))
		if ended {
			d.notifyPartnerLeft(ctx, partner)
		}
	case session.Waiting:
		if err := d.store.Dequeue(ctx, userID); err != nil {
			log.Printf("[bot] dequeue %d: %v", userID, err)
			return
		}
		d.sendWithKeyboard(ctx, userID, locale, "end_search_cancel", idleKeyboard(locale))
	default:
		d.notify(ctx, userID, locale, "end_not_in_chat")
	}
}

// notifyPartnerLeft tells a former partner their chat ended and restores
// their idle keyboard.
func (d *Dispatcher) notifyPartnerLeft(ctx context.Context, partner int64) {
	locale := d.localeOf(ctx, partner)
	d.sendWithKeyboard(ctx, partner, locale, "end_msg_partner", idleKeyboard(locale))
}

func (d *Dispatcher) handleBlock(ctx context.Context, userID int64, locale string) {
	if d.rejectBanned(ctx, userID, locale) {
		return
	}

	status, err := session.Resolve(ctx, d.store, userID)
	if err != nil {
		log.Printf("[bot] session for %d: %v", userID, err)
		return
	}

	switch status.State {
	case session.Paired:
		kb := blockConfirmKeyboard(status.Partner, locale)
		if err := d.platform.SendMarkdown(ctx, userID, i18n.T(locale, "block_confirm_text"), kb); err != nil {
			log.Printf("[bot] block confirm prompt to %d: %v", userID, err)
		}
	case session.Waiting:
		d.notify(ctx, userID, locale, "block_while_searching")
	default:
		d.notify(ctx, userID, locale, "block_not_in_chat")
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	userID := cb.From.ID
	data := cb.Data
	chatID := userID
	messageID := 0
	if cb.Message != nil {
		chatID = cb.Message.Chat.ID
		messageID = cb.Message.MessageID
	}

	switch {
	case strings.HasPrefix(data, prefixInitialLang):
		code := i18n.Normalize(strings.TrimPrefix(data, prefixInitialLang))
		if err := d.store.EnsureUser(ctx, userID, code); err != nil {
			log.Printf("[bot] create user %d: %v", userID, err)
			return
		}
		d.platform.AnswerCallback(cb.ID, "")
		saved := fmt.Sprintf(i18n.T(code, "settings_saved"), i18n.LanguageName(code))
		if err := d.platform.EditText(ctx, chatID, messageID, saved, nil); err != nil {
			log.Printf("[bot] edit language message for %d: %v", userID, err)
		}
		if !d.requireSubscribed(ctx, userID, code) {
			return
		}
		d.sendWithKeyboard(ctx, userID, code, "welcome", idleKeyboard(code))

	case strings.HasPrefix(data, prefixSetLang):
		code := i18n.Normalize(strings.TrimPrefix(data, prefixSetLang))
		if err := d.store.EnsureUser(ctx, userID, code); err != nil {
			log.Printf("[bot] update locale for %d: %v", userID, err)
			return
		}
		d.platform.AnswerCallback(cb.ID, "")
		saved := fmt.Sprintf(i18n.T(code, "settings_saved"), i18n.LanguageName(code))
		if err := d.platform.EditText(ctx, chatID, messageID, saved, nil); err != nil {
			log.Printf("[bot] edit settings message for %d: %v", userID, err)
		}

	case strings.HasPrefix(data, prefixCheckJoin):
		locale := i18n.Normalize(strings.TrimPrefix(data, prefixCheckJoin))
		subscribed, err := d.platform.IsSubscribed(ctx, userID)
		if err != nil {
			log.Printf("[bot] join check for %d: %v", userID, err)
			d.platform.AnswerCallback(cb.ID, i18n.T(locale, "join_not_member"))
			return
		}
		if !subscribed {
			d.platform.AnswerCallback(cb.ID, i18n.T(locale, "join_not_member"))
			return
		}
		d.platform.AnswerCallback(cb.ID, "")
		if err := d.platform.EditText(ctx, chatID, messageID, i18n.T(locale, "joined_success"), nil); err != nil {
			log.Printf("[bot] edit join message for %d: %v", userID, err)
		}
		d.sendWithKeyboard(ctx, userID, locale, "use_buttons_msg", idleKeyboard(locale))

	case strings.HasPrefix(data, prefixConfirmBlock):
		partner, locale, ok := parseConfirmBlock(data)
		if !ok {
			d.platform.AnswerCallback(cb.ID, "")
			return
		}
		d.confirmBlock(ctx, cb, chatID, messageID, userID, partner, locale)

	case strings.HasPrefix(data, prefixCancelBlock):
		locale := i18n.Normalize(strings.TrimPrefix(data, prefixCancelBlock))
		d.platform.AnswerCallback(cb.ID, "")
		if err := d.platform.EditText(ctx, chatID, messageID, i18n.T(locale, "block_cancelled"), nil); err != nil {
			log.Printf("[bot] edit block message for %d: %v", userID, err)
		}

	default:
		d.platform.AnswerCallback(cb.ID, "")
	}
}

// confirmBlock records the block, ends the chat, files the report and
// notifies both sides.
func (d *Dispatcher) confirmBlock(ctx context.Context, cb *tgbotapi.CallbackQuery, chatID int64, messageID int, blocker, blocked int64, locale string) {
	if err := d.store.AddBlock(ctx, blocker, blocked); err != nil {
		log.Printf("[bot] add block %d -> %d: %v", blocker, blocked, err)
		d.platform.AnswerCallback(cb.ID, "")
		return
	}

	// The pair may already be gone if the partner left between the prompt
	// and the confirmation; the block still lands.
	partner, ended, err := d.store.EndPair(ctx, blocker)
	if err != nil {
		log.Printf("[bot] end pair after block %d: %v", blocker, err)
	}
	if ended && partner == blocked {
		d.notifyPartnerLeft(ctx, partner)
	}

	d.fileReport(ctx, blocker, blocked)

	d.platform.AnswerCallback(cb.ID, "")
	if err := d.platform.EditText(ctx, chatID, messageID, i18n.T(locale, "block_success"), nil); err != nil {
		log.Printf("[bot] edit block message for %d: %v", blocker, err)
	}
	log.Printf("[bot] user %d blocked and reported %d", blocker, blocked)
}

// fileReport posts the report to the operator log channel and, when the
// moderation feed is up, publishes the matching event. Both carry the same
// report id.
func (d *Dispatcher) fileReport(ctx context.Context, reporter, reported int64) {
	reportID := uuid.NewString()

	if err := d.platform.SendReport(ctx, reportID, reporter, reported); err != nil {
		log.Printf("[bot] post report %s: %v", reportID, err)
	}

	if d.reporter == nil {
		return
	}
	event := messaging.ReportEvent{
		ReportID:   reportID,
		ReporterID: reporter,
		ReportedID: reported,
		Ts:         time.Now().Unix(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[bot] marshal report: %v", err)
		return
	}
	if err := d.reporter.PublishReportFiled(data); err != nil {
		log.Printf("[bot] publish report %s: %v", event.ReportID, err)
		return
	}
	log.Printf("[bot] report %s filed: %d reported %d", event.ReportID, reporter, reported)
}

func (d *Dispatcher) handleBroadcast(ctx context.Context, msg *tgbotapi.Message, locale string) {
	userID := msg.From.ID
	if userID != d.adminID {
		d.notify(ctx, userID, locale, "admin_denied")
		return
	}
	text := strings.TrimSpace(msg.CommandArguments())
	if text == "" {
		d.notifyText(ctx, userID, "Usage: /broadcast <message>")
		return
	}

	d.broadcastAll(ctx, userID, func(uid int64) error {
		return d.platform.SendText(ctx, uid, text)
	})
}

// broadcastMedia re-sends admin media to every user, with the caption
// stripped of its /broadcast prefix.
func (d *Dispatcher) broadcastMedia(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	content, ok := toRelayMessage(msg)
	if !ok {
		d.notifyText(ctx, userID, "Unsupported media for /broadcast.")
		return
	}
	caption := strings.TrimSpace(strings.TrimPrefix(msg.Caption, "/broadcast"))

	d.broadcastAll(ctx, userID, func(uid int64) error {
		return d.platform.SendMedia(ctx, uid, content.Kind, content.FileID, caption)
	})
}

// broadcastAll fans one send out to every registered user and reports the
// counts back to the admin.
func (d *Dispatcher) broadcastAll(ctx context.Context, adminID int64, send func(uid int64) error) {
	users, err := d.store.AllUsers(ctx)
	if err != nil {
		log.Printf("[bot] broadcast user list: %v", err)
		return
	}
	sent, failed := 0, 0
	for _, uid := range users {
		if err := send(uid); err != nil {
			failed++
			continue
		}
		sent++
	}
	d.notifyText(ctx, adminID, fmt.Sprintf("Broadcast done: %d sent, %d failed.", sent, failed))
	log.Printf("[bot] broadcast by %d: %d sent, %d failed", adminID, sent, failed)
}

// handleSendID lets the operator message a single user directly:
// /sendid <user id> <text>.
func (d *Dispatcher) handleSendID(ctx context.Context, msg *tgbotapi.Message, locale string) {
	userID := msg.From.ID
	if userID != d.adminID {
		d.notify(ctx, userID, locale, "admin_denied")
		return
	}

	args := strings.TrimSpace(msg.CommandArguments())
	idStr, text, found := strings.Cut(args, " ")
	target, err := strconv.ParseInt(idStr, 10, 64)
	text = strings.TrimSpace(text)
	if err != nil || !found || text == "" {
		d.notifyText(ctx, userID, "Usage: /sendid <user id> <text>")
		return
	}

	if err := d.platform.SendText(ctx, target, text); err != nil {
		log.Printf("[bot] sendid to %d: %v", target, err)
		d.notifyText(ctx, userID, fmt.Sprintf("Delivery to %d failed.", target))
		return
	}
	d.notifyText(ctx, userID, fmt.Sprintf("Message sent to %d.", target))
	log.Printf("[bot] admin messaged %d", target)
}

func (d *Dispatcher) handleBanUser(ctx context.Context, msg *tgbotapi.Message, locale string) {
	userID := msg.From.ID
	if userID != d.adminID {
		d.notify(ctx, userID, locale, "admin_denied")
		return
	}
	target, err := strconv.ParseInt(strings.TrimSpace(msg.CommandArguments()), 10, 64)
	if err != nil {
		d.notifyText(ctx, userID, "Usage: /banuser <user id>")
		return
	}

	partner, hadPartner, err := d.store.AddGlobalBan(ctx, target)
	if err != nil {
		log.Printf("[bot] ban %d: %v", target, err)
		return
	}
	metrics.GlobalBansTotal.Inc()
	if hadPartner {
		d.notifyPartnerLeft(ctx, partner)
	}
	bannedLocale := d.localeOf(ctx, target)
	d.notify(ctx, target, bannedLocale, "globally_banned")
	d.notifyText(ctx, userID, fmt.Sprintf("User %d banned.", target))
	log.Printf("[bot] admin banned %d", target)
}

func (d *Dispatcher) handleUnbanUser(ctx context.Context, msg *tgbotapi.Message, locale string) {
	userID := msg.From.ID
	if userID != d.adminID {
		d.notify(ctx, userID, locale, "admin_denied")
		return
	}
	target, err := strconv.ParseInt(strings.TrimSpace(msg.CommandArguments()), 10, 64)
	if err != nil {
		d.notifyText(ctx, userID, "Usage: /unbanuser <user id>")
		return
	}
	if err := d.store.RemoveGlobalBan(ctx, target); err != nil {
		log.Printf("[bot] unban %d: %v", target, err)
		return
	}
	d.notifyText(ctx, userID, fmt.Sprintf("User %d unbanned.", target))
	log.Printf("[bot] admin unbanned %d", target)
}

// rejectBanned replies with the suspension notice for banned users.
func (d *Dispatcher) rejectBanned(ctx context.Context, userID int64, locale string) bool {
	banned, err := d.store.IsBanned(ctx, userID)
	if err != nil {
		log.Printf("[bot] ban check for %d: %v", userID, err)
		return false
	}
	if banned {
		d.notify(ctx, userID, locale, "globally_banned")
	}
	return banned
}

// requireSubscribed prompts non-members to join the mandatory channel. A
// failed membership query lets the user through.
func (d *Dispatcher) requireSubscribed(ctx context.Context, userID int64, locale string) bool {
	subscribed, err := d.platform.IsSubscribed(ctx, userID)
	if err != nil {
		log.Printf("[bot] subscription check for %d failed: %v (allowing)", userID, err)
		return true
	}
	if subscribed {
		return true
	}
	if err := d.platform.PromptJoin(ctx, userID, locale); err != nil {
		log.Printf("[bot] join prompt to %d: %v", userID, err)
	}
	return false
}

func (d *Dispatcher) localeOf(ctx context.Context, userID int64) string {
	locale, err := d.store.LocaleOf(ctx, userID)
	if err != nil {
		log.Printf("[bot] locale for %d: %v", userID, err)
		return i18n.Default
	}
	return locale
}

// notify sends a localized notice without touching the keyboard.
func (d *Dispatcher) notify(ctx context.Context, userID int64, locale, key string) {
	d.notifyText(ctx, userID, i18n.T(locale, key))
}

func (d *Dispatcher) notifyText(ctx context.Context, userID int64, text string) {
	if err := d.platform.SendText(ctx, userID, text); err != nil {
		log.Printf("[bot] notice to %d failed: %v", userID, err)
	}
}

// sendWithKeyboard sends a localized notice and replaces the reply keyboard.
func (d *Dispatcher) sendWithKeyboard(ctx context.Context, userID int64, locale, key string, kb tgbotapi.ReplyKeyboardMarkup) {
	if err := d.platform.SendMarkdown(ctx, userID, i18n.T(locale, key), kb); err != nil {
		log.Printf("[bot] notice %q to %d failed: %v", key, userID, err)
	}
}

// toRelayMessage converts a content message to the relay's platform-neutral
// form. Unsupported payloads (polls, contacts, locations) return false.
func toRelayMessage(msg *tgbotapi.Message) (relay.Message, bool) {
	from := msg.From.ID
	switch {
	case msg.Text != "":
		return relay.Message{From: from, Kind: relay.KindText, Text: msg.Text}, true
	case len(msg.Photo) > 0:
		// Telegram sends multiple sizes; the last is the largest.
		photo := msg.Photo[len(msg.Photo)-1]
		return relay.Message{From: from, Kind: relay.KindPhoto, FileID: photo.FileID, Caption: msg.Caption}, true
	case msg.Video != nil:
		return relay.Message{From: from, Kind: relay.KindVideo, FileID: msg.Video.FileID, Caption: msg.Caption}, true
	case msg.Document != nil:
		return relay.Message{From: from, Kind: relay.KindDocument, FileID: msg.Document.FileID, Caption: msg.Caption}, true
	case msg.Voice != nil:
		return relay.Message{From: from, Kind: relay.KindVoice, FileID: msg.Voice.FileID, Caption: msg.Caption}, true
	case msg.Sticker != nil:
		return relay.Message{From: from, Kind: relay.KindSticker, FileID: msg.Sticker.FileID}, true
	}
	return relay.Message{}, false
}
