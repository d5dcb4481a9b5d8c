package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/randompartner/chat-bot/internal/i18n"
)

// idleKeyboard is shown outside of a chat: a single localized search button.
func idleKeyboard(locale string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(i18n.T(locale, "search_btn")),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// chatKeyboard is shown during an active chat.
func chatKeyboard(locale string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(i18n.T(locale, "next_btn")),
			tgbotapi.NewKeyboardButton(i18n.T(locale, "stop_btn")),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(i18n.T(locale, "block_btn")),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// languageKeyboard lists the supported languages one per row. prefix is the
// callback namespace, "set_lang" for /settings and "initial_set_lang" for
// onboarding.
func languageKeyboard(prefix string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(i18n.Supported))
	for _, code := range i18n.Supported {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.LanguageName(code), prefix+"_"+code),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// blockConfirmKeyboard asks for confirmation before a block-and-report. The
// partner ID is embedded in the callback data so the confirmation survives
// the chat ending in between.
func blockConfirmKeyboard(partner int64, locale string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚫 "+i18n.T(locale, "block_btn"), confirmBlockData(partner, locale)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(locale, "cancel_op_btn"), "cancel_block_"+locale),
		),
	)
}
