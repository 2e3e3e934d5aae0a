package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BOT KEYBOARDS

func (b *Bot) createMainMenuAuthKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnMyCards),
			tgbotapi.NewKeyboardButton(BtnProfile),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnFind),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnLogout),
		),
	)
	kb.ResizeKeyboard = true
	kb.InputFieldPlaceholder = "Выберите действие"
	return kb
}

func (b *Bot) createMainMenuUnauthKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnLogin),
			tgbotapi.NewKeyboardButton(BtnRegister),
		),
	)
	kb.ResizeKeyboard = true
	kb.InputFieldPlaceholder = "Войдите или зарегистрируйтесь"
	return kb
}

func (b *Bot) createBackKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(backToken),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func (b *Bot) createLoginInlineKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnLogin, CallbackNavPrefix+"login"),
		),
	)
}

func (b *Bot) createFindInlineKeyboard() tgbotapi.InlineKeyboardMarkup {
	// Opens the bot's inline mode in the current chat.
	query := ""
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.InlineKeyboardButton{
				Text:                         BtnFind,
				SwitchInlineQueryCurrentChat: &query,
			},
		),
	)
}

// createResendKeyboard renders the resend-code button, disabled with a
// countdown label while the cooldown runs.
func (b *Bot) createResendKeyboard(remainingSeconds int) tgbotapi.InlineKeyboardMarkup {
	if remainingSeconds > 0 {
		label := fmt.Sprintf("🔄 Отправить код повторно (через %d:%02d)",
			remainingSeconds/60, remainingSeconds%60)
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, CallbackWait),
			),
		)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Отправить код повторно", CallbackResendCode),
		),
	)
}

func (b *Bot) createCardActionKeyboard(label, action, cardID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, CallbackQR+action+":"+cardID),
		),
	)
}
