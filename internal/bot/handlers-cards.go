package bot

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"forfriends-bot/pkg/api"
	"forfriends-bot/pkg/qr"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// PUNCH CARDS AND QR ISSUING

const cardsPageLimit = 100

// progressBar renders stamp progress as filled/empty circles, clamped to
// the card's total.
func progressBar(current, total int) string {
	if total <= 0 {
		return "—"
	}
	if current < 0 {
		current = 0
	}
	if current > total {
		current = total
	}
	return strings.Repeat("🔘", current) +
		strings.Repeat("⚪", total-current) +
		fmt.Sprintf(" (%d/%d)", current, total)
}

// requireCustomer resolves the stored customer id, prompting for login
// when the chat is unauthenticated.
func (b *Bot) requireCustomer(ctx context.Context, chatID int64) (string, bool) {
	customerID, err := b.sessions.CustomerID(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to read session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	if customerID == "" {
		msg := tgbotapi.NewMessage(chatID, msgLoginFirst)
		msg.ReplyMarkup = b.createLoginInlineKeyboard()
		b.sendMessage(msg)
		return "", false
	}
	return customerID, true
}

// sendSessionExpired prompts for re-authentication. The stored session
// is intentionally left intact; see DESIGN.md.
func (b *Bot) sendSessionExpired(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, msgSessionExpired)
	msg.ReplyMarkup = b.createLoginInlineKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handleMyCards(ctx context.Context, chatID int64) {
	customerID, ok := b.requireCustomer(ctx, chatID)
	if !ok {
		return
	}

	status, payload := b.client.ListCards(ctx, chatID, customerID, cardsPageLimit, 0)
	switch {
	case status == http.StatusForbidden:
		b.sendSessionExpired(chatID)
		return
	case status == api.StatusTransportError:
		b.sendMessage(tgbotapi.NewMessage(chatID, msgBackendDown))
		return
	case status != http.StatusOK:
		b.sendError(chatID, fmt.Sprintf("Не удалось получить список карточек (status=%d).", status))
		return
	}

	items := api.UnwrapList(payload)
	if len(items) == 0 {
		b.sendMessage(tgbotapi.NewMessage(chatID, "📭 У вас пока нет карточек."))
		return
	}

	for _, item := range items {
		var card api.Card
		if err := api.Bind(item, &card); err != nil || card.ID == "" {
			continue
		}
		b.sendCardMessage(chatID, card)
	}
}

// sendCardMessage renders one card: a filled card advertises the reward
// with a redeem button, an unfilled one shows progress with a stamp
// button.
func (b *Bot) sendCardMessage(chatID int64, card api.Card) {
	bar := progressBar(card.CurrentStampCount, card.TotalStampCount)
	reward := card.RewardName
	if reward == "" {
		reward = "Награда"
	}

	var text string
	var kb tgbotapi.InlineKeyboardMarkup
	if card.Filled() {
		text = fmt.Sprintf("🏆 <b>%s</b>\nКарта: %s\nПрогресс: %s", reward, card.Name, bar)
		kb = b.createCardActionKeyboard("🎁 "+reward, qr.ActionRedeem, card.ID)
	} else {
		text = fmt.Sprintf("🎴 <b>%s</b>\nПрогресс: %s", card.Name, bar)
		kb = b.createCardActionKeyboard("📲 "+card.Name, qr.ActionStamp, card.ID)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	b.sendMessage(msg)
}

func (b *Bot) handleOpenCard(ctx context.Context, callback *tgbotapi.CallbackQuery, cardID string) {
	chatID := callback.Message.Chat.ID
	b.answerCallback(callback.ID, "")

	customerID, ok := b.requireCustomer(ctx, chatID)
	if !ok {
		return
	}

	status, payload := b.client.GetCard(ctx, chatID, customerID, cardID)
	switch {
	case status == http.StatusForbidden:
		b.sendSessionExpired(chatID)
		return
	case status != http.StatusOK:
		b.sendError(chatID, "Не удалось загрузить карточку.")
		return
	}

	var card api.Card
	if err := api.Bind(api.Unwrap(payload), &card); err != nil {
		b.sendError(chatID, "Не удалось загрузить карточку.")
		return
	}
	card.ID = cardID
	b.sendCardMessage(chatID, card)
}

func (b *Bot) handleAddCard(ctx context.Context, callback *tgbotapi.CallbackQuery, punchCardID string) {
	chatID := callback.Message.Chat.ID

	if punchCardID == "" {
		b.answerCallbackAlert(callback.ID, "Некорректные данные")
		return
	}

	customerID, ok := b.requireCustomer(ctx, chatID)
	if !ok {
		b.answerCallback(callback.ID, "")
		return
	}

	status, payload := b.client.AddCard(ctx, chatID, customerID, punchCardID)
	switch {
	case status == http.StatusForbidden:
		b.sendSessionExpired(chatID)
		b.answerCallback(callback.ID, "")
		return
	case status != http.StatusOK && status != http.StatusCreated && status != http.StatusNoContent:
		b.sendError(chatID, fmt.Sprintf("Не удалось добавить карточку (status=%d).", status))
		b.answerCallbackAlert(callback.ID, "Ошибка")
		return
	}

	var card api.Card
	_ = api.Bind(api.Unwrap(payload), &card)

	text := "✅ Карточка добавлена!"
	if card.Name != "" {
		text = fmt.Sprintf("✅ Карточка «<b>%s</b>» добавлена!", card.Name)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if card.ID != "" {
		msg.ReplyMarkup = b.createCardActionKeyboard("📲 Получить штамп", qr.ActionStamp, card.ID)
	}
	b.sendMessage(msg)
	b.answerCallback(callback.ID, "Добавлено")
}

// handleQR renders the stamp/redeem payload for a card as a QR photo.
func (b *Bot) handleQR(ctx context.Context, callback *tgbotapi.CallbackQuery, data string) {
	chatID := callback.Message.Chat.ID

	action, cardID, found := strings.Cut(data, ":")
	if !found || cardID == "" || (action != qr.ActionStamp && action != qr.ActionRedeem) {
		b.answerCallbackAlert(callback.ID, "Некорректные данные")
		return
	}

	customerID, ok := b.requireCustomer(ctx, chatID)
	if !ok {
		b.answerCallback(callback.ID, "")
		return
	}

	text := qr.BuildText(b.cfg.QRHost, customerID, cardID, action)
	png, err := qr.EncodePNG(text)
	if err != nil {
		b.logger.Error("Failed to encode QR",
			zap.Int64("chat_id", chatID),
			zap.String("payload", text),
			zap.Error(err))
		b.sendError(chatID, "Не удалось сформировать QR-код.")
		b.answerCallback(callback.ID, "")
		return
	}

	caption := "✅ Штамп начислен"
	if action == qr.ActionRedeem {
		caption = "🎁 Награда доступна"
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
		Name:  action + ".png",
		Bytes: png,
	})
	photo.Caption = caption
	if _, err := b.bot.Send(photo); err != nil {
		b.logger.Error("Failed to send QR photo",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	b.answerCallback(callback.ID, "")
}
