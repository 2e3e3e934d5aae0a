package bot

import (
	"context"
	"fmt"
	"net/http"

	"forfriends-bot/pkg/api"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleProfile(ctx context.Context, chatID int64) {
	customerID, ok := b.requireCustomer(ctx, chatID)
	if !ok {
		return
	}

	status, payload := b.client.Profile(ctx, chatID, customerID)
	switch {
	case status == http.StatusForbidden:
		b.sendSessionExpired(chatID)
		return
	case status == api.StatusTransportError:
		b.sendMessage(tgbotapi.NewMessage(chatID, msgBackendDown))
		return
	case status != http.StatusOK:
		b.sendError(chatID, fmt.Sprintf("Ошибка профиля (status=%d):\n<code>%v</code>", status, payload))
		return
	}

	var customer api.Customer
	if err := api.Bind(api.Unwrap(payload), &customer); err != nil {
		b.sendError(chatID, "Не удалось загрузить профиль.")
		return
	}

	name, phone, lang := customer.Name, customer.Phone, customer.Language
	if name == "" {
		name = "—"
	}
	if phone == "" {
		phone = "—"
	}
	if lang == "" {
		lang = "—"
	}

	b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf("👤 <b>%s</b>\n📞 %s\n🌐 %s", name, phone, lang)))
}
