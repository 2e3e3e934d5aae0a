package bot

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"forfriends-bot/pkg/api"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// BUSINESS SEARCH

const (
	searchLimit     = 10
	punchCardsLimit = 50
)

// handleFind offers the inline-mode search button.
func (b *Bot) handleFind(ctx context.Context, chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Нажмите кнопку ниже, чтобы начать поиск:")
	msg.ReplyMarkup = b.createFindInlineKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) processInlineQuery(ctx context.Context, query *tgbotapi.InlineQuery) {
	q := strings.TrimSpace(query.Query)
	if q == "" {
		b.answerInline(query.ID, nil)
		return
	}

	status, payload := b.client.SearchBusinesses(ctx, query.From.ID, q, searchLimit, 0)
	if status != http.StatusOK {
		b.logger.Warn("Business search failed",
			zap.Int64("user_id", query.From.ID),
			zap.Int("status", status))
		b.answerInline(query.ID, nil)
		return
	}

	var results []interface{}
	for _, item := range api.UnwrapList(payload) {
		var business api.Business
		if err := api.Bind(item, &business); err != nil || business.ID == "" {
			continue
		}
		name := business.Name
		if name == "" {
			name = "—"
		}
		article := tgbotapi.NewInlineQueryResultArticle(business.ID, name, "/biz_"+business.ID)
		article.Description = "Заведение"
		results = append(results, article)
	}

	b.answerInline(query.ID, results)
}

func (b *Bot) answerInline(queryID string, results []interface{}) {
	if results == nil {
		results = []interface{}{}
	}
	inline := tgbotapi.InlineConfig{
		InlineQueryID: queryID,
		Results:       results,
		CacheTime:     1,
		IsPersonal:    true,
	}
	if _, err := b.bot.Request(inline); err != nil {
		b.logger.Error("Failed to answer inline query", zap.Error(err))
	}
}

// processChosenInlineResult lists the chosen business's punch cards.
func (b *Bot) processChosenInlineResult(ctx context.Context, chosen *tgbotapi.ChosenInlineResult) {
	b.handleBusinessCards(ctx, chosen.From.ID, chosen.ResultID)
}

// handleBusinessCards lists a business's punch cards with add buttons.
// Also serves the /biz_{id} fallback messages produced by inline search.
func (b *Bot) handleBusinessCards(ctx context.Context, chatID int64, businessID string) {
	status, payload := b.client.ListPunchCards(ctx, chatID, businessID, punchCardsLimit, 0)
	switch {
	case status == http.StatusForbidden:
		b.sendSessionExpired(chatID)
		return
	case status == api.StatusTransportError:
		b.sendMessage(tgbotapi.NewMessage(chatID, msgBackendDown))
		return
	case status != http.StatusOK:
		b.sendError(chatID, fmt.Sprintf("Ошибка загрузки карточек (status=%d).", status))
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range api.UnwrapList(payload) {
		var card api.Card
		if err := api.Bind(item, &card); err != nil || card.TemplateID() == "" {
			continue
		}
		title := card.Name
		if title == "" {
			title = "—"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ "+title, CallbackAddCard+card.TemplateID()),
		))
	}

	if len(rows) == 0 {
		b.sendMessage(tgbotapi.NewMessage(chatID, "📭 У этого заведения пока нет карточек."))
		return
	}

	msg := tgbotapi.NewMessage(chatID, "🎴 Карточки заведения:\nВыберите, что добавить:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.sendMessage(msg)
}
