package bot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"forfriends-bot/internal/flow"
	"forfriends-bot/pkg/api"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// AUTH: REGISTRATION / LOGIN WIZARDS, CODE CONFIRMATION, LOGOUT

func (b *Bot) startFlow(ctx context.Context, chatID int64, def flow.Definition) {
	state, prompt := flow.Start(def)

	if err := b.state.Save(ctx, chatID, state); err != nil {
		b.logger.Error("Failed to save wizard state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Ошибка при обработке запроса")
		return
	}

	msg := tgbotapi.NewMessage(chatID, prompt)
	msg.ReplyMarkup = b.createBackKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handleFlowInput(ctx context.Context, chatID int64, state flow.State, text string) {
	def, ok := flow.ByKind(state.Kind)
	if !ok {
		b.clearFlow(ctx, chatID)
		b.handleDefault(ctx, chatID)
		return
	}

	next, res := flow.Submit(def, state, text)

	switch {
	case res.Cancelled:
		b.clearFlow(ctx, chatID)
		b.sendCancelled(chatID)

	case res.Invalid != nil:
		// Step unchanged; re-emit the same prompt with the reason.
		msg := tgbotapi.NewMessage(chatID, "❌ "+res.Invalid.Error()+"\n\n"+res.Prompt)
		msg.ReplyMarkup = b.createBackKeyboard()
		b.sendMessage(msg)

	case res.Done:
		b.clearFlow(ctx, chatID)
		switch state.Kind {
		case flow.KindRegister:
			b.completeRegistration(ctx, chatID, res.Collected)
		case flow.KindLogin:
			b.completeLogin(ctx, chatID, res.Collected)
		}

	default:
		if err := b.state.Save(ctx, chatID, next); err != nil {
			b.logger.Error("Failed to save wizard state",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
			b.sendError(chatID, "Ошибка при обработке запроса")
			return
		}
		msg := tgbotapi.NewMessage(chatID, res.Prompt)
		msg.ReplyMarkup = b.createBackKeyboard()
		b.sendMessage(msg)
	}
}

func (b *Bot) handleCancel(ctx context.Context, chatID int64) {
	b.sendCancelled(chatID)
}

func (b *Bot) sendCancelled(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "❌ Действие отменено.")
	msg.ReplyMarkup = b.createMainMenuUnauthKeyboard()
	b.sendMessage(msg)
}

// completeRegistration creates the customer, stores the returned id,
// triggers the verification call and then performs an explicit warm-up
// login with the same credentials so the session cookie jar is populated
// right after account creation. The warm-up outcome is logged, not
// surfaced to the user.
func (b *Bot) completeRegistration(ctx context.Context, chatID int64, values map[string]string) {
	birth, err := time.Parse(flow.BirthDateLayout, values[flow.FieldBirthDate])
	if err != nil {
		// The wizard validated this already.
		b.sendError(chatID, "Ошибка при обработке запроса")
		return
	}

	req := api.RegisterRequest{
		Name:      values[flow.FieldName],
		BirthDate: birth.Format("2006-01-02") + "T00:00:00Z",
		Phone:     values[flow.FieldPhone],
		Password:  values[flow.FieldPassword],
		Language:  b.cfg.RegisterLanguage,
		Timezone:  b.cfg.RegisterTimezone,
	}

	status, resp := b.client.Register(ctx, chatID, req)
	if status != http.StatusOK && status != http.StatusCreated {
		b.sendError(chatID, fmt.Sprintf("Ошибка регистрации (%d): <code>%v</code>", status, resp))
		return
	}

	var customer api.Customer
	if err := api.Bind(api.Unwrap(resp), &customer); err != nil || customer.ID == "" {
		b.logger.Error("Registration response without customer id",
			zap.Int64("chat_id", chatID),
			zap.Any("response", resp))
		b.sendMessage(tgbotapi.NewMessage(chatID, "⚠️ Регистрация выполнена, но ID не найден."))
		return
	}

	if err := b.sessions.SetCustomerID(ctx, chatID, customer.ID); err != nil {
		b.logger.Error("Failed to store customer id",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	scStatus, _ := b.client.SendCode(ctx, chatID, customer.ID)
	if scStatus == http.StatusOK || scStatus == http.StatusNoContent {
		text := "✅ Регистрация успешна!\n\n📞 Ответьте на звонок! Робот продиктует код.\n" +
			"Отправьте только 4 цифры из звонка."
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = b.createResendKeyboard(int(b.cfg.ResendCooldown.Seconds()))

		sent, err := b.bot.Send(msg)
		if err != nil {
			b.logger.Error("Failed to send confirmation prompt",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
		} else {
			if err := b.sessions.SetResendDeadline(ctx, chatID, b.cfg.ResendCooldown); err != nil {
				b.logger.Error("Failed to arm resend cooldown",
					zap.Int64("chat_id", chatID),
					zap.Error(err))
			}
			go b.runResendCountdown(chatID, sent.MessageID)
		}
	} else {
		b.logger.Warn("Verification code dispatch failed",
			zap.Int64("chat_id", chatID),
			zap.Int("status", scStatus))
		b.sendError(chatID, fmt.Sprintf("Не удалось отправить код подтверждения (status=%d).", scStatus))
	}

	loginStatus, _ := b.client.Login(ctx, chatID, api.LoginRequest{
		Phone:    req.Phone,
		Password: req.Password,
	})
	if loginStatus != http.StatusOK {
		b.logger.Warn("Post-registration warm-up login failed",
			zap.Int64("chat_id", chatID),
			zap.Int("status", loginStatus))
	}
}

func (b *Bot) completeLogin(ctx context.Context, chatID int64, values map[string]string) {
	status, resp := b.client.Login(ctx, chatID, api.LoginRequest{
		Phone:    values[flow.FieldPhone],
		Password: values[flow.FieldPassword],
	})
	if status != http.StatusOK {
		b.sendError(chatID, fmt.Sprintf("Ошибка входа (%d): <code>%v</code>", status, resp))
		return
	}

	var customer api.Customer
	if err := api.Bind(api.Unwrap(resp), &customer); err != nil || customer.ID == "" {
		b.sendMessage(tgbotapi.NewMessage(chatID, "⚠️ Вход выполнен, но ID не найден."))
		return
	}

	if err := b.sessions.SetCustomerID(ctx, chatID, customer.ID); err != nil {
		b.logger.Error("Failed to store customer id",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	name := customer.Name
	if name == "" {
		name = "—"
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Вход успешен. Добро пожаловать, <b>%s</b>!", name))
	msg.ReplyMarkup = b.createMainMenuAuthKeyboard()
	b.sendMessage(msg)
}

// handleConfirmCode forwards a bare 4-digit message as a verification
// code. Purely informational: nothing is cleared on either outcome.
func (b *Bot) handleConfirmCode(ctx context.Context, chatID int64, code string) {
	customerID, err := b.sessions.CustomerID(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to read session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	if customerID == "" {
		b.sendError(chatID, "Сначала войдите или зарегистрируйтесь.")
		return
	}

	status, resp := b.client.ConfirmCode(ctx, chatID, customerID, code)
	if status == http.StatusOK {
		msg := tgbotapi.NewMessage(chatID, "✅ Телефон подтверждён!")
		msg.ReplyMarkup = b.createMainMenuAuthKeyboard()
		b.sendMessage(msg)
		return
	}
	b.sendError(chatID, fmt.Sprintf("Ошибка подтверждения (%d): <code>%v</code>", status, resp))
}

func (b *Bot) handleResendCode(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID

	customerID, err := b.sessions.CustomerID(ctx, chatID)
	if err != nil || customerID == "" {
		b.answerCallbackAlert(callback.ID, "Сначала /register или /login")
		return
	}

	remaining, err := b.sessions.ResendRemaining(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to read resend cooldown",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	if remaining > 0 {
		b.answerCallback(callback.ID, fmt.Sprintf("Подождите ещё %d сек.", int(remaining.Seconds())))
		return
	}

	status, _ := b.client.SendCode(ctx, chatID, customerID)
	if status == http.StatusOK || status == http.StatusNoContent {
		if err := b.sessions.SetResendDeadline(ctx, chatID, b.cfg.ResendCooldown); err != nil {
			b.logger.Error("Failed to arm resend cooldown",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
		}
		b.sendMessage(tgbotapi.NewMessage(chatID, "📨 Новый звонок отправлен. Ответьте на звонок и введите 4 цифры."))
		b.answerCallback(callback.ID, "Код отправлен")
		return
	}

	b.sendError(chatID, "Ошибка при повторной отправке кода.")
	b.answerCallbackAlert(callback.ID, "Ошибка")
}

// runResendCountdown ticks the resend button label down in 10-second
// steps and then activates it. Runs detached from the update that
// started it.
func (b *Bot) runResendCountdown(chatID int64, messageID int) {
	edit := func(remainingSeconds int) error {
		msg := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, b.createResendKeyboard(remainingSeconds))
		if _, err := b.bot.Request(msg); err != nil {
			b.logger.Debug("Failed to update resend button",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
			return err
		}
		return nil
	}

	tickResendCountdown(b.cfg.ResendCooldown, time.Sleep, edit)
}

// tickResendCountdown drives the countdown edits. A failed tick stops
// the label updates, but the final activating edit is still attempted so
// the button never stays stuck on the wait label.
func tickResendCountdown(total time.Duration, sleep func(time.Duration), edit func(remainingSeconds int) error) {
	for remaining := int(total.Seconds()) - 10; remaining > 0; remaining -= 10 {
		sleep(10 * time.Second)
		if err := edit(remaining); err != nil {
			break
		}
	}

	sleep(10 * time.Second)
	_ = edit(0)
}

// handleLogout flushes server-side session cookies and clears the local
// session. A transport failure is soft: local state is cleared anyway.
func (b *Bot) handleLogout(ctx context.Context, chatID int64) {
	status, body := b.client.FlushCookies(ctx)

	if err := b.sessions.ClearCustomer(ctx, chatID); err != nil {
		b.logger.Error("Failed to clear session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	msg := tgbotapi.NewMessage(chatID, "🔒 Вы вышли из аккаунта.")
	if status != http.StatusOK && status != http.StatusNoContent {
		msg = tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"🔒 Сессия локально очищена. Сервер ответил (status=%d): <code>%s</code>", status, body))
	}
	msg.ReplyMarkup = b.createMainMenuUnauthKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) answerCallbackAlert(callbackID, text string) {
	alert := tgbotapi.NewCallbackWithAlert(callbackID, text)
	if _, err := b.bot.Request(alert); err != nil {
		b.logger.Error("Failed to answer callback", zap.Error(err))
	}
}
