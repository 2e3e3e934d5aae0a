package bot

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"forfriends-bot/internal/config"
	"forfriends-bot/internal/flow"
	"forfriends-bot/internal/session"
	"forfriends-bot/pkg/api"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const backToken = flow.BackToken

var codePattern = regexp.MustCompile(`^\d{4}$`)

type Bot struct {
	bot      *tgbotapi.BotAPI
	client   *api.Client
	sessions *session.Store
	state    *StateStorage
	cfg      *config.Config
	logger   *zap.Logger
	locks    *chatLocks
}

func New(
	cfg *config.Config,
	client *api.Client,
	sessions *session.Store,
	state *StateStorage,
	logger *zap.Logger,
) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	return &Bot{
		bot:      botAPI,
		client:   client,
		sessions: sessions,
		state:    state,
		cfg:      cfg,
		logger:   logger,
		locks:    newChatLocks(),
	}, nil
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			b.bot.StopReceivingUpdates()
			return nil

		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate dispatches one update under the owning chat's lock, so at
// most one state mutation per chat is in flight at a time.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	chatID, ok := updateChatID(update)
	if !ok {
		return
	}

	b.locks.Lock(chatID)
	defer b.locks.Unlock(chatID)

	switch {
	case update.Message != nil:
		b.processMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.processCallback(ctx, update.CallbackQuery)
	case update.InlineQuery != nil:
		b.processInlineQuery(ctx, update.InlineQuery)
	case update.ChosenInlineResult != nil:
		b.processChosenInlineResult(ctx, update.ChosenInlineResult)
	}
}

// updateChatID resolves the session key for any update kind. Inline
// queries have no chat, so the sender's user id is used there, matching
// the key the private chat with the bot uses.
func updateChatID(update tgbotapi.Update) (int64, bool) {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.Message.Chat.ID, true
	case update.InlineQuery != nil:
		return update.InlineQuery.From.ID, true
	case update.ChosenInlineResult != nil:
		return update.ChosenInlineResult.From.ID, true
	default:
		return 0, false
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	if msg.IsCommand() {
		b.handleCommand(ctx, chatID, msg.Command())
		return
	}

	// Inline search inserts "/biz_{id}" messages; some clients don't mark
	// them as command entities.
	if strings.HasPrefix(msg.Text, "/biz_") {
		b.clearFlow(ctx, chatID)
		b.handleBusinessCards(ctx, chatID, strings.TrimPrefix(msg.Text, "/biz_"))
		return
	}

	// Menu buttons interrupt any wizard in progress.
	switch msg.Text {
	case BtnLogin:
		b.clearFlow(ctx, chatID)
		b.startFlow(ctx, chatID, flow.Login())
		return
	case BtnRegister:
		b.clearFlow(ctx, chatID)
		b.startFlow(ctx, chatID, flow.Registration())
		return
	case BtnMyCards:
		b.clearFlow(ctx, chatID)
		b.handleMyCards(ctx, chatID)
		return
	case BtnProfile:
		b.clearFlow(ctx, chatID)
		b.handleProfile(ctx, chatID)
		return
	case BtnFind:
		b.clearFlow(ctx, chatID)
		b.handleFind(ctx, chatID)
		return
	case BtnLogout:
		b.clearFlow(ctx, chatID)
		b.handleLogout(ctx, chatID)
		return
	}

	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get wizard state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Ошибка при обработке запроса")
		return
	}

	if state.Active() {
		b.handleFlowInput(ctx, chatID, state, msg.Text)
		return
	}

	if codePattern.MatchString(strings.TrimSpace(msg.Text)) {
		b.handleConfirmCode(ctx, chatID, strings.TrimSpace(msg.Text))
		return
	}

	b.handleDefault(ctx, chatID)
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, command string) {
	// Any command invoked mid-wizard abandons the wizard.
	b.clearFlow(ctx, chatID)

	switch {
	case command == "start":
		b.handleStart(ctx, chatID)
	case command == "register":
		b.startFlow(ctx, chatID, flow.Registration())
	case command == "login":
		b.startFlow(ctx, chatID, flow.Login())
	case command == "cancel":
		b.handleCancel(ctx, chatID)
	case command == "logout":
		b.handleLogout(ctx, chatID)
	case command == "me":
		b.handleProfile(ctx, chatID)
	case command == "mycards":
		b.handleMyCards(ctx, chatID)
	case command == "find":
		b.handleFind(ctx, chatID)
	case command == "help":
		b.handleHelp(ctx, chatID)
	case strings.HasPrefix(command, "biz_"):
		b.handleBusinessCards(ctx, chatID, strings.TrimPrefix(command, "biz_"))
	default:
		b.handleUnknownCommand(ctx, chatID)
	}
}

func (b *Bot) processCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	data := callback.Data

	b.logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", data))

	switch {
	case strings.HasPrefix(data, CallbackAddCard):
		b.handleAddCard(ctx, callback, strings.TrimPrefix(data, CallbackAddCard))
	case strings.HasPrefix(data, CallbackQR):
		b.handleQR(ctx, callback, strings.TrimPrefix(data, CallbackQR))
	case strings.HasPrefix(data, CallbackOpenCard):
		b.handleOpenCard(ctx, callback, strings.TrimPrefix(data, CallbackOpenCard))
	case data == CallbackResendCode:
		b.handleResendCode(ctx, callback)
	case data == CallbackWait:
		b.answerCallback(callback.ID, "Подождите окончания таймера")
	case strings.HasPrefix(data, CallbackNavPrefix):
		b.handleNav(ctx, callback, strings.TrimPrefix(data, CallbackNavPrefix))
	default:
		b.answerCallback(callback.ID, "")
	}
}

func (b *Bot) handleNav(ctx context.Context, callback *tgbotapi.CallbackQuery, target string) {
	chatID := callback.Message.Chat.ID
	b.answerCallback(callback.ID, "")

	switch target {
	case "cards":
		b.handleMyCards(ctx, chatID)
	case "profile":
		b.handleProfile(ctx, chatID)
	case "login":
		b.clearFlow(ctx, chatID)
		b.startFlow(ctx, chatID, flow.Login())
	case "menu":
		b.handleStart(ctx, chatID)
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	customerID, err := b.sessions.CustomerID(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to read session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	msg := tgbotapi.NewMessage(chatID, welcomeText)
	if customerID != "" {
		msg.ReplyMarkup = b.createMainMenuAuthKeyboard()
	} else {
		msg.ReplyMarkup = b.createMainMenuUnauthKeyboard()
	}
	b.sendMessage(msg)
}

func (b *Bot) handleHelp(ctx context.Context, chatID int64) {
	helpText := `Доступные команды:
	/start - Главное меню
	/register - Регистрация
	/login - Вход по номеру телефона
	/mycards - Мои карты
	/find - Найти заведение
	/me - Профиль
	/logout - Выйти
	/cancel - Отменить текущее действие`

	b.sendMessage(tgbotapi.NewMessage(chatID, helpText))
}

func (b *Bot) handleDefault(ctx context.Context, chatID int64) {
	b.sendError(chatID, "Я не понимаю эту команду. Пожалуйста, используйте меню.")
}

func (b *Bot) handleUnknownCommand(ctx context.Context, chatID int64) {
	b.sendError(chatID, "Неизвестная команда. Пожалуйста, используйте /start для начала работы.")
}

func (b *Bot) clearFlow(ctx context.Context, chatID int64) {
	if err := b.state.Clear(ctx, chatID); err != nil {
		b.logger.Error("Failed to clear wizard state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if msg.ParseMode == "" {
		msg.ParseMode = tgbotapi.ModeHTML
	}
	if _, err := b.bot.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.String("text", msg.Text),
			zap.Error(err))
	}
}

func (b *Bot) sendError(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, "❌ "+text))
}

func (b *Bot) answerCallback(callbackID, text string) {
	if _, err := b.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.logger.Error("Failed to answer callback", zap.Error(err))
	}
}
