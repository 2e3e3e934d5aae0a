package bot

// Reply keyboard button labels.
const (
	BtnLogin    = "🔐 Войти"
	BtnRegister = "📝 Регистрация"
	BtnMyCards  = "🎴 Мои карты"
	BtnProfile  = "👤 Профиль"
	BtnFind     = "🔎 Найти заведение"
	BtnLogout   = "🚪 Выйти"
)

// Callback data prefixes.
const (
	CallbackAddCard    = "addcard:"
	CallbackQR         = "qr:"
	CallbackOpenCard   = "card:open:"
	CallbackResendCode = "resend_code"
	CallbackWait       = "wait"
	CallbackNavPrefix  = "nav:"
)

const welcomeText = "Добро пожаловать в ForFriends! 👋\n" +
	"Используйте кнопки ниже для навигации."

const (
	msgLoginFirst     = "ℹ️ Сначала войдите."
	msgSessionExpired = "🔐 Сессия истекла. Войдите снова."
	msgBackendDown    = "❌ Сервис временно недоступен. Попробуйте позже."
)
