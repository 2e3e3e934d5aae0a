package flow

// Field names shared with the completion actions.
const (
	FieldName      = "name"
	FieldBirthDate = "birth_date"
	FieldPhone     = "phone"
	FieldPassword  = "password"
)

var registration = Definition{
	Kind: KindRegister,
	Fields: []Field{
		{
			Name:     FieldName,
			Prompt:   "Введите ваше имя:",
			Validate: ValidateName,
		},
		{
			Name:     FieldBirthDate,
			Prompt:   "Введите дату рождения (формат ДД.ММ.ГГГГ):",
			Validate: ValidateBirthDate,
		},
		{
			Name:     FieldPhone,
			Prompt:   "Введите номер телефона (формат +7XXXXXXXXXX):",
			Validate: ValidatePhone,
		},
		{
			Name:     FieldPassword,
			Prompt:   "Введите пароль 8 символов и более:",
			Validate: ValidatePassword,
		},
	},
}

var login = Definition{
	Kind: KindLogin,
	Fields: []Field{
		{
			Name:     FieldPhone,
			Prompt:   "Введите номер телефона (формат +7XXXXXXXXXX):",
			Validate: ValidatePhone,
		},
		{
			Name:     FieldPassword,
			Prompt:   "Введите пароль:",
			Validate: ValidatePassword,
		},
	},
}

// Registration is the four-step sign-up wizard.
func Registration() Definition { return registration }

// Login is the two-step sign-in wizard.
func Login() Definition { return login }

// ByKind resolves a persisted state's wizard definition.
func ByKind(kind Kind) (Definition, bool) {
	switch kind {
	case KindRegister:
		return registration, true
	case KindLogin:
		return login, true
	default:
		return Definition{}, false
	}
}
