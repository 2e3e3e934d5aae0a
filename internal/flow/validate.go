package flow

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// BirthDateLayout is the strict zero-padded DD.MM.YYYY input format.
const BirthDateLayout = "02.01.2006"

var phonePattern = regexp.MustCompile(`^\+7\d{10}$`)

var (
	errEmptyName    = errors.New("имя не может быть пустым")
	errBadBirthDate = errors.New("неверный формат. Введите дату в виде ДД.ММ.ГГГГ")
	errBadPhone     = errors.New("неверный формат. Введите номер в виде +7XXXXXXXXXX")
)

func ValidateName(text string) (string, error) {
	name := strings.TrimSpace(text)
	if name == "" {
		return "", errEmptyName
	}
	return name, nil
}

// ValidateBirthDate accepts only real Gregorian calendar dates:
// time.Parse range-checks the day against the month, so 31.02.2020 and
// 29.02.2023 are rejected while 29.02.2024 passes.
func ValidateBirthDate(text string) (string, error) {
	date := strings.TrimSpace(text)
	if _, err := time.Parse(BirthDateLayout, date); err != nil {
		return "", errBadBirthDate
	}
	return date, nil
}

func ValidatePhone(text string) (string, error) {
	phone := strings.TrimSpace(text)
	if !phonePattern.MatchString(phone) {
		return "", errBadPhone
	}
	return phone, nil
}

// ValidatePassword collects the password as entered; no minimum is
// enforced beyond the prompt text.
func ValidatePassword(text string) (string, error) {
	return strings.TrimSpace(text), nil
}
