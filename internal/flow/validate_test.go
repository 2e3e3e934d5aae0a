package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"+79991234567", true},
		{"  +79991234567  ", true},
		{"+7999123456", false},    // 9 digits
		{"+799912345678", false},  // 11 digits
		{"79991234567", false},    // missing +
		{"89991234567", false},    // 8 prefix
		{"+89991234567", false},   // wrong country code
		{"+7999123456a", false},   // letter
		{"+7 999 123 45 67", false}, // separators
		{"", false},
	}

	for _, tt := range tests {
		got, err := ValidatePhone(tt.input)
		if tt.valid {
			assert.NoError(t, err, "input %q", tt.input)
			assert.NotEmpty(t, got)
		} else {
			assert.Error(t, err, "input %q", tt.input)
		}
	}
}

func TestValidateBirthDate(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"15.06.1990", true},
		{"01.01.2000", true},
		{"29.02.2024", true},  // leap year
		{"29.02.2023", false}, // not a leap year
		{"31.02.2020", false}, // February has no 31st
		{"32.01.2020", false},
		{"00.01.2020", false},
		{"15.13.2020", false},
		{"15/06/1990", false},
		{"1990.06.15", false},
		{"15.6.1990", false}, // month not zero-padded
		{"", false},
	}

	for _, tt := range tests {
		_, err := ValidateBirthDate(tt.input)
		if tt.valid {
			assert.NoError(t, err, "input %q", tt.input)
		} else {
			assert.Error(t, err, "input %q", tt.input)
		}
	}
}

func TestValidateName(t *testing.T) {
	got, err := ValidateName("  Alice  ")
	assert.NoError(t, err)
	assert.Equal(t, "Alice", got)

	_, err = ValidateName("   ")
	assert.Error(t, err)
}
