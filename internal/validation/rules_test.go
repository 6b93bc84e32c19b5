package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordStrength(t *testing.T) {
	strict := PasswordStrength{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}

	tests := []struct {
		name     string
		rule     PasswordStrength
		password any
		errMsg   string
	}{
		{"valid", strict, "SecurePass123!", ""},
		{"symbols count as special", strict, "MyP@ssw0rd", ""},
		{"too short", strict, "Short1!", "at least 8 characters"},
		{"missing uppercase", strict, "securepass123!", "uppercase letter"},
		{"missing lowercase", strict, "SECUREPASS123!", "lowercase letter"},
		{"missing number", strict, "SecurePass!", "number"},
		{"missing special", strict, "SecurePass123", "special character"},
		{"not a string", strict, 12345678, "must be a string"},
		{"two digit minimum in message", PasswordStrength{MinLength: 12}, "short", "at least 12 characters"},
		{"length counts runes", PasswordStrength{MinLength: 4}, "ção!", ""},
		{"only length required", PasswordStrength{MinLength: 4}, "abcd", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate(tt.password)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestEmailValidation(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		shouldErr bool
	}{
		{
			name:      "valid email",
			email:     "user@example.com",
			shouldErr: false,
		},
		{
			name:      "valid email with subdomain",
			email:     "user@mail.example.com",
			shouldErr: false,
		},
		{
			name:      "valid email with plus",
			email:     "user+tag@example.com",
			shouldErr: false,
		},
		{
			name:      "valid email with dots",
			email:     "first.last@example.com",
			shouldErr: false,
		},
		{
			name:      "invalid - no @",
			email:     "userexample.com",
			shouldErr: true,
		},
		{
			name:      "invalid - no domain",
			email:     "user@",
			shouldErr: true,
		},
		{
			name:      "invalid - no local part",
			email:     "@example.com",
			shouldErr: true,
		},
		{
			name:      "invalid - no TLD",
			email:     "user@example",
			shouldErr: true,
		},
		{
			name:      "invalid - spaces",
			email:     "user @example.com",
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Email.Validate(tt.email)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNoWhitespace(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{
			name:      "no whitespace",
			input:     "validstring",
			shouldErr: false,
		},
		{
			name:      "leading whitespace",
			input:     " validstring",
			shouldErr: true,
		},
		{
			name:      "trailing whitespace",
			input:     "validstring ",
			shouldErr: true,
		},
		{
			name:      "both leading and trailing",
			input:     " validstring ",
			shouldErr: true,
		},
		{
			name:      "internal spaces allowed",
			input:     "valid string",
			shouldErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NoWhitespace.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotBlank(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{
			name:      "valid string",
			input:     "validstring",
			shouldErr: false,
		},
		{
			name:      "only spaces",
			input:     "   ",
			shouldErr: true,
		},
		{
			name:      "only tabs",
			input:     "\t\t",
			shouldErr: true,
		},
		{
			name:      "only newlines",
			input:     "\n\n",
			shouldErr: true,
		},
		{
			name:      "mixed whitespace",
			input:     " \t\n ",
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NotBlank.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWrapValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error returns nil",
			err:      nil,
			expected: false,
		},
		{
			name:     "wraps validation error",
			err:      assert.AnError,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WrapValidationError(tt.err)
			if tt.expected {
				assert.Error(t, result)
				assert.Contains(t, result.Error(), "invalid input")
			} else {
				assert.NoError(t, result)
			}
		})
	}
}

func TestBase64(t *testing.T) {
	assert.NoError(t, Base64.Validate(""))
	assert.NoError(t, Base64.Validate("d3JhcHBlZC1rZXk="))
	assert.Error(t, Base64.Validate("not base64!"))
	assert.Error(t, Base64.Validate(42))
}

func TestKeyEncoding(t *testing.T) {
	hexKey := strings.Repeat("0f", 32)

	assert.NoError(t, KeyEncoding.Validate(""))
	assert.NoError(t, KeyEncoding.Validate(hexKey))
	assert.NoError(t, KeyEncoding.Validate(strings.ToUpper(hexKey)))
	assert.NoError(t, KeyEncoding.Validate("AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8="))
	// 64 characters, not hex, valid base64 of 48 bytes
	assert.Error(t, KeyEncoding.Validate(strings.Repeat("zz", 32)))
	assert.Error(t, KeyEncoding.Validate("d3JhcHBlZC1rZXk="))
	assert.Error(t, KeyEncoding.Validate(strings.Repeat("zz!", 22)))
	assert.Error(t, KeyEncoding.Validate("not a key"))
}

func TestPhoneNumber(t *testing.T) {
	tests := []struct {
		name      string
		phone     string
		shouldErr bool
	}{
		{"international", "+44 20 7946 0000", false},
		{"plain digits", "12345", false},
		{"dashes and parentheses", "(555) 010-0199", false},
		{"dots", "555.010.0199", false},
		{"too few digits", "+1 23", true},
		{"letters", "555-CALL-NOW", true},
		{"plus in the middle", "55+5010", true},
		{"trailing separator", "555 0100-", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PhoneNumber.Validate(tt.phone)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
