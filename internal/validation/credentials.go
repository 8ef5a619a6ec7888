package validation

import (
	"fmt"
	"net/mail"
	"strings"
)

const (
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
	// MaxEmailLen максимальная длина email (RFC 5321)
	MaxEmailLen = 254
)

// ValidateEmail проверяет, что email является одиночным адресом без имени
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return fmt.Errorf("invalid email address %q", email)
	}

	// mail.ParseAddress принимает адреса без домена верхнего уровня, например a@b
	domain := email[strings.LastIndex(email, "@")+1:]
	if !strings.Contains(domain, ".") {
		return fmt.Errorf("email domain %q must contain a dot", domain)
	}

	return nil
}

// ValidatePassword проверяет требования к паролю
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	if strings.TrimSpace(password) != password {
		return fmt.Errorf("password must not start or end with whitespace")
	}

	return nil
}

// NormalizeEmail приводит email к виду, в котором он хранится
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
