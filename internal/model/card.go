package model

import (
	"strings"
	"time"
	"unicode"
)

// BankCard представляет банковскую карту пользователя.
// Бэкенд передаёт реквизиты открытым текстом, клиент лишь
// проверяет номер перед отправкой.
type BankCard struct {
	Holder  string
	Number  string
	Expiry  time.Time
	CVV     string
	Balance float64
}

// ValidNumber проверяет номер карты по алгоритму Луна.
// Пробелы и дефисы в номере допускаются.
func (c *BankCard) ValidNumber() bool {
	if c == nil {
		return false
	}

	number := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, c.Number)

	if number == "" {
		return false
	}

	sum := 0
	double := false

	for i := len(number) - 1; i >= 0; i-- {
		ch := rune(number[i])
		if !unicode.IsDigit(ch) {
			return false
		}
		digit := int(ch - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}

	return sum%10 == 0
}

// Expired сообщает, истёк ли срок действия карты на указанный момент.
func (c *BankCard) Expired(now time.Time) bool {
	if c == nil || c.Expiry.IsZero() {
		return false
	}
	return c.Expiry.Before(now)
}
