// Package dto содержит транспортные структуры, зеркалящие JSON-формат
// бэкенда системы билетов, и чистые функции их преобразования в доменные
// модели. Отсутствующие необязательные поля заполняются безопасными
// значениями по умолчанию; отсутствие идентификатора сущности считается
// ошибкой данных.
package dto

import (
	"errors"
	"time"
)

// ErrMissingID возвращается, когда в ответе бэкенда нет идентификатора сущности.
var ErrMissingID = errors.New("missing id in payload")

// Бэкенд отдаёт даты строками в нескольких вариантах ISO-формата.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

const dateLayout = "2006-01-02"

// parseDateTime разбирает строку даты-времени терпимо к вариантам формата.
// Пустая или нераспознанная строка даёт нулевое время.
func parseDateTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t
	}
	return parseDateTime(s)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func int64Value(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
