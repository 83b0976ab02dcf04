// Package api реализует типизированный REST-клиент бэкенда системы билетов.
// Клиент не выполняет повторов и не кэширует ответы: каждый вызов —
// отдельный запрос, решение о повторе принимает вызывающая сторона.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrConnection маркирует сетевые сбои: нет связи, таймаут, обрыв чтения.
var ErrConnection = errors.New("connection error")

// TokenSource выдаёт текущий bearer-токен сессии.
// Пустая строка означает отсутствие аутентификации.
type TokenSource interface {
	Token() string
}

// TokenFunc адаптирует функцию к интерфейсу TokenSource.
type TokenFunc func() string

// Token возвращает результат вызова функции.
func (f TokenFunc) Token() string { return f() }

// StatusError описывает ответ бэкенда с неуспешным HTTP-статусом.
type StatusError struct {
	Code    int
	Message string
	Body    []byte
}

// Error возвращает текстовое представление ошибки статуса.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("status %d", e.Code)
}

// IsStatus сообщает, является ли err ошибкой ответа с указанным HTTP-статусом.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// Client инкапсулирует HTTP-взаимодействие с бэкендом системы билетов.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient создаёт HTTP-клиент бэкенда по указанному базовому адресу.
// Токен из tokens добавляется заголовком Authorization ко всем запросам,
// пока он непустой.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	base := strings.TrimRight(baseURL, "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tokens: tokens,
	}
}

// do выполняет запрос и декодирует JSON-ответ в out, если out не nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c == nil || c.baseURL == "" {
		return fmt.Errorf("api client not configured")
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrConnection, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrConnection, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{
			Code:    resp.StatusCode,
			Message: backendMessage(data),
			Body:    data,
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// backendMessage извлекает текст ошибки из тела ответа, если он там есть.
func backendMessage(body []byte) string {
	var payload struct {
		Mensaje string `json:"mensaje"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	switch {
	case payload.Mensaje != "":
		return payload.Mensaje
	case payload.Message != "":
		return payload.Message
	default:
		return payload.Error
	}
}
