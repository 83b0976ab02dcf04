package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mmeshcher/entradas-client/internal/dto"
)

// TicketsAPI группирует операции ресурса /ticket.
type TicketsAPI struct {
	c *Client
}

// NewTicketsAPI создаёт клиент ресурса билетов.
func NewTicketsAPI(c *Client) *TicketsAPI {
	return &TicketsAPI{c: c}
}

// FindByUser возвращает билеты указанного пользователя.
func (a *TicketsAPI) FindByUser(ctx context.Context, userID int64) ([]dto.TicketDTO, error) {
	var out []dto.TicketDTO
	path := fmt.Sprintf("/ticket/findByUsuarioId/%d", userID)
	if err := a.c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidateQR проверяет код QR на стороне бэкенда.
func (a *TicketsAPI) ValidateQR(ctx context.Context, code string) (bool, error) {
	query := url.Values{"codigo": {code}}

	var out bool
	if err := a.c.do(ctx, http.MethodGet, "/ticket/validarQR", query, nil, &out); err != nil {
		return false, err
	}
	return out, nil
}
