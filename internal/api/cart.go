package api

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/mmeshcher/entradas-client/internal/dto"
)

// CartAPI группирует операции ресурса /carrito.
//
// Одновременные добавления одной и той же позиции (частые нажатия степпера
// количества) схлопываются через singleflight: конкурентные вызовы с одним
// ключом (usuario, evento) разделяют один запрос и его результат.
type CartAPI struct {
	c      *Client
	flight singleflight.Group
}

// NewCartAPI создаёт клиент ресурса корзины.
func NewCartAPI(c *Client) *CartAPI {
	return &CartAPI{c: c}
}

// Get возвращает корзину указанного пользователя.
func (a *CartAPI) Get(ctx context.Context, userID int64) (*dto.CartDTO, error) {
	var out dto.CartDTO
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/carrito/%d", userID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddItem добавляет событие в корзину пользователя с указанным количеством
// и возвращает обновлённую корзину.
func (a *CartAPI) AddItem(ctx context.Context, userID, eventID int64, cantidad int) (*dto.CartDTO, error) {
	key := fmt.Sprintf("%d:%d", userID, eventID)

	v, err, _ := a.flight.Do(key, func() (any, error) {
		var out dto.CartDTO
		path := fmt.Sprintf("/carrito/item/%d/%d", userID, eventID)
		if err := a.c.do(ctx, http.MethodPost, path, nil, dto.AddItemRequest{Cantidad: cantidad}, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*dto.CartDTO), nil
}

// RemoveItem удаляет позицию из корзины и возвращает обновлённую корзину.
func (a *CartAPI) RemoveItem(ctx context.Context, userID, itemID int64) (*dto.CartDTO, error) {
	var out dto.CartDTO
	path := fmt.Sprintf("/carrito/itemEliminar/%d/%d", userID, itemID)
	if err := a.c.do(ctx, http.MethodDelete, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Finalize оформляет корзину. Билеты выпускаются на стороне бэкенда,
// успешный ответ не содержит тела.
func (a *CartAPI) Finalize(ctx context.Context, userID int64) error {
	return a.c.do(ctx, http.MethodPost, fmt.Sprintf("/carrito/finalizar/%d", userID), nil, nil, nil)
}

// SendPDFEmail отправляет закодированный PDF билета на указанную почту.
func (a *CartAPI) SendPDFEmail(ctx context.Context, req dto.SendPDFEmailRequest) (*dto.MessageResponse, error) {
	var out dto.MessageResponse
	if err := a.c.do(ctx, http.MethodPost, "/carrito/enviarPdfEmail", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
