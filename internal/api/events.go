package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mmeshcher/entradas-client/internal/dto"
)

// EventsAPI группирует операции ресурса /evento.
type EventsAPI struct {
	c *Client
}

// NewEventsAPI создаёт клиент ресурса событий.
func NewEventsAPI(c *Client) *EventsAPI {
	return &EventsAPI{c: c}
}

// FindAll возвращает полный каталог событий.
func (a *EventsAPI) FindAll(ctx context.Context) ([]dto.EventDTO, error) {
	var out []dto.EventDTO
	if err := a.c.do(ctx, http.MethodGet, "/evento/findAll", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search возвращает события, имя которых содержит указанную строку.
func (a *EventsAPI) Search(ctx context.Context, nombre string) ([]dto.EventDTO, error) {
	query := url.Values{"nombre": {nombre}}

	var out []dto.EventDTO
	if err := a.c.do(ctx, http.MethodGet, "/evento/filterByBusqueda", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID возвращает одно событие по идентификатору.
func (a *EventsAPI) FindByID(ctx context.Context, id int64) (*dto.EventDTO, error) {
	query := url.Values{"id": {strconv.FormatInt(id, 10)}}

	var out dto.EventDTO
	if err := a.c.do(ctx, http.MethodGet, "/evento/findById", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Insert создаёт новое событие и возвращает его серверный снимок.
func (a *EventsAPI) Insert(ctx context.Context, ev dto.EventDTO) (*dto.EventDTO, error) {
	var out dto.EventDTO
	if err := a.c.do(ctx, http.MethodPost, "/evento/insert/mobile", nil, ev, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update обновляет событие и возвращает его серверный снимок.
func (a *EventsAPI) Update(ctx context.Context, id int64, ev dto.EventDTO) (*dto.EventDTO, error) {
	var out dto.EventDTO
	if err := a.c.do(ctx, http.MethodPut, fmt.Sprintf("/evento/updateMovil/%d", id), nil, ev, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete удаляет событие. Успешный ответ бэкенда не содержит тела.
func (a *EventsAPI) Delete(ctx context.Context, id int64) error {
	return a.c.do(ctx, http.MethodDelete, fmt.Sprintf("/evento/delete/%d", id), nil, nil, nil)
}
