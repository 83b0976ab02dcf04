package dto

import (
	"fmt"

	"github.com/mmeshcher/entradas-client/internal/model"
)

// TicketDTO описывает купленный билет в формате ответов бэкенда.
// Разные эндпоинты называют уплаченную цену то precioPagado, то precio.
type TicketDTO struct {
	ID           *int64  `json:"id"`
	CodigoQR     string  `json:"codigoQR"`
	FechaCompra  string  `json:"fechaCompra"`
	PrecioPagado float64 `json:"precioPagado"`
	Precio       float64 `json:"precio"`
	Estado       string  `json:"estado"`
	UsuarioID    int64   `json:"usuarioId"`
	EventoID     int64   `json:"eventoId"`
	NombreEvento string  `json:"nombreEvento"`
	EventoImagen string  `json:"eventoImagen"`
	EventoInicio string  `json:"eventoInicio"`
}

// ToDomain преобразует TicketDTO в доменную модель.
// Отсутствие идентификатора билета является ошибкой данных.
func (d TicketDTO) ToDomain() (*model.Ticket, error) {
	if d.ID == nil {
		return nil, fmt.Errorf("ticket: %w", ErrMissingID)
	}

	price := d.PrecioPagado
	if price == 0 {
		price = d.Precio
	}

	return &model.Ticket{
		ID:          *d.ID,
		QRCode:      d.CodigoQR,
		PurchasedAt: parseDateTime(d.FechaCompra),
		PricePaid:   price,
		State:       model.TicketState(d.Estado),
		UserID:      d.UsuarioID,
		EventID:     d.EventoID,
		EventName:   d.NombreEvento,
		EventImage:  d.EventoImagen,
		EventStarts: parseDateTime(d.EventoInicio),
	}, nil
}

// TicketsToDomain преобразует список TicketDTO в доменные модели,
// пропуская элементы без идентификатора.
func TicketsToDomain(dtos []TicketDTO) []model.Ticket {
	tickets := make([]model.Ticket, 0, len(dtos))
	for _, d := range dtos {
		t, err := d.ToDomain()
		if err != nil {
			continue
		}
		tickets = append(tickets, *t)
	}
	return tickets
}
