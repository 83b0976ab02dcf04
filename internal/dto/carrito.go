package dto

import (
	"fmt"

	"github.com/mmeshcher/entradas-client/internal/model"
)

// CartItemDTO описывает позицию корзины в формате бэкенда.
type CartItemDTO struct {
	ID             *int64  `json:"id"`
	Cantidad       int     `json:"cantidad"`
	PrecioUnitario float64 `json:"precioUnitario"`
	EventoID       int64   `json:"eventoId"`
	NombreEvento   string  `json:"nombreEvento"`
	ImagenEvento   string  `json:"imagenEvento"`
}

// CartDTO описывает корзину пользователя в формате бэкенда.
type CartDTO struct {
	ID     *int64        `json:"id"`
	Estado string        `json:"estado"`
	Items  []CartItemDTO `json:"items"`
}

// ToDomain преобразует CartDTO в доменную модель.
// Позиции без идентификатора пропускаются; итоговая сумма корзины
// не переносится из ответа, а пересчитывается доменной моделью.
func (d CartDTO) ToDomain() (*model.Cart, error) {
	if d.ID == nil {
		return nil, fmt.Errorf("carrito: %w", ErrMissingID)
	}

	items := make([]model.CartItem, 0, len(d.Items))
	for _, it := range d.Items {
		if it.ID == nil {
			continue
		}
		items = append(items, model.CartItem{
			ID:         *it.ID,
			Quantity:   it.Cantidad,
			UnitPrice:  it.PrecioUnitario,
			EventID:    it.EventoID,
			EventName:  it.NombreEvento,
			EventImage: it.ImagenEvento,
		})
	}

	return &model.Cart{
		ID:    *d.ID,
		State: model.CartState(d.Estado),
		Items: items,
	}, nil
}

// AddItemRequest описывает тело запроса добавления позиции в корзину.
type AddItemRequest struct {
	Cantidad int `json:"cantidad"`
}

// SendPDFEmailRequest описывает тело запроса отправки билета на почту.
type SendPDFEmailRequest struct {
	Email        string `json:"email"`
	TicketID     int64  `json:"ticketId"`
	EventoNombre string `json:"eventoNombre"`
	PDFBase64    string `json:"pdfBase64"`
}

// MessageResponse описывает типовой ответ бэкенда с одним сообщением.
type MessageResponse struct {
	Mensaje string `json:"mensaje"`
}
