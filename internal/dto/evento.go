package dto

import (
	"fmt"

	"github.com/mmeshcher/entradas-client/internal/model"
)

// GuestDTO описывает приглашённого участника события.
type GuestDTO struct {
	ID          *int64 `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

// ToDomain преобразует GuestDTO в доменную модель.
// Приглашённый не является самостоятельной сущностью,
// поэтому отсутствующий идентификатор заменяется нулём.
func (d GuestDTO) ToDomain() model.Guest {
	return model.Guest{
		ID:          int64Value(d.ID),
		Name:        d.Nombre,
		Description: d.Descripcion,
	}
}

// EventDTO описывает событие в формате ответов бэкенда.
type EventDTO struct {
	ID           *int64     `json:"id"`
	Nombre       string     `json:"nombre"`
	Localizacion string     `json:"localizacion"`
	Invitados    []GuestDTO `json:"invitados"`
	Imagen       string     `json:"imagen"`
	InicioEvento string     `json:"inicioEvento"`
	FinEvento    string     `json:"finEvento"`
	Descripcion  string     `json:"descripcion"`
	Carrusel     []string   `json:"carrusel"`
	Precio       float64    `json:"precio"`
	Categoria    string     `json:"categoria"`
	AforoMax     int        `json:"aforoMax"`
	VendedorID   int64      `json:"vendedorId"`
}

// ToDomain преобразует EventDTO в доменную модель.
// Отсутствие идентификатора события является ошибкой данных.
func (d EventDTO) ToDomain() (*model.Event, error) {
	if d.ID == nil {
		return nil, fmt.Errorf("evento: %w", ErrMissingID)
	}

	guests := make([]model.Guest, 0, len(d.Invitados))
	for _, g := range d.Invitados {
		guests = append(guests, g.ToDomain())
	}

	carousel := d.Carrusel
	if carousel == nil {
		carousel = []string{}
	}

	return &model.Event{
		ID:          *d.ID,
		Name:        d.Nombre,
		Location:    d.Localizacion,
		Guests:      guests,
		Image:       d.Imagen,
		Starts:      parseDateTime(d.InicioEvento),
		Ends:        parseDateTime(d.FinEvento),
		Description: d.Descripcion,
		Carousel:    carousel,
		Price:       d.Precio,
		Category:    d.Categoria,
		MaxCapacity: d.AforoMax,
		SellerID:    d.VendedorID,
	}, nil
}

// EventsToDomain преобразует список EventDTO в доменные модели.
// Элементы без идентификатора пропускаются, чтобы одна битая запись
// не обрушила весь каталог.
func EventsToDomain(dtos []EventDTO) []model.Event {
	events := make([]model.Event, 0, len(dtos))
	for _, d := range dtos {
		ev, err := d.ToDomain()
		if err != nil {
			continue
		}
		events = append(events, *ev)
	}
	return events
}

// EventFromDomain собирает EventDTO для создания или обновления события.
// Карусель всегда сериализуется списком, null в исходящих данных не допускается.
func EventFromDomain(ev model.Event) EventDTO {
	guests := make([]GuestDTO, 0, len(ev.Guests))
	for _, g := range ev.Guests {
		id := g.ID
		guests = append(guests, GuestDTO{
			ID:          &id,
			Nombre:      g.Name,
			Descripcion: g.Description,
		})
	}

	carousel := ev.Carousel
	if carousel == nil {
		carousel = []string{}
	}

	id := ev.ID
	d := EventDTO{
		Nombre:       ev.Name,
		Localizacion: ev.Location,
		Invitados:    guests,
		Imagen:       ev.Image,
		InicioEvento: formatDateTime(ev.Starts),
		FinEvento:    formatDateTime(ev.Ends),
		Descripcion:  ev.Description,
		Carrusel:     carousel,
		Precio:       ev.Price,
		Categoria:    ev.Category,
		AforoMax:     ev.MaxCapacity,
		VendedorID:   ev.SellerID,
	}
	if ev.ID != 0 {
		d.ID = &id
	}
	return d
}
