// Package model содержит доменные сущности клиента entradas.
package model

import "time"

// Role описывает роль пользователя в системе.
type Role string

const (
	RoleClient Role = "CLIENTE"
	RoleSeller Role = "VENDEDOR"
	RoleAdmin  Role = "ADMIN"
)

// CartState описывает состояние корзины.
type CartState string

const (
	CartStateActive    CartState = "ACTIVO"
	CartStateFinalized CartState = "FINALIZADO"
)

// TicketState описывает состояние купленного билета.
type TicketState string

const (
	TicketStateValid     TicketState = "VALIDO"
	TicketStateUsed      TicketState = "USADO"
	TicketStateCancelled TicketState = "CANCELADO"
)

// User представляет пользователя приложения.
// Поле Password заполняется только при регистрации и входе,
// в ответах бэкенда оно обычно пустое.
type User struct {
	ID        int64
	Name      string
	Email     string
	Password  string
	BirthDate time.Time
	Role      Role
	Photo     string
	Card      *BankCard
	Reported  bool
	Cart      *Cart
	Tickets   []Ticket
}

// Guest представляет приглашённого участника события.
type Guest struct {
	ID          int64
	Name        string
	Description string
}

// Event представляет событие каталога. Снимок неизменяем на клиенте:
// правки уходят на бэкенд и перечитываются заново.
type Event struct {
	ID          int64
	Name        string
	Location    string
	Guests      []Guest
	Image       string
	Starts      time.Time
	Ends        time.Time
	Description string
	Carousel    []string
	Price       float64
	Category    string
	MaxCapacity int
	SellerID    int64
}

// CartItem представляет позицию корзины, ссылающуюся на событие.
type CartItem struct {
	ID         int64
	Quantity   int
	UnitPrice  float64
	EventID    int64
	EventName  string
	EventImage string
}

// Cart представляет корзину пользователя.
type Cart struct {
	ID    int64
	State CartState
	Items []CartItem
}

// Total возвращает сумму корзины, пересчитанную по текущему списку позиций.
// Значение никогда не кэшируется и не доверяется ответу бэкенда.
func (c *Cart) Total() float64 {
	if c == nil {
		return 0
	}
	var total float64
	for _, it := range c.Items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}

// Ticket представляет купленный билет. Создаётся только на стороне бэкенда,
// клиент его читает и отрисовывает.
type Ticket struct {
	ID          int64
	QRCode      string
	PurchasedAt time.Time
	PricePaid   float64
	State       TicketState
	UserID      int64
	EventID     int64
	EventName   string
	EventImage  string
	EventStarts time.Time
}
