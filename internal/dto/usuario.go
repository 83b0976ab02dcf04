package dto

import (
	"fmt"

	"github.com/mmeshcher/entradas-client/internal/model"
)

// BankCardDTO описывает банковскую карту в формате бэкенда.
// Реквизиты передаются открытым текстом, как того требует контракт.
type BankCardDTO struct {
	NombreTitular  string  `json:"nombreTitular"`
	NumeroTarjeta  string  `json:"numeroTarjeta"`
	FechaCaducidad string  `json:"fechaCaducidad"`
	CVV            string  `json:"cvv"`
	Saldo          float64 `json:"saldo"`
}

// ToDomain преобразует BankCardDTO в доменную модель.
func (d BankCardDTO) ToDomain() model.BankCard {
	return model.BankCard{
		Holder:  d.NombreTitular,
		Number:  d.NumeroTarjeta,
		Expiry:  parseDate(d.FechaCaducidad),
		CVV:     d.CVV,
		Balance: d.Saldo,
	}
}

// BankCardFromDomain собирает BankCardDTO для отправки на бэкенд.
// Преобразование обратимо: ToDomain(BankCardFromDomain(c)) == c.
func BankCardFromDomain(c model.BankCard) BankCardDTO {
	return BankCardDTO{
		NombreTitular:  c.Holder,
		NumeroTarjeta:  c.Number,
		FechaCaducidad: formatDate(c.Expiry),
		CVV:            c.CVV,
		Saldo:          c.Balance,
	}
}

// UserDTO описывает пользователя в формате ответов бэкенда.
// Пароль в ответах обычно пустой.
type UserDTO struct {
	ID              *int64       `json:"id"`
	Nombre          string       `json:"nombre"`
	Email           string       `json:"email"`
	Password        string       `json:"password"`
	FechaNacimiento string       `json:"fechaNacimiento"`
	Rol             string       `json:"rol"`
	Foto            string       `json:"foto"`
	Cuenta          *BankCardDTO `json:"cuenta"`
	Reportado       bool         `json:"reportado"`
	Carrito         *CartDTO     `json:"carrito"`
	Tickets         []TicketDTO  `json:"tickets"`
}

// ToDomain преобразует UserDTO в доменную модель.
// Отсутствие идентификатора пользователя является ошибкой данных;
// отсутствующие вложенные структуры остаются nil либо пустыми.
func (d UserDTO) ToDomain() (*model.User, error) {
	if d.ID == nil {
		return nil, fmt.Errorf("usuario: %w", ErrMissingID)
	}

	u := &model.User{
		ID:        *d.ID,
		Name:      d.Nombre,
		Email:     d.Email,
		Password:  d.Password,
		BirthDate: parseDate(d.FechaNacimiento),
		Role:      model.Role(d.Rol),
		Photo:     d.Foto,
		Reported:  d.Reportado,
		Tickets:   TicketsToDomain(d.Tickets),
	}

	if d.Cuenta != nil {
		card := d.Cuenta.ToDomain()
		u.Card = &card
	}
	if d.Carrito != nil {
		cart, err := d.Carrito.ToDomain()
		if err == nil {
			u.Cart = cart
		}
	}

	return u, nil
}

// UserFromDomain собирает UserDTO для регистрации или обновления профиля.
func UserFromDomain(u model.User) UserDTO {
	id := u.ID
	d := UserDTO{
		Nombre:          u.Name,
		Email:           u.Email,
		Password:        u.Password,
		FechaNacimiento: formatDate(u.BirthDate),
		Rol:             string(u.Role),
		Foto:            u.Photo,
		Reportado:       u.Reported,
	}
	if u.ID != 0 {
		d.ID = &id
	}
	if u.Card != nil {
		card := BankCardFromDomain(*u.Card)
		d.Cuenta = &card
	}
	return d
}

// LoginRequest описывает тело запроса входа.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse описывает ответ бэкенда на вход пользователя.
type LoginResponse struct {
	Exito   bool     `json:"exito"`
	Mensaje string   `json:"mensaje"`
	Token   string   `json:"token"`
	Usuario *UserDTO `json:"usuario"`
}

// ReportedUserDTO описывает запись о пожаловавшемся пользователе,
// возвращаемую административным эндпоинтом.
type ReportedUserDTO struct {
	ID        *int64 `json:"id"`
	Email     string `json:"email"`
	Reportado bool   `json:"reportado"`
}
