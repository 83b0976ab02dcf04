// Package service реализует сценарии клиента entradas поверх
// REST-клиента, сессии и рендерера билетов.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mmeshcher/entradas-client/internal/dto"
	"github.com/mmeshcher/entradas-client/internal/model"
)

// ErrNotAuthenticated возвращается операциями, требующими вошедшего пользователя.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrLoginRejected возвращается, когда бэкенд отклонил вход полем exito.
var ErrLoginRejected = errors.New("login rejected")

// EventsAPI описывает операции каталога событий.
type EventsAPI interface {
	FindAll(ctx context.Context) ([]dto.EventDTO, error)
	Search(ctx context.Context, nombre string) ([]dto.EventDTO, error)
	FindByID(ctx context.Context, id int64) (*dto.EventDTO, error)
	Insert(ctx context.Context, ev dto.EventDTO) (*dto.EventDTO, error)
	Update(ctx context.Context, id int64, ev dto.EventDTO) (*dto.EventDTO, error)
	Delete(ctx context.Context, id int64) error
}

// UsersAPI описывает операции ресурса пользователей.
type UsersAPI interface {
	Login(ctx context.Context, email, password string) (*dto.LoginResponse, error)
	Register(ctx context.Context, u dto.UserDTO) (*dto.UserDTO, error)
	Report(ctx context.Context, email string) (*dto.ReportedUserDTO, error)
}

// CartAPI описывает операции корзины.
type CartAPI interface {
	Get(ctx context.Context, userID int64) (*dto.CartDTO, error)
	AddItem(ctx context.Context, userID, eventID int64, cantidad int) (*dto.CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID int64) (*dto.CartDTO, error)
	Finalize(ctx context.Context, userID int64) error
	SendPDFEmail(ctx context.Context, req dto.SendPDFEmailRequest) (*dto.MessageResponse, error)
}

// TicketsAPI описывает операции ресурса билетов.
type TicketsAPI interface {
	FindByUser(ctx context.Context, userID int64) ([]dto.TicketDTO, error)
	ValidateQR(ctx context.Context, code string) (bool, error)
}

// Session описывает состояние сессии, используемое сценариями.
type Session interface {
	SetAuthenticated(token string, user *model.User) error
	Logout() error
	CurrentUser() *model.User
}

// Renderer описывает сборку PDF-документа билета.
type Renderer interface {
	RenderTicket(ctx context.Context, t model.Ticket, ev model.Event) (string, error)
	SaveLocal(dir, encoded string) (string, error)
}

// Service связывает REST-клиент, сессию и рендерер в пользовательские сценарии.
type Service struct {
	events  EventsAPI
	users   UsersAPI
	cart    CartAPI
	tickets TicketsAPI
	session Session
	render  Renderer

	downloadDir string
	logger      *zap.Logger
}

// NewService создаёт сервис с внедрёнными зависимостями.
func NewService(events EventsAPI, users UsersAPI, cart CartAPI, tickets TicketsAPI,
	session Session, render Renderer, downloadDir string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		events:      events,
		users:       users,
		cart:        cart,
		tickets:     tickets,
		session:     session,
		render:      render,
		downloadDir: downloadDir,
		logger:      logger,
	}
}

// Login выполняет вход, сохраняет токен и делает пользователя текущим.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, error) {
	resp, err := s.users.Login(ctx, email, password)
	if err != nil {
		s.logger.Error("login request error", zap.Error(err), zap.String("email", email))
		return nil, err
	}

	// ответ без токена бесполезен: сохранять нечего, сессия не восстановится
	if !resp.Exito || resp.Usuario == nil || resp.Token == "" {
		if resp.Mensaje != "" {
			return nil, fmt.Errorf("%w: %s", ErrLoginRejected, resp.Mensaje)
		}
		return nil, ErrLoginRejected
	}

	user, err := resp.Usuario.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("login response: %w", err)
	}

	if err := s.session.SetAuthenticated(resp.Token, user); err != nil {
		s.logger.Error("persist session error", zap.Error(err))
		return nil, err
	}

	return user, nil
}

// Register создаёт аккаунт и возвращает его серверный снимок.
// Сессия не меняется: после регистрации пользователь входит отдельно.
func (s *Service) Register(ctx context.Context, u model.User) (*model.User, error) {
	if u.Card != nil && !u.Card.ValidNumber() {
		return nil, errors.New("invalid card number")
	}

	resp, err := s.users.Register(ctx, dto.UserFromDomain(u))
	if err != nil {
		s.logger.Error("register request error", zap.Error(err), zap.String("email", u.Email))
		return nil, err
	}

	return resp.ToDomain()
}

// Logout завершает сессию текущего пользователя.
func (s *Service) Logout() error {
	return s.session.Logout()
}

// CurrentUser возвращает текущего пользователя либо nil.
func (s *Service) CurrentUser() *model.User {
	return s.session.CurrentUser()
}

// Events возвращает полный каталог событий.
func (s *Service) Events(ctx context.Context) ([]model.Event, error) {
	dtos, err := s.events.FindAll(ctx)
	if err != nil {
		s.logger.Error("load events error", zap.Error(err))
		return nil, err
	}
	return dto.EventsToDomain(dtos), nil
}

// SearchEvents возвращает события по строке поиска.
func (s *Service) SearchEvents(ctx context.Context, nombre string) ([]model.Event, error) {
	dtos, err := s.events.Search(ctx, nombre)
	if err != nil {
		s.logger.Error("search events error", zap.Error(err), zap.String("nombre", nombre))
		return nil, err
	}
	return dto.EventsToDomain(dtos), nil
}

// Event возвращает одно событие по идентификатору.
func (s *Service) Event(ctx context.Context, id int64) (*model.Event, error) {
	d, err := s.events.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("load event error", zap.Error(err), zap.Int64("eventID", id))
		return nil, err
	}
	return d.ToDomain()
}

// CreateEvent создаёт событие от имени продавца или администратора.
func (s *Service) CreateEvent(ctx context.Context, ev model.Event) (*model.Event, error) {
	d, err := s.events.Insert(ctx, dto.EventFromDomain(ev))
	if err != nil {
		s.logger.Error("create event error", zap.Error(err))
		return nil, err
	}
	return d.ToDomain()
}

// UpdateEvent обновляет событие и возвращает его свежий снимок.
func (s *Service) UpdateEvent(ctx context.Context, ev model.Event) (*model.Event, error) {
	d, err := s.events.Update(ctx, ev.ID, dto.EventFromDomain(ev))
	if err != nil {
		s.logger.Error("update event error", zap.Error(err), zap.Int64("eventID", ev.ID))
		return nil, err
	}
	return d.ToDomain()
}

// DeleteEvent удаляет событие.
func (s *Service) DeleteEvent(ctx context.Context, id int64) error {
	if err := s.events.Delete(ctx, id); err != nil {
		s.logger.Error("delete event error", zap.Error(err), zap.Int64("eventID", id))
		return err
	}
	return nil
}

// ReportUser отправляет жалобу на пользователя по его почте.
func (s *Service) ReportUser(ctx context.Context, email string) error {
	if _, err := s.users.Report(ctx, email); err != nil {
		s.logger.Error("report user error", zap.Error(err), zap.String("email", email))
		return err
	}
	return nil
}

// Cart возвращает корзину текущего пользователя.
func (s *Service) Cart(ctx context.Context) (*model.Cart, error) {
	user := s.session.CurrentUser()
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	d, err := s.cart.Get(ctx, user.ID)
	if err != nil {
		s.logger.Error("load cart error", zap.Error(err), zap.Int64("userID", user.ID))
		return nil, err
	}
	return d.ToDomain()
}

// AddToCart добавляет событие в корзину и возвращает обновлённую корзину.
// Итоговая сумма всегда пересчитывается по списку позиций.
func (s *Service) AddToCart(ctx context.Context, eventID int64, cantidad int) (*model.Cart, error) {
	user := s.session.CurrentUser()
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	if cantidad <= 0 {
		return nil, errors.New("cantidad must be positive")
	}

	d, err := s.cart.AddItem(ctx, user.ID, eventID, cantidad)
	if err != nil {
		s.logger.Error("add to cart error", zap.Error(err),
			zap.Int64("userID", user.ID), zap.Int64("eventID", eventID))
		return nil, err
	}
	return d.ToDomain()
}

// RemoveFromCart удаляет позицию из корзины и возвращает обновлённую корзину.
func (s *Service) RemoveFromCart(ctx context.Context, itemID int64) (*model.Cart, error) {
	user := s.session.CurrentUser()
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	d, err := s.cart.RemoveItem(ctx, user.ID, itemID)
	if err != nil {
		s.logger.Error("remove from cart error", zap.Error(err),
			zap.Int64("userID", user.ID), zap.Int64("itemID", itemID))
		return nil, err
	}
	return d.ToDomain()
}

// Checkout оформляет корзину и возвращает свежий список билетов,
// выпущенных бэкендом.
func (s *Service) Checkout(ctx context.Context) ([]model.Ticket, error) {
	user := s.session.CurrentUser()
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	if err := s.cart.Finalize(ctx, user.ID); err != nil {
		s.logger.Error("checkout error", zap.Error(err), zap.Int64("userID", user.ID))
		return nil, err
	}

	return s.Tickets(ctx)
}

// Tickets возвращает билеты текущего пользователя.
func (s *Service) Tickets(ctx context.Context) ([]model.Ticket, error) {
	user := s.session.CurrentUser()
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	dtos, err := s.tickets.FindByUser(ctx, user.ID)
	if err != nil {
		s.logger.Error("load tickets error", zap.Error(err), zap.Int64("userID", user.ID))
		return nil, err
	}
	return dto.TicketsToDomain(dtos), nil
}

// ValidateQR проверяет код QR на стороне бэкенда.
func (s *Service) ValidateQR(ctx context.Context, code string) (bool, error) {
	ok, err := s.tickets.ValidateQR(ctx, code)
	if err != nil {
		s.logger.Error("validate qr error", zap.Error(err))
		return false, err
	}
	return ok, nil
}

// DownloadTicketPDF собирает PDF билета и сохраняет его в каталог загрузок.
// Возвращает путь созданного файла.
func (s *Service) DownloadTicketPDF(ctx context.Context, ticketID int64) (string, error) {
	encoded, _, err := s.renderTicket(ctx, ticketID)
	if err != nil {
		return "", err
	}

	path, err := s.render.SaveLocal(s.downloadDir, encoded)
	if err != nil {
		s.logger.Error("save ticket pdf error", zap.Error(err), zap.Int64("ticketID", ticketID))
		return "", err
	}
	return path, nil
}

// EmailTicketPDF собирает PDF билета и отправляет его на указанную почту
// через эндпоинт бэкенда.
func (s *Service) EmailTicketPDF(ctx context.Context, ticketID int64, email string) (string, error) {
	encoded, ticket, err := s.renderTicket(ctx, ticketID)
	if err != nil {
		return "", err
	}

	resp, err := s.cart.SendPDFEmail(ctx, dto.SendPDFEmailRequest{
		Email:        email,
		TicketID:     ticket.ID,
		EventoNombre: ticket.EventName,
		PDFBase64:    encoded,
	})
	if err != nil {
		s.logger.Error("email ticket pdf error", zap.Error(err), zap.Int64("ticketID", ticketID))
		return "", err
	}
	return resp.Mensaje, nil
}

// renderTicket находит билет текущего пользователя, подтягивает его событие
// и собирает PDF-документ.
func (s *Service) renderTicket(ctx context.Context, ticketID int64) (string, *model.Ticket, error) {
	tickets, err := s.Tickets(ctx)
	if err != nil {
		return "", nil, err
	}

	var ticket *model.Ticket
	for i := range tickets {
		if tickets[i].ID == ticketID {
			ticket = &tickets[i]
			break
		}
	}
	if ticket == nil {
		return "", nil, fmt.Errorf("ticket %d not found", ticketID)
	}

	var event model.Event
	if ev, err := s.Event(ctx, ticket.EventID); err == nil {
		event = *ev
	} else {
		// событие могло быть удалено: билет отрисовывается по его собственным полям
		event = model.Event{
			ID:     ticket.EventID,
			Name:   ticket.EventName,
			Image:  ticket.EventImage,
			Starts: ticket.EventStarts,
		}
	}

	encoded, err := s.render.RenderTicket(ctx, *ticket, event)
	if err != nil {
		s.logger.Error("render ticket error", zap.Error(err), zap.Int64("ticketID", ticketID))
		return "", nil, err
	}

	return encoded, ticket, nil
}
