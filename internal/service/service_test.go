package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mmeshcher/entradas-client/internal/dto"
	"github.com/mmeshcher/entradas-client/internal/model"
)

func ptrInt64(v int64) *int64 {
	return &v
}

type stubEvents struct {
	findAllResp []dto.EventDTO
	findAllErr  error

	findByIDResp *dto.EventDTO
	findByIDErr  error

	insertedEv *dto.EventDTO
	updatedID  int64
	updatedEv  *dto.EventDTO
}

func (s *stubEvents) FindAll(ctx context.Context) ([]dto.EventDTO, error) {
	return s.findAllResp, s.findAllErr
}

func (s *stubEvents) Search(ctx context.Context, nombre string) ([]dto.EventDTO, error) {
	return s.findAllResp, s.findAllErr
}

func (s *stubEvents) FindByID(ctx context.Context, id int64) (*dto.EventDTO, error) {
	return s.findByIDResp, s.findByIDErr
}

func (s *stubEvents) Insert(ctx context.Context, ev dto.EventDTO) (*dto.EventDTO, error) {
	captured := ev
	s.insertedEv = &captured
	ev.ID = ptrInt64(7)
	return &ev, nil
}

func (s *stubEvents) Update(ctx context.Context, id int64, ev dto.EventDTO) (*dto.EventDTO, error) {
	s.updatedID = id
	s.updatedEv = &ev
	return &ev, nil
}

func (s *stubEvents) Delete(ctx context.Context, id int64) error { return nil }

type stubUsers struct {
	loginResp *dto.LoginResponse
	loginErr  error
}

func (s *stubUsers) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubUsers) Register(ctx context.Context, u dto.UserDTO) (*dto.UserDTO, error) {
	u.ID = ptrInt64(100)
	return &u, nil
}

func (s *stubUsers) Report(ctx context.Context, email string) (*dto.ReportedUserDTO, error) {
	return &dto.ReportedUserDTO{Email: email, Reportado: true}, nil
}

type stubCart struct {
	cartResp *dto.CartDTO
	cartErr  error

	finalized bool

	emailReq  *dto.SendPDFEmailRequest
	emailResp *dto.MessageResponse
}

func (s *stubCart) Get(ctx context.Context, userID int64) (*dto.CartDTO, error) {
	return s.cartResp, s.cartErr
}

func (s *stubCart) AddItem(ctx context.Context, userID, eventID int64, cantidad int) (*dto.CartDTO, error) {
	return s.cartResp, s.cartErr
}

func (s *stubCart) RemoveItem(ctx context.Context, userID, itemID int64) (*dto.CartDTO, error) {
	return s.cartResp, s.cartErr
}

func (s *stubCart) Finalize(ctx context.Context, userID int64) error {
	s.finalized = true
	return nil
}

func (s *stubCart) SendPDFEmail(ctx context.Context, req dto.SendPDFEmailRequest) (*dto.MessageResponse, error) {
	s.emailReq = &req
	if s.emailResp != nil {
		return s.emailResp, nil
	}
	return &dto.MessageResponse{Mensaje: "enviado"}, nil
}

type stubTickets struct {
	ticketsResp []dto.TicketDTO
	ticketsErr  error

	validateResp bool
}

func (s *stubTickets) FindByUser(ctx context.Context, userID int64) ([]dto.TicketDTO, error) {
	return s.ticketsResp, s.ticketsErr
}

func (s *stubTickets) ValidateQR(ctx context.Context, code string) (bool, error) {
	return s.validateResp, nil
}

type stubSession struct {
	user *model.User

	savedToken string
	loggedOut  bool
}

func (s *stubSession) SetAuthenticated(token string, user *model.User) error {
	s.savedToken = token
	s.user = user
	return nil
}

func (s *stubSession) Logout() error {
	s.loggedOut = true
	s.user = nil
	return nil
}

func (s *stubSession) CurrentUser() *model.User { return s.user }

type stubRenderer struct {
	encoded   string
	saved     string
	renderErr error
}

func (s *stubRenderer) RenderTicket(ctx context.Context, t model.Ticket, ev model.Event) (string, error) {
	if s.renderErr != nil {
		return "", s.renderErr
	}
	return s.encoded, nil
}

func (s *stubRenderer) SaveLocal(dir, encoded string) (string, error) {
	s.saved = encoded
	return dir + "/ticket-test.pdf", nil
}

func newTestService(events EventsAPI, users UsersAPI, cart CartAPI, tickets TicketsAPI,
	session Session, render Renderer) *Service {
	return NewService(events, users, cart, tickets, session, render, "/tmp", nil)
}

func TestLogin_PersistsTokenAndUser(t *testing.T) {
	users := &stubUsers{
		loginResp: &dto.LoginResponse{
			Exito: true,
			Token: "T",
			Usuario: &dto.UserDTO{
				ID:    ptrInt64(1),
				Email: "a@b.com",
			},
		},
	}
	sess := &stubSession{}
	svc := newTestService(&stubEvents{}, users, &stubCart{}, &stubTickets{}, sess, &stubRenderer{})

	user, err := svc.Login(context.Background(), "a@b.com", "x")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if sess.savedToken != "T" {
		t.Fatalf("saved token = %q, want T", sess.savedToken)
	}
	if user.Email != "a@b.com" {
		t.Fatalf("user email = %q, want a@b.com", user.Email)
	}
	if got := svc.CurrentUser(); got == nil || got.Email != "a@b.com" {
		t.Fatalf("CurrentUser() = %+v, want restored user", got)
	}
}

func TestLogin_RejectedByBackend(t *testing.T) {
	users := &stubUsers{
		loginResp: &dto.LoginResponse{Exito: false, Mensaje: "credenciales incorrectas"},
	}
	sess := &stubSession{}
	svc := newTestService(&stubEvents{}, users, &stubCart{}, &stubTickets{}, sess, &stubRenderer{})

	_, err := svc.Login(context.Background(), "a@b.com", "bad")
	if !errors.Is(err, ErrLoginRejected) {
		t.Fatalf("expected ErrLoginRejected, got %v", err)
	}
	if sess.savedToken != "" {
		t.Fatalf("token must not be persisted on rejected login")
	}
}

func TestLogin_RejectedWhenTokenEmpty(t *testing.T) {
	users := &stubUsers{
		loginResp: &dto.LoginResponse{
			Exito:   true,
			Token:   "",
			Usuario: &dto.UserDTO{ID: ptrInt64(1), Email: "a@b.com"},
		},
	}
	sess := &stubSession{}
	svc := newTestService(&stubEvents{}, users, &stubCart{}, &stubTickets{}, sess, &stubRenderer{})

	_, err := svc.Login(context.Background(), "a@b.com", "x")
	if !errors.Is(err, ErrLoginRejected) {
		t.Fatalf("expected ErrLoginRejected for empty token, got %v", err)
	}
	if sess.savedToken != "" || sess.user != nil {
		t.Fatalf("session must stay untouched when no token was issued")
	}
}

func TestCreateEvent_ReturnsServerSnapshot(t *testing.T) {
	events := &stubEvents{}
	svc := newTestService(events, &stubUsers{}, &stubCart{}, &stubTickets{}, &stubSession{}, &stubRenderer{})

	created, err := svc.CreateEvent(context.Background(), model.Event{Name: "Feria", Price: 15.5})
	if err != nil {
		t.Fatalf("CreateEvent error: %v", err)
	}
	if created.ID != 7 {
		t.Fatalf("created.ID = %d, want server-assigned 7", created.ID)
	}
	if events.insertedEv == nil || events.insertedEv.Nombre != "Feria" {
		t.Fatalf("unexpected insert payload: %+v", events.insertedEv)
	}
	if events.insertedEv.ID != nil {
		t.Fatalf("new event must not carry an id, got %d", *events.insertedEv.ID)
	}
}

func TestUpdateEvent_TargetsEventID(t *testing.T) {
	events := &stubEvents{}
	svc := newTestService(events, &stubUsers{}, &stubCart{}, &stubTickets{}, &stubSession{}, &stubRenderer{})

	updated, err := svc.UpdateEvent(context.Background(), model.Event{ID: 7, Name: "Feria", Price: 20.0})
	if err != nil {
		t.Fatalf("UpdateEvent error: %v", err)
	}
	if events.updatedID != 7 {
		t.Fatalf("updated id = %d, want 7", events.updatedID)
	}
	if updated.Price != 20.0 || updated.Name != "Feria" {
		t.Fatalf("unexpected snapshot: %+v", updated)
	}
}

func TestRegister_RejectsInvalidCardNumber(t *testing.T) {
	svc := newTestService(&stubEvents{}, &stubUsers{}, &stubCart{}, &stubTickets{}, &stubSession{}, &stubRenderer{})

	u := model.User{
		Email: "a@b.com",
		Card:  &model.BankCard{Number: "79927398710"},
	}
	if _, err := svc.Register(context.Background(), u); err == nil {
		t.Fatalf("expected error for invalid card number")
	}
}

func TestAddToCart_RecomputesTotal(t *testing.T) {
	cart := &stubCart{
		cartResp: &dto.CartDTO{
			ID:     ptrInt64(3),
			Estado: "ACTIVO",
			Items: []dto.CartItemDTO{
				{ID: ptrInt64(1), Cantidad: 2, PrecioUnitario: 10.0, EventoID: 42},
			},
		},
	}
	sess := &stubSession{user: &model.User{ID: 1}}
	svc := newTestService(&stubEvents{}, &stubUsers{}, cart, &stubTickets{}, sess, &stubRenderer{})

	got, err := svc.AddToCart(context.Background(), 42, 2)
	if err != nil {
		t.Fatalf("AddToCart error: %v", err)
	}
	if got.Total() != 20.0 {
		t.Fatalf("Total() = %v, want 20.0", got.Total())
	}
}

func TestAddToCart_RequiresAuthentication(t *testing.T) {
	svc := newTestService(&stubEvents{}, &stubUsers{}, &stubCart{}, &stubTickets{}, &stubSession{}, &stubRenderer{})

	_, err := svc.AddToCart(context.Background(), 42, 1)
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestAddToCart_RejectsNonPositiveQuantity(t *testing.T) {
	sess := &stubSession{user: &model.User{ID: 1}}
	svc := newTestService(&stubEvents{}, &stubUsers{}, &stubCart{}, &stubTickets{}, sess, &stubRenderer{})

	if _, err := svc.AddToCart(context.Background(), 42, 0); err == nil {
		t.Fatalf("expected error for zero cantidad")
	}
}

func TestCheckout_FinalizesAndReloadsTickets(t *testing.T) {
	cart := &stubCart{}
	tickets := &stubTickets{
		ticketsResp: []dto.TicketDTO{
			{ID: ptrInt64(11), EventoID: 42, PrecioPagado: 10.0},
		},
	}
	sess := &stubSession{user: &model.User{ID: 1}}
	svc := newTestService(&stubEvents{}, &stubUsers{}, cart, tickets, sess, &stubRenderer{})

	got, err := svc.Checkout(context.Background())
	if err != nil {
		t.Fatalf("Checkout error: %v", err)
	}
	if !cart.finalized {
		t.Fatalf("Finalize was not called")
	}
	if len(got) != 1 || got[0].ID != 11 {
		t.Fatalf("unexpected tickets: %+v", got)
	}
}

func TestDownloadTicketPDF_UsesEventSnapshot(t *testing.T) {
	events := &stubEvents{
		findByIDResp: &dto.EventDTO{ID: ptrInt64(42), Nombre: "Feria"},
	}
	tickets := &stubTickets{
		ticketsResp: []dto.TicketDTO{{ID: ptrInt64(11), EventoID: 42}},
	}
	render := &stubRenderer{encoded: "JVBERi0="}
	sess := &stubSession{user: &model.User{ID: 1}}
	svc := newTestService(events, &stubUsers{}, &stubCart{}, tickets, sess, render)

	path, err := svc.DownloadTicketPDF(context.Background(), 11)
	if err != nil {
		t.Fatalf("DownloadTicketPDF error: %v", err)
	}
	if path == "" {
		t.Fatalf("expected a saved path")
	}
	if render.saved != "JVBERi0=" {
		t.Fatalf("saved payload = %q, want rendered document", render.saved)
	}
}

func TestDownloadTicketPDF_FallsBackWhenEventMissing(t *testing.T) {
	events := &stubEvents{findByIDErr: errors.New("404")}
	tickets := &stubTickets{
		ticketsResp: []dto.TicketDTO{
			{ID: ptrInt64(11), EventoID: 42, NombreEvento: "Feria borrada"},
		},
	}
	render := &stubRenderer{encoded: "JVBERi0="}
	sess := &stubSession{user: &model.User{ID: 1}}
	svc := newTestService(events, &stubUsers{}, &stubCart{}, tickets, sess, render)

	if _, err := svc.DownloadTicketPDF(context.Background(), 11); err != nil {
		t.Fatalf("DownloadTicketPDF error: %v", err)
	}
}

func TestDownloadTicketPDF_UnknownTicket(t *testing.T) {
	tickets := &stubTickets{}
	sess := &stubSession{user: &model.User{ID: 1}}
	svc := newTestService(&stubEvents{}, &stubUsers{}, &stubCart{}, tickets, sess, &stubRenderer{})

	if _, err := svc.DownloadTicketPDF(context.Background(), 999); err == nil {
		t.Fatalf("expected error for unknown ticket")
	}
}

func TestEmailTicketPDF_BuildsRequest(t *testing.T) {
	events := &stubEvents{
		findByIDResp: &dto.EventDTO{ID: ptrInt64(42), Nombre: "Feria"},
	}
	tickets := &stubTickets{
		ticketsResp: []dto.TicketDTO{
			{ID: ptrInt64(11), EventoID: 42, NombreEvento: "Feria"},
		},
	}
	cart := &stubCart{}
	render := &stubRenderer{encoded: "JVBERi0="}
	sess := &stubSession{user: &model.User{ID: 1}}
	svc := newTestService(events, &stubUsers{}, cart, tickets, sess, render)

	msg, err := svc.EmailTicketPDF(context.Background(), 11, "a@b.com")
	if err != nil {
		t.Fatalf("EmailTicketPDF error: %v", err)
	}
	if msg != "enviado" {
		t.Fatalf("mensaje = %q, want enviado", msg)
	}

	if cart.emailReq == nil {
		t.Fatalf("SendPDFEmail was not called")
	}
	if cart.emailReq.Email != "a@b.com" || cart.emailReq.TicketID != 11 {
		t.Fatalf("unexpected email request: %+v", cart.emailReq)
	}
	if cart.emailReq.PDFBase64 != "JVBERi0=" {
		t.Fatalf("email request must carry the rendered document")
	}
	if cart.emailReq.EventoNombre != "Feria" {
		t.Fatalf("eventoNombre = %q, want Feria", cart.emailReq.EventoNombre)
	}
}

func TestEvents_MapsAndSkipsBrokenRows(t *testing.T) {
	events := &stubEvents{
		findAllResp: []dto.EventDTO{
			{ID: ptrInt64(1), Nombre: "A"},
			{Nombre: "sin id"},
		},
	}
	svc := newTestService(events, &stubUsers{}, &stubCart{}, &stubTickets{}, &stubSession{}, &stubRenderer{})

	got, err := svc.Events(context.Background())
	if err != nil {
		t.Fatalf("Events error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("unexpected events: %+v", got)
	}
}

func TestLogout_DelegatesToSession(t *testing.T) {
	sess := &stubSession{user: &model.User{ID: 1}}
	svc := newTestService(&stubEvents{}, &stubUsers{}, &stubCart{}, &stubTickets{}, sess, &stubRenderer{})

	if err := svc.Logout(); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	if !sess.loggedOut {
		t.Fatalf("session Logout was not called")
	}
	if svc.CurrentUser() != nil {
		t.Fatalf("current user must be nil after logout")
	}
}
