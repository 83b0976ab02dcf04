package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mmeshcher/entradas-client/internal/dto"
)

// UsersAPI группирует операции ресурса /usuario.
type UsersAPI struct {
	c *Client
}

// NewUsersAPI создаёт клиент ресурса пользователей.
func NewUsersAPI(c *Client) *UsersAPI {
	return &UsersAPI{c: c}
}

// Login выполняет вход по почте и паролю.
// Неуспех входа бэкенд сообщает полем exito, а не HTTP-статусом.
func (a *UsersAPI) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	req := dto.LoginRequest{Email: email, Password: password}

	var out dto.LoginResponse
	if err := a.c.do(ctx, http.MethodPost, "/usuario/login", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register регистрирует нового пользователя.
func (a *UsersAPI) Register(ctx context.Context, u dto.UserDTO) (*dto.UserDTO, error) {
	var out dto.UserDTO
	if err := a.c.do(ctx, http.MethodPost, "/usuario/register", nil, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile возвращает профиль текущего пользователя.
// Эндпоинт требует bearer-токен; без него бэкенд отвечает 401.
func (a *UsersAPI) Profile(ctx context.Context) (*dto.UserDTO, error) {
	var out dto.UserDTO
	if err := a.c.do(ctx, http.MethodGet, "/usuario/perfil", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Report отправляет жалобу на пользователя с указанной почтой.
func (a *UsersAPI) Report(ctx context.Context, email string) (*dto.ReportedUserDTO, error) {
	query := url.Values{"email": {email}}

	var out dto.ReportedUserDTO
	if err := a.c.do(ctx, http.MethodPut, "/usuario/reportar", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
