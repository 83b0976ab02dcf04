package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/mmeshcher/entradas-client/internal/api"
	"github.com/mmeshcher/entradas-client/internal/dto"
	"github.com/mmeshcher/entradas-client/internal/model"
)

// ProfileAPI описывает часть клиента бэкенда, нужную для восстановления сессии.
type ProfileAPI interface {
	Profile(ctx context.Context) (*dto.UserDTO, error)
}

// Manager владеет состоянием сессии процесса: токеном, текущим пользователем
// и кэшированной фотографией профиля. Все зависимости внедряются извне,
// глобального состояния пакет не держит.
type Manager struct {
	store    Store
	profiles ProfileAPI

	mu      sync.RWMutex
	user    *model.User
	checked bool
}

// NewManager создаёт менеджер сессии поверх хранилища и клиента профиля.
func NewManager(store Store, profiles ProfileAPI) *Manager {
	return &Manager{
		store:    store,
		profiles: profiles,
	}
}

// Token возвращает сохранённый bearer-токен либо пустую строку.
// Метод реализует api.TokenSource.
func (m *Manager) Token() string {
	token, err := m.store.Token()
	if err != nil {
		return ""
	}
	return token
}

// AutoLogin восстанавливает сессию при старте приложения.
//
// Без сохранённого токена сессия остаётся неаутентифицированной. С токеном
// запрашивается профиль: успех делает сессию аутентифицированной, ответ 401
// стирает сессию, любой другой сбой оставляет токен на месте до следующей
// попытки. После первого вызова Checked возвращает true независимо от исхода.
func (m *Manager) AutoLogin(ctx context.Context) error {
	defer m.markChecked()

	token, err := m.store.Token()
	if err != nil {
		m.setUser(nil)
		return fmt.Errorf("read stored token: %w", err)
	}
	if token == "" {
		m.setUser(nil)
		return nil
	}

	profile, err := m.profiles.Profile(ctx)
	if err != nil {
		m.setUser(nil)
		if api.IsStatus(err, http.StatusUnauthorized) {
			if clearErr := m.store.Clear(); clearErr != nil {
				return fmt.Errorf("clear rejected session: %w", clearErr)
			}
			return nil
		}
		// временный сбой: токен остаётся до следующей попытки
		return fmt.Errorf("restore session: %w", err)
	}

	user, err := profile.ToDomain()
	if err != nil {
		m.setUser(nil)
		return fmt.Errorf("restore session: %w", err)
	}

	if user.Photo == "" {
		if photo, photoErr := m.store.Photo(); photoErr == nil {
			user.Photo = photo
		}
	} else {
		_ = m.store.SavePhoto(user.Photo)
	}

	m.setUser(user)
	return nil
}

// SetAuthenticated сохраняет токен и делает пользователя текущим после входа.
func (m *Manager) SetAuthenticated(token string, user *model.User) error {
	if err := m.store.SaveToken(token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if user != nil && user.Photo != "" {
		_ = m.store.SavePhoto(user.Photo)
	}

	m.mu.Lock()
	m.user = user
	m.checked = true
	m.mu.Unlock()

	return nil
}

// Logout стирает сессию: токен и фотографию из хранилища, текущего пользователя из памяти.
func (m *Manager) Logout() error {
	m.setUser(nil)
	if err := m.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// CurrentUser возвращает текущего пользователя либо nil.
func (m *Manager) CurrentUser() *model.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// Authenticated сообщает, аутентифицирована ли сессия.
func (m *Manager) Authenticated() bool {
	return m.CurrentUser() != nil
}

// Checked сообщает, завершилась ли стартовая проверка сессии.
func (m *Manager) Checked() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.checked
}

func (m *Manager) setUser(user *model.User) {
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
}

func (m *Manager) markChecked() {
	m.mu.Lock()
	m.checked = true
	m.mu.Unlock()
}
