// Package session содержит локальное хранилище сессии и менеджер
// её восстановления при старте приложения.
package session

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Ключи хранилища фиксированы контрактом клиента.
const (
	tokenKey = "user_token"
	photoKey = "user_photo"
)

// Store описывает хранилище данных сессии.
// Отсутствующее значение возвращается пустой строкой без ошибки.
type Store interface {
	SaveToken(token string) error
	Token() (string, error)
	SavePhoto(photo string) error
	Photo() (string, error)
	Clear() error
	Close() error
}

// SQLiteStore хранит данные сессии в локальной базе sqlite
// в виде пар ключ-значение.
type SQLiteStore struct {
	db *sql.DB
}

// OpenStore открывает базу сессии по указанному пути, создавая её при необходимости.
func OpenStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping session database: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS session_values (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate session database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM session_values WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session value: %w", err)
	}
	return value, nil
}

func (s *SQLiteStore) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO session_values(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write session value: %w", err)
	}
	return nil
}

// SaveToken сохраняет bearer-токен сессии.
func (s *SQLiteStore) SaveToken(token string) error {
	return s.set(tokenKey, token)
}

// Token возвращает сохранённый bearer-токен либо пустую строку.
func (s *SQLiteStore) Token() (string, error) {
	return s.get(tokenKey)
}

// SavePhoto сохраняет кэшированную фотографию профиля.
func (s *SQLiteStore) SavePhoto(photo string) error {
	return s.set(photoKey, photo)
}

// Photo возвращает кэшированную фотографию профиля либо пустую строку.
func (s *SQLiteStore) Photo() (string, error) {
	return s.get(photoKey)
}

// Clear удаляет токен и фотографию профиля.
func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM session_values WHERE key IN (?, ?)`, tokenKey, photoKey)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Close закрывает базу сессии.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
