package models

import "time"

// User представляет пользователя удаленной базы
type User struct {
	CreatedAt    time.Time `json:"created_at"`    // время создания
	ID           string    `json:"id"`            // UUID пользователя
	Email        string    `json:"email"`         // уникальный email
	PasswordHash string    `json:"password_hash"` // argon2id хеш пароля
}
