// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и временные метки.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Name         string    // Имя пользователя (уникальное)
	Email        string    // Электронная почта (уникальная, в нижнем регистре)
	PasswordHash string    // Хэш пароля пользователя
	PhoneNumber  string    // Номер телефона
	CreatedAt    time.Time // Дата создания записи
	UpdatedAt    time.Time // Дата последнего обновления
}

// UserView публичное представление пользователя без хэша пароля.
// Используется во всех HTTP-ответах.
type UserView struct {
	UID         string    `json:"uid"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PublicView возвращает представление пользователя для ответа клиенту.
func (u *User) PublicView() UserView {
	return UserView{
		UID:         u.UID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
