// Package models содержит доменные структуры курса,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// Допустимые единицы длительности курса.
const (
	DurationUnitHours  = "hours"
	DurationUnitDays   = "days"
	DurationUnitWeeks  = "weeks"
	DurationUnitMonths = "months"
)

// Course представляет собой основную модель курса,
// используемую в бизнес-логике и хранилище.
// Поле Image может быть nil — это означает отсутствие изображения у курса.
type Course struct {
	ID             string    `json:"id"`              // Уникальный идентификатор курса
	Title          string    `json:"title"`           // Название курса
	Description    string    `json:"description"`     // Описание курса
	Price          float64   `json:"price"`           // Цена курса (>= 0)
	Duration       int       `json:"duration"`        // Длительность (>= 1)
	DurationUnit   string    `json:"duration_unit"`   // Единица длительности: hours, days, weeks, months
	Category       string    `json:"category"`        // Категория курса
	InstructorName string    `json:"instructor_name"` // Имя преподавателя (свободный текст)
	Image          *string   `json:"image"`           // Ссылка на изображение в удаленном хранилище
	CreatedBy      string    `json:"created_by"`      // UID пользователя-владельца
	CreatedAt      time.Time `json:"created_at"`      // Дата создания
	UpdatedAt      time.Time `json:"updated_at"`      // Дата последнего обновления
}

// CourseInfo курс вместе с данными владельца (имя и почта),
// возвращается при чтении одного курса и списка курсов.
type CourseInfo struct {
	Course
	OwnerName  string `json:"owner_name"`
	OwnerEmail string `json:"owner_email"`
}

// DummyCourse используется для приёма данных из JSON-запроса на создание курса,
// прежде чем конвертировать их в Course.
type DummyCourse struct {
	Title          string  `json:"title" validate:"required"`
	Description    string  `json:"description" validate:"required"`
	Price          float64 `json:"price" validate:"min=0"`
	Duration       int     `json:"duration" validate:"required,min=1"`
	DurationUnit   string  `json:"duration_unit" validate:"omitempty,oneof=hours days weeks months"`
	Category       string  `json:"category" validate:"required"`
	InstructorName string  `json:"instructor_name" validate:"required"`
	Image          string  `json:"image"`
}

// UpdateCourse частичное обновление курса: nil-поля не трогаются,
// явные нулевые значения (например price = 0) применяются.
type UpdateCourse struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Price          *float64 `json:"price" validate:"omitempty,min=0"`
	Duration       *int     `json:"duration" validate:"omitempty,min=1"`
	DurationUnit   *string  `json:"duration_unit" validate:"omitempty,oneof=hours days weeks months"`
	Category       *string  `json:"category"`
	InstructorName *string  `json:"instructor_name"`
	Image          *string  `json:"image"`
}
