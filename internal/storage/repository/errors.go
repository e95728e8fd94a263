// Package repository реализует хранилище данных на основе PostgreSQL.
//
// Файл содержит типизированные ошибки хранилища: отсутствие записи и
// нарушение уникальности с указанием конфликтующего поля. Бизнес-логика
// и обработчики используют их через errors.Is / errors.As, не зная о
// деталях драйвера.
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound запись с указанным идентификатором отсутствует в базе.
var ErrNotFound = errors.New("record not found")

// DuplicateError нарушение уникального ограничения.
// Field содержит имя конфликтующего поля (name или email).
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate value for field %s", e.Field)
}

// translateError приводит ошибки драйвера к ошибкам хранилища.
// Гонка двух одновременных регистраций с одинаковым email разрешается
// уникальным индексом базы: второй INSERT получает unique_violation.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return &DuplicateError{Field: fieldFromConstraint(pgErr.ConstraintName)}
	}
	return err
}

// fieldFromConstraint извлекает имя поля из имени ограничения
// вида users_email_key.
func fieldFromConstraint(constraint string) string {
	parts := strings.Split(constraint, "_")
	if len(parts) >= 3 {
		return parts[len(parts)-2]
	}
	return constraint
}
