package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/course-catalog/internal/models"
)

// CreateCourse сохраняет новый курс и возвращает его ID.
func (s *Storage) CreateCourse(ctx context.Context, course models.Course) (string, error) {
	const op = "storage.CreateCourse"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO courses (title, description, price, duration, duration_unit,
			      category, instructor_name, image, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		course.Title, course.Description, course.Price, course.Duration,
		course.DurationUnit, course.Category, course.InstructorName,
		course.Image, course.CreatedBy).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, translateError(err))
	}
	return newID, nil
}

// GetCourse возвращает курс по ID без данных владельца.
func (s *Storage) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	const op = "storage.GetCourse"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, price, duration, duration_unit,
			      category, instructor_name, image, created_by, created_at, updated_at
			  FROM courses
			  WHERE id = $1`
	c := &models.Course{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Price, &c.Duration,
		&c.DurationUnit, &c.Category, &c.InstructorName, &c.Image,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return c, nil
}

// GetCourseInfo возвращает курс по ID вместе с именем и почтой владельца.
func (s *Storage) GetCourseInfo(ctx context.Context, id string) (*models.CourseInfo, error) {
	const op = "storage.GetCourseInfo"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.id, c.title, c.description, c.price, c.duration, c.duration_unit,
			      c.category, c.instructor_name, c.image, c.created_by,
			      c.created_at, c.updated_at, u.name, u.email
			  FROM courses c
			  JOIN users u ON u.uid = c.created_by
			  WHERE c.id = $1`
	ci := &models.CourseInfo{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&ci.ID, &ci.Title, &ci.Description, &ci.Price, &ci.Duration,
		&ci.DurationUnit, &ci.Category, &ci.InstructorName, &ci.Image,
		&ci.CreatedBy, &ci.CreatedAt, &ci.UpdatedAt,
		&ci.OwnerName, &ci.OwnerEmail); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return ci, nil
}

// ListCourses возвращает все курсы с данными владельцев, новые записи первыми.
func (s *Storage) ListCourses(ctx context.Context) ([]*models.CourseInfo, error) {
	const op = "storage.ListCourses"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.id, c.title, c.description, c.price, c.duration, c.duration_unit,
			      c.category, c.instructor_name, c.image, c.created_by,
			      c.created_at, c.updated_at, u.name, u.email
			  FROM courses c
			  JOIN users u ON u.uid = c.created_by
			  ORDER BY c.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.CourseInfo
	for rows.Next() {
		var ci models.CourseInfo
		if err = rows.Scan(&ci.ID, &ci.Title, &ci.Description, &ci.Price, &ci.Duration,
			&ci.DurationUnit, &ci.Category, &ci.InstructorName, &ci.Image,
			&ci.CreatedBy, &ci.CreatedAt, &ci.UpdatedAt,
			&ci.OwnerName, &ci.OwnerEmail); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &ci)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListCoursesByOwner возвращает все курсы, созданные пользователем.
// Используется при каскадном удалении учетной записи.
func (s *Storage) ListCoursesByOwner(ctx context.Context, ownerUID string) ([]*models.Course, error) {
	const op = "storage.ListCoursesByOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, price, duration, duration_unit,
			      category, instructor_name, image, created_by, created_at, updated_at
			  FROM courses
			  WHERE created_by = $1`
	rows, err := s.DB.QueryContext(ctx, query, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Course
	for rows.Next() {
		var c models.Course
		if err = rows.Scan(&c.ID, &c.Title, &c.Description, &c.Price, &c.Duration,
			&c.DurationUnit, &c.Category, &c.InstructorName, &c.Image,
			&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateCourse перезаписывает поля курса по ID и возвращает количество измененных записей.
func (s *Storage) UpdateCourse(ctx context.Context, course models.Course, id string) (int, error) {
	const op = "storage.UpdateCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE courses
			  SET title = $1,
			      description = $2,
			      price = $3,
			      duration = $4,
			      duration_unit = $5,
			      category = $6,
			      instructor_name = $7,
			      image = $8,
			      updated_at = now()
			  WHERE id = $9`
	res, err := s.DB.ExecContext(ctx, query,
		course.Title, course.Description, course.Price, course.Duration,
		course.DurationUnit, course.Category, course.InstructorName,
		course.Image, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// DeleteCourse удаляет курс по ID и возвращает количество удаленных записей.
func (s *Storage) DeleteCourse(ctx context.Context, id string) (int, error) {
	const op = "storage.DeleteCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM courses WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// DeleteCoursesByOwner удаляет все курсы пользователя и возвращает их количество.
func (s *Storage) DeleteCoursesByOwner(ctx context.Context, ownerUID string) (int, error) {
	const op = "storage.DeleteCoursesByOwner"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM courses WHERE created_by = $1`
	res, err := s.DB.ExecContext(ctx, query, ownerUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}
