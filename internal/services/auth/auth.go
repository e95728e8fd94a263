// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией:
// регистрация, вход, чтение и обновление профиля, каскадное удаление учетной записи.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/course-catalog/internal/lib/jwt"
	"github.com/magabrotheeeer/course-catalog/internal/lib/password"
	"github.com/magabrotheeeer/course-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/course-catalog/internal/models"
	"github.com/magabrotheeeer/course-catalog/internal/storage/repository"
)

// Ошибки бизнес-уровня. Обработчики сопоставляют их с HTTP-статусами.
var (
	// ErrInvalidCredentials неверный пароль при входе.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrWrongPassword неверный текущий пароль при смене пароля или удалении аккаунта.
	ErrWrongPassword = errors.New("wrong password")
	// ErrCurrentPasswordRequired новый пароль задан без текущего.
	ErrCurrentPasswordRequired = errors.New("current password is required to set new password")
	// ErrPasswordTooShort новый пароль короче шести символов.
	ErrPasswordTooShort = errors.New("new password must be at least 6 characters long")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]*models.User, error)
	// UpdateUser обновляет профиль пользователя.
	UpdateUser(ctx context.Context, user models.User) (int, error)
	// DeleteUser удаляет пользователя по UID.
	DeleteUser(ctx context.Context, userUID string) (int, error)
	// ListCoursesByOwner возвращает все курсы пользователя.
	ListCoursesByOwner(ctx context.Context, ownerUID string) ([]*models.Course, error)
	// DeleteCoursesByOwner удаляет все курсы пользователя.
	DeleteCoursesByOwner(ctx context.Context, ownerUID string) (int, error)
}

// MediaStorage описывает удаление изображения из удаленного хранилища.
type MediaStorage interface {
	Destroy(ctx context.Context, locator string) error
}

// RegisterRequest данные нового пользователя, прошедшие валидацию обработчика.
type RegisterRequest struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
}

// UpdateProfileRequest частичное обновление профиля: nil-поля не меняются.
// Смена пароля требует корректного текущего пароля.
type UpdateProfileRequest struct {
	Name            *string
	Email           *string
	PhoneNumber     *string
	CurrentPassword string
	NewPassword     string
}

// AuthService отвечает за жизненный цикл пользователя и выдачу токенов сессии.
type AuthService struct {
	users    UserRepository
	media    MediaStorage
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, media MediaStorage, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		media:    media,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Email нормализуется к нижнему регистру; уникальность name и email
// обеспечивает база, дубликат возвращается как repository.DuplicateError.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.UserView, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hashed,
		PhoneNumber:  req.PhoneNumber,
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	created, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	view := created.PublicView()
	return &view, nil
}

// Login проверяет пароль пользователя и генерирует токен сессии с {email, uid}.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.UserView, string, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.Email, user.UID)
	if err != nil {
		return nil, "", err
	}
	view := user.PublicView()
	return &view, token, nil
}

// GetProfile возвращает публичное представление пользователя по UID.
func (s *AuthService) GetProfile(ctx context.Context, userUID string) (*models.UserView, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	view := user.PublicView()
	return &view, nil
}

// ListUsers возвращает публичные представления всех пользователей.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.UserView, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]models.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.PublicView())
	}
	return views, nil
}

// UpdateProfile применяет частичное обновление профиля.
// Смена email повторно проверяет уникальность, исключая самого пользователя.
func (s *AuthService) UpdateProfile(ctx context.Context, userUID string, req UpdateProfileRequest) (*models.UserView, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		newEmail := strings.ToLower(*req.Email)
		existing, err := s.users.GetUserByEmail(ctx, newEmail)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.UID != userUID {
			return nil, &repository.DuplicateError{Field: "email"}
		}
		user.Email = newEmail
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			return nil, ErrCurrentPasswordRequired
		}
		if err := password.CompareHash(user.PasswordHash, req.CurrentPassword); err != nil {
			return nil, ErrWrongPassword
		}
		if len(req.NewPassword) < 6 {
			return nil, ErrPasswordTooShort
		}
		hashed, err := password.GetHash(req.NewPassword)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}

	if _, err := s.users.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}

	updated, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	view := updated.PublicView()
	return &view, nil
}

// DeleteAccount удаляет учетную запись после повторной проверки пароля.
// Сначала удаляются изображения всех курсов пользователя (ошибки хранилища
// логируются и не прерывают операцию), затем сами курсы и запись пользователя.
// Возвращает количество удаленных курсов.
func (s *AuthService) DeleteAccount(ctx context.Context, userUID, rawPassword string) (int, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return 0, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return 0, ErrWrongPassword
	}

	courses, err := s.users.ListCoursesByOwner(ctx, userUID)
	if err != nil {
		return 0, err
	}
	for _, course := range courses {
		if course.Image == nil {
			continue
		}
		if err := s.media.Destroy(ctx, *course.Image); err != nil {
			s.log.Warn("failed to delete course image",
				slog.String("course_id", course.ID), sl.Err(err))
			continue
		}
		s.log.Info("deleted course image", slog.String("course_id", course.ID))
	}

	if _, err := s.users.DeleteCoursesByOwner(ctx, userUID); err != nil {
		return 0, fmt.Errorf("delete courses of user %s: %w", userUID, err)
	}
	if _, err := s.users.DeleteUser(ctx, userUID); err != nil {
		return 0, fmt.Errorf("delete user %s: %w", userUID, err)
	}

	s.log.Info("deleted user account",
		slog.String("uid", userUID), slog.Int("deleted_courses", len(courses)))
	return len(courses), nil
}

// ValidateToken проверяет JWT и возвращает email и uid пользователя.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
