package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-catalog/internal/models"
)

func TestStorage_Users(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("create and read user", func(t *testing.T) {
		uid, err := storage.CreateUser(ctx, models.User{
			Name:         "Alice",
			Email:        "alice@example.com",
			PasswordHash: "hashedpassword",
			PhoneNumber:  "111",
		})
		require.NoError(t, err)
		require.NotEmpty(t, uid)

		byEmail, err := storage.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, uid, byEmail.UID)
		assert.Equal(t, "Alice", byEmail.Name)

		byUID, err := storage.GetUser(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", byUID.Email)
	})

	t.Run("duplicate email and name", func(t *testing.T) {
		_, err := storage.CreateUser(ctx, models.User{
			Name:         "Someone Else",
			Email:        "alice@example.com",
			PasswordHash: "hashedpassword",
			PhoneNumber:  "222",
		})
		require.Error(t, err)

		var dup *DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "email", dup.Field)

		_, err = storage.CreateUser(ctx, models.User{
			Name:         "Alice",
			Email:        "other@example.com",
			PasswordHash: "hashedpassword",
			PhoneNumber:  "222",
		})
		require.Error(t, err)
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "name", dup.Field)
	})

	t.Run("user not found", func(t *testing.T) {
		_, err := storage.GetUserByEmail(ctx, "missing@example.com")
		assert.True(t, errors.Is(err, ErrNotFound))

		_, err = storage.GetUser(ctx, "00000000-0000-0000-0000-000000000000")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("update user", func(t *testing.T) {
		user, err := storage.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)

		user.Name = "Alice B"
		user.PhoneNumber = "333"
		count, err := storage.UpdateUser(ctx, *user)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		updated, err := storage.GetUser(ctx, user.UID)
		require.NoError(t, err)
		assert.Equal(t, "Alice B", updated.Name)
		assert.Equal(t, "333", updated.PhoneNumber)
		assert.True(t, !updated.UpdatedAt.Before(updated.CreatedAt))
	})

	t.Run("list users newest first", func(t *testing.T) {
		users, err := storage.ListUsers(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, users)
		for i := 1; i < len(users); i++ {
			assert.True(t, !users[i-1].CreatedAt.Before(users[i].CreatedAt))
		}
	})

	t.Run("delete user", func(t *testing.T) {
		factory := NewTestDataFactory(storage)
		uid := factory.CreateUser(t, "ToDelete", "todelete@example.com", "hash", "444")

		count, err := storage.DeleteUser(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		count, err = storage.DeleteUser(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestStorage_Courses(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	ownerUID := factory.CreateUser(t, "Owner", "owner@example.com", "hash", "111")
	otherUID := factory.CreateUser(t, "Other", "other@example.com", "hash", "222")

	t.Run("create and read course", func(t *testing.T) {
		image := "http://s3/catalog/course-images/a.png"
		id, err := storage.CreateCourse(ctx, models.Course{
			Title:          "Go Basics",
			Description:    "Introduction",
			Price:          49.99,
			Duration:       6,
			DurationUnit:   models.DurationUnitWeeks,
			Category:       "programming",
			InstructorName: "Alice",
			Image:          &image,
			CreatedBy:      ownerUID,
		})
		require.NoError(t, err)
		require.NotEmpty(t, id)

		course, err := storage.GetCourse(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Go Basics", course.Title)
		assert.Equal(t, 49.99, course.Price)
		assert.Equal(t, models.DurationUnitWeeks, course.DurationUnit)
		require.NotNil(t, course.Image)
		assert.Equal(t, image, *course.Image)
		assert.Equal(t, ownerUID, course.CreatedBy)

		info, err := storage.GetCourseInfo(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Owner", info.OwnerName)
		assert.Equal(t, "owner@example.com", info.OwnerEmail)
	})

	t.Run("course not found", func(t *testing.T) {
		_, err := storage.GetCourse(ctx, "00000000-0000-0000-0000-000000000000")
		assert.True(t, errors.Is(err, ErrNotFound))

		_, err = storage.GetCourseInfo(ctx, "00000000-0000-0000-0000-000000000000")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("list courses with owners", func(t *testing.T) {
		factory.CreateCourse(t, "Course A", 10, 2, ownerUID, nil)
		factory.CreateCourse(t, "Course B", 20, 4, otherUID, nil)

		courses, err := storage.ListCourses(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(courses), 3)
		for _, course := range courses {
			assert.NotEmpty(t, course.OwnerName)
			assert.NotEmpty(t, course.OwnerEmail)
		}
	})

	t.Run("update course", func(t *testing.T) {
		id := factory.CreateCourse(t, "Before", 10, 2, ownerUID, nil)

		course, err := storage.GetCourse(ctx, id)
		require.NoError(t, err)

		course.Title = "After"
		course.Price = 0
		count, err := storage.UpdateCourse(ctx, *course, id)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		updated, err := storage.GetCourse(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "After", updated.Title)
		assert.Equal(t, float64(0), updated.Price)
	})

	t.Run("delete course", func(t *testing.T) {
		id := factory.CreateCourse(t, "Doomed", 10, 2, ownerUID, nil)

		count, err := storage.DeleteCourse(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		_, err = storage.GetCourse(ctx, id)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("cascade delete by owner", func(t *testing.T) {
		uid := factory.CreateUser(t, "Cascade", "cascade@example.com", "hash", "333")
		factory.CreateCourse(t, "C1", 10, 2, uid, nil)
		factory.CreateCourse(t, "C2", 20, 4, uid, nil)
		factory.CreateCourse(t, "C3", 30, 6, uid, nil)

		owned, err := storage.ListCoursesByOwner(ctx, uid)
		require.NoError(t, err)
		assert.Len(t, owned, 3)

		deleted, err := storage.DeleteCoursesByOwner(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, 3, deleted)

		assert.Equal(t, 0, factory.CountRows(t, "courses", "created_by", uid))

		count, err := storage.DeleteUser(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.Equal(t, 0, factory.CountRows(t, "users", "uid", uid))
	})
}
