package repository

import (
	"context"

	"lms-api/internal/domain/course"
	"lms-api/internal/domain/user"
)

// CourseRepository persists courses. Identifiers are exchanged as strings; implementations
// return lms_errors.ErrInvalidIdentifier for malformed ids and lms_errors.ErrNotFound when
// nothing matched.
type CourseRepository interface {
	List(ctx context.Context) ([]course.Course, error)
	GetByID(ctx context.Context, id string) (course.Course, error)
	Create(ctx context.Context, c *course.Course) error
	Replace(ctx context.Context, c course.Course) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// UserRepository persists users. Create returns lms_errors.ErrConflict when a unique
// field is already taken.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
	EnsureIndexes(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
