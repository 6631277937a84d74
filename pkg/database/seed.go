package database

import (
	"context"
	"errors"
	"fmt"

	"lms-api/internal/domain/course"
	"lms-api/internal/domain/user"
	lms_errors "lms-api/pkg/errors"
)

// SeedConfig holds configuration for seeding the database
type SeedConfig struct {
	DemoUsername string
	DemoEmail    string
	DemoPassword string
	Courses      []course.Course
}

// DefaultSeedConfig returns default seed configuration
func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		DemoUsername: "demo",
		DemoEmail:    "demo@lms.local",
		DemoPassword: "Demo@123!",
		Courses: []course.Course{
			{Title: text("Introduction to Go"), Description: text("Types, packages and the toolchain."), CreatedAt: text("2024-01-15T09:00:00Z")},
			{Title: text("Concurrency Patterns"), Description: text("Goroutines, channels and context cancellation.")},
			{Title: text("Building HTTP APIs"), Description: text("Routing, middleware and JSON with gin.")},
			{Title: text("Working with MongoDB"), Description: text("Documents, indexes and the official driver.")},
		},
	}
}

func text(s string) *string {
	return &s
}

// SeedResult holds the result of the seeding operation
type SeedResult struct {
	DemoUser       user.User
	DemoUserExists bool
	CoursesCreated int
}

type CourseSeeder interface {
	Create(ctx context.Context, c *course.Course) error
	Count(ctx context.Context) (int64, error)
}

type UserSeeder interface {
	Create(ctx context.Context, u *user.User) error
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Seed inserts sample courses into an empty course collection and makes sure the demo
// user exists. Running it twice does not duplicate anything.
func Seed(ctx context.Context, courses CourseSeeder, users UserSeeder, hasher PasswordHasher, cfg *SeedConfig) (*SeedResult, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}
	result := &SeedResult{}

	demo, err := seedDemoUser(ctx, users, hasher, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to seed demo user: %w", err)
	}
	result.DemoUser = demo.user
	result.DemoUserExists = demo.existed

	count, err := courses.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}
	if count > 0 {
		return result, nil
	}

	for i, item := range cfg.Courses {
		c := item
		if err := courses.Create(ctx, &c); err != nil {
			return nil, fmt.Errorf("failed to seed course %d: %w", i, err)
		}
		result.CoursesCreated++
	}
	return result, nil
}

type seededUser struct {
	user    user.User
	existed bool
}

func seedDemoUser(ctx context.Context, users UserSeeder, hasher PasswordHasher, cfg *SeedConfig) (seededUser, error) {
	existing, err := users.GetUserByEmail(ctx, cfg.DemoEmail)
	if err == nil {
		return seededUser{user: existing, existed: true}, nil
	}
	if !errors.Is(err, lms_errors.ErrNotFound) {
		return seededUser{}, err
	}

	hash, err := hasher.Hash(cfg.DemoPassword)
	if err != nil {
		return seededUser{}, fmt.Errorf("failed to hash password: %w", err)
	}

	demo := user.User{
		Username:     cfg.DemoUsername,
		Email:        cfg.DemoEmail,
		PasswordHash: hash,
	}
	if err := users.Create(ctx, &demo); err != nil {
		return seededUser{}, err
	}
	return seededUser{user: demo}, nil
}
