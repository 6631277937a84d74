package database_test

import (
	"context"
	"testing"

	"lms-api/internal/repository/memory"
	"lms-api/internal/services"
	"lms-api/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	courses := memory.NewCourseRepository()
	users := memory.NewUserRepository()
	hasher := services.NewBcryptHasher(bcrypt.MinCost)
	cfg := database.DefaultSeedConfig()

	first, err := database.Seed(ctx, courses, users, hasher, cfg)
	require.NoError(t, err)
	assert.False(t, first.DemoUserExists)
	assert.Equal(t, len(cfg.Courses), first.CoursesCreated)
	assert.True(t, hasher.Verify(cfg.DemoPassword, first.DemoUser.PasswordHash))

	second, err := database.Seed(ctx, courses, users, hasher, cfg)
	require.NoError(t, err)
	assert.True(t, second.DemoUserExists)
	assert.Equal(t, first.DemoUser.ID, second.DemoUser.ID)
	assert.Zero(t, second.CoursesCreated)

	count, err := courses.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(cfg.Courses)), count)

	userCount, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), userCount)
}
