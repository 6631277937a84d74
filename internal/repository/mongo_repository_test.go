package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"lms-api/internal/domain/course"
	"lms-api/internal/domain/user"
	"lms-api/pkg/database"
	lms_errors "lms-api/pkg/errors"

	"github.com/stretchr/testify/suite"
)

// MongoRepositorySuite runs against a real MongoDB when MONGO_TEST_URI is set.
type MongoRepositorySuite struct {
	suite.Suite
	store   *database.Store
	courses CourseRepository
	users   UserRepository
}

func strPtr(s string) *string { return &s }

func TestMongoRepositorySuite(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI is not set, skip MongoDB integration tests")
	}
	suite.Run(t, &MongoRepositorySuite{})
}

func (s *MongoRepositorySuite) SetupSuite() {
	store, err := database.Connect(context.Background(), database.MongoConfig{
		URI:     os.Getenv("MONGO_TEST_URI"),
		Name:    fmt.Sprintf("lms_test_%d", time.Now().UnixNano()),
		Timeout: 5 * time.Second,
	})
	s.Require().NoError(err)
	s.store = store
	s.courses = NewCourseRepository(store)
	s.users = NewUserRepository(store)
	s.Require().NoError(s.users.EnsureIndexes(context.Background()))
}

func (s *MongoRepositorySuite) TearDownSuite() {
	if s.store == nil {
		return
	}
	ctx := context.Background()
	s.NoError(s.store.Drop(ctx))
	s.NoError(s.store.Disconnect(ctx))
}

func (s *MongoRepositorySuite) SetupTest() {
	ctx := context.Background()
	_, err := s.store.Collection(database.CoursesCollection).DeleteAll(ctx)
	s.Require().NoError(err)
	_, err = s.store.Collection(database.UsersCollection).DeleteAll(ctx)
	s.Require().NoError(err)
}

func (s *MongoRepositorySuite) TestCourseRoundTrip() {
	ctx := context.Background()
	c := &course.Course{Title: strPtr("T"), Description: strPtr("D"), CreatedAt: strPtr("2024-05-01T10:30:00.000+02:00")}
	s.Require().NoError(s.courses.Create(ctx, c))
	s.Require().NoError(database.ValidateID(c.ID))

	got, err := s.courses.GetByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(strPtr("T"), got.Title)
	s.Equal(strPtr("D"), got.Description)
	s.Equal(strPtr("2024-05-01T10:30:00.000+02:00"), got.CreatedAt)

	list, err := s.courses.List(ctx)
	s.Require().NoError(err)
	s.Len(list, 1)
	s.Equal(c.ID, list[0].ID)
}

func (s *MongoRepositorySuite) TestCourseReplaceDoesNotUpsert() {
	ctx := context.Background()

	err := s.courses.Replace(ctx, course.Course{ID: database.NewID(), Title: strPtr("x"), Description: strPtr("y")})
	s.ErrorIs(err, lms_errors.ErrNotFound)

	count, err := s.courses.Count(ctx)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *MongoRepositorySuite) TestCourseReplaceClearsCreatedAt() {
	ctx := context.Background()
	c := &course.Course{Title: strPtr("a"), Description: strPtr("b"), CreatedAt: strPtr("2024-05-06")}
	s.Require().NoError(s.courses.Create(ctx, c))
	s.Require().NoError(s.courses.Replace(ctx, course.Course{ID: c.ID, Title: nil, Description: strPtr("d")}))

	got, err := s.courses.GetByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Nil(got.Title)
	s.Equal(strPtr("d"), got.Description)
	s.Nil(got.CreatedAt)
}

func (s *MongoRepositorySuite) TestCourseDeleteTwice() {
	ctx := context.Background()

	c := &course.Course{Title: strPtr("a"), Description: strPtr("b")}
	s.Require().NoError(s.courses.Create(ctx, c))
	s.NoError(s.courses.Delete(ctx, c.ID))
	s.ErrorIs(s.courses.Delete(ctx, c.ID), lms_errors.ErrNotFound)
	s.ErrorIs(s.courses.Delete(ctx, "not-hex"), lms_errors.ErrInvalidIdentifier)
}

func (s *MongoRepositorySuite) TestUserUniqueIndexes() {
	ctx := context.Background()

	u := &user.User{Username: "ada", Email: "ada@example.com", PasswordHash: "h"}
	s.Require().NoError(s.users.Create(ctx, u))

	s.ErrorIs(s.users.Create(ctx, &user.User{Username: "bob", Email: "ada@example.com", PasswordHash: "h"}), lms_errors.ErrConflict)
	s.ErrorIs(s.users.Create(ctx, &user.User{Username: "ada", Email: "bob@example.com", PasswordHash: "h"}), lms_errors.ErrConflict)

	found, err := s.users.GetUserByUsername(ctx, "ada")
	s.Require().NoError(err)
	s.Equal(u.ID, found.ID)
	s.Equal("h", found.PasswordHash)

	_, err = s.users.GetUserByEmail(ctx, "missing@example.com")
	s.ErrorIs(err, lms_errors.ErrNotFound)
}
