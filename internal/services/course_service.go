package services

import (
	"context"
	"errors"
	"fmt"

	"lms-api/internal/domain/course"
	"lms-api/internal/repository"
	"lms-api/pkg/database"
	lms_errors "lms-api/pkg/errors"
	"lms-api/pkg/logger"

	"github.com/go-playground/validator/v10"
)

const (
	msgCourseFieldsRequired = "Both 'title' and 'description' fields are required."
	msgInvalidCourseID      = "Invalid course ID format."
	msgCourseNotFound       = "Course not found."
)

// CourseCache is the read-through cache used by CourseService. ok reports a hit.
// Version is read before loading from the store; SetList and SetCourse are no-ops when
// Invalidate ran in between, so a slow reader never caches data older than a write.
type CourseCache interface {
	Version(ctx context.Context) (int64, error)
	GetList(ctx context.Context) ([]course.Course, bool, error)
	SetList(ctx context.Context, version int64, courses []course.Course) error
	GetCourse(ctx context.Context, id string) (course.Course, bool, error)
	SetCourse(ctx context.Context, version int64, c course.Course) error
	Invalidate(ctx context.Context, id string) error
}

type CourseService struct {
	repo     repository.CourseRepository
	cache    CourseCache
	validate *validator.Validate
	logger   *logger.Logger
}

// CourseInput is the body of a create or full-replace request. Title and Description must
// be present but may be null; CreatedAt is optional and kept verbatim.
type CourseInput struct {
	Title       OptionalString
	Description OptionalString
	CreatedAt   OptionalString
}

// NewCourseService wires a course service. cache may be nil.
func NewCourseService(repo repository.CourseRepository, cache CourseCache, l *logger.Logger) *CourseService {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return &CourseService{
		repo:     repo,
		cache:    cache,
		validate: newValidator(),
		logger:   l,
	}
}

func (s *CourseService) List(ctx context.Context) ([]course.Course, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetList(ctx)
		if err != nil {
			s.logger.FromContext(ctx).Sugar().Warnf("course list cache read failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	version, cacheable := s.cacheVersion(ctx)

	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	if cacheable {
		if err := s.cache.SetList(ctx, version, courses); err != nil {
			s.logger.FromContext(ctx).Sugar().Warnf("course list cache write failed: %v", err)
		}
	}
	return courses, nil
}

func (s *CourseService) Get(ctx context.Context, id string) (course.Course, error) {
	if err := database.ValidateID(id); err != nil {
		return course.Course{}, mapCourseError(err)
	}

	if s.cache != nil {
		cached, ok, err := s.cache.GetCourse(ctx, id)
		if err != nil {
			s.logger.FromContext(ctx).Sugar().Warnf("course cache read failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	version, cacheable := s.cacheVersion(ctx)

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return course.Course{}, mapCourseError(err)
	}

	if cacheable {
		if err := s.cache.SetCourse(ctx, version, c); err != nil {
			s.logger.FromContext(ctx).Sugar().Warnf("course cache write failed: %v", err)
		}
	}
	return c, nil
}

func (s *CourseService) Create(ctx context.Context, in CourseInput) (course.Course, error) {
	if err := s.validateInput(in); err != nil {
		return course.Course{}, err
	}

	c := course.Course{
		Title:       in.Title.Value,
		Description: in.Description.Value,
		CreatedAt:   in.CreatedAt.Value,
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return course.Course{}, mapCourseError(err)
	}

	s.invalidate(ctx, "")
	return c, nil
}

// Update replaces title, description and created_at wholesale. It never creates a course.
func (s *CourseService) Update(ctx context.Context, id string, in CourseInput) (course.Course, error) {
	if err := database.ValidateID(id); err != nil {
		return course.Course{}, mapCourseError(err)
	}
	if err := s.validateInput(in); err != nil {
		return course.Course{}, err
	}

	c := course.Course{
		ID:          id,
		Title:       in.Title.Value,
		Description: in.Description.Value,
		CreatedAt:   in.CreatedAt.Value,
	}
	if err := s.repo.Replace(ctx, c); err != nil {
		return course.Course{}, mapCourseError(err)
	}

	s.invalidate(ctx, id)
	return c, nil
}

func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := database.ValidateID(id); err != nil {
		return mapCourseError(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapCourseError(err)
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *CourseService) validateInput(in CourseInput) error {
	if !in.Title.Set || !in.Description.Set {
		return lms_errors.New(lms_errors.ErrValidation, msgCourseFieldsRequired)
	}
	if in.Title.Value != nil {
		if err := s.validate.Var(*in.Title.Value, fmt.Sprintf("max=%d", course.MaxTitleLength)); err != nil {
			return lms_errors.New(lms_errors.ErrValidation,
				fmt.Sprintf("'title' must be at most %d characters.", course.MaxTitleLength))
		}
	}
	return nil
}

// cacheVersion returns the cache generation to write back with; false disables the write.
func (s *CourseService) cacheVersion(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	version, err := s.cache.Version(ctx)
	if err != nil {
		s.logger.FromContext(ctx).Sugar().Warnf("course cache version read failed: %v", err)
		return 0, false
	}
	return version, true
}

func (s *CourseService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.FromContext(ctx).Sugar().Warnf("course cache invalidation failed for %q: %v", id, err)
	}
}

func mapCourseError(err error) error {
	switch {
	case errors.Is(err, lms_errors.ErrInvalidIdentifier):
		return lms_errors.New(lms_errors.ErrInvalidIdentifier, msgInvalidCourseID)
	case errors.Is(err, lms_errors.ErrNotFound):
		return lms_errors.New(lms_errors.ErrNotFound, msgCourseNotFound)
	default:
		return fmt.Errorf("course store: %w", err)
	}
}
