// Package memory provides in-process repositories for STORE_DRIVER=memory and tests.
// They follow the same identifier format and error contract as the MongoDB ones.
package memory

import (
	"context"
	"sync"

	"lms-api/internal/domain/course"
	"lms-api/internal/repository"
	"lms-api/pkg/database"
	lms_errors "lms-api/pkg/errors"
)

type CourseRepository struct {
	mu      sync.RWMutex
	order   []string
	courses map[string]course.Course
}

func NewCourseRepository() repository.CourseRepository {
	return &CourseRepository{courses: make(map[string]course.Course)}
}

func (r *CourseRepository) List(ctx context.Context) ([]course.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	courses := make([]course.Course, 0, len(r.order))
	for _, id := range r.order {
		courses = append(courses, copyCourse(r.courses[id]))
	}
	return courses, nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (course.Course, error) {
	if err := database.ValidateID(id); err != nil {
		return course.Course{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.courses[id]
	if !ok {
		return course.Course{}, lms_errors.ErrNotFound
	}
	return copyCourse(c), nil
}

func (r *CourseRepository) Create(ctx context.Context, c *course.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = database.NewID()
	r.courses[c.ID] = copyCourse(*c)
	r.order = append(r.order, c.ID)
	return nil
}

func (r *CourseRepository) Replace(ctx context.Context, c course.Course) error {
	if err := database.ValidateID(c.ID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.courses[c.ID]; !ok {
		return lms_errors.ErrNotFound
	}
	r.courses[c.ID] = copyCourse(c)
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	if err := database.ValidateID(id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.courses[id]; !ok {
		return lms_errors.ErrNotFound
	}
	delete(r.courses, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.courses)), nil
}

func copyCourse(c course.Course) course.Course {
	c.Title = copyString(c.Title)
	c.Description = copyString(c.Description)
	c.CreatedAt = copyString(c.CreatedAt)
	return c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
