package repository

import (
	"context"

	"lms-api/internal/domain/course"
	"lms-api/pkg/database"
	lms_errors "lms-api/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var courseProjection = bson.M{"_id": 1, "title": 1, "description": 1, "created_at": 1}

type courseDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       *string            `bson:"title"`
	Description *string            `bson:"description"`
	CreatedAt   *string            `bson:"created_at"`
}

type MongoCourseRepository struct {
	courses *database.Collection
}

func NewCourseRepository(store *database.Store) CourseRepository {
	return &MongoCourseRepository{courses: store.Collection(database.CoursesCollection)}
}

func (r *MongoCourseRepository) List(ctx context.Context) ([]course.Course, error) {
	var docs []courseDocument
	if err := r.courses.FindAll(ctx, bson.M{}, courseProjection, &docs); err != nil {
		return nil, err
	}

	courses := make([]course.Course, 0, len(docs))
	for _, doc := range docs {
		courses = append(courses, doc.toEntity())
	}
	return courses, nil
}

func (r *MongoCourseRepository) GetByID(ctx context.Context, id string) (course.Course, error) {
	filter, err := database.ByID(id)
	if err != nil {
		return course.Course{}, err
	}

	var doc courseDocument
	if err := r.courses.FindOne(ctx, filter, &doc); err != nil {
		return course.Course{}, err
	}
	return doc.toEntity(), nil
}

func (r *MongoCourseRepository) Create(ctx context.Context, c *course.Course) error {
	doc := courseDocument{
		Title:       c.Title,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
	id, err := r.courses.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (r *MongoCourseRepository) Replace(ctx context.Context, c course.Course) error {
	filter, err := database.ByID(c.ID)
	if err != nil {
		return err
	}

	matched, err := r.courses.UpdateOne(ctx, filter, bson.M{
		"title":       c.Title,
		"description": c.Description,
		"created_at":  c.CreatedAt,
	})
	if err != nil {
		return err
	}
	if matched == 0 {
		return lms_errors.ErrNotFound
	}
	return nil
}

func (r *MongoCourseRepository) Delete(ctx context.Context, id string) error {
	filter, err := database.ByID(id)
	if err != nil {
		return err
	}

	deleted, err := r.courses.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return lms_errors.ErrNotFound
	}
	return nil
}

func (r *MongoCourseRepository) Count(ctx context.Context) (int64, error) {
	return r.courses.Count(ctx, nil)
}

func (d courseDocument) toEntity() course.Course {
	return course.Course{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
	}
}
