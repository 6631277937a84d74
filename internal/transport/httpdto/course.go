package httpdto

import (
	"encoding/json"
	"time"

	"lms-api/internal/domain/course"
	"lms-api/internal/services"
)

// OptionalString records whether a JSON key was present and, if so, its value.
// A present null leaves Value nil.
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o OptionalString) toField() services.OptionalString {
	return services.OptionalString{Set: o.Set, Value: o.Value}
}

// CourseRequest is used for POST /courses and PUT /courses/:id.
type CourseRequest struct {
	Title       OptionalString `json:"title"`
	Description OptionalString `json:"description"`
	CreatedAt   OptionalString `json:"created_at"`
}

func (r CourseRequest) ToInput() services.CourseInput {
	return services.CourseInput{
		Title:       r.Title.toField(),
		Description: r.Description.toField(),
		CreatedAt:   r.CreatedAt.toField(),
	}
}

// CourseResponse mirrors the stored document, identifier included.
type CourseResponse struct {
	ID          string  `json:"_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CreatedAt   *string `json:"created_at"`
}

func FromCourse(c course.Course) CourseResponse {
	return CourseResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

func FromCourseSlice(items []course.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(items))
	for _, c := range items {
		out = append(out, FromCourse(c))
	}
	return out
}

// ExportResponse is printed by the migrate export command.
type ExportResponse struct {
	Key        string `json:"key"`
	Location   string `json:"location"`
	Courses    int    `json:"courses"`
	ExportedAt string `json:"exported_at"`
}

func FromExportResult(r services.ExportResult) ExportResponse {
	return ExportResponse{
		Key:        r.Key,
		Location:   r.Location,
		Courses:    r.Courses,
		ExportedAt: r.ExportedAt.Format(time.RFC3339),
	}
}
