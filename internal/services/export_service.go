package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lms-api/internal/repository"

	"github.com/google/uuid"
)

// ObjectWriter stores a blob under key and returns where it can be found.
type ObjectWriter interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

type ExportService struct {
	courses repository.CourseRepository
	objects ObjectWriter
	prefix  string
	now     func() time.Time
}

type ExportResult struct {
	Key        string
	Location   string
	Courses    int
	ExportedAt time.Time
}

type courseSnapshot struct {
	ExportedAt time.Time        `json:"exported_at"`
	Count      int              `json:"count"`
	Courses    []exportedCourse `json:"courses"`
}

type exportedCourse struct {
	ID          string  `json:"_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CreatedAt   *string `json:"created_at"`
}

func NewExportService(courses repository.CourseRepository, objects ObjectWriter, prefix string) *ExportService {
	return &ExportService{
		courses: courses,
		objects: objects,
		prefix:  strings.Trim(prefix, "/"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ExportCourses writes a JSON snapshot of every course to object storage.
func (s *ExportService) ExportCourses(ctx context.Context) (ExportResult, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return ExportResult{}, fmt.Errorf("list courses: %w", err)
	}

	exportedAt := s.now()
	snapshot := courseSnapshot{
		ExportedAt: exportedAt,
		Count:      len(courses),
		Courses:    make([]exportedCourse, 0, len(courses)),
	}
	for _, c := range courses {
		snapshot.Courses = append(snapshot.Courses, exportedCourse{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			CreatedAt:   c.CreatedAt,
		})
	}

	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return ExportResult{}, fmt.Errorf("encode snapshot: %w", err)
	}

	key := fmt.Sprintf("%s-%s.json", exportedAt.Format("20060102T150405Z"), uuid.NewString())
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}

	location, err := s.objects.PutObject(ctx, key, body, "application/json")
	if err != nil {
		return ExportResult{}, fmt.Errorf("upload snapshot: %w", err)
	}

	return ExportResult{
		Key:        key,
		Location:   location,
		Courses:    len(courses),
		ExportedAt: exportedAt,
	}, nil
}
