package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"lms-api/internal/domain/course"

	goredis "github.com/redis/go-redis/v9"
)

// Cache key patterns:
// - courses:version - generation counter bumped by every Invalidate
// - courses:list - full course list
// - course:{id} - single course

const (
	courseVersionKey = "courses:version"
	courseListKey    = "courses:list"
	courseKeyPrefix  = "course:"
)

// setIfVersion writes ARGV[2] to KEYS[2] only while KEYS[1] still holds ARGV[1].
var setIfVersion = goredis.NewScript(`
	local current = redis.call('GET', KEYS[1])
	if not current then
		current = '0'
	end
	if current ~= ARGV[1] then
		return 0
	end
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
	return 1
`)

// CourseCache stores course reads in Redis. Writers call Invalidate.
type CourseCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewCourseCache creates a new course cache
func NewCourseCache(client *goredis.Client, ttl time.Duration) *CourseCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CourseCache{client: client, ttl: ttl}
}

// cachedCourse is the JSON shape kept in Redis
type cachedCourse struct {
	ID          string  `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CreatedAt   *string `json:"created_at"`
}

// Version returns the current cache generation, 0 if nothing was invalidated yet.
func (c *CourseCache) Version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, courseVersionKey).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return v, err
}

// GetList returns the cached list; ok is false on a cache miss.
func (c *CourseCache) GetList(ctx context.Context) ([]course.Course, bool, error) {
	data, err := c.client.Get(ctx, courseListKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var cached []cachedCourse
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false, err
	}

	courses := make([]course.Course, 0, len(cached))
	for _, item := range cached {
		courses = append(courses, item.toEntity())
	}
	return courses, true, nil
}

// SetList stores the list unless the cache was invalidated after version was read.
func (c *CourseCache) SetList(ctx context.Context, version int64, courses []course.Course) error {
	cached := make([]cachedCourse, 0, len(courses))
	for _, item := range courses {
		cached = append(cached, fromEntity(item))
	}
	data, err := json.Marshal(cached)
	if err != nil {
		return err
	}
	return c.setIfCurrent(ctx, version, courseListKey, data)
}

// GetCourse retrieves a course from cache; ok is false on a cache miss.
func (c *CourseCache) GetCourse(ctx context.Context, id string) (course.Course, bool, error) {
	data, err := c.client.Get(ctx, courseKeyPrefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return course.Course{}, false, nil
	}
	if err != nil {
		return course.Course{}, false, err
	}

	var cached cachedCourse
	if err := json.Unmarshal(data, &cached); err != nil {
		return course.Course{}, false, err
	}
	return cached.toEntity(), true, nil
}

// SetCourse stores a course unless the cache was invalidated after version was read.
func (c *CourseCache) SetCourse(ctx context.Context, version int64, item course.Course) error {
	data, err := json.Marshal(fromEntity(item))
	if err != nil {
		return err
	}
	return c.setIfCurrent(ctx, version, courseKeyPrefix+item.ID, data)
}

// Invalidate bumps the generation and drops the list and, when id is set, the course entry.
func (c *CourseCache) Invalidate(ctx context.Context, id string) error {
	keys := []string{courseListKey}
	if id != "" {
		keys = append(keys, courseKeyPrefix+id)
	}
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, courseVersionKey)
	pipe.Del(ctx, keys...)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *CourseCache) setIfCurrent(ctx context.Context, version int64, key string, data []byte) error {
	return setIfVersion.Run(ctx, c.client, []string{courseVersionKey, key},
		version, data, c.ttl.Milliseconds()).Err()
}

func fromEntity(item course.Course) cachedCourse {
	return cachedCourse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		CreatedAt:   item.CreatedAt,
	}
}

func (c cachedCourse) toEntity() course.Course {
	return course.Course{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}
