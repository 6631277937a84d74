package main

import (
	"context"
	"time"

	"lms-api/config"
	"lms-api/internal/handler"
	"lms-api/internal/middleware"
	"lms-api/internal/redis"
	"lms-api/internal/repository"
	"lms-api/internal/repository/memory"
	"lms-api/internal/server"
	"lms-api/internal/services"
	"lms-api/pkg/database"
	"lms-api/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.AppEnv)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	ctx := context.Background()
	checks := make(map[string]handler.Checker)

	var (
		courseRepo repository.CourseRepository
		userRepo   repository.UserRepository
		store      *database.Store
	)
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		l.Warnf("Using in-memory store; data is lost on restart")
		courseRepo = memory.NewCourseRepository()
		userRepo = memory.NewUserRepository()
	case config.StoreDriverMongo:
		var err error
		store, err = database.Connect(ctx, database.MongoConfig{
			URI:     cfg.MongoURI,
			Name:    cfg.MongoDB,
			Timeout: cfg.MongoTimeout,
		})
		if err != nil {
			l.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		l.Infof("Connected to MongoDB database %s", cfg.MongoDB)
		courseRepo = repository.NewCourseRepository(store)
		userRepo = repository.NewUserRepository(store)
		checks["mongo"] = store.Ping
	default:
		l.Fatalf("Unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	var (
		courseCache services.CourseCache
		limiter     middleware.AuthLimiter
		redisClient *goredis.Client
	)
	if cfg.RedisEnabled() {
		client, err := redis.Connect(ctx, redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			l.Warnf("Redis unavailable, running without cache and rate limiting: %v", err)
		} else {
			redisClient = client
			courseCache = redis.NewCourseCache(client, cfg.CacheTTL)
			limiter = redis.NewRateLimiter(client, redis.RateLimitConfig{
				AuthLimit:  cfg.AuthRateLimit,
				AuthWindow: cfg.AuthRateWindow,
			})
			checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		}
	}

	courseService := services.NewCourseService(courseRepo, courseCache, l)
	userService := services.NewUserService(userRepo, services.NewBcryptHasher(bcrypt.DefaultCost))

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Course: handler.NewCourseHandler(courseService),
		User:   handler.NewUserHandler(userService, l),
		Health: handler.NewHealthHandler(checks, l),
	}, limiter)

	if err := srv.Start(); err != nil {
		l.Errorf("Server exited with error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := store.Disconnect(shutdownCtx); err != nil {
		l.Errorf("Error disconnecting from MongoDB: %v", err)
	}
}
