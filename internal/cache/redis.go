package cache

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Dashboard cache keys
const (
	DashboardStatsKey = "dashboard:stats"
)

var client *redis.Client

// Init initializes the Redis connection
func Init() error {
	// K8s sets REDIS_SERVICE_HOST and REDIS_SERVICE_PORT for services
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis" // fallback to service name
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client (nil when Redis is unavailable)
func GetClient() *redis.Client {
	return client
}

// GetCachedDashboardStats returns cached dashboard stats if available
func GetCachedDashboardStats(ctx context.Context) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, DashboardStatsKey).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheDashboardStats caches dashboard stats for 5 minutes
func CacheDashboardStats(ctx context.Context, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, DashboardStatsKey, data, 5*time.Minute)
}

// InvalidateDashboardStats drops the cached stats (after bulk changes)
func InvalidateDashboardStats(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, DashboardStatsKey)
}
