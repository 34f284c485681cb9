package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

type SubmissionLimiter interface {
	// Allow records a submission by sender and reports whether it fits in the
	// window. When it does not, retryAfter says how long until it would.
	Allow(ctx context.Context, sender string) (allowed bool, retryAfter time.Duration, err error)
}

type redisRepository struct {
	client *redis.Client
	cfg    *config.RateConfig
	now    func() time.Time
}

func NewRedisClient(cfg *config.RedisConnect) (*redis.Client, error) {

	slog.Info("Connecting to Redis", slog.String("url", fmt.Sprintf("redis://%s:<password>@%s:%s", cfg.Username, cfg.Host, cfg.Port)))

	opt, err := redis.ParseURL(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DB = cfg.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Successfully connected to Redis")
	return client, nil
}

func NewSubmissionLimiter(client *redis.Client, cfg *config.RateConfig) SubmissionLimiter {
	return &redisRepository{client: client, cfg: cfg, now: time.Now}
}

// NewSubmissionLimiterWithClock is NewSubmissionLimiter with a fixed time source.
func NewSubmissionLimiterWithClock(client *redis.Client, cfg *config.RateConfig, now func() time.Time) SubmissionLimiter {
	return &redisRepository{client: client, cfg: cfg, now: now}
}

func SubmissionKey(sender string) string {
	return "support_submissions:" + sender
}

// Allow keeps one sorted set per sender, scored by submission time, and
// trims it to the window on every call. Rejected submissions still count.
func (r *redisRepository) Allow(ctx context.Context, sender string) (bool, time.Duration, error) {

	logger := middleware.LoggerFromContext(ctx)

	key := SubmissionKey(sender)
	now := r.now()
	window := r.cfg.WindowSize
	windowStart := now.Add(-window).Unix()

	pipe := r.client.Pipeline()

	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.Unix()), Member: strconv.FormatInt(now.UnixNano(), 10)})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("redis pipeline error for submission limit: %w", err)
	}

	submissions := count.Val()

	if submissions <= r.cfg.MaxAttempts {
		logger.Debug("Submission limit check passed", slog.String("key", key), slog.Int64("submissions", submissions))
		return true, 0, nil
	}

	oldest, err := r.client.ZRangeArgsWithScores(ctx, redis.ZRangeArgs{Key: key, Start: 0, Stop: 0}).Result()
	if err != nil || len(oldest) == 0 {
		logger.Error("Failed to get oldest submission time", slog.String("key", key), slog.Any("error", err))
		return false, window, nil
	}

	retryAfter := max(time.Unix(int64(oldest[0].Score), 0).Add(window).Sub(now), 0)

	logger.Warn("Submission limit exceeded", slog.String("key", key), slog.Int64("submissions", submissions))
	return false, retryAfter, nil
}
