package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"digistore/internal/usecase/commands"

	"github.com/redis/go-redis/v9"
)

const licenseValidationPrefix = "license_validation:"

// LicenseValidationCache is a read-through cache for license validation
// results. Redis trouble degrades to a miss; the caller falls back to the
// database. Entries carry a short TTL as a backstop for missed invalidations.
type LicenseValidationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLicenseValidationCache(client *redis.Client, ttl time.Duration) *LicenseValidationCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &LicenseValidationCache{client: client, ttl: ttl}
}

func (c *LicenseValidationCache) Get(ctx context.Context, licenseKey string) (*commands.LicenseValidationResult, bool) {
	if c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, licenseValidationPrefix+licenseKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("license cache read failed", "error", err.Error())
		}
		return nil, false
	}

	var result commands.LicenseValidationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		slog.Warn("license cache entry corrupt, dropping", "error", err.Error())
		c.Invalidate(ctx, licenseKey)
		return nil, false
	}
	return &result, true
}

func (c *LicenseValidationCache) Set(ctx context.Context, licenseKey string, result *commands.LicenseValidationResult) {
	if c.client == nil || result == nil {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		slog.Warn("license cache encode failed", "error", err.Error())
		return
	}
	if err := c.client.Set(ctx, licenseValidationPrefix+licenseKey, raw, c.ttl).Err(); err != nil {
		slog.Warn("license cache write failed", "error", err.Error())
	}
}

func (c *LicenseValidationCache) Invalidate(ctx context.Context, licenseKey string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, licenseValidationPrefix+licenseKey).Err(); err != nil {
		slog.Warn("license cache invalidation failed", "license_key", licenseKey, "error", err.Error())
	}
}
