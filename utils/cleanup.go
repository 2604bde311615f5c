package utils

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Retry configuration
const maxRetries = 3
const retryDelay = 2 * time.Minute

// StaleUploadSweeper is satisfied by TempUploadStorage.
type StaleUploadSweeper interface {
	SweepStale(ttl time.Duration) (int, error)
}

// CleanupStaleUploads runs one sweep with retries. Uploads are normally
// removed by the request that created them; this catches files left behind
// by a crashed process.
func CleanupStaleUploads(storage StaleUploadSweeper, ttl time.Duration, logger *zap.Logger, delay time.Duration) bool {
	for attempt := 1; attempt <= maxRetries; attempt++ {
		removed, err := storage.SweepStale(ttl)
		if err == nil {
			if removed > 0 {
				logger.Info("Removed stale import uploads", zap.Int("count", removed))
			}
			return true
		}
		logger.Warn("Stale upload cleanup failed", zap.Int("attempt", attempt), zap.Error(err))
		if attempt < maxRetries {
			time.Sleep(delay)
		}
	}
	logger.Error("Stale upload cleanup gave up", zap.Int("attempts", maxRetries))
	return false
}

// RunScheduledCleanup sweeps the upload directory every hour. The caller
// stops the returned scheduler on shutdown.
func RunScheduledCleanup(storage StaleUploadSweeper, ttl time.Duration, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc("@hourly", func() {
		CleanupStaleUploads(storage, ttl, logger, retryDelay)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
