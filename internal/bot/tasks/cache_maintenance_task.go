package tasks

import (
	"context"
	"fmt"
	"time"
)

// newCacheMaintenanceTask creates the scheduled task that prunes expired
// response cache entries and compacts the database afterwards.
func newCacheMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "cache_maintenance")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled cache maintenance task...")
		startTime := time.Now()

		cutoff := time.Now().Add(-deps.Config.Cache.TTL)

		pruned, err := deps.Store.PruneCache(ctx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "Cache pruning failed", "error", err, "duration", time.Since(startTime))
			return fmt.Errorf("cache pruning failed: %w", err)
		}

		if err := deps.Store.RunMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "Database maintenance failed", "error", err, "pruned", pruned, "duration", time.Since(startTime))
			return fmt.Errorf("database maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Cache maintenance task completed successfully",
			"pruned", pruned,
			"duration", time.Since(startTime))
		return nil
	}
}
