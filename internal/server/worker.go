package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pixeldiff/internal/diff"
	"pixeldiff/internal/store"
)

// comparisonTimeout bounds a single comparison; the engine checks the
// context between pipeline stages.
const comparisonTimeout = 2 * time.Minute

// runComparison executes a comparison job in the background and persists the
// result. Progress is reported through the manager's broadcaster.
func runComparison(ctx context.Context, cm *ComparisonManager, resultStore store.Store, history *store.HistoryWriter, id string, a, b *diff.Image) error {
	cmp, exists := cm.Get(id)
	if !exists {
		return fmt.Errorf("comparison not found: %s", id)
	}

	if err := cm.Update(id, func(c *Comparison) {
		c.State = StateRunning
	}); err != nil {
		return err
	}
	cm.broadcaster.Broadcast(ProgressEvent{
		ComparisonID: id,
		State:        StateRunning,
		Timestamp:    time.Now(),
	})

	slog.Info("Starting comparison", "id", id,
		"threshold", cmp.Config.Threshold, "ignore_luminance", cmp.Config.IgnoreLuminance)

	ctx, cancel := context.WithTimeout(ctx, comparisonTimeout)
	defer cancel()

	result, err := diff.Compare(ctx, a, b, diff.Options{
		Threshold:       cmp.Config.Threshold,
		IgnoreLuminance: cmp.Config.IgnoreLuminance,
	})
	if err != nil {
		markFailed(cm, id, fmt.Errorf("comparison failed: %w", err))
		return err
	}

	cm.broadcaster.Broadcast(ProgressEvent{
		ComparisonID: id,
		State:        StateRunning,
		Stage:        StageScored,
		Timestamp:    time.Now(),
	})

	if err := resultStore.SaveResult(id, result); err != nil {
		markFailed(cm, id, fmt.Errorf("failed to store result: %w", err))
		return err
	}

	cm.broadcaster.Broadcast(ProgressEvent{
		ComparisonID: id,
		State:        StateRunning,
		Stage:        StageStored,
		Timestamp:    time.Now(),
	})

	summary := store.NewSummary(id, result)
	if history != nil {
		if err := history.Append(store.NewHistoryEntry(summary)); err != nil {
			// History is advisory; the comparison itself succeeded.
			slog.Warn("Failed to append history entry", "id", id, "error", err)
		}
	}

	now := time.Now()
	if err := cm.Update(id, func(c *Comparison) {
		c.State = StateCompleted
		c.Summary = summary.Algorithms
		c.ImageSize = summary.ImageSize
		c.EndTime = &now
	}); err != nil {
		return err
	}

	cm.broadcaster.Broadcast(ProgressEvent{
		ComparisonID: id,
		State:        StateCompleted,
		Timestamp:    now,
	})

	slog.Info("Comparison completed", "id", id, "size", summary.ImageSize,
		"elapsed", now.Sub(cmp.StartTime))
	return nil
}

// markFailed records a failure state and notifies subscribers.
func markFailed(cm *ComparisonManager, id string, err error) {
	slog.Error("Comparison failed", "id", id, "error", err)

	now := time.Now()
	cm.Update(id, func(c *Comparison) {
		c.State = StateFailed
		c.Error = err.Error()
		c.EndTime = &now
	})
	cm.broadcaster.Broadcast(ProgressEvent{
		ComparisonID: id,
		State:        StateFailed,
		Timestamp:    now,
	})
}
