package server

import (
	"sync"
	"testing"
	"time"

	"pixeldiff/internal/store"
)

func TestComparisonManagerSnapshotIsolation(t *testing.T) {
	cm := NewComparisonManager()
	cmp := cm.Create(ComparisonConfig{Threshold: 0.8})

	before, exists := cm.Get(cmp.ID)
	if !exists {
		t.Fatalf("Comparison %s not found", cmp.ID)
	}

	now := time.Now()
	if err := cm.Update(cmp.ID, func(c *Comparison) {
		c.State = StateCompleted
		c.Summary = map[string]store.AlgorithmSummary{
			"exact": {ChangedPercent: 100.0},
		}
		c.EndTime = &now
	}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// The earlier snapshot must not see the update.
	if before.State != StatePending {
		t.Errorf("Snapshot state changed under us: %s", before.State)
	}
	if before.Summary != nil {
		t.Errorf("Snapshot summary changed under us: %v", before.Summary)
	}
	if before.EndTime != nil {
		t.Error("Snapshot end time changed under us")
	}

	// A fresh snapshot's summary map is a copy, not the stored map.
	after, _ := cm.Get(cmp.ID)
	after.Summary["exact"] = store.AlgorithmSummary{ChangedPercent: 0.0}
	stored, _ := cm.Get(cmp.ID)
	if stored.Summary["exact"].ChangedPercent != 100.0 {
		t.Errorf("Mutating a snapshot reached the manager: got %f",
			stored.Summary["exact"].ChangedPercent)
	}
}

// Readers and a writer hammer the same comparison; the race detector
// flags any shared mutable state escaping the manager.
func TestComparisonManagerConcurrentAccess(t *testing.T) {
	cm := NewComparisonManager()
	cmp := cm.Create(ComparisonConfig{Threshold: 0.8})

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		states := []ComparisonState{StateRunning, StateCompleted, StateFailed}
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			now := time.Now()
			cm.Update(cmp.ID, func(c *Comparison) {
				c.State = states[i%len(states)]
				c.Summary = map[string]store.AlgorithmSummary{
					"ssim": {Mean: float64(i)},
				}
				c.EndTime = &now
			})
		}
	}()

	for i := 0; i < 200; i++ {
		got, exists := cm.Get(cmp.ID)
		if !exists {
			t.Fatalf("Comparison %s disappeared", cmp.ID)
		}
		if got.ID != cmp.ID {
			t.Fatalf("Unexpected ID %s", got.ID)
		}
		for _, c := range cm.List() {
			_ = c.State
			_ = c.Summary
		}
	}

	close(stop)
	wg.Wait()
}
